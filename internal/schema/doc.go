// Package schema implements the heuristic schema-inference pass: identifier
// sanitization, sampled column type inference, primary-key detection, and
// naming-convention foreign-key resolution.
//
// All inference here is best-effort and sample-bounded. Type inference only
// ever demotes a column (Integer -> Real -> Text) and never re-promotes,
// even when the demoting value lies inside the sample window and later values
// would have allowed a narrower type. That asymmetry is accepted behavior:
// the load pass falls back to raw text for any value that defeats coercion,
// so a too-narrow inferred type can never lose data.
//
// The inference entry points are plain functions so that callers can treat
// them as pluggable policies (see services.TypePolicy and services.PKPolicy).
package schema
