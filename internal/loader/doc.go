// Package loader implements the load pass: table creation from inferred
// metadata, streaming batch insertion with type coercion, and index creation
// on foreign-key-like columns.
package loader
