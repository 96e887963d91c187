// Package files discovers CSV source files in an input directory and derives
// a unique, sanitized table name for each.
package files
