// Package logging provides concrete implementations of the brix.Logger interface.
//
// ConsoleLogger writes to stderr so that machine-readable output (if any)
// stays clean on stdout. NullLogger discards everything and exists for tests
// and embedding scenarios where log output is unwanted.
package logging
