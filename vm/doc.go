// Package vm executes methods loaded from class files.
//
// This package contains:
//   - Tagged value representation for primitives and heap references
//   - A handle-based heap of objects and int arrays
//   - Per-invocation frames with an operand stack and local slots
//   - The bytecode interpreter and method invocation
//   - Native methods standing in for the platform library
package vm
