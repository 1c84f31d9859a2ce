// Package gen provides deterministic Go code generation for descriptor
// registration.
//
// Generation approach uses text/template + go/format. For each analyzed
// package one file declares a function that registers, in this order:
//   - the struct types, so bridged type names resolve
//   - the interfaces, embedded ones first
//   - the enum constant sets, by String method when the type has one
//   - the New* constructors
package gen
