// Package analyze provides package loading and type graph extraction.
//
// It uses golang.org/x/tools/go/packages with go/types to collect what the
// descriptor table of a package needs at run time and reflection alone cannot
// recover: enum constant sets, constructors and the declared interfaces.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (struct/interface/enum/alias), fields and constants
//   - ConstructorInfo: describes an exported New* function
//
// Check reports persist tags the transform engine would reject or ignore.
package analyze
