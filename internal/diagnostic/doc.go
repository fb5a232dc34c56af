// Package diagnostic provides structured warnings and errors collected while
// modeling prototypes and allocating exit ports.
//
// Key capabilities:
//   - Unsupported type-shape warnings (pointer depth above two, char data)
//   - Manual-completion notices for pointer-pointer parameters
//   - Duplicate function name errors
package diagnostic
