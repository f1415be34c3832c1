// Package core defines the shared language of the layout compiler.
//
// This package contains:
//   - The declarative layout tree grammar (Node and its variants)
//   - Link declarations and their resolved canonical form
//   - Widget and column metadata types
//   - User actions and the collaborator interfaces (DocWriter, MetadataReader)
//   - The typed error taxonomy
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// All other packages depend on core, not the reverse.
package core
