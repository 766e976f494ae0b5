// Package core defines the shared language of the defineview system.
//
// This package contains:
//   - Define-XML entities (Study, ItemGroup, ItemDef, CodeList, WhereClauseDef, etc.)
//   - The Document aggregate produced by extraction
//   - The OID Index built once per Document
//   - Dataset naming helpers and diagnostic severities
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
