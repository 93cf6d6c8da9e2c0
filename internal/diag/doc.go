// Package diag defines the diagnostic model shared by the workspace reader,
// the project loader, and the code generator.
//
// A Diagnostic records a Severity, a numeric Code with a stable string form,
// a short message, the primary source.Span inside the workspace file that
// caused it, and optional notes. Producers emit through a Reporter (usually a
// BagReporter feeding a Bag); formatting lives in internal/diagfmt.
//
// Code generation itself treats almost nothing as an error: disconnected
// operands fall back to default literals and field values are copied
// verbatim. The Gen* codes only describe configuration defects such as a
// missing mnemonic alias.
package diag
