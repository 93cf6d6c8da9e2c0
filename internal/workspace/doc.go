// Package workspace reads Blockly XML workspace files into block trees.
//
// The reader is forgiving: problems are reported as diagnostics with spans
// into the XML text and the offending block is dropped, so one file can
// surface every issue at once.
package workspace
