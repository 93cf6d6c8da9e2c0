package codegen

import (
	"fmt"
	"strings"
)

// MnemonicCase selects how mnemonics are cased in the output.
type MnemonicCase uint8

const (
	// CaseTable keeps the alias table spelling.
	CaseTable MnemonicCase = iota
	CaseLower
	CaseUpper
)

func (c MnemonicCase) String() string {
	switch c {
	case CaseLower:
		return "lower"
	case CaseUpper:
		return "upper"
	}
	return "table"
}

func ParseMnemonicCase(s string) (MnemonicCase, error) {
	switch strings.ToLower(s) {
	case "", "table":
		return CaseTable, nil
	case "lower":
		return CaseLower, nil
	case "upper":
		return CaseUpper, nil
	}
	return CaseTable, fmt.Errorf("invalid mnemonic case: %q (expected: table|lower|upper)", s)
}

const (
	DefaultCommentWrap = 60
	DefaultIndent      = "    "
)

// Options configures a generation pass.
type Options struct {
	// OneBasedIndex makes index operands count from 1: disconnected slots
	// default to "1" and adjustments are shifted down by one.
	OneBasedIndex bool
	// CommentWrap is the column limit for block comments; text is wrapped
	// three columns short of it to leave room for the comment marker.
	CommentWrap int
	// Indent prefixes every line of a label body.
	Indent       string
	MnemonicCase MnemonicCase
}

func DefaultOptions() Options {
	return Options{CommentWrap: DefaultCommentWrap, Indent: DefaultIndent}
}

// Normalize fills zero fields with their defaults.
func (o Options) Normalize() Options {
	if o.CommentWrap <= 0 {
		o.CommentWrap = DefaultCommentWrap
	}
	if o.Indent == "" {
		o.Indent = DefaultIndent
	}
	return o
}
