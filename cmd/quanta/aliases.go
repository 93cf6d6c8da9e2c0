package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"quanta/internal/codegen"
	"quanta/internal/isa"
)

var aliasesCmd = &cobra.Command{
	Use:   "aliases",
	Short: "List the instruction to mnemonic table",
	Long: `Aliases prints every palette instruction with the mnemonic it is emitted
as, grouped by operand shape. --validate fails when an instruction has no
mnemonic.`,
	Args: cobra.NoArgs,
	RunE: runAliases,
}

func init() {
	aliasesCmd.Flags().Bool("validate", false, "fail when the table is incomplete")
	aliasesCmd.Flags().Bool("registers", false, "also list register names")
}

var shapeOrder = []isa.Shape{
	isa.ShapeNoOperand,
	isa.ShapeSingleRegister,
	isa.ShapeDoubleRegister,
	isa.ShapeTripleRegister,
	isa.ShapeImmediate,
}

func runAliases(cmd *cobra.Command, args []string) error {
	validate, err := cmd.Flags().GetBool("validate")
	if err != nil {
		return err
	}
	registers, err := cmd.Flags().GetBool("registers")
	if err != nil {
		return err
	}
	if validate {
		if err := codegen.ValidateAliases(); err != nil {
			return err
		}
	}
	writeAliasTable(cmd.OutOrStdout())
	if registers {
		writeRegisters(cmd.OutOrStdout())
	}
	return nil
}

func writeAliasTable(w io.Writer) {
	heading := color.New(color.Bold)
	width := 0
	for _, in := range isa.All() {
		width = max(width, runewidth.StringWidth(in.String()))
	}
	for i, shape := range shapeOrder {
		if i > 0 {
			fmt.Fprintln(w)
		}
		heading.Fprintf(w, "%s\n", shape)
		for _, in := range isa.ForShape(shape) {
			m, err := codegen.Mnemonic(in)
			if err != nil {
				m = color.RedString("<missing>")
			}
			fmt.Fprintf(w, "  %s  %s\n", runewidth.FillRight(in.String(), width), m)
		}
	}
}

func writeRegisters(w io.Writer) {
	fmt.Fprintln(w)
	color.New(color.Bold).Fprintln(w, "registers")
	for i, r := range isa.Registers {
		sep := " "
		if i%8 == 0 {
			sep = "\n  "
		}
		fmt.Fprint(w, sep+r)
	}
	fmt.Fprintln(w)
}
