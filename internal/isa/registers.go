package isa

import "slices"

// Registers lists the register names offered by the type_register block,
// in palette order.
var Registers = []string{
	"$zero", "$1", "$2", "$3", "$4", "$5", "$6", "$7", "$8", "$9",
	"$10", "$11", "$12", "$13", "$14", "$15",
	"$leds", "$hex0", "$hex1", "$hex2",
	"$20", "$21", "$22", "$23", "$24", "$25", "$26", "$27", "$28", "$29",
	"$ra", "$a",
}

// IsRegister reports whether name is one of the palette registers.
func IsRegister(name string) bool {
	return slices.Contains(Registers, name)
}
