package codegen

import (
	"fmt"

	"quanta/internal/blocks"
	"quanta/internal/diag"
)

// Defect is a configuration error found while generating: an instruction
// without a mnemonic, a shape without an emitter, or a block wired into a
// position its shape cannot take. Well-formed trees never produce one.
type Defect struct {
	Code  diag.Code
	Block blocks.ID
	Msg   string
}

func (d *Defect) Error() string {
	if d.Block.IsValid() {
		return fmt.Sprintf("%s: block %d: %s", d.Code.ID(), d.Block, d.Msg)
	}
	return fmt.Sprintf("%s: %s", d.Code.ID(), d.Msg)
}

func defectf(code diag.Code, id blocks.ID, format string, args ...any) *Defect {
	return &Defect{Code: code, Block: id, Msg: fmt.Sprintf(format, args...)}
}
