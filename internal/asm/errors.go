package asm

import (
	"fmt"

	"github.com/LittleGreyCells/escheme-compiled/internal/vmerr"
)

// Local aliases keep call sites short while still wrapping the shared
// error sentinels vmerr defines, so callers can match on a stable sentinel
// regardless of which package formats the message.
var (
	errBadInstruction    = vmerr.ErrBadInstruction
	errConstPoolOverflow = vmerr.ErrConstPoolOverflow
	errIndexOutOfBounds  = vmerr.ErrIndexOutOfBounds
	errBadOpcode         = vmerr.ErrBadOpcode
	errBadConstantIndex  = vmerr.ErrBadConstantIndex
)

// LabelError reports a branch/goto reference to a label
// that was never defined in the program.
type LabelError struct {
	Label string
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("%s: undefined label: %s", errBadInstruction, e.Label)
}

func (e *LabelError) Unwrap() error { return errBadInstruction }

// OperandError reports a malformed operand shape for an otherwise
// recognized opcode mnemonic.
type OperandError struct {
	Op      string
	Operand any
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("%s: %s: bad operand: %v", errBadInstruction, e.Op, e.Operand)
}

func (e *OperandError) Unwrap() error { return errBadInstruction }

// UnknownOpcodeError reports an instruction mnemonic the assembler doesn't
// recognize.
type UnknownOpcodeError struct {
	Op string
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("%s: unknown opcode: %s", errBadOpcode, e.Op)
}

func (e *UnknownOpcodeError) Unwrap() error { return errBadOpcode }
