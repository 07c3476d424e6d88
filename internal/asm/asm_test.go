package asm

import (
	"strings"
	"testing"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
	"github.com/LittleGreyCells/escheme-compiled/internal/symtab"
	"github.com/LittleGreyCells/escheme-compiled/internal/sx"
)

func mustProgram(t *testing.T, tab *symtab.Table, src string) heap.Value {
	t.Helper()
	v, err := sx.NewReader(strings.NewReader(src), tab).Read()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	return v
}

func TestEncodeFusesPushArgAfterAssignConst(t *testing.T) {
	tab := symtab.New()
	prog := mustProgram(t, tab, `(
		(assign val (const 1))
		(push-arg)
		(rtc))`)

	code, err := Encode(prog)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if len(code.Bcodes) != 3 {
		t.Fatalf("got %d bytes, want 3 (fused assign-obj-push, rtc): % x", len(code.Bcodes), code.Bcodes)
	}
	if Opcode(code.Bcodes[0]) != fuseWithPush[OpAssignObj] {
		t.Errorf("first opcode = %v, want the assign-obj/push-arg fusion", Opcode(code.Bcodes[0]))
	}
}

func TestEncodeConstantPoolDedup(t *testing.T) {
	tab := symtab.New()
	prog := mustProgram(t, tab, `(
		(assign val (const 42))
		(push-arg)
		(assign val (const 42))
		(push-arg)
		(rtc))`)

	code, err := Encode(prog)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(code.Sexprs) != 1 {
		t.Errorf("got %d constants, want 1 (eqv? dedup of two identical literals)", len(code.Sexprs))
	}
}

func TestEncodeUndefinedLabel(t *testing.T) {
	tab := symtab.New()
	prog := mustProgram(t, tab, `(
		(branch (label missing))
		(rtc))`)

	_, err := Encode(prog)
	if err == nil {
		t.Fatalf("Encode with an undefined label did not error")
	}
	if _, ok := err.(*LabelError); !ok {
		t.Errorf("got %T, want *LabelError", err)
	}
}

func TestEncodeUnknownOpcode(t *testing.T) {
	tab := symtab.New()
	prog := mustProgram(t, tab, `((frobnicate) (rtc))`)

	_, err := Encode(prog)
	if err == nil {
		t.Fatalf("Encode with an unknown opcode did not error")
	}
	if _, ok := err.(*UnknownOpcodeError); !ok {
		t.Errorf("got %T, want *UnknownOpcodeError", err)
	}
}

func TestEncodeBranchToLabelResolvesForwardReference(t *testing.T) {
	tab := symtab.New()
	prog := mustProgram(t, tab, `(
		(goto (label done))
		(assign val (const 1))
		done
		(rtc))`)

	code, err := Encode(prog)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out, err := Decode(code)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !strings.Contains(out, "goto") || !strings.Contains(out, "rtc") {
		t.Errorf("disassembly missing expected mnemonics:\n%s", out)
	}
	// goto (3 bytes) + assign-obj (2 bytes) puts the label at pc 5.
	if !strings.Contains(out, "0000  goto 0005\n") {
		t.Errorf("forward goto not resolved to pc 5:\n%s", out)
	}
}

func TestEncodeNestedClosureRecursesAndDecodesIndented(t *testing.T) {
	tab := symtab.New()
	prog := mustProgram(t, tab, `(
		(make-closure
			((assign val (const 1))
			 (rtc))
			()
			0
			#f)
		(rtc))`)

	code, err := Encode(prog)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if len(code.Sexprs) != 2 {
		t.Fatalf("got %d constants, want 2 (nested code, param list)", len(code.Sexprs))
	}
	nested, ok := heap.AsCode(code.Sexprs[0])
	if !ok {
		t.Fatalf("Sexprs[0] is not a nested code object: %v", code.Sexprs[0])
	}
	if len(nested.Bcodes) == 0 {
		t.Errorf("nested closure body was not encoded")
	}

	out, err := Decode(code)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !strings.Contains(out, "make-closure") {
		t.Errorf("disassembly missing make-closure:\n%s", out)
	}
	if !strings.Contains(out, "\n  0000  assign-obj 1\n") {
		t.Errorf("nested closure body not decoded one level indented:\n%s", out)
	}
}
