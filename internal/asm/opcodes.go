package asm

import "fmt"

// Opcode identifies a bytecode instruction. The five reference-register
// save/restore opcodes plus argc and cont form two contiguous seven-entry
// blocks: decoding save for register r produces OpSaveVal+r, and likewise
// for restore, matching vmcore.RegisterIndex's numbering (val=0 .. cont=6).
type Opcode uint8

const (
	OpSaveVal Opcode = iota
	OpSaveAux
	OpSaveEnv
	OpSaveUnev
	OpSaveExp
	OpSaveArgc
	OpSaveCont

	OpRestoreVal
	OpRestoreAux
	OpRestoreEnv
	OpRestoreUnev
	OpRestoreExp
	OpRestoreArgc
	OpRestoreCont

	OpZeroArgc
	OpPushArg
	OpPopArgs

	OpAssignReg
	OpAssignObj

	OpGRef
	OpGSet
	OpGDef

	OpFRef
	OpFSet

	OpGetAccess
	OpSetAccess

	OpMakeClosure

	OpApply
	OpApplyCont
	OpTestTrue
	OpTestFalse
	OpBranch
	OpBranchCont
	OpGoto
	OpGotoCont

	OpMapInit
	OpMapApply
	OpMapResult
	OpForInit
	OpForApply
	OpForResult

	OpExtendEnv
	OpESet

	OpDelay
	OpForceValue

	OpRte
	OpRtc

	// Fused opcodes. Each collapses a value-producing opcode immediately
	// followed by push-arg, apply, or apply-cont into one opcode occupying
	// the same bytes as the unfused value-producing opcode alone.
	OpAssignRegPush
	OpAssignRegApply
	OpAssignRegApplyCont

	OpAssignObjPush
	OpAssignObjApply
	OpAssignObjApplyCont

	OpGRefPush
	OpGRefApply
	OpGRefApplyCont

	OpFRefPush
	OpFRefApply
	OpFRefApplyCont

	OpGetAccessPush
	OpGetAccessApply
	OpGetAccessApplyCont

	opcodeCount // Sentinel: one past the last valid opcode.
)

// opLen is the static per-opcode byte length (including the opcode byte
// itself) the disassembler relies on to walk bcodes linearly. Fused
// opcodes are the same length as the value-producing opcode they fuse,
// since fusion drops
// the trailing push-arg/apply/apply-cont byte entirely rather than adding to
// the length of the opcode it replaces.
var opLen = [opcodeCount]uint8{
	OpSaveVal: 1, OpSaveAux: 1, OpSaveEnv: 1, OpSaveUnev: 1, OpSaveExp: 1,
	OpSaveArgc: 1, OpSaveCont: 1,
	OpRestoreVal: 1, OpRestoreAux: 1, OpRestoreEnv: 1, OpRestoreUnev: 1, OpRestoreExp: 1,
	OpRestoreArgc: 1, OpRestoreCont: 1,

	OpZeroArgc: 1, OpPushArg: 1, OpPopArgs: 1,

	OpAssignReg: 2, OpAssignObj: 2,

	OpGRef: 2, OpGSet: 2, OpGDef: 2,

	OpFRef: 3, OpFSet: 3,

	OpGetAccess: 2, OpSetAccess: 2,

	OpMakeClosure: 5,

	OpApply: 1, OpApplyCont: 1, OpTestTrue: 1, OpTestFalse: 1,
	OpBranch: 3, OpBranchCont: 1, OpGoto: 3, OpGotoCont: 1,

	OpMapInit: 1, OpMapApply: 1, OpMapResult: 1,
	OpForInit: 1, OpForApply: 1, OpForResult: 1,

	OpExtendEnv: 4, OpESet: 2,

	OpDelay: 2, OpForceValue: 1,

	OpRte: 1, OpRtc: 1,

	OpAssignRegPush: 2, OpAssignRegApply: 2, OpAssignRegApplyCont: 2,
	OpAssignObjPush: 2, OpAssignObjApply: 2, OpAssignObjApplyCont: 2,
	OpGRefPush: 2, OpGRefApply: 2, OpGRefApplyCont: 2,
	OpFRefPush: 3, OpFRefApply: 3, OpFRefApplyCont: 3,
	OpGetAccessPush: 2, OpGetAccessApply: 2, OpGetAccessApplyCont: 2,
}

// Len reports an opcode's total encoded length in bytes, or 0 if op is out
// of range (the caller should treat that as BadOpcode).
func (op Opcode) Len() int {
	if int(op) >= len(opLen) {
		return 0
	}
	return int(opLen[op])
}

// Valid reports whether op is within the defined opcode table.
func (op Opcode) Valid() bool { return op < opcodeCount }

var opName = map[Opcode]string{
	OpSaveVal: "save-val", OpSaveAux: "save-aux", OpSaveEnv: "save-env",
	OpSaveUnev: "save-unev", OpSaveExp: "save-exp", OpSaveArgc: "save-argc", OpSaveCont: "save-cont",
	OpRestoreVal: "restore-val", OpRestoreAux: "restore-aux", OpRestoreEnv: "restore-env",
	OpRestoreUnev: "restore-unev", OpRestoreExp: "restore-exp",
	OpRestoreArgc: "restore-argc", OpRestoreCont: "restore-cont",
	OpZeroArgc: "zero-argc", OpPushArg: "push-arg", OpPopArgs: "pop-args",
	OpAssignReg: "assign-reg", OpAssignObj: "assign-obj",
	OpGRef: "gref", OpGSet: "gset", OpGDef: "gdef",
	OpFRef: "fref", OpFSet: "fset",
	OpGetAccess: "get-access", OpSetAccess: "set-access",
	OpMakeClosure: "make-closure",
	OpApply:       "apply", OpApplyCont: "apply-cont",
	OpTestTrue: "test-true", OpTestFalse: "test-false",
	OpBranch: "branch", OpBranchCont: "branch-cont", OpGoto: "goto", OpGotoCont: "goto-cont",
	OpMapInit: "map-init", OpMapApply: "map-apply", OpMapResult: "map-result",
	OpForInit: "for-init", OpForApply: "for-apply", OpForResult: "for-result",
	OpExtendEnv: "extend-env", OpESet: "eset",
	OpDelay: "delay", OpForceValue: "force-value",
	OpRte: "rte", OpRtc: "rtc",
	OpAssignRegPush: "assign-reg+push-arg", OpAssignRegApply: "assign-reg+apply",
	OpAssignRegApplyCont: "assign-reg+apply-cont",
	OpAssignObjPush:      "assign-obj+push-arg", OpAssignObjApply: "assign-obj+apply",
	OpAssignObjApplyCont: "assign-obj+apply-cont",
	OpGRefPush:           "gref+push-arg", OpGRefApply: "gref+apply", OpGRefApplyCont: "gref+apply-cont",
	OpFRefPush:           "fref+push-arg", OpFRefApply: "fref+apply", OpFRefApplyCont: "fref+apply-cont",
	OpGetAccessPush:      "get-access+push-arg", OpGetAccessApply: "get-access+apply",
	OpGetAccessApplyCont: "get-access+apply-cont",
}

func (op Opcode) String() string {
	if name, ok := opName[op]; ok {
		return name
	}
	return fmt.Sprintf("opcode(%d)", uint8(op))
}

// fuseWithPush, fuseWithApply and fuseWithApplyCont map a base opcode to
// its fused form for each of the three fusable trailing opcodes the
// peephole pass looks for. A base opcode absent from a table cannot be
// fused with that trailing opcode.
var fuseWithPush = map[Opcode]Opcode{
	OpAssignReg: OpAssignRegPush,
	OpAssignObj: OpAssignObjPush,
	OpGRef:      OpGRefPush,
	OpFRef:      OpFRefPush,
	OpGetAccess: OpGetAccessPush,
}

var fuseWithApply = map[Opcode]Opcode{
	OpAssignReg: OpAssignRegApply,
	OpAssignObj: OpAssignObjApply,
	OpGRef:      OpGRefApply,
	OpFRef:      OpFRefApply,
	OpGetAccess: OpGetAccessApply,
}

var fuseWithApplyCont = map[Opcode]Opcode{
	OpAssignReg: OpAssignRegApplyCont,
	OpAssignObj: OpAssignObjApplyCont,
	OpGRef:      OpGRefApplyCont,
	OpFRef:      OpFRefApplyCont,
	OpGetAccess: OpGetAccessApplyCont,
}
