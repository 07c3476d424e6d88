package vm

import (
	"github.com/LittleGreyCells/escheme-compiled/internal/asm"
	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
)

// rtcCode is the base return frame Run primes the stacks with before
// entering the dispatch loop: a single rtc instruction, so that the last
// restore of a fully unwound call chain lands here and the dispatch loop's
// own OpRtc case returns control to the Go caller.
var rtcCode = heap.NewCode([]byte{byte(asm.OpRtc)}, nil)

// forceEpilogueCode caches a promise's forced value and returns to whoever
// called force, once the promise's own expression code finishes.
var forceEpilogueCode = heap.NewCode([]byte{byte(asm.OpForceValue), byte(asm.OpGotoCont)}, nil)

// mapCode and forCode are the fixed five-instruction library routines
// map-operator/foreach-operator jump into, matching iteration.go's pc
// arithmetic. Neither references a constant or a label, so they are
// hand-assembled here exactly like rtcCode/forceEpilogueCode rather than
// built through asm.Encode.
var mapCode = heap.NewCode([]byte{
	byte(asm.OpMapInit),
	byte(asm.OpMapApply),
	byte(asm.OpApply),
	byte(asm.OpMapResult),
	byte(asm.OpGotoCont),
}, nil)

var forCode = heap.NewCode([]byte{
	byte(asm.OpForInit),
	byte(asm.OpForApply),
	byte(asm.OpApply),
	byte(asm.OpForResult),
	byte(asm.OpGotoCont),
}, nil)
