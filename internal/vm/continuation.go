package vm

import (
	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
	"github.com/LittleGreyCells/escheme-compiled/internal/vmcore"
)

// captureContinuation copies every stack and register into a heap.Snapshot,
// built directly from vmcore's own Snapshot/Restore pairs on each stack.
func captureContinuation(m *vmcore.Machine) heap.Snapshot {
	snap := m.Reg.Snapshot()
	snap.RegStack = m.RegStack.Snapshot()
	argStack, argc := m.ArgStack.Snapshot()
	snap.ArgStack = argStack
	snap.ArgCounts = []int{argc}
	snap.IntStack = m.IntStack.Snapshot()
	return snap
}

// resumeContinuation replaces every stack and register with a previously
// captured snapshot; nothing from the current call's state survives the
// switch.
func resumeContinuation(m *vmcore.Machine, snap heap.Snapshot) {
	m.Reg.Restore(snap)
	m.RegStack.Restore(snap.RegStack)

	argc := 0
	if len(snap.ArgCounts) > 0 {
		argc = snap.ArgCounts[0]
	}
	m.ArgStack.Restore(snap.ArgStack, argc)
	m.IntStack.Restore(snap.IntStack)
}
