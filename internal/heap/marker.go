package heap

import "sync"

// Marker is a root-visiting callback: it returns every Value a component
// holds outside the heap's own cell graph. Components with roots external
// to the heap — the assembler's in-progress sexprs vector while encoding,
// vmcore's reg-stack, arg-stack, register file and symbol table, and the
// port factory's open ports — register one apiece.
//
// Actual cell storage and reclamation is delegated to the Go runtime's own
// collector — cells are ordinary heap-allocated structs reachable the
// normal way, so a bump/free-list allocator and an explicit mark-sweep pass
// would duplicate work the runtime already does correctly. What's left to
// implement is this registration contract, since external roots genuinely
// need an explicit push/pop discipline regardless of who owns collection.
type Marker func() []Value

var (
	markersMu sync.Mutex
	markers   []Marker
)

// RegisterMarker adds a root-visiting callback and returns a function that
// removes it again. Callers (the assembler around an encode pass, vmcore at
// startup) are expected to register once and keep the token for the
// lifetime of the stack or buffer being exposed.
func RegisterMarker(m Marker) (unregister func()) {
	markersMu.Lock()
	defer markersMu.Unlock()

	markers = append(markers, m)
	idx := len(markers) - 1

	return func() {
		markersMu.Lock()
		defer markersMu.Unlock()
		if idx < len(markers) {
			markers[idx] = nil
		}
	}
}

// Roots gathers every Value currently reachable from a registered marker.
// Used by tests asserting that a component's external-root contribution is
// visible, and available to any future real collector without changing
// this package's API.
func Roots() []Value {
	markersMu.Lock()
	defer markersMu.Unlock()

	var out []Value
	for _, m := range markers {
		if m == nil {
			continue
		}
		out = append(out, m()...)
	}
	return out
}
