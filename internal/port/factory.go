package port

import (
	"io"
	"sync"

	"github.com/LittleGreyCells/escheme-compiled/internal/heap"
)

// Factory tracks every port it has opened and answers heap's marker
// registry with the set still open, mirroring vmcore.Machine's own
// Marker/RegisterMarker/unregister-on-Close discipline: ports are opened
// through a factory that registers them as roots, and closed either
// explicitly or all at once when the factory shuts down.
type Factory struct {
	mu   sync.Mutex
	open map[*heap.Port]io.Closer

	unregister func()
}

// NewFactory allocates a Factory and registers its root marker. Shutdown
// unregisters it again; a Factory not shut down leaks its marker slot for
// the life of the process, the same trade vmcore.Machine makes for
// short-lived machines that skip Close.
func NewFactory() *Factory {
	f := &Factory{open: make(map[*heap.Port]io.Closer)}
	f.unregister = heap.RegisterMarker(f.marker())
	return f
}

func (f *Factory) marker() heap.Marker {
	return func() []heap.Value {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := make([]heap.Value, 0, len(f.open))
		for p := range f.open {
			out = append(out, p)
		}
		return out
	}
}

// track registers p as open against this factory. closer is the backing
// resource to release when p is closed, or nil for backends (string ports)
// with nothing beyond the heap cell itself to free.
func (f *Factory) track(p *heap.Port, closer io.Closer) *heap.Port {
	f.mu.Lock()
	f.open[p] = closer
	f.mu.Unlock()
	return p
}

// Close closes a single port obtained from this factory: releases its
// backing resource, marks the cell closed, and drops it from the root set.
// Closing a port this factory never opened, or one already closed, is a
// no-op, matching heap.Port.Close's own idempotence.
func (f *Factory) Close(p *heap.Port) error {
	f.mu.Lock()
	closer, ok := f.open[p]
	delete(f.open, p)
	f.mu.Unlock()

	p.Close()
	if !ok || closer == nil {
		return nil
	}
	return closer.Close()
}

// CloseAll closes every port still open against this factory, e.g. at VM
// shutdown, and returns the first error encountered (closing continues past
// an error so one broken port doesn't leak the rest).
func (f *Factory) CloseAll() error {
	f.mu.Lock()
	entries := f.open
	f.open = make(map[*heap.Port]io.Closer)
	f.mu.Unlock()

	var first error
	for p, closer := range entries {
		p.Close()
		if closer == nil {
			continue
		}
		if err := closer.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Shutdown unregisters this factory's root marker. Call once CloseAll has
// run and the factory itself is going away.
func (f *Factory) Shutdown() { f.unregister() }
