// Package port supplies the concrete backends behind heap.Port's
// Reader/Writer surface: files, in-memory strings, and the console.
// heap.Port only carries the handle and an open/closed flag; this package
// does the actual acquisition, wrapping a Factory around
// os.Open/os.Create/bytes.Buffer/os.Stdin/os.Stdout so every port opened
// through it is registered as a GC root and can be closed explicitly, or
// all at once when the factory itself is closed.
//
// The root-registration discipline (Marker/RegisterMarker/unregister-on-
// Close) mirrors internal/vmcore.Machine's own; see console.go for how the
// console backend itself stays narrow, with no raw-mode or interrupt-driven
// device model behind it.
package port
