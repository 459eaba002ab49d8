package diaglines

// host.go — the editor surface the adapter depends on. The real
// implementation lives in nvimhost.go; tests substitute a fake.

// Host is the slice of the editor the adapter talks to: namespace
// allocation, cursor and diagnostic lookup, the render entry point, and the
// annotation-clear primitive used at teardown.
type Host interface {
	// CreateNamespace allocates (or looks up) the namespace scoping all
	// annotations this adapter owns.
	CreateNamespace(name string) (int, error)

	// CursorLine returns the one-based line of the focused window's cursor.
	CursorLine() (int, error)

	// Diagnostics returns the authoritative full diagnostic set for a
	// buffer, grouped by originating tool. Never a previously filtered set.
	Diagnostics(buf int) (map[string][]Diagnostic, error)

	// Render is the single external render entry point. Fire-and-forget:
	// each call fully replaces the prior annotation state for (ns, buf).
	Render(ns, buf int, diags []Diagnostic, opts map[string]any, source string) error

	// Buffers lists every open buffer.
	Buffers() ([]int, error)

	// ClearNamespace removes all annotations owned by ns in one buffer.
	ClearNamespace(buf, ns int) error
}
