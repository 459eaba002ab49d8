package diaglines

// adapter.go — the line-scope filter and dispatcher. Decides, for each
// editor event, the exact diagnostic set to render and issues exactly one
// render call per event.

import (
	"fmt"
	"sync"

	"github.com/tliron/commonlog"
)

// SourceTag identifies this adapter in every render call.
const SourceTag = "diaglines"

// Mode is the display mode, fixed for the lifetime of an adapter. Changing
// mode requires tearing the adapter down and activating a new one.
type Mode int

const (
	// ModeAllLines renders every diagnostic in the buffer; only refresh
	// events are subscribed.
	ModeAllLines Mode = iota
	// ModeCurrentLineOnly renders only diagnostics intersecting the
	// cursor's line; refresh and cursor-move events are subscribed.
	ModeCurrentLineOnly
)

func (m Mode) String() string {
	if m == ModeCurrentLineOnly {
		return "current-line-only"
	}
	return "all-lines"
}

// Adapter forwards reshaped diagnostic sets from the editor's event stream
// to the external renderer. It holds no diagnostic state of its own: every
// event starts from the set the editor hands it or from a fresh pull.
type Adapter struct {
	host Host
	mode Mode
	ns   int
	log  commonlog.Logger

	// The host delivers events one at a time, but handler dispatch in the
	// RPC layer is not guaranteed to stay on one goroutine.
	mu sync.Mutex
}

// NewAdapter allocates the namespace and fixes the display mode.
func NewAdapter(host Host, cfg *Config, log commonlog.Logger) (*Adapter, error) {
	ns, err := host.CreateNamespace(SourceTag)
	if err != nil {
		return nil, fmt.Errorf("create namespace: %w", err)
	}

	mode := ModeAllLines
	if cfg.CurrentLineOnly {
		mode = ModeCurrentLineOnly
	}
	log.Infof("activated: mode=%s ns=%d", mode, ns)

	return &Adapter{host: host, mode: mode, ns: ns, log: log}, nil
}

// Mode returns the display mode selected at activation.
func (a *Adapter) Mode() Mode { return a.mode }

// Namespace returns the namespace id scoping this adapter's annotations.
func (a *Adapter) Namespace() int { return a.ns }

// DiagnosticsChanged handles a refresh of the full diagnostic set for buf.
// The set arrives unfiltered; in current-line-only mode it is narrowed to
// the focused window's cursor line before rendering.
func (a *Adapter) DiagnosticsChanged(buf int, set []Diagnostic) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	set = Normalize(set)
	if a.mode == ModeCurrentLineOnly {
		lnum, err := a.host.CursorLine()
		if err != nil {
			return fmt.Errorf("cursor line: %w", err)
		}
		set = FilterLine(set, lnum)
	}

	a.log.Debugf("diagnostics changed: buf=%d rendering %d", buf, len(set))
	return a.render(buf, set)
}

// CursorMoved handles the cursor landing on a (possibly new) line. Only
// wired in current-line-only mode. It always re-pulls the complete set from
// the editor: filtering a previously filtered set would lose diagnostics on
// lines the cursor just returned to.
func (a *Adapter) CursorMoved(buf, lnum int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	grouped, err := a.host.Diagnostics(buf)
	if err != nil {
		return fmt.Errorf("get diagnostics: %w", err)
	}
	set := FilterLine(Normalize(Flatten(grouped)), lnum)

	a.log.Debugf("cursor moved: buf=%d lnum=%d rendering %d", buf, lnum, len(set))
	return a.render(buf, set)
}

// render issues the one render call for this event. An empty set is still
// sent so the renderer clears annotations left over from a previous call.
func (a *Adapter) render(buf int, set []Diagnostic) error {
	if err := a.host.Render(a.ns, buf, set, map[string]any{}, SourceTag); err != nil {
		return fmt.Errorf("render buf %d: %w", buf, err)
	}
	return nil
}

// Close clears this adapter's annotations across every open buffer. Called
// once at teardown; later buffers are still cleared when an earlier one
// fails.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	bufs, err := a.host.Buffers()
	if err != nil {
		return fmt.Errorf("list buffers: %w", err)
	}

	var firstErr error
	for _, buf := range bufs {
		if err := a.host.ClearNamespace(buf, a.ns); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("clear buf %d: %w", buf, err)
		}
	}
	a.log.Infof("deactivated: cleared ns=%d across %d buffers", a.ns, len(bufs))
	return firstErr
}
