package diaglines

// nvimhost.go — Host implementation backed by a live Neovim instance over
// msgpack-RPC.

import (
	"fmt"

	"github.com/neovim/go-client/nvim"
)

// Lua chunk pulling the full diagnostic set for a buffer, grouped by
// originating tool, reshaped to range form. Returned as a dict even when
// empty: an empty Lua table would otherwise serialize as an array and fail
// to decode into a map.
const pullDiagnosticsChunk = `
local buf = ...
local out = {}
for _, d in ipairs(vim.diagnostic.get(buf)) do
  local src = d.source or "unknown"
  local group = out[src]
  if group == nil then
    group = {}
    out[src] = group
  end
  group[#group + 1] = {
    range = {
      start = { line = d.lnum, character = d.col },
      ["end"] = { line = d.end_lnum or d.lnum, character = d.end_col or d.col },
    },
    severity = d.severity,
    message = d.message,
    source = src,
  }
end
if next(out) == nil then
  return vim.empty_dict()
end
return out
`

const renderChunk = `
local mod, ns, buf, diags, opts, source = ...
require(mod).show(ns, buf, diags, opts, source)
`

// NvimHost adapts a *nvim.Nvim connection to the Host interface. The render
// entry point is <renderModule>.show, resolved through Lua's require.
type NvimHost struct {
	v            *nvim.Nvim
	renderModule string
}

// NewNvimHost wraps an established Neovim connection.
func NewNvimHost(v *nvim.Nvim, renderModule string) *NvimHost {
	return &NvimHost{v: v, renderModule: renderModule}
}

// Nvim exposes the underlying connection for host-level wiring (event
// subscriptions, global variables).
func (h *NvimHost) Nvim() *nvim.Nvim { return h.v }

func (h *NvimHost) CreateNamespace(name string) (int, error) {
	ns, err := h.v.CreateNamespace(name)
	if err != nil {
		return 0, fmt.Errorf("nvim_create_namespace: %w", err)
	}
	return ns, nil
}

func (h *NvimHost) CursorLine() (int, error) {
	pos, err := h.v.WindowCursor(0)
	if err != nil {
		return 0, fmt.Errorf("nvim_win_get_cursor: %w", err)
	}
	return pos[0], nil
}

func (h *NvimHost) Diagnostics(buf int) (map[string][]Diagnostic, error) {
	grouped := make(map[string][]Diagnostic)
	if err := h.v.ExecLua(pullDiagnosticsChunk, &grouped, buf); err != nil {
		return nil, fmt.Errorf("vim.diagnostic.get(%d): %w", buf, err)
	}
	return grouped, nil
}

func (h *NvimHost) Render(ns, buf int, diags []Diagnostic, opts map[string]any, source string) error {
	if diags == nil {
		diags = []Diagnostic{}
	}
	if opts == nil {
		opts = map[string]any{}
	}
	if err := h.v.ExecLua(renderChunk, nil, h.renderModule, ns, buf, diags, opts, source); err != nil {
		return fmt.Errorf("%s.show: %w", h.renderModule, err)
	}
	return nil
}

func (h *NvimHost) Buffers() ([]int, error) {
	bufs, err := h.v.Buffers()
	if err != nil {
		return nil, fmt.Errorf("nvim_list_bufs: %w", err)
	}
	out := make([]int, len(bufs))
	for i, b := range bufs {
		out[i] = int(b)
	}
	return out, nil
}

func (h *NvimHost) ClearNamespace(buf, ns int) error {
	if err := h.v.ClearBufferNamespace(nvim.Buffer(buf), ns, 0, -1); err != nil {
		return fmt.Errorf("nvim_buf_clear_namespace(%d): %w", buf, err)
	}
	return nil
}

// CurrentBuffer returns the focused buffer's id. Not part of Host; used by
// the trace tool to pick a default buffer.
func (h *NvimHost) CurrentBuffer() (int, error) {
	buf, err := h.v.CurrentBuffer()
	if err != nil {
		return 0, fmt.Errorf("nvim_get_current_buf: %w", err)
	}
	return int(buf), nil
}

// BoolVar reads a global boolean variable, tolerating the Vimscript habit
// of using 0/1 for flags. The second return is false when the variable is
// unset.
func (h *NvimHost) BoolVar(name string) (bool, bool) {
	var raw any
	if err := h.v.Var(name, &raw); err != nil {
		return false, false
	}
	switch v := raw.(type) {
	case bool:
		return v, true
	case int64:
		return v != 0, true
	case uint64:
		return v != 0, true
	default:
		return false, false
	}
}
