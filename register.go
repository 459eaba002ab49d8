package main

// register.go — plugin handler registration and activation lifecycle.
//
// The manifest registers the diagnostic-refresh autocmd and the user-facing
// functions. Cursor-move events are not in the manifest: they are subscribed
// at activation, and only when the configured mode wants them, so the two
// subscription sets stay explicit per mode.

import (
	"fmt"
	"sync"

	"github.com/neovim/go-client/nvim"
	"github.com/neovim/go-client/nvim/plugin"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"diaglines/internal/diaglines"
)

const (
	autocmdGroup = "diaglines"
	cursorMethod = "diaglines.cursor"
)

// register wires all handlers. Runs once when the plugin host loads the
// binary (and once more, without a connection, when the manifest is
// generated), so everything that needs a live Neovim is deferred to ensure.
func register(p *plugin.Plugin) error {
	a := newApp()

	p.HandleAutocmd(&plugin.AutocmdOptions{
		Event:   "DiagnosticChanged",
		Group:   autocmdGroup,
		Pattern: "*",
		Eval:    "str2nr(expand('<abuf>'))",
	}, a.onDiagnosticsChanged)

	p.HandleAutocmd(&plugin.AutocmdOptions{
		Event:   "VimLeavePre",
		Group:   autocmdGroup,
		Pattern: "*",
	}, a.onVimLeave)

	p.HandleFunction(&plugin.FunctionOptions{Name: "DiaglinesEnable"}, a.enable)
	p.HandleFunction(&plugin.FunctionOptions{Name: "DiaglinesDisable"}, a.disable)
	p.HandleFunction(&plugin.FunctionOptions{Name: "DiaglinesStatus"}, a.status)

	return nil
}

// app holds the adapter singleton. Activation is lazy (first event wins)
// because the plugin host spawns the binary on demand.
type app struct {
	mu          sync.Mutex
	adapter     *diaglines.Adapter
	host        *diaglines.NvimHost
	cursorGroup int
	log         commonlog.Logger
}

func newApp() *app {
	return &app{log: commonlog.GetLogger("diaglines")}
}

// ensure activates the adapter if it isn't already: read config once, fix
// the display mode, allocate the namespace, and subscribe cursor events when
// the mode calls for them. A config read failure is fatal: without it the
// display mode cannot be determined.
func (a *app) ensure(v *nvim.Nvim) (*diaglines.Adapter, *diaglines.NvimHost, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.adapter != nil {
		return a.adapter, a.host, nil
	}

	cfg, err := diaglines.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	host := diaglines.NewNvimHost(v, cfg.RenderModule)
	if b, ok := host.BoolVar("diaglines_current_line_only"); ok {
		cfg.CurrentLineOnly = b
	}

	var logPath *string
	if cfg.LogFile != "" {
		logPath = &cfg.LogFile
	}
	commonlog.Configure(cfg.LogVerbosity, logPath)

	adapter, err := diaglines.NewAdapter(host, cfg, a.log)
	if err != nil {
		return nil, nil, err
	}

	if adapter.Mode() == diaglines.ModeCurrentLineOnly {
		group, err := subscribeCursor(v, a.log, adapter)
		if err != nil {
			return nil, nil, err
		}
		a.cursorGroup = group
	}

	a.adapter = adapter
	a.host = host
	return adapter, host, nil
}

// teardown clears the adapter's namespace across all open buffers and
// releases the cursor subscription. Safe to call when inactive.
func (a *app) teardown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.adapter == nil {
		return nil
	}

	if a.cursorGroup != 0 {
		chunk := `local group = ... vim.api.nvim_del_augroup_by_id(group)`
		if err := a.host.Nvim().ExecLua(chunk, nil, a.cursorGroup); err != nil {
			a.log.Errorf("release cursor subscription: %s", err)
		}
		a.cursorGroup = 0
	}

	err := a.adapter.Close()
	a.adapter = nil
	a.host = nil
	return err
}

// onDiagnosticsChanged handles the refresh event: pull the authoritative
// full set for the buffer and hand it to the adapter unfiltered.
func (a *app) onDiagnosticsChanged(v *nvim.Nvim, buf int) error {
	adapter, host, err := a.ensure(v)
	if err != nil {
		return err
	}

	grouped, err := host.Diagnostics(buf)
	if err != nil {
		return err
	}
	return adapter.DiagnosticsChanged(buf, diaglines.Flatten(grouped))
}

func (a *app) onVimLeave() {
	if err := a.teardown(); err != nil {
		a.log.Errorf("teardown: %s", err)
	}
}

func (a *app) enable(v *nvim.Nvim, args []string) (string, error) {
	adapter, _, err := a.ensure(v)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("diaglines: mode=%s ns=%d", adapter.Mode(), adapter.Namespace()), nil
}

func (a *app) disable(v *nvim.Nvim, args []string) error {
	return a.teardown()
}

func (a *app) status(v *nvim.Nvim, args []string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.adapter == nil {
		return "diaglines: inactive", nil
	}
	return fmt.Sprintf("diaglines: mode=%s ns=%d", a.adapter.Mode(), a.adapter.Namespace()), nil
}

// Lua side of the cursor subscription: one augroup, events forwarded to the
// plugin channel with the buffer id and the one-based cursor line.
const subscribeCursorChunk = `
local chan, method = ...
local group = vim.api.nvim_create_augroup("diaglines_cursor", { clear = true })
vim.api.nvim_create_autocmd({ "CursorMoved", "CursorMovedI" }, {
  group = group,
  callback = function(args)
    local lnum = vim.api.nvim_win_get_cursor(0)[1]
    vim.rpcnotify(chan, method, args.buf, lnum)
  end,
})
return group
`

// subscribeCursor registers the channel handler and creates the autocmds,
// returning the augroup id so teardown can release the subscription.
func subscribeCursor(v *nvim.Nvim, log commonlog.Logger, adapter *diaglines.Adapter) (int, error) {
	if err := v.RegisterHandler(cursorMethod, func(buf, lnum int) {
		if err := adapter.CursorMoved(buf, lnum); err != nil {
			log.Errorf("cursor moved: %s", err)
		}
	}); err != nil {
		return 0, fmt.Errorf("register handler %s: %w", cursorMethod, err)
	}

	var group int
	if err := v.ExecLua(subscribeCursorChunk, &group, v.ChannelID(), cursorMethod); err != nil {
		return 0, fmt.Errorf("subscribe cursor events: %w", err)
	}
	return group, nil
}
