package diaglines

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.CurrentLineOnly {
		t.Error("default mode should be all-lines")
	}
	if cfg.RenderModule != "lsp_lines.render" {
		t.Errorf("default render_module = %q", cfg.RenderModule)
	}
}

func TestLoadConfigMissingFileFallsBack(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "nope", "config.toml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults, got %v", err)
	}
	if cfg.CurrentLineOnly {
		t.Error("default mode should be all-lines")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := writeConfig(t, `
current_line_only = true
render_module = "my_renderer"
log_file = "/tmp/diaglines.log"
log_verbosity = 2
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if !cfg.CurrentLineOnly {
		t.Error("current_line_only not read")
	}
	if cfg.RenderModule != "my_renderer" {
		t.Errorf("render_module = %q, want my_renderer", cfg.RenderModule)
	}
	if cfg.LogFile != "/tmp/diaglines.log" || cfg.LogVerbosity != 2 {
		t.Errorf("log settings not read: %+v", cfg)
	}
}

func TestLoadConfigPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "current_line_only = true\n")
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if !cfg.CurrentLineOnly {
		t.Error("current_line_only not read")
	}
	if cfg.RenderModule != "lsp_lines.render" {
		t.Errorf("unset render_module should keep default, got %q", cfg.RenderModule)
	}
}

func TestLoadConfigBadTOMLIsFatal(t *testing.T) {
	path := writeConfig(t, "current_line_only = [broken\n")
	if _, err := loadConfig(path); err == nil {
		t.Fatal("unparsable config must fail activation, got nil error")
	}
}

func TestLoadConfigEmptyRenderModuleIsFatal(t *testing.T) {
	path := writeConfig(t, `render_module = ""`)
	if _, err := loadConfig(path); err == nil {
		t.Fatal("empty render_module must fail activation, got nil error")
	}
}
