package project

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Rules.Variant != "extended" {
		t.Fatalf("default variant = %q", cfg.Rules.Variant)
	}
	if cfg.Output.Format != "pretty" || cfg.Output.MaxDiagnostics != 256 {
		t.Fatalf("default output = %+v", cfg.Output)
	}
	if cfg.Cache.Disabled {
		t.Fatalf("cache must default to enabled")
	}
}

func TestLoadConfigParsesSections(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, `
[rules]
variant = "baseline"
extra_types = ["datetime", "guid"]

[output]
format = "json"
max_diagnostics = 32

[cache]
disabled = true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Rules.Variant != "baseline" {
		t.Fatalf("variant = %q", cfg.Rules.Variant)
	}
	if len(cfg.Rules.ExtraTypes) != 2 || cfg.Rules.ExtraTypes[0] != "datetime" {
		t.Fatalf("extra_types = %v", cfg.Rules.ExtraTypes)
	}
	if cfg.Output.Format != "json" || cfg.Output.MaxDiagnostics != 32 {
		t.Fatalf("output = %+v", cfg.Output)
	}
	if !cfg.Cache.Disabled {
		t.Fatalf("cache.disabled not applied")
	}
}

func TestLoadConfigRejectsBadVariant(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[rules]\nvariant = \"strict\"\n")

	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "variant") {
		t.Fatalf("expected variant error, got %v", err)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[rules]\nvariannt = \"extended\"\n")

	if _, err := LoadConfig(path); err == nil || !strings.Contains(err.Error(), "unknown key") {
		t.Fatalf("expected unknown-key error, got %v", err)
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[rules]\nvariant = \"baseline\"\n")
	nested := filepath.Join(root, "models", "billing")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, ok, err := FindManifest(nested)
	if err != nil || !ok {
		t.Fatalf("FindManifest: ok=%v err=%v", ok, err)
	}
	if filepath.Dir(path) != root {
		t.Fatalf("found %s, expected manifest in %s", path, root)
	}

	cfg, found, err := LoadConfigFromDir(nested)
	if err != nil || !found {
		t.Fatalf("LoadConfigFromDir: found=%v err=%v", found, err)
	}
	if cfg.Rules.Variant != "baseline" {
		t.Fatalf("variant = %q", cfg.Rules.Variant)
	}
}

func TestLoadConfigFromDirWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	cfg, found, err := LoadConfigFromDir(dir)
	if err != nil {
		t.Fatalf("LoadConfigFromDir: %v", err)
	}
	if found {
		t.Fatalf("no manifest should be found in an empty tree")
	}
	if cfg.Rules.Variant != "extended" {
		t.Fatalf("defaults must apply, got %+v", cfg)
	}
}
