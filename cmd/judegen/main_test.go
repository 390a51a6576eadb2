package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func schemaDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	docs := map[string]string{
		"shop.yaml":   "Object Item:\n  name: string:16\n",
		"broken.yaml": "Object Item:\n  part: Missing\n",
	}
	for name, content := range docs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	// Keep flag-set environment from leaking between tests.
	for _, env := range flagEnv {
		t.Setenv(env, os.Getenv(env))
	}
	return dir
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.HasPrefix(out, "judegen dev") {
		t.Errorf("output = %q", out)
	}
}

func TestGenerate(t *testing.T) {
	dir := schemaDir(t)
	outDir := filepath.Join(dir, "out")
	cfg := filepath.Join(dir, "missing.yaml")

	out, err := run(t, "generate", "-c", cfg, "-o", outDir, "-f", "yaml", filepath.Join(dir, "shop.yaml"))
	if err != nil {
		t.Fatalf("generate error: %v\n%s", err, out)
	}
	data, err := os.ReadFile(filepath.Join(outDir, "shop", "shop.yaml"))
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if !strings.Contains(string(data), "struct_name: Item_t") {
		t.Errorf("output = %s", data)
	}
	if !strings.Contains(out, "(written)") {
		t.Errorf("stdout = %q", out)
	}
}

func TestValidate(t *testing.T) {
	dir := schemaDir(t)
	cfg := filepath.Join(dir, "missing.yaml")

	out, err := run(t, "validate", "-c", cfg, filepath.Join(dir, "shop.yaml"), filepath.Join(dir, "broken.yaml"))
	if err == nil || !strings.Contains(err.Error(), "1 of 2 schemas invalid") {
		t.Errorf("err = %v", err)
	}
	if !strings.Contains(out, "1 objects") || !strings.Contains(out, "Missing") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "out")); !os.IsNotExist(err) {
		t.Error("validate should not write output")
	}
}
