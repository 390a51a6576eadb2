package bootstrap_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/artpar/judegen/app"
	"github.com/artpar/judegen/bootstrap"
	"github.com/artpar/judegen/config"
	"github.com/prometheus/client_golang/prometheus"
)

const shopSchema = `
Import: common.yaml
Object Item:
  name: string:32
  made: Stamp
`

const commonSchema = `
Object Stamp:
  at: u64
`

type session struct {
	res app.Result
	err error
}

// setup writes the schema documents and a config file into a temp dir and
// creates an App on them.
func setup(t *testing.T, extraConfig string) (*bootstrap.App, string, chan session) {
	t.Helper()
	dir := t.TempDir()
	write(t, filepath.Join(dir, "shop.yaml"), shopSchema)
	write(t, filepath.Join(dir, "common.yaml"), commonSchema)

	cfgPath := filepath.Join(dir, "judegen.yaml")
	write(t, cfgPath, `
output:
  dir: "`+filepath.Join(dir, "out")+`"
metrics:
  enabled: true
  textfile: "`+filepath.Join(dir, "judegen.prom")+`"
watch:
  debounce: 50ms
  min_interval: 10ms
`+extraConfig)

	sessions := make(chan session, 16)
	a, err := bootstrap.New(bootstrap.Options{
		ConfigPath: cfgPath,
		LogOutput:  &bytes.Buffer{},
		Registry:   prometheus.NewRegistry(),
		OnSession:  func(res app.Result, err error) { sessions <- session{res, err} },
	})
	if err != nil {
		t.Fatalf("bootstrap.New error: %v", err)
	}
	t.Cleanup(func() { a.Shutdown() })
	return a, dir, sessions
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := bootstrap.SetupLogger(config.LoggingConfig{Level: "info", Format: "json"}, &buf)
	logger.Info().Str("session", "s-1").Msg("hello")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %q", buf.String())
	}
	if line["session"] != "s-1" || line["message"] != "hello" {
		t.Errorf("log line = %v", line)
	}

	buf.Reset()
	logger = bootstrap.SetupLogger(config.LoggingConfig{Level: "info", Format: "console"}, &buf)
	logger.Info().Msg("console")
	if !strings.Contains(buf.String(), "console") || strings.HasPrefix(buf.String(), "{") {
		t.Errorf("console output = %q", buf.String())
	}
}

func TestApp_Compile(t *testing.T) {
	a, dir, _ := setup(t, "")

	res, err := a.Compile(context.Background(), filepath.Join(dir, "shop.yaml"))
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	want := filepath.Join(dir, "out", "shop", "shop.json")
	if res.Path != want || !res.Written {
		t.Errorf("Path = %s (written %v), want %s", res.Path, res.Written, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("output file missing: %v", err)
	}

	prom, err := os.ReadFile(filepath.Join(dir, "judegen.prom"))
	if err != nil {
		t.Fatalf("metrics textfile missing: %v", err)
	}
	if !strings.Contains(string(prom), `judegen_sessions_total{outcome="ok"} 1`) {
		t.Errorf("textfile = %s", prom)
	}

	if b := a.Browser.Current(); b == nil || b.Schema != "shop" {
		t.Errorf("browser bundle = %+v", b)
	}

	// A second identical session leaves the file alone.
	res, err = a.Compile(context.Background(), filepath.Join(dir, "shop.yaml"))
	if err != nil || res.Written {
		t.Errorf("second Compile written=%v err=%v", res.Written, err)
	}
}

func TestApp_CompileFailureKeepsBrowser(t *testing.T) {
	a, dir, _ := setup(t, "")
	ctx := context.Background()

	if _, err := a.Compile(ctx, filepath.Join(dir, "shop.yaml")); err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	write(t, filepath.Join(dir, "shop.yaml"), "Object Item: {x: Nowhere}\n")
	if _, err := a.Compile(ctx, filepath.Join(dir, "shop.yaml")); err == nil {
		t.Fatal("expected unresolved type error")
	}
	if b := a.Browser.Current(); b == nil || len(b.Objects) != 1 {
		t.Errorf("browser should keep last good bundle, got %+v", b)
	}
}

func TestApp_Check(t *testing.T) {
	a, dir, _ := setup(t, "")

	if _, err := a.Check(context.Background(), filepath.Join(dir, "shop.yaml")); err != nil {
		t.Fatalf("Check error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "out")); !os.IsNotExist(err) {
		t.Errorf("Check created output: %v", err)
	}
}

func TestApp_Handler(t *testing.T) {
	a, dir, _ := setup(t, "")
	if _, err := a.Compile(context.Background(), filepath.Join(dir, "shop.yaml")); err != nil {
		t.Fatalf("Compile error: %v", err)
	}

	h := a.Handler()
	for path, want := range map[string]string{
		"/objects/Item": `"struct_name":"Item_t"`,
		"/metrics":      "judegen_sessions_total",
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != 200 || !strings.Contains(rec.Body.String(), want) {
			t.Errorf("GET %s = %d %s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestApp_ConfigReload(t *testing.T) {
	a, dir, _ := setup(t, "")
	cfgPath := filepath.Join(dir, "judegen.yaml")

	write(t, cfgPath, `
output:
  dir: "`+filepath.Join(dir, "gen")+`"
  format: yaml
naming:
  legacy: true
`)
	if err := a.Config.Reload(); err != nil {
		t.Fatalf("Reload error: %v", err)
	}

	res, err := a.Compile(context.Background(), filepath.Join(dir, "shop.yaml"))
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if res.Path != filepath.Join(dir, "gen", "shop", "shop.yaml") {
		t.Errorf("Path = %s", res.Path)
	}
	if o, ok := res.Bundle.Object("Item"); !ok || o.ClassName != "ItemAccessor" {
		t.Errorf("Item = %+v", o)
	}
}

func TestApp_Watch(t *testing.T) {
	a, dir, sessions := setup(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- a.Watch(ctx, []string{filepath.Join(dir, "shop.yaml")}) }()

	next := func() session {
		t.Helper()
		select {
		case s := <-sessions:
			return s
		case <-time.After(5 * time.Second):
			t.Fatal("no session")
			return session{}
		}
	}

	if s := next(); s.err != nil {
		t.Fatalf("initial session error: %v", s.err)
	}

	// Changing an imported document recompiles the root.
	write(t, filepath.Join(dir, "common.yaml"), "Object Stamp:\n  at: u64\n  zone: i16\n")

	s := next()
	if s.err != nil {
		t.Fatalf("watch session error: %v", s.err)
	}
	if !s.res.Written {
		t.Error("changed import should rewrite the output")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Watch returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not stop")
	}
}

func TestApp_WatchRecoversFromBrokenImport(t *testing.T) {
	tests := []struct {
		name   string
		broken string
	}{
		{"tag conflict", "Object Stamp:\n  at: {type: u64, tag: 5}\n  b: {type: u8, tag: 5}\n"},
		{"syntax error", "Objekt Stamp:\n  at: u64\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, dir, sessions := setup(t, "")
			write(t, filepath.Join(dir, "common.yaml"), tt.broken)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			done := make(chan error, 1)
			go func() { done <- a.Watch(ctx, []string{filepath.Join(dir, "shop.yaml")}) }()

			next := func() session {
				t.Helper()
				select {
				case s := <-sessions:
					return s
				case <-time.After(5 * time.Second):
					t.Fatal("no session")
					return session{}
				}
			}

			if s := next(); s.err == nil {
				t.Fatal("initial session should fail on the broken import")
			}

			// Fixing only the imported document recompiles the root.
			write(t, filepath.Join(dir, "common.yaml"), commonSchema)
			s := next()
			if s.err != nil {
				t.Fatalf("session after fix: %v", s.err)
			}
			if !s.res.Written {
				t.Error("session after fix should write the output")
			}

			cancel()
			<-done
		})
	}
}
