package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/JonMunkholm/sitegen/internal/config"
	"github.com/JonMunkholm/sitegen/internal/core"
	"github.com/JonMunkholm/sitegen/internal/history"
	"github.com/google/uuid"
)

type fakeRunner struct {
	buildDir string

	mu        sync.Mutex
	result    *core.RunResult
	err       error
	trigger   string
	runs      []history.Run
	runsErr   error
	lastLimit int
}

func (f *fakeRunner) TryGenerate(ctx context.Context) (*core.RunResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trigger = core.TriggerFromContext(ctx)
	return f.result, f.err
}

func (f *fakeRunner) RecentRuns(_ context.Context, limit int) ([]history.Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	return f.runs, f.runsErr
}

func (f *fakeRunner) LimiterStatus() core.RunLimiterStatus {
	return core.RunLimiterStatus{Available: 1, MaxConcurrent: 1}
}

func (f *fakeRunner) BuildDir() string { return f.buildDir }

func newTestServer(t *testing.T, runner *fakeRunner) *Server {
	t.Helper()
	s := NewServer(runner, &config.Config{})
	t.Cleanup(func() { s.Shutdown(context.Background()) })
	return s
}

func serve(s *Server, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

// writeBuild creates files relative to dir.
func writeBuild(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestIndex_NoBuildDirectory(t *testing.T) {
	s := newTestServer(t, &fakeRunner{buildDir: filepath.Join(t.TempDir(), "build")})

	rec := serve(s, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != noBuildMessage {
		t.Errorf("body = %q, want %q", rec.Body.String(), noBuildMessage)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
}

func TestIndex_ListsSiteDirectories(t *testing.T) {
	build := t.TempDir()
	writeBuild(t, build, map[string]string{
		"acme.com/index.html":  "<h1>acme</h1>",
		"beta.io/package.json": "{}",
		"stray.txt":            "not a site",
	})
	if err := os.Mkdir(filepath.Join(build, "x<y"), 0o755); err != nil {
		t.Fatal(err)
	}
	s := newTestServer(t, &fakeRunner{buildDir: build})

	rec := serve(s, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<h3>Generated Sites</h3>",
		`<li><a href="/acme.com/">acme.com</a></li>`,
		`<li><a href="/beta.io/">beta.io</a></li>`,
		`<a href="/x%3Cy/">x&lt;y</a>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "stray.txt") {
		t.Errorf("listing should only include directories:\n%s", body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestFileServing(t *testing.T) {
	root := t.TempDir()
	build := filepath.Join(root, "build")
	writeBuild(t, build, map[string]string{
		"acme.com/index.html":        "<h1>acme</h1>",
		"acme.com/src/siteData.json": `{"title":"Acme"}`,
		"acme.com/src/main.jsx":      "import React",
		"acme.com/src/styles.css":    "body{}",
		"acme.com/LOGO.PNG":          "png",
		"empty.org/src/App.jsx":      "x",
	})
	writeBuild(t, root, map[string]string{"secret.txt": "secret"})
	s := newTestServer(t, &fakeRunner{buildDir: build})

	tests := []struct {
		name        string
		path        string
		wantStatus  int
		wantType    string
		wantContent string
	}{
		{"directory with slash", "/acme.com/", 200, "text/html; charset=utf-8", "<h1>acme</h1>"},
		{"directory without slash", "/acme.com", 200, "text/html; charset=utf-8", "<h1>acme</h1>"},
		{"explicit index", "/acme.com/index.html", 200, "text/html; charset=utf-8", "<h1>acme</h1>"},
		{"json", "/acme.com/src/siteData.json", 200, "application/json; charset=utf-8", `{"title":"Acme"}`},
		{"css", "/acme.com/src/styles.css", 200, "text/css; charset=utf-8", "body{}"},
		{"unknown extension", "/acme.com/src/main.jsx", 200, "application/octet-stream", "import React"},
		{"uppercase extension", "/acme.com/LOGO.PNG", 200, "image/png", "png"},
		{"missing file", "/acme.com/nope.js", 404, "", "Not Found"},
		{"directory without index", "/empty.org/", 404, "", "Not Found"},
		{"traversal", "/../secret.txt", 404, "", "Not Found"},
		{"encoded traversal", "/%2e%2e/secret.txt", 404, "", "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, http.MethodGet, tt.path, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantType != "" && rec.Header().Get("Content-Type") != tt.wantType {
				t.Errorf("Content-Type = %q, want %q", rec.Header().Get("Content-Type"), tt.wantType)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.wantContent {
				t.Errorf("body = %q, want %q", got, tt.wantContent)
			}
		})
	}
}

func TestFileServing_NotFoundJSON(t *testing.T) {
	s := newTestServer(t, &fakeRunner{buildDir: t.TempDir()})

	rec := serve(s, http.MethodGet, "/missing/", http.Header{"Accept": {"application/json"}})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != "SRV001" {
		t.Errorf("code = %q, want SRV001", resp.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t, &fakeRunner{buildDir: t.TempDir()})
	rec := serve(s, http.MethodGet, "/", nil)

	for header, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}

func TestStatus(t *testing.T) {
	s := newTestServer(t, &fakeRunner{buildDir: "out"})
	rec := serve(s, http.MethodGet, "/api/status", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp StatusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.BuildDir != "out" || resp.Runs.MaxConcurrent != 1 {
		t.Errorf("unexpected status: %+v", resp)
	}
}

func TestRuns(t *testing.T) {
	run := history.Run{ID: uuid.New(), CSVPath: "website.csv", SiteCount: 3}

	tests := []struct {
		name      string
		target    string
		runs      []history.Run
		err       error
		wantCode  int
		wantLimit int
		wantErr   string
	}{
		{"default limit", "/api/runs", []history.Run{run}, nil, 200, history.DefaultRecentLimit, ""},
		{"explicit limit", "/api/runs?limit=5", nil, nil, 200, 5, ""},
		{"invalid limit", "/api/runs?limit=abc", nil, nil, 200, history.DefaultRecentLimit, ""},
		{"capped limit", "/api/runs?limit=100000", nil, nil, 200, maxRunsLimit, ""},
		{"history disabled", "/api/runs", nil, history.ErrDisabled, 404, history.DefaultRecentLimit, "SRV002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{buildDir: t.TempDir(), runs: tt.runs, runsErr: tt.err}
			s := newTestServer(t, runner)
			rec := serve(s, http.MethodGet, tt.target, nil)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if runner.lastLimit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", runner.lastLimit, tt.wantLimit)
			}
			if tt.wantErr != "" {
				var resp ErrorResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if resp.Code != tt.wantErr {
					t.Errorf("code = %q, want %q", resp.Code, tt.wantErr)
				}
				return
			}
			var got []history.Run
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(got) != len(tt.runs) {
				t.Errorf("got %d runs, want %d", len(got), len(tt.runs))
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	result := &core.RunResult{RunID: uuid.New(), Records: 2, Duration: time.Second}

	tests := []struct {
		name     string
		result   *core.RunResult
		err      error
		wantCode int
		wantErr  string
	}{
		{"success", result, nil, 200, ""},
		{"run in progress", nil, core.ErrRunInProgress, 409, "GEN003"},
		{"missing source", nil, fmt.Errorf("%w: website.csv", core.ErrSourceNotFound), 404, "SRC001"},
		{"write failure", nil, errors.New("write file build/a/index.html: read-only file system"), 500, "GEN002"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{buildDir: t.TempDir(), result: tt.result, err: tt.err}
			s := newTestServer(t, runner)
			rec := serve(s, http.MethodPost, "/api/generate", nil)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if !strings.HasPrefix(runner.trigger, "http ") {
				t.Errorf("trigger = %q, want http prefix", runner.trigger)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if tt.wantErr != "" {
				if body["code"] != tt.wantErr {
					t.Errorf("code = %v, want %s", body["code"], tt.wantErr)
				}
				return
			}
			if body["run_id"] != result.RunID.String() {
				t.Errorf("run_id = %v, want %s", body["run_id"], result.RunID)
			}
		})
	}
}

func TestGenerate_BusyServiceReturnsConflict(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Paths: config.PathsConfig{
			CSVPath:  filepath.Join(dir, "website.csv"),
			BuildDir: filepath.Join(dir, "build"),
		},
		Generate: config.GenerateConfig{Concurrency: 1},
		Server:   config.ServerConfig{RequestTimeout: 30 * time.Second},
	}
	writeBuild(t, dir, map[string]string{"website.csv": "domain,title\nacme.com,Acme\n"})

	limiter := core.NewRunLimiter(1, time.Minute)
	svc := core.NewService(cfg, nil, core.WithRunLimiter(limiter))
	s := NewServer(svc, cfg)
	t.Cleanup(func() { s.Shutdown(context.Background()) })

	if !limiter.TryAcquire() {
		t.Fatal("TryAcquire on empty limiter = false")
	}
	start := time.Now()
	rec := serve(s, http.MethodPost, "/api/generate", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("busy request took %v, want immediate", elapsed)
	}
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != "GEN003" {
		t.Errorf("code = %q, want GEN003", body.Code)
	}

	limiter.Release()
	rec = serve(s, http.MethodPost, "/api/generate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status after release = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.BuildDir, "acme.com", "index.html")); err != nil {
		t.Errorf("site not generated: %v", err)
	}
}

func TestGenerate_RateLimited(t *testing.T) {
	runner := &fakeRunner{buildDir: t.TempDir(), result: &core.RunResult{}}
	s := newTestServer(t, runner)

	var last *httptest.ResponseRecorder
	for i := 0; i < 11; i++ {
		last = serve(s, http.MethodPost, "/api/generate", nil)
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)
	defer rl.stop()

	if !rl.allow("a") || !rl.allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.allow("a") {
		t.Error("third request should be limited")
	}
	if !rl.allow("b") {
		t.Error("other clients should not share the budget")
	}
	rl.stop()
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: a.csv", core.ErrSourceNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: a.csv", core.ErrSourceTooLarge), http.StatusRequestEntityTooLarge},
		{fmt.Errorf("%w: dir", core.ErrSourceNotFile), http.StatusUnprocessableEntity},
		{core.ErrRunInProgress, http.StatusConflict},
		{history.ErrDisabled, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
