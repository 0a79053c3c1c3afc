package loader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	pkgopenapi "github.com/goliatone/go-formdata/pkg/openapi"
)

const payload = "openapi: 3.0.3\ninfo: {title: t, version: '1'}\npaths: {}\n"

func TestLoader_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.yaml")
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := New(pkgopenapi.NewLoaderOptions()).Load(context.Background(), pkgopenapi.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != payload {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}
	if doc.Location() != path {
		t.Fatalf("unexpected location %q", doc.Location())
	}
}

func TestLoader_FS(t *testing.T) {
	files := fstest.MapFS{"specs/api.yaml": {Data: []byte(payload)}}
	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(files)))

	if _, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("specs/api.yaml")); err != nil {
		t.Fatalf("load: %v", err)
	}
	_, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "openapi loader: fs missing.yaml") {
		t.Fatalf("expected wrapped fs error, got %v", err)
	}

	unconfigured := New(pkgopenapi.NewLoaderOptions())
	_, err = unconfigured.Load(context.Background(), pkgopenapi.SourceFromFS("specs/api.yaml"))
	if err == nil || !strings.Contains(err.Error(), "filesystem is not configured") {
		t.Fatalf("expected missing filesystem error, got %v", err)
	}
}

func TestLoader_HTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	disabled := New(pkgopenapi.NewLoaderOptions())
	if _, err := disabled.Load(context.Background(), pkgopenapi.SourceFromURL(server.URL+"/api.yaml")); !errors.Is(err, ErrHTTPDisabled) {
		t.Fatalf("expected http to be disabled by default")
	}

	l := New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithHTTPClient(server.Client()), pkgopenapi.WithHTTPFallback(time.Second)))
	doc, err := l.Load(context.Background(), pkgopenapi.SourceFromURL(server.URL+"/api.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != payload {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}

	if _, err := l.Load(context.Background(), pkgopenapi.SourceFromURL(server.URL+"/missing")); err == nil {
		t.Fatalf("expected status error")
	}
}

func TestHTTPGetter_RejectsOversizedDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	size := int64(len(payload))
	if _, err := httpGetter(server.Client(), time.Second, size-1)(context.Background(), server.URL); !errors.Is(err, ErrDocumentTooLarge) {
		t.Fatalf("expected ErrDocumentTooLarge, got %v", err)
	}

	data, err := httpGetter(server.Client(), time.Second, size)(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("document at the limit: %v", err)
	}
	if string(data) != payload {
		t.Fatalf("unexpected payload %q", data)
	}
}

func TestLoader_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(pkgopenapi.NewLoaderOptions()).Load(ctx, pkgopenapi.SourceFromFile("api.yaml")); err == nil {
		t.Fatalf("expected context error")
	}
}
