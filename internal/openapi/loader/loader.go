package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	pkgopenapi "github.com/goliatone/go-formdata/pkg/openapi"
)

// ErrHTTPDisabled is returned for URL sources when no HTTP client was
// configured.
var ErrHTTPDisabled = errors.New("openapi loader: http support disabled")

// ErrDocumentTooLarge is returned when a remote document exceeds the size
// limit.
var ErrDocumentTooLarge = errors.New("openapi loader: document too large")

// fetcher reads the raw bytes behind one kind of source location.
type fetcher func(ctx context.Context, location string) ([]byte, error)

// Loader implements pkgopenapi.Loader over files, an fs.FS and HTTP.
type Loader struct {
	fetchers map[pkgopenapi.SourceKind]fetcher
	logger   logrus.FieldLogger
}

var _ pkgopenapi.Loader = (*Loader)(nil)

// New constructs a Loader from resolved options. URL sources are only
// accepted when a client was injected or the HTTP fallback is enabled.
func New(options pkgopenapi.LoaderOptions) *Loader {
	logger := options.Logger
	if logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		logger = discard
	}

	l := &Loader{
		fetchers: map[pkgopenapi.SourceKind]fetcher{
			pkgopenapi.SourceKindFile: readFile,
			pkgopenapi.SourceKindFS:   fsReader(options.FileSystem),
		},
		logger: logger,
	}
	if client := httpClient(options); client != nil {
		l.fetchers[pkgopenapi.SourceKindURL] = httpGetter(client, options.RequestTimeout, maxDocumentSize)
	}
	return l
}

func httpClient(options pkgopenapi.LoaderOptions) *http.Client {
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if clone.Timeout == 0 {
			clone.Timeout = options.RequestTimeout
		}
		return &clone
	case options.AllowHTTPFallback:
		return &http.Client{Timeout: options.RequestTimeout}
	default:
		return nil
	}
}

// Load reads the source and wraps it in a Document.
func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, errors.New("openapi loader: source is nil")
	}

	fetch, ok := l.fetchers[src.Kind()]
	if !ok {
		if src.Kind() == pkgopenapi.SourceKindURL {
			return pkgopenapi.Document{}, ErrHTTPDisabled
		}
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: unsupported source kind %q", src.Kind())
	}
	if src.Location() == "" {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: %s location is required", src.Kind())
	}
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Document{}, err
	}

	data, err := fetch(ctx, src.Location())
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: %s %s: %w", src.Kind(), src.Location(), err)
	}

	l.logger.WithFields(logrus.Fields{
		"kind":     src.Kind(),
		"location": src.Location(),
		"bytes":    len(data),
	}).Debug("openapi loader: document loaded")

	return pkgopenapi.NewDocument(src, data)
}
