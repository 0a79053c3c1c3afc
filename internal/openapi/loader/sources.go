package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"
)

// maxDocumentSize bounds remote payloads.
const maxDocumentSize = 16 << 20

const acceptDocuments = "application/yaml, application/json;q=0.9, */*;q=0.5"

func readFile(_ context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

func fsReader(files fs.FS) fetcher {
	return func(_ context.Context, name string) ([]byte, error) {
		if files == nil {
			return nil, errors.New("filesystem is not configured")
		}
		return fs.ReadFile(files, name)
	}
}

// httpGetter fetches documents over HTTP. Bodies over limit bytes fail with
// ErrDocumentTooLarge instead of being cut short.
func httpGetter(client *http.Client, timeout time.Duration, limit int64) fetcher {
	return func(ctx context.Context, url string) ([]byte, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", acceptDocuments)

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() {
			_ = resp.Body.Close()
		}()

		if resp.StatusCode/100 != 2 {
			return nil, fmt.Errorf("unexpected status %s", resp.Status)
		}
		data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
		if err != nil {
			return nil, err
		}
		if int64(len(data)) > limit {
			return nil, fmt.Errorf("%w: more than %d bytes", ErrDocumentTooLarge, limit)
		}
		return data, nil
	}
}
