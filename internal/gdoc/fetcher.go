package gdoc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Fetcher retrieves the rendered HTML export of an external document.
// Publish calls it best-effort: any error means "publish without the HTML".
type Fetcher interface {
	FetchHTML(ctx context.Context, docID string) (string, error)
}

var ErrInvalidDocID = errors.New("gdoc: invalid doc id")

// maxExportBytes bounds the export body; published HTML lands in a table row.
const maxExportBytes = 2 << 20

// HTTPFetcher exports documents from a configured endpoint, e.g. a Google Docs
// export proxy.
type HTTPFetcher struct {
	base   string
	client *http.Client
}

func NewHTTPFetcher(baseURL string, timeout time.Duration) (*HTTPFetcher, error) {
	if baseURL == "" {
		return nil, errors.New("gdoc export base url is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		base:   baseURL,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (f *HTTPFetcher) FetchHTML(ctx context.Context, docID string) (string, error) {
	if docID == "" {
		return "", ErrInvalidDocID
	}

	u := fmt.Sprintf("%s/%s/export?format=html", f.base, url.PathEscape(docID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gdoc export returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxExportBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
