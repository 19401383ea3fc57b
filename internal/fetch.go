package internal

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/rm-hull/photo-editor/internal/codec"
	"github.com/rm-hull/photo-editor/internal/pixel"
)

// DefaultMaxImageBytes bounds remote downloads and uploads.
const DefaultMaxImageBytes = 32 << 20

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ImageFetcher loads an image from a URL.
type ImageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*pixel.Buffer, error)
}

type RemoteImageFetcher struct {
	client   HTTPClient
	maxBytes int64
}

func NewImageFetcher(maxBytes int64) ImageFetcher {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &RemoteImageFetcher{
		client:   &http.Client{},
		maxBytes: maxBytes,
	}
}

func (f *RemoteImageFetcher) Fetch(ctx context.Context, rawURL string) (*pixel.Buffer, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: unsupported image url %q", pixel.ErrPrecondition, rawURL)
	}

	body, err := f.get(ctx, u.String())
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = body.Close()
	}()

	buf, _, err := codec.Decode(LimitReader(body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to load image from %s: %w", u, err)
	}
	return buf, nil
}

func (f *RemoteImageFetcher) get(ctx context.Context, url string) (io.ReadCloser, error) {
	log.Printf("Retrieving: %s", url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	res, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", url, err)
	}

	if res.StatusCode > 299 {
		_ = res.Body.Close()
		return nil, fmt.Errorf("http status response from %s: %s", url, res.Status)
	}

	return res.Body, nil
}

// ErrTooLarge is returned by readers from LimitReader once the limit is
// exceeded.
var ErrTooLarge = fmt.Errorf("%w: input exceeds size limit", pixel.ErrPrecondition)

type limitedReader struct {
	r io.Reader
	n int64
}

// LimitReader reads at most n bytes from r and fails with ErrTooLarge,
// rather than a silent EOF, if r holds more.
func LimitReader(r io.Reader, n int64) io.Reader {
	return &limitedReader{r: r, n: n}
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.n < 0 {
		return 0, ErrTooLarge
	}
	if int64(len(p)) > l.n+1 {
		p = p[:l.n+1]
	}
	n, err := l.r.Read(p)
	l.n -= int64(n)
	if l.n < 0 {
		return n, ErrTooLarge
	}
	return n, err
}
