package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/backend-grocer/internal/resilience"
)

const (
	defaultExt      = ".jpg"
	maxNameRunes    = 50
	defaultMaxBytes = 10 << 20
)

var (
	// ErrTooLarge is returned when an image exceeds the configured size cap.
	ErrTooLarge = errors.New("images: image exceeds size limit")
	// ErrEmptyRef is returned for a blank image reference.
	ErrEmptyRef = errors.New("images: empty image reference")

	unsafeName = regexp.MustCompile(`[^a-zA-Z0-9]`)
	safeExt    = regexp.MustCompile(`^\.[a-zA-Z0-9]{1,5}$`)
)

// Ref identifies one product image to fetch.
type Ref struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	ImageRef  string `json:"image_ref"`
}

// Outcome is the result label of a fetch.
type Outcome string

const (
	Downloaded Outcome = "downloaded"
	Skipped    Outcome = "skipped"
	Failed     Outcome = "failed"
)

// Result describes a completed fetch.
type Result struct {
	Outcome Outcome
	Path    string
	Bytes   int64
}

// Fetcher downloads product images into Dir.
type Fetcher struct {
	HTTP     resilience.HTTPClient
	Dir      string
	MaxBytes int64
}

// NewFetcher builds a fetcher with a traced transport, retries and a breaker
// around the image hosts.
func NewFetcher(dir string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		HTTP: resilience.HTTPClient{
			Client:      &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
			Breaker:     resilience.NewBreaker(resilience.BreakerConfig{Target: "images", MinRequests: 5, FailureRatio: 0.5, OpenFor: 30 * time.Second}),
			BaseBackoff: 200 * time.Millisecond,
			MaxAttempts: 3,
			Jitter:      0.2,
			Timeout:     timeout,
		},
		Dir:      dir,
		MaxBytes: defaultMaxBytes,
	}
}

// IsURL reports whether ref is an http(s) URL.
func IsURL(ref string) bool {
	ref = strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// FileName returns product_<id>_<name><ext>: the name truncated to 50 runes
// with every non-alphanumeric replaced by '_', the extension taken from the
// reference path and defaulting to .jpg.
func FileName(productID int64, name, ref string) string {
	runes := []rune(name)
	if len(runes) > maxNameRunes {
		runes = runes[:maxNameRunes]
	}
	safe := unsafeName.ReplaceAllString(string(runes), "_")
	return fmt.Sprintf("product_%d_%s%s", productID, safe, extension(ref))
}

func extension(ref string) string {
	p := ref
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		p = u.Path
	}
	ext := path.Ext(p)
	if !safeExt.MatchString(ext) {
		return defaultExt
	}
	return strings.ToLower(ext)
}

// Fetch downloads ref into Dir. Local paths are not read and report Skipped.
func (f *Fetcher) Fetch(ctx context.Context, ref Ref) (Result, error) {
	if f == nil || f.HTTP.Client == nil {
		return Result{Outcome: Failed}, errors.New("image fetcher not configured")
	}
	src := strings.TrimSpace(ref.ImageRef)
	if src == "" {
		return Result{Outcome: Failed}, ErrEmptyRef
	}
	if !IsURL(src) {
		return Result{Outcome: Skipped}, nil
	}
	if err := os.MkdirAll(f.Dir, 0o755); err != nil {
		return Result{Outcome: Failed}, fmt.Errorf("create image dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return Result{Outcome: Failed}, fmt.Errorf("build image request: %w", err)
	}
	resp, err := f.HTTP.Do(ctx, req)
	if err != nil {
		return Result{Outcome: Failed}, fmt.Errorf("fetch %s: %w", src, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{Outcome: Failed}, &resilience.StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	dest := filepath.Join(f.Dir, FileName(ref.ProductID, ref.Name, src))
	n, err := f.writeFile(dest, resp.Body)
	if err != nil {
		return Result{Outcome: Failed}, err
	}
	return Result{Outcome: Downloaded, Path: dest, Bytes: n}, nil
}

// writeFile streams into a temp file in the same directory and renames it so
// readers never observe a partial image.
func (f *Fetcher) writeFile(dest string, body io.Reader) (int64, error) {
	limit := f.MaxBytes
	if limit <= 0 {
		limit = defaultMaxBytes
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".fetch-*")
	if err != nil {
		return 0, fmt.Errorf("create temp image: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	n, err := io.Copy(tmp, io.LimitReader(body, limit+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("write image: %w", err)
	}
	if n > limit {
		return 0, ErrTooLarge
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return 0, fmt.Errorf("store image: %w", err)
	}
	return n, nil
}
