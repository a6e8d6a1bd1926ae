package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/natefinch/atomic"

	appLog "icsshift/internal/log"
)

// Stdio is the location naming stdin (for Load) or stdout (for Store).
const Stdio = "-"

const defaultTimeout = 15 * time.Second

var ErrExists = errors.New("output already exists")

// Loader reads calendar data from a path, stdin or an http(s) URL.
type Loader struct {
	client *http.Client
	stdin  io.Reader
}

// NewLoader creates a Loader whose HTTP requests time out after timeout
// (15s if zero).
func NewLoader(timeout time.Duration) *Loader {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Loader{
		client: &http.Client{Timeout: timeout},
		stdin:  os.Stdin,
	}
}

// WithStdin replaces the reader used for "-".
func (l *Loader) WithStdin(r io.Reader) *Loader {
	l.stdin = r
	return l
}

// Load returns the full contents of location.
func (l *Loader) Load(ctx context.Context, location string) ([]byte, error) {
	switch {
	case location == "":
		return nil, errors.New("input location is empty")
	case location == Stdio:
		return io.ReadAll(l.stdin)
	case isURL(location):
		return l.fetch(ctx, location)
	default:
		return os.ReadFile(location)
	}
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/calendar")

	appLog.Info("ics fetch start", "url", redactURL(url))

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: %s", redactURL(url), resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	appLog.Info("ics fetch success", "url", redactURL(url), "bytes", len(body))
	return body, nil
}

// CheckWritable fails with ErrExists when path exists and force is false.
// Stdout is always writable.
func CheckWritable(path string, force bool) error {
	if path == Stdio || force {
		return nil
	}
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrExists, path)
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return err
	}
}

// Store writes data to path atomically (temp file + rename) so a failed run
// never leaves a truncated file. "-" writes to stdout.
func Store(path string, data []byte, stdout io.Writer) error {
	if path == Stdio {
		_, err := stdout.Write(data)
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return err
	}
	return nil
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// redactURL hides path and query of a feed URL, which often embed tokens.
//
//	https://example.com/private/abcd.ics?token=x -> https://example.com/...(redacted)
func redactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	i := strings.Index(u, "://")
	if i == -1 {
		return "ics://...(redacted)"
	}
	rest := u[i+3:]
	if j := strings.IndexAny(rest, "/?#"); j >= 0 {
		rest = rest[:j]
	}
	return u[:i+3] + rest + redactedSuffix
}
