// Package shaderload fetches shader sources by name from a base URL or a
// file system.
package shaderload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StatusError reports a non-2xx response. A 404 matches fs.ErrNotExist.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Is(target error) bool {
	return target == fs.ErrNotExist && e.StatusCode == http.StatusNotFound
}

type Loader struct {
	base    *url.URL
	fsys    fs.FS
	client  *http.Client
	retries int
	backOff func() backoff.BackOff
	log     *zap.Logger
}

type Option func(*Loader)

func WithHTTPClient(c *http.Client) Option {
	return func(l *Loader) { l.client = c }
}

// WithRetries sets how many times a failed fetch is repeated. Missing
// files are never retried.
func WithRetries(n int) Option {
	return func(l *Loader) { l.retries = max(0, n) }
}

// WithBackOff replaces the exponential policy used between retries.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(l *Loader) { l.backOff = newBackOff }
}

func WithLogger(log *zap.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// New picks the source from location: an http(s) URL is fetched over the
// network, any other non-empty value is a directory, and an empty value
// falls back to fallback.
func New(location string, fallback fs.FS, opts ...Option) (*Loader, error) {
	switch {
	case location == "":
		if fallback == nil {
			return nil, errors.New("shaderload: no location and no fallback")
		}
		return NewFS(fallback, opts...), nil
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return NewHTTP(location, opts...)
	default:
		return NewFS(os.DirFS(location), opts...), nil
	}
}

func NewFS(fsys fs.FS, opts ...Option) *Loader {
	l := newLoader(opts)
	l.fsys = fsys
	return l
}

func NewHTTP(base string, opts ...Option) (*Loader, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("shaderload: parse base %q: %w", base, err)
	}
	l := newLoader(opts)
	l.base = u
	return l, nil
}

func newLoader(opts []Option) *Loader {
	l := &Loader{
		client:  http.DefaultClient,
		backOff: defaultBackOff,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func defaultBackOff() backoff.BackOff {
	return backoff.NewExponentialBackOff()
}

// Location describes where sources are read from.
func (l *Loader) Location() string {
	if l.base != nil {
		return l.base.String()
	}
	return "fs"
}

// Load returns the source named name.
func (l *Loader) Load(ctx context.Context, name string) (string, error) {
	start := time.Now()
	var src string
	op := func() error {
		var err error
		src, err = l.fetch(ctx, name)
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, context.Canceled) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		l.log.Warn("retrying shader fetch",
			zap.String("name", name),
			zap.Duration("wait", wait),
			zap.Error(err))
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(l.backOff(), uint64(l.retries)), ctx)
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return "", fmt.Errorf("load shader %s from %s: %w", name, l.Location(), err)
	}
	l.log.Debug("loaded shader",
		zap.String("name", name),
		zap.Int("bytes", len(src)),
		zap.Duration("took", time.Since(start)))
	return src, nil
}

func (l *Loader) fetch(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if l.base == nil {
		b, err := fs.ReadFile(l.fsys, name)
		return string(b), err
	}

	u := l.base.JoinPath(name).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", &StatusError{URL: u, StatusCode: resp.StatusCode}
	}
	b, err := io.ReadAll(resp.Body)
	return string(b), err
}

// LoadAll fetches every name concurrently and returns the sources in the
// same order once all have arrived. The first failure cancels the rest.
func (l *Loader) LoadAll(ctx context.Context, names ...string) ([]string, error) {
	out := make([]string, len(names))
	g, ctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			src, err := l.Load(ctx, name)
			if err != nil {
				return err
			}
			out[i] = src
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
