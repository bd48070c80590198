// Package profile looks up character profile pages to decorate names in the
// log header. Lookups are best effort: callers run them in the background and
// carry on without the result when they fail.
package profile

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/DaylightE/Log-Highlighter/internal/logging"
	"github.com/DaylightE/Log-Highlighter/internal/store"
)

// DefaultBaseURL is the site that hosts character profiles.
const DefaultBaseURL = "https://www.f-list.net"

// maxPageBytes caps how much of a profile page is read.
const maxPageBytes = 4 << 20

// Cache stores lookup results between runs.
type Cache interface {
	GetProfile(ctx context.Context, name string) (store.Profile, bool, error)
	UpsertProfile(ctx context.Context, p store.Profile) error
}

// Options configures a Client. Zero values pick sensible defaults.
type Options struct {
	BaseURL           string
	HTTPClient        *http.Client
	RequestsPerSecond float64
	Burst             int
	Concurrency       int
	CacheTTL          time.Duration
	Cache             Cache
	Logger            *slog.Logger
}

// Client fetches and parses profile pages.
type Client struct {
	base        string
	http        *http.Client
	limiter     *rate.Limiter
	concurrency int
	ttl         time.Duration
	cache       Cache
	log         *slog.Logger

	mu     sync.Mutex
	memory map[string]Gender
}

// NewClient builds a Client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 2
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 7 * 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Client{
		base:        strings.TrimRight(opts.BaseURL, "/"),
		http:        opts.HTTPClient,
		limiter:     rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		concurrency: opts.Concurrency,
		ttl:         opts.CacheTTL,
		cache:       opts.Cache,
		log:         opts.Logger,
		memory:      make(map[string]Gender),
	}
}

// URL returns the profile page address for name.
func (c *Client) URL(name string) string {
	return ProfileURL(c.base, name)
}

// ProfileURL returns the profile page address for name under base.
func ProfileURL(base, name string) string {
	return strings.TrimRight(base, "/") + "/c/" + url.PathEscape(strings.TrimSpace(name))
}

// Lookup returns the gender shown on name's profile. Results are memoised
// for the life of the Client and cached in the store for CacheTTL.
func (c *Client) Lookup(ctx context.Context, name string) (Gender, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return GenderUnknown, errors.New("empty name")
	}
	key := strings.ToLower(name)

	c.mu.Lock()
	g, ok := c.memory[key]
	c.mu.Unlock()
	if ok {
		return g, nil
	}

	if c.cache != nil {
		p, ok, err := c.cache.GetProfile(ctx, name)
		if err != nil {
			c.log.Warn("profile cache read failed", "name", name, "error", err)
		} else if ok && time.Since(p.FetchedAt) < c.ttl {
			g := Canonical(p.Gender)
			c.remember(key, g)
			return g, nil
		}
	}

	g, err := c.fetch(ctx, name)
	if err != nil {
		return GenderUnknown, err
	}
	c.remember(key, g)
	if c.cache != nil && g != GenderUnknown {
		if err := c.cache.UpsertProfile(ctx, store.Profile{Name: name, Gender: string(g), FetchedAt: time.Now()}); err != nil {
			c.log.Warn("profile cache write failed", "name", name, "error", err)
		}
	}
	return g, nil
}

func (c *Client) remember(key string, g Gender) {
	c.mu.Lock()
	c.memory[key] = g
	c.mu.Unlock()
}

func (c *Client) fetch(ctx context.Context, name string) (Gender, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return GenderUnknown, errors.Wrap(err, "rate limiter")
	}
	u := c.URL(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return GenderUnknown, errors.Wrapf(err, "build request for %s", u)
	}
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return GenderUnknown, errors.Wrapf(err, "fetch profile %s", name)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return GenderUnknown, errors.Errorf("fetch profile %s: unexpected status %s", name, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return GenderUnknown, errors.Wrapf(err, "read profile %s", name)
	}
	g := ParseGender(string(body))
	c.log.Debug("profile fetched", "name", name, "gender", string(g), "took", time.Since(start))
	return g, nil
}

// LookupAll resolves several names concurrently. Names whose lookup fails
// or yields no gender are absent from the result.
func (c *Client) LookupAll(ctx context.Context, names []string) map[string]Gender {
	out := make(map[string]Gender, len(names))
	var mu sync.Mutex

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(c.concurrency)
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true
		grp.Go(func() error {
			g, err := c.Lookup(ctx, name)
			if err != nil {
				c.log.Info("profile lookup failed", "name", name, "error", err)
				return nil
			}
			if g == GenderUnknown {
				return nil
			}
			mu.Lock()
			out[name] = g
			mu.Unlock()
			return nil
		})
	}
	_ = grp.Wait()
	return out
}
