package constants

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// DefaultTTL is how long a cached dataset is trusted before it is
// revalidated against the upstream patch manifest.
const DefaultTTL = 48 * time.Hour

// CacheOptions configures a Cache. Zero-value fields get defaults.
type CacheOptions struct {
	// Client fetches upstream documents. If nil, a client for the
	// OpenDota default URL is used.
	Client *Client

	// Clock drives freshness decisions. If nil, system time is used.
	Clock Clock

	// TTL is the revalidation window. If zero, DefaultTTL.
	TTL time.Duration

	Logger zerolog.Logger
}

func (o *CacheOptions) applyDefaults() {
	if o.Client == nil {
		o.Client = NewClient("", o.Logger)
	}
	if o.Clock == nil {
		o.Clock = RealClock{}
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
}

// Cache is the on-disk, version-gated cooldown cache. Each family keeps two
// documents under the cache directory: the minified dataset and a freshness
// marker holding an expiry instant plus the patch tag the data was fetched
// under. Once the expiry passes, the cache is revalidated against the
// upstream patch manifest; an unchanged patch only renews the marker, a new
// patch replaces the dataset wholesale. Concurrent invocations racing on
// the same directory are last-writer-wins.
type Cache struct {
	dir    string
	client *Client
	clock  Clock
	ttl    time.Duration
	log    zerolog.Logger
}

// NewCache returns a Cache rooted at dir, creating the directory if needed.
func NewCache(dir string, opts CacheOptions) (*Cache, error) {
	opts.applyDefaults()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
	}
	return &Cache{
		dir:    dir,
		client: opts.Client,
		clock:  opts.Clock,
		ttl:    opts.TTL,
		log:    opts.Logger,
	}, nil
}

// marker is the persisted freshness document.
type marker struct {
	Timestamp time.Time `json:"timestamp"`
	Patch     string    `json:"patch"`
}

// Resolve returns the cooldown value(s) for identifier within family, one
// duration per level for leveled abilities. forceRefresh bypasses the local
// cache entirely.
func (c *Cache) Resolve(ctx context.Context, family, identifier string, forceRefresh bool) ([]time.Duration, error) {
	if identifier == "" {
		return nil, &MissingIdentifierError{Family: family}
	}

	data, err := c.dataset(ctx, family, forceRefresh)
	if err != nil {
		return nil, err
	}

	cd := gjson.GetBytes(data, escapePath(identifier)+".cd")
	if !cd.Exists() {
		return nil, &NotFoundError{Family: family, Identifier: identifier}
	}
	values, err := cooldowns(cd)
	if err != nil {
		return nil, &FetchError{URL: c.client.FamilyURL(family), Err: fmt.Errorf("cooldown for %q: %w", identifier, err)}
	}
	return values, nil
}

// dataset serves the family dataset from disk when its marker is fresh,
// renews the marker when the upstream patch is unchanged, and refetches
// otherwise.
func (c *Cache) dataset(ctx context.Context, family string, forceRefresh bool) ([]byte, error) {
	dataPath := filepath.Join(c.dir, family+"_cache.json")
	markerPath := filepath.Join(c.dir, family+"_timestamp.json")

	if forceRefresh {
		return c.refresh(ctx, family, dataPath, markerPath, "")
	}

	m, err := c.readMarker(markerPath)
	if err != nil {
		return c.refresh(ctx, family, dataPath, markerPath, "")
	}

	now := c.clock.Now()
	if now.Before(m.Timestamp) {
		if data, ok := c.readDataset(dataPath); ok {
			c.log.Debug().Str("family", family).Msg("cache hit")
			return data, nil
		}
		return c.refresh(ctx, family, dataPath, markerPath, "")
	}

	// Marker expired: only refetch the dataset if a newer patch exists.
	patch, err := c.client.LatestPatch(ctx)
	if err != nil {
		return nil, err
	}
	if patch == m.Patch {
		if data, ok := c.readDataset(dataPath); ok {
			if err := c.writeMarker(markerPath, patch); err != nil {
				return nil, err
			}
			c.log.Debug().Str("family", family).Str("patch", patch).Msg("cache revalidated, patch unchanged")
			return data, nil
		}
	}
	return c.refresh(ctx, family, dataPath, markerPath, patch)
}

// refresh fetches the family dataset and replaces the persisted pair. The
// dataset is renamed into place before the marker so a marker never attests
// to data that is not on disk.
func (c *Cache) refresh(ctx context.Context, family, dataPath, markerPath, patch string) ([]byte, error) {
	data, err := c.client.FetchFamily(ctx, family)
	if err != nil {
		return nil, err
	}
	if patch == "" {
		if patch, err = c.client.LatestPatch(ctx); err != nil {
			return nil, err
		}
	}

	mini := []byte(gjson.GetBytes(data, "@ugly").Raw)
	if err := writeFileAtomic(dataPath, mini); err != nil {
		return nil, err
	}
	if err := c.writeMarker(markerPath, patch); err != nil {
		return nil, err
	}
	c.log.Info().Str("family", family).Str("patch", patch).Msg("constants cache refreshed")
	return mini, nil
}

func (c *Cache) readMarker(path string) (marker, error) {
	var m marker
	data, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, err
	}
	if m.Timestamp.IsZero() || m.Patch == "" {
		return m, fmt.Errorf("marker %s is incomplete", path)
	}
	return m, nil
}

func (c *Cache) writeMarker(path, patch string) error {
	data, err := json.Marshal(marker{Timestamp: c.clock.Now().Add(c.ttl), Patch: patch})
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

func (c *Cache) readDataset(path string) ([]byte, bool) {
	data, err := os.ReadFile(path)
	if err != nil || !gjson.ValidBytes(data) {
		return nil, false
	}
	return data, true
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// cooldowns normalizes a "cd" value into ordered durations. The upstream
// encodes flat cooldowns as a number or numeric string, and leveled ones as
// an array or a space-separated string.
func cooldowns(cd gjson.Result) ([]time.Duration, error) {
	switch {
	case cd.IsArray():
		arr := cd.Array()
		out := make([]time.Duration, 0, len(arr))
		for _, v := range arr {
			d, err := secondsValue(v)
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("empty cooldown list")
		}
		return out, nil
	case cd.Type == gjson.String && strings.ContainsAny(cd.Str, " "):
		fields := strings.Fields(cd.Str)
		out := make([]time.Duration, 0, len(fields))
		for _, f := range fields {
			d, err := secondsValue(gjson.Result{Type: gjson.String, Str: f})
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
		return out, nil
	default:
		d, err := secondsValue(cd)
		if err != nil {
			return nil, err
		}
		return []time.Duration{d}, nil
	}
}

func secondsValue(v gjson.Result) (time.Duration, error) {
	switch v.Type {
	case gjson.Number:
		return time.Duration(v.Num * float64(time.Second)), nil
	case gjson.String:
		secs, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, fmt.Errorf("non-numeric value %q", v.Str)
		}
		return time.Duration(secs * float64(time.Second)), nil
	default:
		return 0, fmt.Errorf("unexpected value %s", v.Raw)
	}
}

// escapePath escapes gjson path metacharacters so identifiers are treated
// as literal keys.
func escapePath(key string) string {
	r := strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)
	return r.Replace(key)
}
