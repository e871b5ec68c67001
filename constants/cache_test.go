package constants_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/dotatools/roshclip/constants"
)

// fakeUpstream serves a constants database and counts requests per path.
type fakeUpstream struct {
	srv *httptest.Server

	mu    sync.Mutex
	hits  map[string]int
	patch string
	docs  map[string]string
}

func newFakeUpstream(t *testing.T) *fakeUpstream {
	t.Helper()
	f := &fakeUpstream{
		hits:  make(map[string]int),
		patch: "7.36",
		docs: map[string]string{
			"items":     `{"blink": {"cd": 15}, "black_king_bar": {"cd": "10 9.5 9 8.5 8 7.5"}}`,
			"abilities": `{"faceless_void_chronosphere": {"cd": [140, 130, 120]}, "pudge_rot": {"cd": 0}}`,
		},
	}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.URL.Path]++
		patch := f.patch
		doc, ok := f.docs[familyOf(r.URL.Path)]
		f.mu.Unlock()

		if r.URL.Path == "/patchnotes.json" {
			// Document order matters: the last key is the newest patch.
			fmt.Fprintf(w, `{"7.35": {}, %q: {}}`, patch)
			return
		}
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, doc)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func familyOf(path string) string {
	name := filepath.Base(path)
	return name[:len(name)-len(".json")]
}

func (f *fakeUpstream) hitCount(family string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits["/"+family+".json"]
}

func (f *fakeUpstream) setPatch(patch string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patch = patch
}

func (f *fakeUpstream) setDoc(family, doc string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[family] = doc
}

func newTestCache(t *testing.T, f *fakeUpstream, dir string, clock constants.Clock) *constants.Cache {
	t.Helper()
	cache, err := constants.NewCache(dir, constants.CacheOptions{
		Client: constants.NewClient(f.srv.URL+"/", zerolog.Nop()),
		Clock:  clock,
	})
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	return cache
}

// seedCache writes a dataset and marker pair the way a previous run would
// have left them.
func seedCache(t *testing.T, dir, family, data, patch string, expiry time.Time) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, family+"_cache.json"), []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	marker := fmt.Sprintf(`{"timestamp": %q, "patch": %q}`, expiry.Format(time.RFC3339), patch)
	if err := os.WriteFile(filepath.Join(dir, family+"_timestamp.json"), []byte(marker), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readMarker(t *testing.T, dir, family string) (time.Time, string) {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(dir, family+"_timestamp.json"))
	if err != nil {
		t.Fatalf("reading marker: %v", err)
	}
	var m struct {
		Timestamp time.Time `json:"timestamp"`
		Patch     string    `json:"patch"`
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshaling marker: %v", err)
	}
	return m.Timestamp, m.Patch
}

func TestResolve_MissingIdentifierBeforeAnyIO(t *testing.T) {
	f := newFakeUpstream(t)
	cache := newTestCache(t, f, t.TempDir(), nil)

	_, err := cache.Resolve(context.Background(), "items", "", false)
	var missing *constants.MissingIdentifierError
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingIdentifierError, got %v", err)
	}
	if f.hitCount("items") != 0 || f.hitCount("patchnotes") != 0 {
		t.Error("no upstream request may happen before the precondition check")
	}
}

func TestResolve_ColdCacheFetchesAndPersists(t *testing.T) {
	f := newFakeUpstream(t)
	dir := t.TempDir()
	now := time.Now()
	cache := newTestCache(t, f, dir, &constants.TestClock{CurrentTime: now})

	got, err := cache.Resolve(context.Background(), "items", "blink", false)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 1 || got[0] != 15*time.Second {
		t.Errorf("Resolve = %v, want [15s]", got)
	}
	if f.hitCount("items") != 1 {
		t.Errorf("items fetched %d times, want 1", f.hitCount("items"))
	}

	expiry, patch := readMarker(t, dir, "items")
	if !expiry.After(now) {
		t.Errorf("marker expiry %v is not in the future", expiry)
	}
	if patch != "7.36" {
		t.Errorf("marker patch = %q, want 7.36", patch)
	}
	data, err := os.ReadFile(filepath.Join(dir, "items_cache.json"))
	if err != nil {
		t.Fatalf("dataset not persisted: %v", err)
	}
	if string(data) != `{"blink":{"cd":15},"black_king_bar":{"cd":"10 9.5 9 8.5 8 7.5"}}` {
		t.Errorf("dataset not minified: %q", data)
	}
}

func TestResolve_FreshMarkerMakesNoUpstreamCalls(t *testing.T) {
	f := newFakeUpstream(t)
	dir := t.TempDir()
	now := time.Now()
	seedCache(t, dir, "items", `{"blink":{"cd":15}}`, "7.36", now.Add(time.Hour))
	cache := newTestCache(t, f, dir, &constants.TestClock{CurrentTime: now})

	got, err := cache.Resolve(context.Background(), "items", "blink", false)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 1 || got[0] != 15*time.Second {
		t.Errorf("Resolve = %v, want [15s]", got)
	}
	if f.hitCount("items") != 0 || f.hitCount("patchnotes") != 0 {
		t.Errorf("fresh cache still reached upstream: items=%d patchnotes=%d",
			f.hitCount("items"), f.hitCount("patchnotes"))
	}
}

func TestResolve_ExpiredMarkerSamePatchOnlyRenewsMarker(t *testing.T) {
	f := newFakeUpstream(t)
	dir := t.TempDir()
	now := time.Now()
	// The seeded dataset differs from upstream so a refetch would be visible.
	seedCache(t, dir, "items", `{"blink":{"cd":12}}`, "7.36", now.Add(-time.Hour))
	cache := newTestCache(t, f, dir, &constants.TestClock{CurrentTime: now})

	got, err := cache.Resolve(context.Background(), "items", "blink", false)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 1 || got[0] != 12*time.Second {
		t.Errorf("Resolve = %v, want the cached [12s]", got)
	}
	if f.hitCount("patchnotes") != 1 {
		t.Errorf("patch manifest fetched %d times, want exactly 1", f.hitCount("patchnotes"))
	}
	if f.hitCount("items") != 0 {
		t.Error("dataset must not be refetched when the patch is unchanged")
	}

	expiry, _ := readMarker(t, dir, "items")
	if !expiry.After(now) {
		t.Errorf("renewed marker expiry %v is not in the future", expiry)
	}
}

func TestResolve_ExpiredMarkerNewPatchRefetches(t *testing.T) {
	f := newFakeUpstream(t)
	f.setPatch("7.37")
	dir := t.TempDir()
	now := time.Now()
	seedCache(t, dir, "items", `{"blink":{"cd":12}}`, "7.36", now.Add(-time.Hour))
	cache := newTestCache(t, f, dir, &constants.TestClock{CurrentTime: now})

	got, err := cache.Resolve(context.Background(), "items", "blink", false)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 1 || got[0] != 15*time.Second {
		t.Errorf("Resolve = %v, want the upstream [15s]", got)
	}
	if f.hitCount("items") != 1 {
		t.Errorf("items fetched %d times, want 1", f.hitCount("items"))
	}
	if _, patch := readMarker(t, dir, "items"); patch != "7.37" {
		t.Errorf("marker patch = %q, want 7.37", patch)
	}
}

func TestResolve_ForceRefreshBypassesFreshCache(t *testing.T) {
	f := newFakeUpstream(t)
	dir := t.TempDir()
	now := time.Now()
	seedCache(t, dir, "items", `{"blink":{"cd":12}}`, "7.36", now.Add(time.Hour))
	cache := newTestCache(t, f, dir, &constants.TestClock{CurrentTime: now})

	got, err := cache.Resolve(context.Background(), "items", "blink", true)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 1 || got[0] != 15*time.Second {
		t.Errorf("Resolve = %v, want the upstream [15s]", got)
	}
	if f.hitCount("items") != 1 {
		t.Errorf("items fetched %d times, want 1", f.hitCount("items"))
	}
}

func TestResolve_CorruptCacheRefetches(t *testing.T) {
	f := newFakeUpstream(t)
	dir := t.TempDir()
	now := time.Now()
	seedCache(t, dir, "items", `{"blink": truncated`, "7.36", now.Add(time.Hour))
	cache := newTestCache(t, f, dir, &constants.TestClock{CurrentTime: now})

	got, err := cache.Resolve(context.Background(), "items", "blink", false)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 1 || got[0] != 15*time.Second {
		t.Errorf("Resolve = %v, want [15s]", got)
	}
	if f.hitCount("items") != 1 {
		t.Errorf("items fetched %d times, want 1", f.hitCount("items"))
	}
}

func TestResolve_NotFound(t *testing.T) {
	f := newFakeUpstream(t)
	cache := newTestCache(t, f, t.TempDir(), nil)

	_, err := cache.Resolve(context.Background(), "abilities", "chronosphere", false)
	var notFound *constants.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("want NotFoundError, got %v", err)
	}
	if notFound.Family != "abilities" || notFound.Identifier != "chronosphere" {
		t.Errorf("NotFoundError = %+v", notFound)
	}
}

func TestResolve_UnsupportedFamily(t *testing.T) {
	f := newFakeUpstream(t)
	cache := newTestCache(t, f, t.TempDir(), nil)

	_, err := cache.Resolve(context.Background(), "heroes", "axe", false)
	var notSupported *constants.NotSupportedError
	if !errors.As(err, &notSupported) {
		t.Fatalf("want NotSupportedError, got %v", err)
	}
	if notSupported.Family != "heroes" {
		t.Errorf("NotSupportedError = %+v", notSupported)
	}
}

func TestResolve_LeveledAbilityCooldowns(t *testing.T) {
	f := newFakeUpstream(t)
	cache := newTestCache(t, f, t.TempDir(), nil)

	got, err := cache.Resolve(context.Background(), "abilities", "faceless_void_chronosphere", false)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []time.Duration{140 * time.Second, 130 * time.Second, 120 * time.Second}
	if len(got) != len(want) {
		t.Fatalf("Resolve = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cooldown %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestResolve_SpaceSeparatedStringCooldowns(t *testing.T) {
	f := newFakeUpstream(t)
	cache := newTestCache(t, f, t.TempDir(), nil)

	got, err := cache.Resolve(context.Background(), "items", "black_king_bar", false)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("Resolve returned %d values, want 6", len(got))
	}
	if got[0] != 10*time.Second {
		t.Errorf("first cooldown = %v, want 10s", got[0])
	}
	if got[1] != 9500*time.Millisecond {
		t.Errorf("second cooldown = %v, want 9.5s", got[1])
	}
}

func TestResolve_UpstreamDownIsAFetchError(t *testing.T) {
	f := newFakeUpstream(t)
	dir := t.TempDir()
	cache := newTestCache(t, f, dir, nil)
	f.srv.Close()

	_, err := cache.Resolve(context.Background(), "items", "blink", false)
	var fetch *constants.FetchError
	if !errors.As(err, &fetch) {
		t.Fatalf("want FetchError, got %v", err)
	}
}

func TestResolve_ExpiredMarkerUpstreamDownIsFatal(t *testing.T) {
	// A determined-necessary revalidation must not silently fall back to
	// the stale dataset.
	f := newFakeUpstream(t)
	dir := t.TempDir()
	now := time.Now()
	seedCache(t, dir, "items", `{"blink":{"cd":12}}`, "7.36", now.Add(-time.Hour))
	cache := newTestCache(t, f, dir, &constants.TestClock{CurrentTime: now})
	f.srv.Close()

	_, err := cache.Resolve(context.Background(), "items", "blink", false)
	var fetch *constants.FetchError
	if !errors.As(err, &fetch) {
		t.Fatalf("want FetchError, got %v", err)
	}
}
