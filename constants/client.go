// Package constants fetches, caches and serves cooldown values from the
// OpenDota constants database.
package constants

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the published build of the OpenDota constants database.
const DefaultBaseURL = "https://raw.githubusercontent.com/odota/dotaconstants/master/build/"

const fetchTimeout = 30 * time.Second

// Client fetches constants documents over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient returns a Client for the given base URL; an empty URL selects
// the OpenDota default.
func NewClient(baseURL string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: fetchTimeout},
		log:     log,
	}
}

// FamilyURL is the document URL for a constant family.
func (c *Client) FamilyURL(family string) string {
	return c.baseURL + family + ".json"
}

// FetchFamily downloads the full dataset for a family. A 404 means the
// family is not part of the upstream database.
func (c *Client) FetchFamily(ctx context.Context, family string) ([]byte, error) {
	url := c.FamilyURL(family)
	body, status, err := c.get(ctx, url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if status == http.StatusNotFound {
		return nil, &NotSupportedError{Family: family}
	}
	if status != http.StatusOK {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("unexpected status %d", status)}
	}
	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("response is not a JSON object")}
	}
	c.log.Debug().Str("family", family).Int("bytes", len(body)).Msg("fetched constants dataset")
	return body, nil
}

// LatestPatch reads the patch manifest and returns the newest patch tag.
// The manifest lists patches in release order, so the last key wins.
func (c *Client) LatestPatch(ctx context.Context) (string, error) {
	url := c.FamilyURL("patchnotes")
	body, status, err := c.get(ctx, url)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	if status != http.StatusOK {
		return "", &FetchError{URL: url, Err: fmt.Errorf("unexpected status %d", status)}
	}
	keys := gjson.GetBytes(body, "@keys").Array()
	if len(keys) == 0 {
		return "", &FetchError{URL: url, Err: fmt.Errorf("patch manifest has no entries")}
	}
	patch := keys[len(keys)-1].String()
	c.log.Debug().Str("patch", patch).Msg("resolved latest patch")
	return patch, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}
