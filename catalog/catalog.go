// Package catalog is a client for the media catalog served next to the sync server.
//
// The catalog lists selectable media of one kind, returns details for a single entry and
// derives stream URLs the player can open. Listings are cached on disk for a configurable time.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/syncwatch-cli/syncwatch/key"
	"github.com/syncwatch-cli/syncwatch/log"
	"github.com/syncwatch-cli/syncwatch/network"
	"github.com/syncwatch-cli/syncwatch/util"
	"github.com/syncwatch-cli/syncwatch/where"
)

var (
	ErrMalformed   = errors.New("malformed catalog response")
	ErrNotFound    = errors.New("not found in catalog")
	ErrUnknownKind = errors.New("unknown catalog kind")
)

// Kinds are the catalog collections the server exposes.
var Kinds = []string{"movies", "files"}

const listKey = "list"

// Options configures a Client.
type Options struct {
	BaseURL string
	Kind    string
	// Lifetime of cached listings. Zero disables caching.
	Lifetime   time.Duration
	HTTPClient *http.Client
}

// Client talks to one catalog collection.
type Client struct {
	base  *url.URL
	kind  string
	http  *http.Client
	cache *cacher[[]Item]
}

// New validates opts and returns a client.
func New(opts Options) (*Client, error) {
	if !lo.Contains(Kinds, opts.Kind) {
		return nil, fmt.Errorf("%w: %q, expected one of %s", ErrUnknownKind, opts.Kind, strings.Join(Kinds, ", "))
	}

	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("catalog url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("catalog url: unsupported scheme %q", base.Scheme)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = network.Client
	}

	return &Client{
		base:  base,
		kind:  opts.Kind,
		http:  httpClient,
		cache: newCacher[[]Item](where.Catalog(opts.Kind), opts.Lifetime),
	}, nil
}

// Configured returns a client for the configured server and kind.
func Configured() (*Client, error) {
	return New(Options{
		BaseURL:  viper.GetString(key.ServerCatalogURL),
		Kind:     viper.GetString(key.CatalogKind),
		Lifetime: time.Duration(viper.GetInt(key.CatalogCacheMinutes)) * time.Minute,
	})
}

// Kind returns the collection this client reads.
func (c *Client) Kind() string {
	return c.kind
}

// List returns every item of the collection, from cache when fresh.
func (c *Client) List(ctx context.Context) ([]Item, error) {
	if cached, ok := c.cache.Get(listKey).Get(); ok {
		log.Debugf("catalog: %d %s from cache", len(cached), c.kind)
		return cached, nil
	}

	var items []Item
	if err := c.get(ctx, c.endpoint(), &items); err != nil {
		return nil, err
	}

	items = lo.Filter(items, func(item Item, _ int) bool {
		return item.Title != ""
	})

	if err := c.cache.Set(listKey, items); err != nil {
		log.Warnf("catalog: caching %s: %v", c.kind, err)
	}
	return items, nil
}

// Detail returns a single item.
func (c *Client) Detail(ctx context.Context, id string) (Item, error) {
	if strings.TrimSpace(id) == "" {
		return Item{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}

	var item Item
	if err := c.get(ctx, c.endpoint(id), &item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// StreamURL is where the player reads the media of id from.
func (c *Client) StreamURL(id string) string {
	return c.endpoint(id, "stream")
}

// Resolve turns a room media reference into something the player can open. URLs and local
// paths are returned unchanged; anything else is taken as a catalog identifier.
func (c *Client) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return "", fmt.Errorf("%w: empty media reference", ErrNotFound)
	case Direct(ref):
		return ref, nil
	default:
		return c.StreamURL(ref), nil
	}
}

// Invalidate drops cached listings.
func (c *Client) Invalidate() error {
	return c.cache.Clear()
}

// Search keeps the items whose label fuzzy-matches query.
func Search(items []Item, query string) []Item {
	return util.FuzzyFilter(items, query, Item.Label)
}

// Direct reports whether ref is already a URL or a local path.
func Direct(ref string) bool {
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" && u.Host != "" {
		return true
	}
	return filepath.IsAbs(ref) || strings.HasPrefix(ref, "./") || strings.HasPrefix(ref, "../")
}

func (c *Client) endpoint(parts ...string) string {
	segments := append([]string{c.kind}, lo.Map(parts, func(p string, _ int) string {
		return url.PathEscape(p)
	})...)
	return c.base.JoinPath(segments...).String()
}

func (c *Client) get(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer util.Ignore(resp.Body.Close)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, endpoint)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("catalog: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
