package top100

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"GameCatalogAPI/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// maxFeedBytes caps a single feed download.
const maxFeedBytes = 10 << 20

// FetchError reports a feed that could not be downloaded or parsed.
type FetchError struct {
	Platform string
	URL      string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("top100 feed %s (%s): %v", e.Platform, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client downloads the public Top-100 feeds, one JSON document per
// platform at {baseURL}/{platform}.top100.json.
type Client struct {
	baseURL   string
	platforms []string
	client    *http.Client
}

func NewClient(baseURL string, platforms []string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		platforms: platforms,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// FeedURL returns the feed location for platform.
func (c *Client) FeedURL(platform string) string {
	return c.baseURL + "/" + platform + ".top100.json"
}

// FetchGames downloads every platform feed concurrently and returns the
// mapped games in platform order. It fails as a whole if any feed fails.
func (c *Client) FetchGames(ctx context.Context) ([]model.GameInput, error) {
	results := make([][]model.GameInput, len(c.platforms))

	g, ctx := errgroup.WithContext(ctx)
	for i, platform := range c.platforms {
		i, platform := i, platform
		g.Go(func() error {
			games, err := c.fetchPlatform(ctx, platform)
			if err != nil {
				return err
			}
			results[i] = games
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.GameInput
	for _, games := range results {
		all = append(all, games...)
	}
	return all, nil
}

func (c *Client) fetchPlatform(ctx context.Context, platform string) ([]model.GameInput, error) {
	u := c.FeedURL(platform)
	fail := func(err error) error {
		return &FetchError{Platform: platform, URL: u, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fail(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fail(fmt.Errorf("unexpected status: %s", resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes+1))
	if err != nil {
		return nil, fail(err)
	}
	if len(body) > maxFeedBytes {
		return nil, fail(fmt.Errorf("feed larger than %d bytes", maxFeedBytes))
	}

	games, err := ParseFeed(body)
	if err != nil {
		return nil, fail(err)
	}
	log.Debug().Str("platform", platform).Int("games", len(games)).Msg("fetched top100 feed")
	return games, nil
}

// ParseFeed decodes one feed document. The document is a JSON array whose
// elements may themselves be arrays; those are flattened one level.
func ParseFeed(body []byte) ([]model.GameInput, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("feed is not valid JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsArray() {
		return nil, errors.New("feed is not a JSON array")
	}

	var games []model.GameInput
	for _, el := range doc.Array() {
		if el.IsArray() {
			for _, inner := range el.Array() {
				games = append(games, MapGame(inner))
			}
			continue
		}
		games = append(games, MapGame(el))
	}
	return games, nil
}

// MapGame renames a feed entry's fields into a game. Imported games are
// always published.
func MapGame(entry gjson.Result) model.GameInput {
	published := true
	return model.GameInput{
		PublisherID: field(entry, "publisherId"),
		Name:        field(entry, "name"),
		Platform:    field(entry, "os"),
		StoreID:     field(entry, "appId"),
		BundleID:    field(entry, "bundle_id"),
		AppVersion:  field(entry, "version"),
		IsPublished: &published,
	}
}

// field returns the value at path as a string, or nil when it is missing
// or null. Numbers keep their JSON text.
func field(entry gjson.Result, path string) *string {
	v := entry.Get(path)
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	var s string
	if v.Type == gjson.Number {
		s = v.Raw
	} else {
		s = v.String()
	}
	return &s
}
