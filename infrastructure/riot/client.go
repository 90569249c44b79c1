package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrNotFound is returned when the Riot ID or summoner does not exist.
	ErrNotFound = errors.New("riot account not found")
	// ErrInvalidRiotID is returned when the input is not "name#tag".
	ErrInvalidRiotID = errors.New("riot id must look like name#tag")
)

const (
	defaultCacheSize = 256
	defaultCacheTTL  = 10 * time.Minute
)

// Client looks up accounts and ranked standings. Results are cached by Riot ID.
type Client struct {
	httpClient   *http.Client
	apiKey       string
	regionalBase string
	platformBase string
	cache        *lru.Cache
	ttl          time.Duration
	now          func() time.Time
}

type cachedRank struct {
	summary   *RankSummary
	fetchedAt time.Time
}

// NewClient creates a client for a routing region (e.g. "asia") and platform (e.g. "kr").
func NewClient(apiKey, region, platform string) *Client {
	return newClient(
		apiKey,
		fmt.Sprintf("https://%s.api.riotgames.com", region),
		fmt.Sprintf("https://%s.api.riotgames.com", platform),
	)
}

func newClient(apiKey, regionalBase, platformBase string) *Client {
	cache, _ := lru.New(defaultCacheSize)
	return &Client{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		apiKey:       apiKey,
		regionalBase: strings.TrimRight(regionalBase, "/"),
		platformBase: strings.TrimRight(platformBase, "/"),
		cache:        cache,
		ttl:          defaultCacheTTL,
		now:          time.Now,
	}
}

// ParseRiotID splits "name#tag".
func ParseRiotID(riotID string) (gameName, tagLine string, err error) {
	name, tag, ok := strings.Cut(strings.TrimSpace(riotID), "#")
	name, tag = strings.TrimSpace(name), strings.TrimSpace(tag)
	if !ok || name == "" || tag == "" {
		return "", "", ErrInvalidRiotID
	}
	return name, tag, nil
}

// LookupRank resolves a Riot ID and returns its ranked entries.
func (c *Client) LookupRank(ctx context.Context, riotID string) (*RankSummary, error) {
	gameName, tagLine, err := ParseRiotID(riotID)
	if err != nil {
		return nil, err
	}

	key := strings.ToLower(gameName + "#" + tagLine)
	if v, ok := c.cache.Get(key); ok {
		entry := v.(cachedRank)
		if c.now().Sub(entry.fetchedAt) < c.ttl {
			return entry.summary, nil
		}
		c.cache.Remove(key)
	}

	account, err := c.GetAccountByRiotID(ctx, gameName, tagLine)
	if err != nil {
		return nil, err
	}
	entries, err := c.GetLeagueEntries(ctx, account.PUUID)
	if err != nil {
		return nil, err
	}

	summary := &RankSummary{Account: *account, Entries: entries}
	c.cache.Add(key, cachedRank{summary: summary, fetchedAt: c.now()})
	return summary, nil
}

// GetAccountByRiotID calls account-v1 on the regional host.
func (c *Client) GetAccountByRiotID(ctx context.Context, gameName, tagLine string) (*Account, error) {
	endpoint := fmt.Sprintf("/riot/account/v1/accounts/by-riot-id/%s/%s",
		url.PathEscape(gameName), url.PathEscape(tagLine))

	var account Account
	if err := c.makeAPIRequest(ctx, c.regionalBase+endpoint, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetLeagueEntries calls league-v4 on the platform host.
func (c *Client) GetLeagueEntries(ctx context.Context, puuid string) ([]LeagueEntry, error) {
	endpoint := fmt.Sprintf("/lol/league/v4/entries/by-puuid/%s", url.PathEscape(puuid))

	var entries []LeagueEntry
	if err := c.makeAPIRequest(ctx, c.platformBase+endpoint, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) makeAPIRequest(ctx context.Context, target string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("riot request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode != http.StatusOK:
		log.WithFields(log.Fields{
			"status": resp.StatusCode,
			"path":   req.URL.Path,
		}).Warn("Riot API request failed")
		return fmt.Errorf("API request failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, result)
}
