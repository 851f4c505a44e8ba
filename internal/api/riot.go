package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"

	"league-companion/internal/config"
	"league-companion/internal/constants"
)

type RiotClient struct {
	apiKey      string
	client      *fasthttp.Client
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

type RateLimitInfo struct {
	AppLimit      string    `json:"app_limit"`
	AppCount      string    `json:"app_count"`
	RetryAfterSec int       `json:"retry_after_sec"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func NewRiotClient(cfg *config.Config) *RiotClient {
	return &RiotClient{
		apiKey: cfg.RiotAPIKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (c *RiotClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *RiotClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if limit := string(resp.Header.Peek("X-App-Rate-Limit")); limit != "" {
		c.rateLimit.AppLimit = limit
	}
	if count := string(resp.Header.Peek("X-App-Rate-Limit-Count")); count != "" {
		c.rateLimit.AppCount = count
	}
	if retry := string(resp.Header.Peek("Retry-After")); retry != "" {
		if val, err := strconv.Atoi(retry); err == nil {
			c.rateLimit.RetryAfterSec = val
		}
	}
	c.rateLimit.UpdatedAt = time.Now()
}

// routingRegion maps a platform (euw1, na1, ...) to its match-v5 routing
// value.
func routingRegion(platform string) string {
	switch strings.ToLower(platform) {
	case "na1", "br1", "la1", "la2":
		return "americas"
	case "kr", "jp1":
		return "asia"
	case "oc1", "sg2", "tw2", "vn2":
		return "sea"
	default:
		return "europe"
	}
}

// GetMatchIDs returns the most recent match ids for an account, newest
// first, starting no earlier than startTime.
func (c *RiotClient) GetMatchIDs(ctx context.Context, platform, puuid string, startTime time.Time, count int) ([]string, error) {
	url := fmt.Sprintf("https://%s.api.riotgames.com/lol/match/v5/matches/by-puuid/%s/ids?startTime=%d&count=%d",
		routingRegion(platform), puuid, startTime.Unix(), count)
	ids, err := doRequest[[]string](ctx, c, url)
	if err != nil {
		return nil, err
	}
	return *ids, nil
}

// GetMatch fetches the full match payload.
func (c *RiotClient) GetMatch(ctx context.Context, platform, matchID string) (*MatchResponse, error) {
	url := fmt.Sprintf("https://%s.api.riotgames.com/lol/match/v5/matches/%s",
		routingRegion(platform), matchID)
	return doRequest[MatchResponse](ctx, c, url)
}

// GetLeagueEntries returns the ranked entries (solo, flex) of an account.
func (c *RiotClient) GetLeagueEntries(ctx context.Context, platform, puuid string) ([]LeagueEntry, error) {
	url := fmt.Sprintf("https://%s.api.riotgames.com/lol/league/v4/entries/by-puuid/%s",
		strings.ToLower(platform), puuid)
	entries, err := doRequest[[]LeagueEntry](ctx, c, url)
	if err != nil {
		return nil, err
	}
	return *entries, nil
}

func doRequest[T any](ctx context.Context, client *RiotClient, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("X-Riot-Token", client.apiKey)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	client.updateRateLimit(resp)

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("riot API error: %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type MatchResponse struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

type MatchInfo struct {
	QueueID            int                `json:"queueId"`
	GameDuration       int                `json:"gameDuration"`
	GameStartTimestamp int64              `json:"gameStartTimestamp"`
	Participants       []MatchParticipant `json:"participants"`
}

type MatchParticipant struct {
	Puuid                      string `json:"puuid"`
	ChampionID                 int    `json:"championId"`
	Win                        bool   `json:"win"`
	GameEndedInEarlySurrender  bool   `json:"gameEndedInEarlySurrender"`
	TeamEarlySurrendered       bool   `json:"teamEarlySurrendered"`
	GameEndedInSurrender       bool   `json:"gameEndedInSurrender"`
}

type LeagueEntry struct {
	QueueType    string `json:"queueType"` // RANKED_SOLO_5x5, RANKED_FLEX_SR
	Tier         string `json:"tier"`
	Rank         string `json:"rank"` // division as roman numeral
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}
