package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/fantasycoach/coach-engine/internal/session"
)

// Default Yahoo endpoints.
const (
	defaultAPIBaseURL = "https://fantasysports.yahooapis.com/fantasy/v2"
	authURL           = "https://api.login.yahoo.com/oauth2/request_auth"
	tokenURL          = "https://api.login.yahoo.com/oauth2/get_token"
)

// Document is the opaque nested JSON shape of a Yahoo API response.
type Document = map[string]any

// League is a flattened league reference extracted from the user's teams.
type League struct {
	LeagueKey string `json:"league_key"`
	Name      string `json:"name"`
	URL       string `json:"url,omitempty"`
	TeamKey   string `json:"team_key"`
	TeamCount int    `json:"team_count,omitempty"`
}

// Team is a flattened team reference within a league.
type Team struct {
	TeamKey   string `json:"team_key"`
	Name      string `json:"name"`
	OwnerGUID string `json:"owner_guid,omitempty"`
}

// Config holds the OAuth application credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// Client is a typed HTTP client for the Yahoo Fantasy Sports API.
type Client struct {
	httpClient *http.Client
	oauth      *oauth2.Config
	baseURL    string
}

// NewClient creates a Yahoo API client.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultAPIBaseURL,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       []string{"fspt-r"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  authURL,
				TokenURL: tokenURL,
				// Yahoo requires client credentials via Basic auth on the
				// token endpoint, not in the form body.
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
	}
}

// SetBaseURL overrides the API base URL. Used in tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// AuthURL returns the OAuth authorization URL the frontend redirects to.
func (c *Client) AuthURL() string {
	return c.oauth.AuthCodeURL("", oauth2.SetAuthURLParam("language", "en-us"))
}

// ExchangeCode exchanges an authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*session.Token, error) {
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("yahoo token exchange: %w", err)
	}
	return &session.Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Expiry:       tok.Expiry,
	}, nil
}

// --- Raw document reads (consumed by the lineup resolvers) ---

// GetLeagueSettings fetches a league's settings document.
func (c *Client) GetLeagueSettings(ctx context.Context, accessToken, leagueKey string) (Document, error) {
	if _, err := ParseLeagueKey(leagueKey); err != nil {
		return nil, err
	}
	return c.get(ctx, accessToken, "/league/"+leagueKey+"/settings")
}

// GetRosterPositions fetches a game's declared roster positions document.
func (c *Client) GetRosterPositions(ctx context.Context, accessToken, gameKey string) (Document, error) {
	return c.get(ctx, accessToken, "/game/"+gameKey+"/roster_positions")
}

// GetStatCategories fetches a game's stat categories document.
func (c *Client) GetStatCategories(ctx context.Context, accessToken, gameKey string) (Document, error) {
	return c.get(ctx, accessToken, "/game/"+gameKey+"/stat_categories")
}

// GetTeamRoster fetches a team's roster document.
func (c *Client) GetTeamRoster(ctx context.Context, accessToken, teamKey string) (Document, error) {
	if _, err := ParseTeamKey(teamKey); err != nil {
		return nil, err
	}
	return c.get(ctx, accessToken, "/team/"+teamKey+"/roster")
}

// --- Flattened reads (index traversal stays inside this package) ---

// GetUserLeagues returns the logged-in user's NFL leagues, one entry per
// league, derived from their team memberships.
func (c *Client) GetUserLeagues(ctx context.Context, accessToken string) ([]League, error) {
	doc, err := c.get(ctx, accessToken, "/users;use_login=1/teams")
	if err != nil {
		return nil, err
	}

	teams := dig(doc, "fantasy_content", "users", "0", "user", 1, "teams")
	leagues := make([]League, 0)
	seen := make(map[string]bool)

	for _, node := range indexedChildren(teams) {
		team, ok := dig(node, "team", 0).(map[string]any)
		if !ok {
			team, ok = collapseTupleList(dig(node, "team", 0))
			if !ok {
				continue
			}
		}
		if str(team["game_key"]) != "nfl" {
			continue
		}
		leagueKey := str(team["league_key"])
		if leagueKey == "" {
			leagueKey = LeagueKeyOfTeam(str(team["team_key"]))
		}
		if leagueKey == "" || seen[leagueKey] {
			continue
		}
		seen[leagueKey] = true
		leagues = append(leagues, League{
			LeagueKey: leagueKey,
			Name:      str(team["name"]),
			URL:       str(team["url"]),
			TeamKey:   str(team["team_key"]),
			TeamCount: intval(team["num_teams"]),
		})
	}
	return leagues, nil
}

// GetLeagueTeams returns the teams in a league.
func (c *Client) GetLeagueTeams(ctx context.Context, accessToken, leagueKey string) ([]Team, error) {
	if _, err := ParseLeagueKey(leagueKey); err != nil {
		return nil, err
	}
	doc, err := c.get(ctx, accessToken, "/league/"+leagueKey+"/teams")
	if err != nil {
		return nil, err
	}

	teamsNode := dig(doc, "fantasy_content", "league", 1, "teams")
	teams := make([]Team, 0)

	for _, node := range indexedChildren(teamsNode) {
		team, ok := dig(node, "team", 0).(map[string]any)
		if !ok {
			team, ok = collapseTupleList(dig(node, "team", 0))
			if !ok {
				continue
			}
		}
		key := str(team["team_key"])
		if key == "" {
			continue
		}
		teams = append(teams, Team{
			TeamKey:   key,
			Name:      str(team["name"]),
			OwnerGUID: str(team["owner_guid"]),
		})
	}
	return teams, nil
}

// get performs an authenticated JSON GET against the fantasy API.
func (c *Client) get(ctx context.Context, accessToken, path string) (Document, error) {
	url := c.baseURL + path + "?format=json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("yahoo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo request %s: unexpected status %d", path, resp.StatusCode)
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("yahoo response %s: %w", path, err)
	}
	return doc, nil
}

// --- Nested shape traversal ---

// dig walks a decoded JSON tree by string keys (maps, including numeric
// string indices) and int indices (arrays or index-keyed maps). Returns nil
// if any step is missing.
func dig(v any, keys ...any) any {
	for _, key := range keys {
		switch k := key.(type) {
		case string:
			m, ok := v.(map[string]any)
			if !ok {
				return nil
			}
			v = m[k]
		case int:
			switch node := v.(type) {
			case []any:
				if k < 0 || k >= len(node) {
					return nil
				}
				v = node[k]
			case map[string]any:
				v = node[strconv.Itoa(k)]
			default:
				return nil
			}
		}
		if v == nil {
			return nil
		}
	}
	return v
}

// indexedChildren returns the elements of a Yahoo collection node, which is
// either a JSON array or a {"count": n, "0": ..., "1": ...} map.
func indexedChildren(v any) []any {
	switch node := v.(type) {
	case []any:
		return node
	case map[string]any:
		var out []any
		for i := 0; ; i++ {
			child, ok := node[strconv.Itoa(i)]
			if !ok {
				break
			}
			out = append(out, child)
		}
		return out
	}
	return nil
}

// collapseTupleList merges Yahoo's array-of-single-key-objects tuples
// ([{"team_key": ...}, {"name": ...}, ...]) into one flat map.
func collapseTupleList(v any) (map[string]any, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	merged := make(map[string]any)
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for k, val := range m {
			merged[k] = val
		}
	}
	return merged, len(merged) > 0
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func intval(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(n)
		return i
	}
	return 0
}
