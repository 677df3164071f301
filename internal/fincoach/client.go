// Package fincoach wraps the FinCoach backend's JSON HTTP API. All business
// logic (authentication, scoring, quest state, persistence) lives behind this
// client; the frontend only renders what it returns.
package fincoach

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// APIError is a non-2xx response from the backend. Message carries the
// backend-supplied error string when the body contained one.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("fincoach: backend returned status %d", e.Status)
	}
	return fmt.Sprintf("fincoach: %s (status %d)", e.Message, e.Status)
}

// Client talks to the FinCoach backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Login exchanges credentials for the user's identity and profile.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResponse, error) {
	var resp LoginResponse
	payload := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", payload, &resp); err != nil {
		return LoginResponse{}, err
	}
	return resp, nil
}

// Signup registers a new account. The backend returns no user record; the
// caller synthesizes one from the submitted payload.
func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	return c.do(ctx, http.MethodPost, "/signup", req, nil)
}

// Home fetches the full user document backing the dashboard.
func (c *Client) Home(ctx context.Context, email string) (UserDocument, error) {
	var doc UserDocument
	if err := c.do(ctx, http.MethodPost, "/home", map[string]string{"email": email}, &doc); err != nil {
		return UserDocument{}, err
	}
	return doc, nil
}

// TrackerUpdate appends one month's savings and expenditure.
func (c *Client) TrackerUpdate(ctx context.Context, email string, savings, expenditure float64) (TrackerUpdateResponse, error) {
	var resp TrackerUpdateResponse
	payload := map[string]any{"email": email, "savings": savings, "expenditure": expenditure}
	if err := c.do(ctx, http.MethodPost, "/tracker/update", payload, &resp); err != nil {
		return TrackerUpdateResponse{}, err
	}
	return resp, nil
}

// TrackerRecent returns up to the three most recent monthly entries.
func (c *Client) TrackerRecent(ctx context.Context, email string) ([]TrackerEntry, error) {
	var resp struct {
		Entries []TrackerEntry `json:"entries"`
	}
	if err := c.do(ctx, http.MethodPost, "/tracker/recent", map[string]string{"email": email}, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// Quests fetches the quest board for the given user.
func (c *Client) Quests(ctx context.Context, email string) (QuestsResponse, error) {
	var resp QuestsResponse
	path := "/quests?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return QuestsResponse{}, err
	}
	return resp, nil
}

// Leaderboard fetches the global quest leaderboard.
func (c *Client) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var resp struct {
		Leaderboard []LeaderboardEntry `json:"leaderboard"`
	}
	if err := c.do(ctx, http.MethodGet, "/quests/leaderboard", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Leaderboard, nil
}

// ClaimQuest advances progress on a quest and claims its reward when done.
func (c *Client) ClaimQuest(ctx context.Context, email string, questID int) (ClaimResponse, error) {
	var resp ClaimResponse
	path := fmt.Sprintf("/update/quests/%d/claim", questID)
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"email": email}, &resp); err != nil {
		return ClaimResponse{}, err
	}
	return resp, nil
}

// CheckQuestSection asks the backend to evaluate a quest section and award
// its badge when the completion condition holds.
func (c *Client) CheckQuestSection(ctx context.Context, email, section string) (SectionCheckResponse, error) {
	var resp SectionCheckResponse
	path := "/quests/check/" + url.PathEscape(section)
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"email": email}, &resp); err != nil {
		return SectionCheckResponse{}, err
	}
	return resp, nil
}

// UserProfile fetches the user document without the password hash, for the
// update forms.
func (c *Client) UserProfile(ctx context.Context, email string) (UserDocument, error) {
	var doc UserDocument
	path := "/api/user/profile?email=" + url.QueryEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &doc); err != nil {
		return UserDocument{}, err
	}
	return doc, nil
}

// UpdateProfile replaces one profile section. Valid sections are accounts,
// investments, assets and job; the backend rejects anything else.
func (c *Client) UpdateProfile(ctx context.Context, section string, data Document) (UpdateResponse, error) {
	var resp UpdateResponse
	payload := map[string]any{"section": section, "data": data}
	if err := c.do(ctx, http.MethodPut, "/update", payload, &resp); err != nil {
		return UpdateResponse{}, err
	}
	return resp, nil
}

// Playbook sends a question to the advisor and returns its reply.
func (c *Client) Playbook(ctx context.Context, email, query string) (PlaybookResponse, error) {
	var resp PlaybookResponse
	payload := map[string]string{"email": email, "query": query}
	if err := c.do(ctx, http.MethodPost, "/playbook", payload, &resp); err != nil {
		return PlaybookResponse{}, err
	}
	return resp, nil
}

// CreditScore requests a fresh credit score prediction.
func (c *Client) CreditScore(ctx context.Context, email string) (CreditScoreResponse, error) {
	var resp CreditScoreResponse
	if err := c.do(ctx, http.MethodPost, "/credit-score", map[string]string{"email": email}, &resp); err != nil {
		return CreditScoreResponse{}, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("fincoach: encode %s: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("fincoach: build request %s: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fincoach: %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		return c.apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("fincoach: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	// Best effort; a missing or malformed body leaves Message empty.
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body)
	return &APIError{Status: resp.StatusCode, Message: body.Error}
}
