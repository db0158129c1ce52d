package sessions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	CREATE_SESSION_PATH = "/matchmaking"
	START_SESSION_PATH  = "/session/start/"
	DELETE_SESSION_PATH = "/session/"

	REQUEST_TIMEOUT_S = 5
)

// API is the external session lifecycle service
//
// Failures are soft at every call site, the orchestrator logs them and
// moves on to the next pair
type API interface {
	Create(ctx context.Context, player1ID string, player2ID string) (string, error)
	Start(ctx context.Context, sessionID string) (bool, error)
	Delete(ctx context.Context, sessionID string) error
}

type createSessionRequest struct {
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
}

// Client talks to the session API over http
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(baseURL string, logger *logrus.Logger) (c *Client) {
	c = &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: REQUEST_TIMEOUT_S * time.Second,
		},
		logger: logger,
	}
	return
}

// Create opens a session for the two players, returning the session id
// minted by the remote service
func (c *Client) Create(ctx context.Context, player1ID string, player2ID string) (sessionID string, err error) {
	var body []byte
	if body, err = json.Marshal(createSessionRequest{
		Player1: player1ID,
		Player2: player2ID,
	}); err != nil {
		err = errors.Wrap(err, "failed to marshal create session request")
		return
	}

	var req *http.Request
	if req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+CREATE_SESSION_PATH, bytes.NewReader(body)); err != nil {
		err = errors.Wrap(err, "failed to build create session request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	var resp *http.Response
	if resp, err = c.httpClient.Do(req); err != nil {
		err = errors.Wrap(err, "create session request failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = fmt.Errorf("create session returned status %d", resp.StatusCode)
		return
	}

	var sr sessionResponse
	if err = json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		err = errors.Wrap(err, "failed to decode create session response")
		return
	}
	sessionID = sr.SessionID
	return
}

// Start marks the session as started
func (c *Client) Start(ctx context.Context, sessionID string) (started bool, err error) {
	var req *http.Request
	if req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+START_SESSION_PATH+sessionID, nil); err != nil {
		err = errors.Wrap(err, "failed to build start session request")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	var resp *http.Response
	if resp, err = c.httpClient.Do(req); err != nil {
		err = errors.Wrap(err, "start session request failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = fmt.Errorf("start session returned status %d", resp.StatusCode)
		return
	}

	c.logger.WithField("sessionID", sessionID).Info("session started")
	started = true
	return
}

// Delete tears the session down
func (c *Client) Delete(ctx context.Context, sessionID string) (err error) {
	var req *http.Request
	if req, err = http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+DELETE_SESSION_PATH+sessionID, nil); err != nil {
		err = errors.Wrap(err, "failed to build delete session request")
		return
	}

	var resp *http.Response
	if resp, err = c.httpClient.Do(req); err != nil {
		err = errors.Wrap(err, "delete session request failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = fmt.Errorf("delete session returned status %d", resp.StatusCode)
		return
	}

	c.logger.WithField("sessionID", sessionID).Info("session deleted")
	return
}
