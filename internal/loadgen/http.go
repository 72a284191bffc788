package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// client wraps http.Client with a timeout.
type client struct {
	c *http.Client
}

func newClient(timeout time.Duration) *client {
	return &client{c: &http.Client{Timeout: timeout}}
}

// boardResponse mirrors the service's leaderboard shape.
type boardResponse struct {
	Name       string `json:"name"`
	Highscores []struct {
		Name  string `json:"name"`
		Score int64  `json:"score"`
	} `json:"highscores"`
}

func (cl *client) submit(ctx context.Context, url string, sub Submission) (*boardResponse, int, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "marshal submission failed")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "create request failed")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := cl.c.Do(req)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "submit request failed")
	}
	defer resp.Body.Close() //nolint:errcheck // drained below

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, nil
	}
	var board boardResponse
	if err := json.NewDecoder(resp.Body).Decode(&board); err != nil {
		return nil, resp.StatusCode, pkgerrors.Wrap(err, "decode board failed")
	}
	return &board, resp.StatusCode, nil
}

func (cl *client) getBoard(ctx context.Context, url string) (*boardResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "create request failed")
	}
	resp, err := cl.c.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "get board failed")
	}
	defer resp.Body.Close() //nolint:errcheck // drained below

	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.Errorf("get board: unexpected status %d", resp.StatusCode)
	}
	var board boardResponse
	if err := json.NewDecoder(resp.Body).Decode(&board); err != nil {
		return nil, pkgerrors.Wrap(err, "decode board failed")
	}
	return &board, nil
}
