// Package roster resolves which lifecycle phases an actor may work in. The
// engine consults it only when assigning deliverables.
package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MikeSquared-Agency/Foreman/internal/project"
)

// Client answers phase-compatibility questions about actors.
type Client interface {
	// CompatiblePhases returns the set of phases the actor may work in.
	// An unknown actor returns an empty set, not an error.
	CompatiblePhases(ctx context.Context, actorID string) ([]project.Phase, error)
}

// HTTPClient queries an external roster service.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) CompatiblePhases(ctx context.Context, actorID string) ([]project.Phase, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/admin/actors/"+actorID+"/phases", nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("roster GET phases for %s: %d %s", actorID, resp.StatusCode, string(body))
	}
	var names []string
	if err := json.Unmarshal(body, &names); err != nil {
		return nil, err
	}
	phases := make([]project.Phase, 0, len(names))
	for _, n := range names {
		p, err := project.ParsePhase(n)
		if err != nil {
			return nil, err
		}
		phases = append(phases, p)
	}
	return phases, nil
}
