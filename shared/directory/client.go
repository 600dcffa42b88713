package directory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUnknownServer is returned by Heartbeat when the master no longer knows
// the id, usually after a TTL expiry or a master restart.
var ErrUnknownServer = errors.New("unknown server")

// Client talks to a master server over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Register announces a relay and returns the id assigned by the master.
func (c *Client) Register(req RegisterRequest) (string, error) {
	resp, err := c.post("/servers/register", req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result RegisterResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	return result.ID, nil
}

func (c *Client) Heartbeat(req HeartbeatRequest) error {
	resp, err := c.post("/servers/heartbeat", req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrUnknownServer
	}
	return fmt.Errorf("unexpected status: %d", resp.StatusCode)
}

// List fetches every relay the master currently knows.
func (c *Client) List() ([]ServerInfo, error) {
	resp, err := c.http.Get(c.baseURL + "/servers")
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var servers []ServerInfo
	if err := json.NewDecoder(resp.Body).Decode(&servers); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return servers, nil
}

func (c *Client) post(path string, v any) (*http.Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("post: %w", err)
	}
	return resp, nil
}

// Pick returns the relay with the most free seats that runs version, or
// false if none fits. An empty version matches anything.
func Pick(servers []ServerInfo, version string) (ServerInfo, bool) {
	var best ServerInfo
	found := false
	for _, s := range servers {
		if version != "" && s.Version != "" && s.Version != version {
			continue
		}
		if !found || s.MaxPeers-s.Peers > best.MaxPeers-best.Peers {
			best = s
			found = true
		}
	}
	return best, found
}
