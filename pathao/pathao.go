// Package pathao is the client for the Pathao courier API: token lifecycle,
// a local mirror of city/zone/store reference data, delivery booking and
// address parsing. Read paths never fail loudly; they log and fall back to
// whatever the mirror holds.
package pathao

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"gorm.io/gorm"
)

const (
	issueTokenPath   = "/aladdin/api/v1/issue-token"
	cityListPath     = "/aladdin/api/v1/city-list"
	zoneListPath     = "/aladdin/api/v1/cities/%d/zone-list"
	storeListPath    = "/aladdin/api/v1/stores"
	createOrderPath  = "/aladdin/api/v1/orders"
	parseAddressPath = "/aladdin/api/v1/address-parser"
)

const (
	providerKey   = "pathao"
	cacheDuration = 24 * time.Hour
	// Tokens are treated as expired one hour early so a request never rides
	// on a credential about to lapse mid-flight.
	tokenSafetyMargin = time.Hour
	// Server default when expires_in is missing: five days.
	defaultTokenTTL = 432000 * time.Second

	requestTimeout = 30 * time.Second
)

// Config carries the courier credentials and endpoint. Passed explicitly at
// construction; nothing in this package reads the environment after that.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
}

func ConfigFromEnv() Config {
	return Config{
		BaseURL:      os.Getenv("PATHAO_BASE_URL"),
		ClientID:     os.Getenv("PATHAO_CLIENT_ID"),
		ClientSecret: os.Getenv("PATHAO_CLIENT_SECRET"),
		Username:     os.Getenv("PATHAO_USERNAME"),
		Password:     os.Getenv("PATHAO_PASSWORD"),
	}
}

// APIError is a non-2xx answer from the courier API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pathao API error (%d): %s", e.Status, e.Body)
}

// Client talks to the courier API and maintains the local mirror tables.
type Client struct {
	cfg  Config
	db   *gorm.DB
	http *http.Client
}

func NewClient(cfg Config, db *gorm.DB) *Client {
	return &Client{
		cfg:  cfg,
		db:   db,
		http: &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) postJSON(path string, payload, out any) error {
	return c.do(http.MethodPost, path, "", payload, out)
}

func (c *Client) postAuthJSON(path, token string, payload, out any) error {
	return c.do(http.MethodPost, path, token, payload, out)
}

func (c *Client) getAuthJSON(path, token string, out any) error {
	return c.do(http.MethodGet, path, token, nil, out)
}

func (c *Client) do(method, path, token string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.cfg.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach pathao: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Body: string(data)}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse pathao response: %w", err)
		}
	}
	return nil
}
