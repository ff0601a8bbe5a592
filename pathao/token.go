package pathao

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mahirlabs/order-management-api/models"
)

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AccessToken returns a valid bearer token, using the cached row when it is
// not expired, refreshing when it is, and falling back to a full password-
// grant issue when refresh fails or no row exists. Concurrent refreshes are
// not coordinated; tokens are idempotently re-derivable so last writer wins.
func (c *Client) AccessToken() (string, error) {
	var record models.PathaoToken
	err := c.db.Where("provider = ?", providerKey).First(&record).Error
	switch {
	case err == nil:
		if !record.Expired() {
			return record.AccessToken, nil
		}
		if record.RefreshToken != "" {
			token, refreshErr := c.refreshToken(record.RefreshToken)
			if refreshErr == nil {
				return token, nil
			}
			log.Printf("pathao: token refresh failed, issuing a new one: %v", refreshErr)
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return "", err
	}
	return c.issueToken()
}

func (c *Client) issueToken() (string, error) {
	payload := map[string]string{
		"client_id":     c.cfg.ClientID,
		"client_secret": c.cfg.ClientSecret,
		"grant_type":    "password",
		"username":      c.cfg.Username,
		"password":      c.cfg.Password,
	}
	var resp tokenResponse
	if err := c.postJSON(issueTokenPath, payload, &resp); err != nil {
		log.Printf("pathao: issuing token failed: %v", err)
		return "", err
	}
	if err := c.storeToken(resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *Client) refreshToken(refreshToken string) (string, error) {
	payload := map[string]string{
		"client_id":     c.cfg.ClientID,
		"client_secret": c.cfg.ClientSecret,
		"grant_type":    "refresh_token",
		"refresh_token": refreshToken,
	}
	var resp tokenResponse
	if err := c.postJSON(issueTokenPath, payload, &resp); err != nil {
		return "", err
	}
	if err := c.storeToken(resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *Client) storeToken(resp tokenResponse) error {
	ttl := time.Duration(resp.ExpiresIn) * time.Second
	if ttl == 0 {
		ttl = defaultTokenTTL
	}
	record := models.PathaoToken{
		Provider:     providerKey,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    time.Now().UTC().Add(ttl - tokenSafetyMargin),
	}
	return c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "expires_at", "updated_at"}),
	}).Create(&record).Error
}
