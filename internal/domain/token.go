package domain

import "time"

// RefreshSkew is the safety margin subtracted from token expiry: a token
// within this margin of expiring is treated as stale and refreshed
// proactively, so an access token is never handed out mid-flight expired.
const RefreshSkew = 60 * time.Second

// TokenRecord is the stored OAuth token set for one HubSpot portal.
type TokenRecord struct {
	ID           string    `json:"id"`
	PortalID     string    `json:"portal_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fresh reports whether the access token is still usable at the given
// instant, honoring the refresh skew.
func (t TokenRecord) Fresh(now time.Time) bool {
	return t.ExpiresAt.After(now.Add(RefreshSkew))
}
