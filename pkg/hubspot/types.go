package hubspot

// TokenResponse is the token endpoint payload for both the
// authorization-code exchange and the refresh grant.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// TokenInfo is the access-token metadata returned by the token
// introspection endpoint. HubID is the portal the token belongs to.
type TokenInfo struct {
	HubID     int64  `json:"hub_id"`
	UserID    int64  `json:"user_id"`
	AppID     int64  `json:"app_id"`
	HubDomain string `json:"hub_domain"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

// Object represents a CRM object (company, deal, invoice) with its
// requested properties materialized as strings.
type Object struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
	Archived   bool              `json:"archived"`
}

// Property returns a property value or the empty string.
func (o *Object) Property(name string) string {
	if o == nil || o.Properties == nil {
		return ""
	}
	return o.Properties[name]
}

// associationsPage is one page of the v4 associations listing.
type associationsPage struct {
	Results []struct {
		ToObjectID int64 `json:"toObjectId"`
	} `json:"results"`
	Paging *struct {
		Next *struct {
			After string `json:"after"`
		} `json:"next"`
	} `json:"paging"`
}
