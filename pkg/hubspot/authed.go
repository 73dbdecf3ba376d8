package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const associationsPageLimit = 100

// Gateway exposes the typed CRM object operations available once an
// access token is resolved. Implemented by AuthedClient; fakes implement
// it in tests.
type Gateway interface {
	GetObject(ctx context.Context, objectType, id string, properties []string) (*Object, error)
	UpdateObject(ctx context.Context, objectType, id string, properties map[string]string) error
	ArchiveObject(ctx context.Context, objectType, id string) error
	ListAssociations(ctx context.Context, fromType, id, toType string) ([]string, error)
}

// AuthedClient is a capability-scoped handle: it carries one access
// token and performs object operations with it. It holds no other state
// and is safe for concurrent use.
type AuthedClient struct {
	client      *Client
	accessToken string
}

var _ Gateway = (*AuthedClient)(nil)

// GetObject fetches one CRM object with the requested properties.
func (a *AuthedClient) GetObject(ctx context.Context, objectType, id string, properties []string) (*Object, error) {
	endpoint := fmt.Sprintf("/crm/v3/objects/%s/%s", objectType, url.PathEscape(id))
	if len(properties) > 0 {
		endpoint += "?properties=" + url.QueryEscape(strings.Join(properties, ","))
	}

	var obj Object
	if err := a.do(ctx, http.MethodGet, endpoint, nil, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

// UpdateObject patches properties on one CRM object.
func (a *AuthedClient) UpdateObject(ctx context.Context, objectType, id string, properties map[string]string) error {
	endpoint := fmt.Sprintf("/crm/v3/objects/%s/%s", objectType, url.PathEscape(id))
	payload := map[string]any{"properties": properties}
	return a.do(ctx, http.MethodPatch, endpoint, payload, nil)
}

// ArchiveObject archives one CRM object. Archival is the provider's
// soft delete; the object stays recoverable on the HubSpot side.
func (a *AuthedClient) ArchiveObject(ctx context.Context, objectType, id string) error {
	endpoint := fmt.Sprintf("/crm/v3/objects/%s/%s", objectType, url.PathEscape(id))
	return a.do(ctx, http.MethodDelete, endpoint, nil, nil)
}

// ListAssociations returns every id associated from one object to the
// given type, following pagination cursors until exhausted. Callers get
// a fully materialized list.
func (a *AuthedClient) ListAssociations(ctx context.Context, fromType, id, toType string) ([]string, error) {
	var ids []string
	after := ""

	for {
		endpoint := fmt.Sprintf("/crm/v4/objects/%s/%s/associations/%s?limit=%d",
			fromType, url.PathEscape(id), toType, associationsPageLimit)
		if after != "" {
			endpoint += "&after=" + url.QueryEscape(after)
		}

		var page associationsPage
		if err := a.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}

		for _, r := range page.Results {
			ids = append(ids, strconv.FormatInt(r.ToObjectID, 10))
		}

		if page.Paging == nil || page.Paging.Next == nil || page.Paging.Next.After == "" {
			return ids, nil
		}
		after = page.Paging.Next.After
	}
}

// do performs one authenticated request and decodes the response into
// out when non-nil. Non-2xx responses become APIError.
func (a *AuthedClient) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.client.cfg.APIBaseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.accessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}
