package acceptance

import (
	"net/http"

	"github.com/ellena02/hs-invoice-manager/internal/dto"
	"github.com/ellena02/hs-invoice-manager/internal/service"
)

func (s *Suite) TestAuthStart_RedirectsWithState() {
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(s.BaseURL + "/auth/start")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusFound, resp.StatusCode)

	location, err := resp.Location()
	s.Require().NoError(err)
	s.Equal("/oauth/authorize", location.Path)

	q := location.Query()
	s.Equal("test-client-id", q.Get("client_id"))
	s.Equal("http://localhost:8080/auth/callback", q.Get("redirect_uri"))
	s.GreaterOrEqual(len(q.Get("state")), 32)
}

func (s *Suite) TestAuthCallback_FullFlow() {
	cookie := s.connectPortal()
	s.NotEmpty(cookie.Value)

	var status service.ConnectionStatus
	resp := s.doJSON(http.MethodGet, "/auth/status", "", cookie, &status)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.True(status.Connected)
	s.Equal(testHubID, status.PortalID)
	s.NotNil(status.ExpiresAt)
}

func (s *Suite) TestAuthCallback_ForgedState() {
	var errResp dto.ErrorResponse
	resp := s.doJSON(http.MethodGet, "/auth/callback?code=test-code&state=forged-state-value", "", nil, &errResp)

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("Invalid state", errResp.Error)
}

func (s *Suite) TestAuthCallback_ReplayedState() {
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(s.BaseURL + "/auth/start")
	s.Require().NoError(err)
	resp.Body.Close()
	location, err := resp.Location()
	s.Require().NoError(err)
	state := location.Query().Get("state")

	first, err := http.Get(s.BaseURL + "/auth/callback?code=test-code&state=" + state)
	s.Require().NoError(err)
	first.Body.Close()
	s.Equal(http.StatusOK, first.StatusCode)

	// The state was consumed by the first callback.
	second, err := http.Get(s.BaseURL + "/auth/callback?code=test-code&state=" + state)
	s.Require().NoError(err)
	second.Body.Close()
	s.Equal(http.StatusBadRequest, second.StatusCode)
}

func (s *Suite) TestAuthCallback_MissingParams() {
	var errResp dto.ErrorResponse
	resp := s.doJSON(http.MethodGet, "/auth/callback?code=test-code", "", nil, &errResp)

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("Validation failed", errResp.Error)
}

func (s *Suite) TestAuthStatus_NotConnected() {
	var status service.ConnectionStatus
	resp := s.doJSON(http.MethodGet, "/auth/status", "", nil, &status)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.False(status.Connected)
}

func (s *Suite) TestDisconnect_Idempotent() {
	cookie := s.connectPortal()

	first := s.doJSON(http.MethodPost, "/auth/disconnect", "", cookie, &dto.SuccessResponse{})
	s.Equal(http.StatusOK, first.StatusCode)

	// Disconnecting an already disconnected portal also succeeds.
	second := s.doJSON(http.MethodPost, "/auth/disconnect", `{"portalId":"`+testHubID+`"}`, nil, &dto.SuccessResponse{})
	s.Equal(http.StatusOK, second.StatusCode)

	var status service.ConnectionStatus
	resp := s.doJSON(http.MethodGet, "/auth/status?portalId="+testHubID, "", nil, &status)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.False(status.Connected)
}

func (s *Suite) TestDisconnect_NoPortal() {
	var errResp dto.ErrorResponse
	resp := s.doJSON(http.MethodPost, "/auth/disconnect", "", nil, &errResp)

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}
