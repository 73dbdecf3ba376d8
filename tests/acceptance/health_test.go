package acceptance

import (
	"net/http"

	"github.com/ellena02/hs-invoice-manager/internal/dto"
)

func (s *Suite) TestHealthEndpoint() {
	var health dto.HealthResponse
	resp := s.doJSON(http.MethodGet, "/health", "", nil, &health)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Equal("pass", health.Status)
	s.True(health.OAuthConfigured)
	s.True(health.RedirectURLSet)
	s.False(health.StaticFallback)

	// Nothing external is configured, everything runs in process.
	s.False(health.Storage["postgres"])
	s.False(health.Storage["redis"])
}

func (s *Suite) TestMetricsEndpoint() {
	resp, err := http.Get(s.BaseURL + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}
