package acceptance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/ellena02/hs-invoice-manager/internal/app"
	"github.com/ellena02/hs-invoice-manager/internal/config"
)

const (
	testHubID         = "424242"
	testSessionSecret = "acceptance-secret-acceptance-secret"
)

// Suite runs the service end to end against a stubbed HubSpot. Postgres
// and Redis are left unconfigured, so tokens and CSRF states live in
// process memory the same way a credential-only deployment runs.
type Suite struct {
	suite.Suite
	HubSpot *hubspotStub
	App     *app.App
	Server  *httptest.Server
	BaseURL string
}

func (s *Suite) SetupSuite() {
	gin.SetMode(gin.TestMode)

	s.HubSpot = newHubSpotStub()

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "localhost", Port: "0"},
		HubSpot: config.HubSpotConfig{
			ClientID:     "test-client-id",
			ClientSecret: "test-client-secret",
			RedirectURL:  "http://localhost:8080/auth/callback",
			Scopes:       []string{"crm.objects.companies.read", "crm.objects.invoices.write"},
			AuthURL:      s.HubSpot.server.URL + "/oauth/authorize",
			APIBaseURL:   s.HubSpot.server.URL,
		},
		Session: config.SessionConfig{
			Secret: testSessionSecret,
		},
		Env: "test",
	}
	s.Require().NoError(cfg.Session.TTL.EnvDecode(context.Background(), "1d"))
	s.Require().NoError(cfg.Security.StateTTL.EnvDecode(context.Background(), "10m"))
	cfg.Security.RateLimitRequests = 100

	infra, err := app.NewInfrastructure(context.Background(), *cfg)
	s.Require().NoError(err, "Failed to build infrastructure")

	s.App = app.NewApp(infra, cfg)
	s.Server = httptest.NewServer(s.App.Router())
	s.BaseURL = s.Server.URL
}

func (s *Suite) TearDownSuite() {
	if s.Server != nil {
		s.Server.Close()
	}
	if s.HubSpot != nil {
		s.HubSpot.server.Close()
	}
}

func (s *Suite) SetupTest() {
	s.HubSpot.reset()
}

// connectPortal walks the full authorization flow and returns the
// session cookie issued by the callback.
func (s *Suite) connectPortal() *http.Cookie {
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(s.BaseURL + "/auth/start")
	s.Require().NoError(err)
	resp.Body.Close()
	s.Require().Equal(http.StatusFound, resp.StatusCode)

	location, err := resp.Location()
	s.Require().NoError(err)
	state := location.Query().Get("state")
	s.Require().NotEmpty(state)

	resp, err = http.Get(s.BaseURL + "/auth/callback?code=test-code&state=" + state)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "hs_session" && cookie.Value != "" {
			return cookie
		}
	}
	s.Require().FailNow("callback issued no session cookie")
	return nil
}

// doJSON performs a request with an optional session cookie and decodes
// the JSON response into out when non-nil.
func (s *Suite) doJSON(method, path string, body string, cookie *http.Cookie, out any) *http.Response {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req, err := http.NewRequest(method, s.BaseURL+path, reader)
	s.Require().NoError(err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)

	if out != nil {
		defer resp.Body.Close()
		s.Require().NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

// hubspotStub fakes the provider: the token endpoints plus a small
// in-memory CRM. Every /crm request is counted so tests can assert the
// service made no provider calls.
type hubspotStub struct {
	mu           sync.Mutex
	objects      map[string]map[string]string
	associations map[string][]string
	archived     map[string]bool
	crmCalls     int
	tokenCalls   int

	server *httptest.Server
}

func newHubSpotStub() *hubspotStub {
	stub := &hubspotStub{}
	stub.resetLocked()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/v1/token", stub.handleToken)
	mux.HandleFunc("GET /oauth/v1/access-tokens/", stub.handleTokenInfo)
	mux.HandleFunc("/crm/", stub.handleCRM)

	stub.server = httptest.NewServer(mux)
	return stub
}

func (h *hubspotStub) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resetLocked()
}

func (h *hubspotStub) resetLocked() {
	h.objects = make(map[string]map[string]string)
	h.associations = make(map[string][]string)
	h.archived = make(map[string]bool)
	h.crmCalls = 0
	h.tokenCalls = 0
}

func (h *hubspotStub) putObject(objectType, id string, props map[string]string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.objects[objectType+"/"+id] = props
}

func (h *hubspotStub) object(objectType, id string) map[string]string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.objects[objectType+"/"+id]
}

func (h *hubspotStub) associate(fromType, id, toType string, toIDs ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.associations[fromType+"/"+id+"/"+toType] = toIDs
}

func (h *hubspotStub) crmCallCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.crmCalls
}

func (h *hubspotStub) isArchived(objectType, id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.archived[objectType+"/"+id]
}

func (h *hubspotStub) handleToken(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.tokenCalls++
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"access_token":  "stub-access-token",
		"refresh_token": "stub-refresh-token",
		"token_type":    "bearer",
		"expires_in":    1800,
	})
}

func (h *hubspotStub) handleTokenInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"hub_id": 424242, "user_id": 1})
}

func (h *hubspotStub) handleCRM(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.crmCalls++
	h.mu.Unlock()

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	w.Header().Set("Content-Type", "application/json")

	// /crm/v4/objects/{fromType}/{id}/associations/{toType}
	if len(parts) == 7 && parts[5] == "associations" {
		h.mu.Lock()
		ids := h.associations[parts[3]+"/"+parts[4]+"/"+parts[6]]
		h.mu.Unlock()

		// toObjectId is numeric in the provider's payload, so seeded
		// association targets must have numeric ids.
		results := make([]map[string]any, 0, len(ids))
		for _, id := range ids {
			n, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				http.Error(w, "association target id must be numeric: "+id, http.StatusInternalServerError)
				return
			}
			results = append(results, map[string]any{"toObjectId": n})
		}
		data, err := json.Marshal(map[string]any{"results": results})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Write(data)
		return
	}

	// /crm/v3/objects/{objectType}/{id}
	if len(parts) != 5 {
		http.NotFound(w, r)
		return
	}
	objectType, id := parts[3], parts[4]
	key := objectType + "/" + id

	h.mu.Lock()
	props, ok := h.objects[key]
	h.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{
				"category": "OBJECT_NOT_FOUND",
				"message":  key + " does not exist",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"id": id, "properties": props})

	case http.MethodPatch:
		var payload struct {
			Properties map[string]string `json:"properties"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		h.mu.Lock()
		if h.objects[key] == nil {
			h.objects[key] = make(map[string]string)
		}
		for k, v := range payload.Properties {
			h.objects[key][k] = v
		}
		h.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"id": id})

	case http.MethodDelete:
		h.mu.Lock()
		h.archived[key] = true
		delete(h.objects, key)
		h.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
