package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/jsonplaceholder-api/config"
	"github.com/oksasatya/jsonplaceholder-api/internal/container"
	"github.com/oksasatya/jsonplaceholder-api/internal/interface/middleware"
	"github.com/oksasatya/jsonplaceholder-api/internal/router/route"
	"github.com/oksasatya/jsonplaceholder-api/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const johnDoe = `{
	"name": "John Doe",
	"username": "johndoe",
	"email": "john@example.com",
	"phone": "1-770-736-8031",
	"website": "johndoe.dev",
	"address": {
		"street": "Kulas Light",
		"suite": "Apt. 556",
		"city": "Gwenborough",
		"zipcode": "92998-3874",
		"geo": {"lat": "-37.3159", "lng": "81.1496"}
	},
	"company": {"name": "Romaguera-Crona", "catchPhrase": "Multi-layered client-server neural-net", "bs": "harness real-time e-markets"}
}`

type envelope struct {
	Data       json.RawMessage   `json:"data"`
	StatusCode int               `json:"statusCode"`
	Message    string            `json:"message"`
	Errors     map[string]string `json:"errors"`
}

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	logger := helpers.NewDiscardLogger()

	c := &container.Container{
		Config: &config.Config{
			Env:          "test",
			JWTSecret:    "test-secret",
			JWTExpiresIn: time.Hour,
		},
		Logger:      logger,
		Credentials: &memCredentials{},
		Users:       newMemUsers(),
	}
	c.Build()
	return NewEngine(c)
}

func do(t *testing.T, h http.Handler, method, path, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode body %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, env
}

func register(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	w, env := do(t, h, http.MethodPost, "/api/auth/register",
		`{"name":"Tester","email":"`+email+`","password":"password123"}`, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body %s", w.Code, w.Body.String())
	}
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(env.Data, &tok); err != nil || tok.AccessToken == "" {
		t.Fatalf("register data = %s", env.Data)
	}
	return tok.AccessToken
}

func TestAuthFlow(t *testing.T) {
	h := newTestServer(t)
	token := register(t, h, "tester@example.com")

	w, env := do(t, h, http.MethodPost, "/api/auth/register",
		`{"name":"Tester","email":"tester@example.com","password":"password123"}`, "")
	if w.Code != http.StatusConflict {
		t.Fatalf("second register status = %d, want 409", w.Code)
	}
	if env.Message != "User with this email already exists" {
		t.Errorf("message = %q", env.Message)
	}

	w, _ = do(t, h, http.MethodPost, "/api/auth/login", `{"email":"tester@example.com","password":"password123"}`, "")
	if w.Code != http.StatusOK {
		t.Errorf("login status = %d", w.Code)
	}

	for _, body := range []string{
		`{"email":"tester@example.com","password":"wrong-password"}`,
		`{"email":"nobody@example.com","password":"password123"}`,
	} {
		w, env = do(t, h, http.MethodPost, "/api/auth/login", body, "")
		if w.Code != http.StatusUnauthorized || env.Message != "Invalid credentials" {
			t.Errorf("login %s = %d %q, want 401 Invalid credentials", body, w.Code, env.Message)
		}
	}

	w, env = do(t, h, http.MethodGet, "/api/auth/profile", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("profile status = %d", w.Code)
	}
	var profile struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		t.Fatal(err)
	}
	if profile.Email != "tester@example.com" || profile.Name != "Tester" || profile.ID == 0 {
		t.Errorf("profile = %+v", profile)
	}
}

func TestRegisterValidation(t *testing.T) {
	h := newTestServer(t)
	w, env := do(t, h, http.MethodPost, "/api/auth/register", `{"name":"T","email":"bad","password":"short"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if env.Errors["email"] == "" || env.Errors["password"] == "" {
		t.Errorf("errors = %v", env.Errors)
	}
}

func TestProtectedRoutes(t *testing.T) {
	h := newTestServer(t)
	token := register(t, h, "tester@example.com")

	tests := []struct {
		name    string
		path    string
		token   string
		status  int
		message string
	}{
		{"no token", "/api/users/999999", "", http.StatusUnauthorized, "Missing or malformed bearer token"},
		{"garbage token", "/api/users/999999", "not-a-jwt", http.StatusUnauthorized, "Invalid or expired token"},
		{"missing user", "/api/users/999999", token, http.StatusNotFound, "User with ID 999999 not found"},
		{"non-integer id", "/api/users/abc", token, http.StatusBadRequest, "Validation failed (numeric string is expected)"},
		{"fractional id", "/api/users/1.5", token, http.StatusBadRequest, "Validation failed (numeric string is expected)"},
		{"zero id", "/api/users/0", token, http.StatusNotFound, "User with ID 0 not found"},
		{"negative id", "/api/users/-1", token, http.StatusNotFound, "User with ID -1 not found"},
		{"smoke test stays protected", "/api/users/admin/test", "", http.StatusUnauthorized, "Missing or malformed bearer token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, h, http.MethodGet, tt.path, "", tt.token)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
			if env.Message != tt.message {
				t.Errorf("message = %q, want %q", env.Message, tt.message)
			}
			if env.StatusCode != tt.status {
				t.Errorf("statusCode = %d", env.StatusCode)
			}
		})
	}
}

func TestUserLifecycle(t *testing.T) {
	h := newTestServer(t)
	token := register(t, h, "tester@example.com")

	w, env := do(t, h, http.MethodPost, "/api/users", johnDoe, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	var created struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Address  struct {
			Geo struct {
				Lat string `json:"lat"`
			} `json:"geo"`
		} `json:"address"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatal(err)
	}
	if created.ID == 0 || created.Username != "johndoe" || created.Address.Geo.Lat != "-37.3159" {
		t.Fatalf("created = %+v", created)
	}
	path := "/api/users/" + jsonInt(created.ID)

	w, _ = do(t, h, http.MethodPost, "/api/users", johnDoe, token)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate create status = %d, want 409", w.Code)
	}

	w, env = do(t, h, http.MethodPut, path, `{"name":"Jane","admin":true}`, token)
	if w.Code != http.StatusBadRequest || env.Errors["admin"] == "" {
		t.Errorf("unknown field: status = %d errors = %v", w.Code, env.Errors)
	}

	w, env = do(t, h, http.MethodPut, path, `{"name":"Jane Doe"}`, token)
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d", w.Code)
	}
	if !bytes.Contains(env.Data, []byte(`"name":"Jane Doe"`)) || !bytes.Contains(env.Data, []byte(`"username":"johndoe"`)) {
		t.Errorf("update data = %s", env.Data)
	}

	w, env = do(t, h, http.MethodGet, "/api/users", "", token)
	if w.Code != http.StatusOK || !bytes.HasPrefix(env.Data, []byte("[")) {
		t.Errorf("list = %d %s", w.Code, env.Data)
	}

	w, _ = do(t, h, http.MethodDelete, path, "", token)
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Errorf("delete = %d body %q", w.Code, w.Body.String())
	}
	w, _ = do(t, h, http.MethodGet, path, "", token)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d", w.Code)
	}
	w, _ = do(t, h, http.MethodDelete, path, "", token)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete = %d", w.Code)
	}
	w, env = do(t, h, http.MethodDelete, "/api/users/-1", "", token)
	if w.Code != http.StatusNotFound || env.Message != "User with ID -1 not found" {
		t.Errorf("delete negative id = %d %q", w.Code, env.Message)
	}
	w, env = do(t, h, http.MethodPut, "/api/users/0", `{"name":"Nobody"}`, token)
	if w.Code != http.StatusNotFound || env.Message != "User with ID 0 not found" {
		t.Errorf("update zero id = %d %q", w.Code, env.Message)
	}
	w, env = do(t, h, http.MethodPut, path, `{"address":{"street":"x","suite":"x","city":"x","zipcode":"123456789012345678901","geo":{"lat":"1","lng":"2"}}}`, token)
	if w.Code != http.StatusBadRequest || env.Errors["address.zipcode"] != "must be at most 20 characters long" {
		t.Errorf("long zipcode = %d %v", w.Code, env.Errors)
	}
}

func TestSearchWithoutIndex(t *testing.T) {
	h := newTestServer(t)
	token := register(t, h, "tester@example.com")

	w, env := do(t, h, http.MethodGet, "/api/users/search?q=john", "", token)
	if w.Code != http.StatusOK || string(env.Data) != "[]" {
		t.Errorf("search = %d %s", w.Code, env.Data)
	}
	w, env = do(t, h, http.MethodGet, "/api/users/search", "", token)
	if w.Code != http.StatusBadRequest || env.Errors["q"] == "" {
		t.Errorf("search without q = %d %v", w.Code, env.Errors)
	}
	w, _ = do(t, h, http.MethodGet, "/api/users/search?q=john&size=500", "", token)
	if w.Code != http.StatusBadRequest {
		t.Errorf("oversized search = %d, want 400", w.Code)
	}
}

func TestPublicRoutes(t *testing.T) {
	h := newTestServer(t)

	w, env := do(t, h, http.MethodGet, "/api/health", "", "")
	if w.Code != http.StatusOK || !bytes.Contains(env.Data, []byte(`"status":"ok"`)) {
		t.Errorf("health = %d %s", w.Code, env.Data)
	}
	for path, msg := range map[string]string{
		"/api/auth/admin/test":   "Auth API is working!",
		"/api/health/admin/test": "Health API is working!",
	} {
		w, env = do(t, h, http.MethodGet, path, "", "")
		if w.Code != http.StatusOK || !bytes.Contains(env.Data, []byte(msg)) {
			t.Errorf("%s = %d %s", path, w.Code, env.Data)
		}
	}

	w, env = do(t, h, http.MethodGet, "/api/nope", "", "")
	if w.Code != http.StatusNotFound || env.Message != "Cannot GET /api/nope" {
		t.Errorf("unknown route = %d %q", w.Code, env.Message)
	}

	w, _ = do(t, h, http.MethodGet, "/metrics", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Errorf("metrics = %d", w.Code)
	}
}

func TestEngineClientIP(t *testing.T) {
	tests := []struct {
		name     string
		proxies  string
		platform string
		headers  map[string]string
		want     string
	}{
		{"no trusted proxies", "", "", map[string]string{"X-Forwarded-For": "198.51.100.1", "X-Real-IP": "198.51.100.2"}, "192.0.2.1"},
		{"trusted load balancer", "192.0.2.0/24", "", map[string]string{"X-Forwarded-For": "198.51.100.1"}, "198.51.100.1"},
		{"cloudflare", "", config.PlatformCloudflare, map[string]string{"CF-Connecting-IP": "203.0.113.9"}, "203.0.113.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &container.Container{
				Config: &config.Config{
					Env:                "test",
					JWTSecret:          "test-secret",
					JWTExpiresIn:       time.Hour,
					TrustedProxiesList: tt.proxies,
					TrustedPlatform:    tt.platform,
				},
				Logger:      helpers.NewDiscardLogger(),
				Credentials: &memCredentials{},
				Users:       newMemUsers(),
			}
			c.Build()
			h := NewEngine(c)
			h.GET("/whoami", func(ctx *gin.Context) { ctx.String(http.StatusOK, ctx.GetString(middleware.CtxRealIP)) })

			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Body.String() != tt.want {
				t.Errorf("client ip = %q, want %q", w.Body.String(), tt.want)
			}
		})
	}
}

func TestRequestIDHeader(t *testing.T) {
	h := newTestServer(t)
	w, _ := do(t, h, http.MethodGet, "/api/health", "", "")
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
}

type stubModule []route.Route

func (m stubModule) Routes() []route.Route { return m }

func TestRegistry_IsPublic(t *testing.T) {
	var order []string
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) { order = append(order, name) }
	}

	r := NewRegistry(gin.New())
	r.UseProtected(mark("protected"))
	r.Add(stubModule{
		{Method: http.MethodGet, Path: "/open/:id", Public: true, Handlers: []gin.HandlerFunc{mark("open")}},
		{Method: http.MethodGet, Path: "/closed", Handlers: []gin.HandlerFunc{mark("closed")}},
	})
	r.RegisterAll()

	if !r.IsPublic(http.MethodGet, "/api/open/:id") {
		t.Error("GET /api/open/:id should be public")
	}
	if r.IsPublic(http.MethodPost, "/api/open/:id") {
		t.Error("public flag must be per method")
	}
	if r.IsPublic(http.MethodGet, "/api/closed") {
		t.Error("GET /api/closed should be protected")
	}

	for _, p := range []string{"/api/open/1", "/api/closed"} {
		r.Engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}
	want := []string{"open", "protected", "closed"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("handler order = %v, want %v", order, want)
	}
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
