// Mesto - Photo Card Sharing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mesto

package api

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/mesto/internal/auth"
	"github.com/tomtom215/mesto/internal/config"
	"github.com/tomtom215/mesto/internal/metrics"
	"github.com/tomtom215/mesto/internal/middleware"
	"github.com/tomtom215/mesto/internal/models"
	"github.com/tomtom215/mesto/internal/services"
	"github.com/tomtom215/mesto/internal/store"
)

// ========================================
// Test harness
// ========================================

// countingUsers counts every call that reaches the users collection.
type countingUsers struct {
	next  store.UserStore
	calls *atomic.Int64
}

func (c countingUsers) Find(ctx context.Context) ([]models.User, error) {
	c.calls.Add(1)
	return c.next.Find(ctx)
}

func (c countingUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	c.calls.Add(1)
	return c.next.FindByID(ctx, id)
}

func (c countingUsers) FindByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	c.calls.Add(1)
	return c.next.FindByIDs(ctx, ids)
}

func (c countingUsers) Create(ctx context.Context, in store.NewUser) (*models.User, error) {
	c.calls.Add(1)
	return c.next.Create(ctx, in)
}

func (c countingUsers) FindByIDAndUpdate(ctx context.Context, id string, p store.UserPatch, o store.UpdateOptions) (*models.User, error) {
	c.calls.Add(1)
	return c.next.FindByIDAndUpdate(ctx, id, p, o)
}

func (c countingUsers) FindByCredentials(ctx context.Context, email, password string) (*models.User, error) {
	c.calls.Add(1)
	return c.next.FindByCredentials(ctx, email, password)
}

// countingCards counts every call that reaches the cards collection.
type countingCards struct {
	next  store.CardStore
	calls *atomic.Int64
}

func (c countingCards) Find(ctx context.Context) ([]models.Card, error) {
	c.calls.Add(1)
	return c.next.Find(ctx)
}

func (c countingCards) FindByID(ctx context.Context, id string) (*models.Card, error) {
	c.calls.Add(1)
	return c.next.FindByID(ctx, id)
}

func (c countingCards) Create(ctx context.Context, in store.NewCard) (*models.Card, error) {
	c.calls.Add(1)
	return c.next.Create(ctx, in)
}

func (c countingCards) FindByIDAndUpdate(ctx context.Context, id string, u store.CardUpdate, o store.UpdateOptions) (*models.Card, error) {
	c.calls.Add(1)
	return c.next.FindByIDAndUpdate(ctx, id, u, o)
}

func (c countingCards) Remove(ctx context.Context, card *models.Card) error {
	c.calls.Add(1)
	return c.next.Remove(ctx, card)
}

type testEnv struct {
	handler    http.Handler
	storeCalls *atomic.Int64
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Environment: "development"},
		Security: config.SecurityConfig{
			DevSecret:         "dev-secret",
			TokenTTL:          7 * 24 * time.Hour,
			BcryptCost:        bcrypt.MinCost,
			CORSOrigins:       []string{"*"},
			RateLimitDisabled: true,
		},
	}
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()

	s, err := store.Open(store.Options{InMemory: true, BcryptCost: bcrypt.MinCost})
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	jwtManager, err := auth.NewJWTManager(cfg)
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}

	calls := &atomic.Int64{}
	users := countingUsers{next: s.Users(), calls: calls}
	cards := countingCards{next: s.Cards(), calls: calls}

	handler := NewHandler(
		services.NewUserService(users, jwtManager, bcrypt.MinCost),
		services.NewCardService(cards, users),
	)
	router := NewRouter(handler,
		auth.NewMiddleware(jwtManager, WriteError),
		NewChiMiddleware(NewChiMiddlewareConfig(cfg)),
		RouterOptions{MetricsEnabled: true, MetricsPath: "/metrics"},
	)

	return &testEnv{handler: router.SetupChi(), storeCalls: calls}
}

type response struct {
	status int
	header http.Header
	body   map[string]interface{}
	raw    string
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	resp := response{status: rec.Code, header: rec.Header(), raw: rec.Body.String()}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp.body); err != nil {
			t.Fatalf("invalid JSON response %q: %v", rec.Body.String(), err)
		}
	}
	return resp
}

func (r response) data(t *testing.T) map[string]interface{} {
	t.Helper()
	d, ok := r.body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no data object: %s", r.raw)
	}
	return d
}

func (r response) list(t *testing.T) []interface{} {
	t.Helper()
	d, ok := r.body["data"].([]interface{})
	if !ok {
		t.Fatalf("response has no data list: %s", r.raw)
	}
	return d
}

func (r response) message() string {
	m, _ := r.body["message"].(string)
	return m
}

// signupAndSignin registers email and returns its id and token.
func (e *testEnv) signupAndSignin(t *testing.T, email string) (string, string) {
	t.Helper()
	creds := `{"email":"` + email + `","password":"password1"}`

	reg := e.do(t, http.MethodPost, "/signup", "", creds)
	if reg.status != http.StatusOK {
		t.Fatalf("signup status = %d: %s", reg.status, reg.raw)
	}
	login := e.do(t, http.MethodPost, "/signin", "", creds)
	if login.status != http.StatusOK {
		t.Fatalf("signin status = %d: %s", login.status, login.raw)
	}
	token, _ := login.body["token"].(string)
	id, _ := reg.data(t)["_id"].(string)
	return id, token
}

// ========================================
// Users
// ========================================

func TestEndToEnd_RegisterLoginMe(t *testing.T) {
	env := newTestEnv(t, testConfig())

	reg := env.do(t, http.MethodPost, "/signup", "", `{"email":"a@b.com","password":"password1"}`)
	if reg.status != http.StatusOK {
		t.Fatalf("signup status = %d: %s", reg.status, reg.raw)
	}
	user := reg.data(t)
	if _, leaked := user["password"]; leaked {
		t.Error("signup response contains password")
	}
	if user["name"] != models.DefaultUserName || user["email"] != "a@b.com" {
		t.Errorf("signup data = %v", user)
	}

	login := env.do(t, http.MethodPost, "/signin", "", `{"email":"a@b.com","password":"password1"}`)
	token, _ := login.body["token"].(string)
	if login.status != http.StatusOK || token == "" {
		t.Fatalf("signin = %d %s", login.status, login.raw)
	}

	me := env.do(t, http.MethodGet, "/users/me", token, "")
	if me.status != http.StatusOK {
		t.Fatalf("GET /users/me status = %d: %s", me.status, me.raw)
	}
	if me.data(t)["_id"] != user["_id"] {
		t.Errorf("me id = %v, want %v", me.data(t)["_id"], user["_id"])
	}

	byID := env.do(t, http.MethodGet, "/users/"+user["_id"].(string), token, "")
	if byID.status != http.StatusOK || byID.data(t)["email"] != "a@b.com" {
		t.Errorf("GET /users/{id} = %d %s", byID.status, byID.raw)
	}

	all := env.do(t, http.MethodGet, "/users", token, "")
	if all.status != http.StatusOK || len(all.list(t)) != 1 {
		t.Errorf("GET /users = %d %s", all.status, all.raw)
	}
}

func TestSignup_DuplicateEmailIsConflict(t *testing.T) {
	env := newTestEnv(t, testConfig())
	body := `{"email":"a@b.com","password":"password1"}`

	env.do(t, http.MethodPost, "/signup", "", body)
	dup := env.do(t, http.MethodPost, "/signup", "", body)

	if dup.status != http.StatusConflict {
		t.Errorf("duplicate signup status = %d, want 409: %s", dup.status, dup.raw)
	}
	if dup.message() != services.MsgDuplicateEmail {
		t.Errorf("message = %q", dup.message())
	}
}

func TestSignin_SameErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	env := newTestEnv(t, testConfig())
	env.signupAndSignin(t, "a@b.com")

	wrong := env.do(t, http.MethodPost, "/signin", "", `{"email":"a@b.com","password":"password2"}`)
	unknown := env.do(t, http.MethodPost, "/signin", "", `{"email":"z@b.com","password":"password1"}`)

	for _, r := range []response{wrong, unknown} {
		if r.status != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", r.status)
		}
	}
	if wrong.raw != unknown.raw {
		t.Errorf("responses differ: %q vs %q", wrong.raw, unknown.raw)
	}
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t, testConfig())
	_, token := env.signupAndSignin(t, "a@b.com")

	r := env.do(t, http.MethodPatch, "/users/me", token, `{"name":"Marie","about":"Chemist"}`)
	if r.status != http.StatusOK || r.data(t)["name"] != "Marie" || r.data(t)["about"] != "Chemist" {
		t.Errorf("PATCH /users/me = %d %s", r.status, r.raw)
	}

	empty := env.do(t, http.MethodPatch, "/users/me", token, "")
	if empty.status != http.StatusOK || empty.data(t)["name"] != "Marie" {
		t.Errorf("empty PATCH = %d %s", empty.status, empty.raw)
	}

	avatar := env.do(t, http.MethodPatch, "/users/me/avatar", token, `{"avatar":"https://example.com/a.png"}`)
	if avatar.status != http.StatusOK || avatar.data(t)["avatar"] != "https://example.com/a.png" {
		t.Errorf("PATCH /users/me/avatar = %d %s", avatar.status, avatar.raw)
	}
}

func TestUpdateProfile_VanishedIdentityIsNotFound(t *testing.T) {
	cfg := testConfig()
	env := newTestEnv(t, cfg)

	jwtManager, _ := auth.NewJWTManager(cfg)
	token, _ := jwtManager.GenerateToken("c9bf9e57-1685-4c89-bafb-ff5af830be8a")

	r := env.do(t, http.MethodPatch, "/users/me", token, `{"name":"Ghost"}`)
	if r.status != http.StatusNotFound || r.message() != services.MsgUserNotFound {
		t.Errorf("status = %d %s, want 404", r.status, r.raw)
	}

	me := env.do(t, http.MethodGet, "/users/me", token, "")
	if me.status != http.StatusNotFound {
		t.Errorf("GET /users/me status = %d, want 404", me.status)
	}
}

// ========================================
// Validation and dispatch
// ========================================

func TestValidation_RunsBeforeStoreAndAuth(t *testing.T) {
	env := newTestEnv(t, testConfig())
	_, token := env.signupAndSignin(t, "a@b.com")
	before := env.storeCalls.Load()

	tests := []struct {
		name      string
		method    string
		path      string
		token     string
		body      string
		wantKey   string
		wantSource string
	}{
		{"malformed user id", http.MethodGet, "/users/not-an-id", token, "", "userId", "params"},
		{"malformed user id without token", http.MethodGet, "/users/not-an-id", "", "", "userId", "params"},
		{"malformed card id on delete", http.MethodDelete, "/cards/123", token, "", "cardId", "params"},
		{"malformed card id on like", http.MethodPut, "/cards/123/likes", token, "", "cardId", "params"},
		{"card name too short", http.MethodPost, "/cards", token, `{"name":"B","link":"https://example.com/b.jpg"}`, "name", "body"},
		{"card link not a url", http.MethodPost, "/cards", token, `{"name":"Baikal","link":"nope"}`, "link", "body"},
		{"unknown body key", http.MethodPatch, "/users/me", token, `{"name":"Marie","owner":"x"}`, "owner", "body"},
		{"signup bad email", http.MethodPost, "/signup", "", `{"email":"nope","password":"password1"}`, "email", "body"},
		{"signin short password", http.MethodPost, "/signin", "", `{"email":"a@b.com","password":"short"}`, "password", "body"},
		{"malformed json", http.MethodPost, "/signup", "", `{"email":`, "", "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := env.do(t, tt.method, tt.path, tt.token, tt.body)
			if r.status != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", r.status, r.raw)
			}
			details, ok := r.body["validation"].(map[string]interface{})
			if !ok {
				t.Fatalf("no validation details: %s", r.raw)
			}
			if details["source"] != tt.wantSource {
				t.Errorf("source = %v, want %s", details["source"], tt.wantSource)
			}
			if tt.wantKey != "" {
				keys, _ := details["keys"].([]interface{})
				if len(keys) == 0 || keys[0] != tt.wantKey {
					t.Errorf("keys = %v, want [%s]", keys, tt.wantKey)
				}
			}
		})
	}

	if got := env.storeCalls.Load() - before; got != 0 {
		t.Errorf("validation failures reached the store %d times", got)
	}
}

func TestAuth_Required(t *testing.T) {
	env := newTestEnv(t, testConfig())

	for _, tc := range []struct{ method, path, token string }{
		{http.MethodGet, "/users", ""},
		{http.MethodGet, "/users/me", ""},
		{http.MethodGet, "/cards", "garbage"},
		{http.MethodDelete, "/cards/c9bf9e57-1685-4c89-bafb-ff5af830be8a", ""},
	} {
		r := env.do(t, tc.method, tc.path, tc.token, "")
		if r.status != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want 401", tc.method, tc.path, r.status)
		}
		if r.message() != auth.AuthorizationRequiredMessage {
			t.Errorf("%s %s message = %q", tc.method, tc.path, r.message())
		}
	}
}

func TestNotFound_CatchAll(t *testing.T) {
	env := newTestEnv(t, testConfig())
	_, token := env.signupAndSignin(t, "a@b.com")

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/nowhere"},
		{http.MethodPatch, "/cards"},
		{http.MethodPost, "/users/me"},
		{http.MethodGet, "/signup"},
	} {
		r := env.do(t, tc.method, tc.path, token, "")
		if r.status != http.StatusNotFound || r.message() != MsgRouteNotFound {
			t.Errorf("%s %s = %d %s, want 404", tc.method, tc.path, r.status, r.raw)
		}
	}
}

func TestNotFound_CountedAsUnmatched(t *testing.T) {
	env := newTestEnv(t, testConfig())
	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, middleware.UnmatchedRoute, "404")
	before := testutil.ToFloat64(counter)

	env.do(t, http.MethodGet, "/nowhere", "", "")
	env.do(t, http.MethodGet, "/still/nowhere", "", "")

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("unmatched 404s recorded = %v, want 2", got)
	}
}

func TestUpdateProfile_RejectsNonObjectBodies(t *testing.T) {
	env := newTestEnv(t, testConfig())
	_, token := env.signupAndSignin(t, "a@b.com")

	for _, body := range []string{
		`{"name":"Marie"} garbage`,
		`{"name":"Marie"}{"about":"Chemist"}`,
		`null`,
		`{"name":null}`,
	} {
		r := env.do(t, http.MethodPatch, "/users/me", token, body)
		if r.status != http.StatusBadRequest {
			t.Errorf("PATCH /users/me %s = %d %s, want 400", body, r.status, r.raw)
		}
	}

	me := env.do(t, http.MethodGet, "/users/me", token, "")
	if me.data(t)["name"] != models.DefaultUserName {
		t.Errorf("rejected bodies changed the profile: %v", me.data(t))
	}
}

// ========================================
// Cards
// ========================================

func TestEndToEnd_CardOwnership(t *testing.T) {
	env := newTestEnv(t, testConfig())
	_, tokenA := env.signupAndSignin(t, "a@b.com")
	_, tokenB := env.signupAndSignin(t, "b@b.com")

	created := env.do(t, http.MethodPost, "/cards", tokenA, `{"name":"Baikal","link":"https://example.com/b.jpg"}`)
	if created.status != http.StatusOK {
		t.Fatalf("POST /cards = %d %s", created.status, created.raw)
	}
	cardID := created.data(t)["_id"].(string)

	forbidden := env.do(t, http.MethodDelete, "/cards/"+cardID, tokenB, "")
	if forbidden.status != http.StatusForbidden {
		t.Errorf("non-owner delete status = %d, want 403", forbidden.status)
	}

	missing := env.do(t, http.MethodDelete, "/cards/c9bf9e57-1685-4c89-bafb-ff5af830be8a", tokenB, "")
	if missing.status != http.StatusNotFound {
		t.Errorf("missing card delete status = %d, want 404", missing.status)
	}

	deleted := env.do(t, http.MethodDelete, "/cards/"+cardID, tokenA, "")
	if deleted.status != http.StatusOK || deleted.data(t)["_id"] != cardID {
		t.Errorf("owner delete = %d %s", deleted.status, deleted.raw)
	}

	list := env.do(t, http.MethodGet, "/cards", tokenA, "")
	if list.status != http.StatusOK || len(list.list(t)) != 0 {
		t.Errorf("GET /cards after delete = %d %s", list.status, list.raw)
	}
}

func TestLikes_IdempotentAndPopulated(t *testing.T) {
	env := newTestEnv(t, testConfig())
	idA, tokenA := env.signupAndSignin(t, "a@b.com")
	idB, tokenB := env.signupAndSignin(t, "b@b.com")

	created := env.do(t, http.MethodPost, "/cards", tokenA, `{"name":"Baikal","link":"https://example.com/b.jpg"}`)
	cardID := created.data(t)["_id"].(string)
	if created.data(t)["owner"] != idA {
		t.Errorf("created owner = %v, want raw id %s", created.data(t)["owner"], idA)
	}

	path := "/cards/" + cardID + "/likes"
	env.do(t, http.MethodPut, path, tokenB, "")
	liked := env.do(t, http.MethodPut, path, tokenB, "")
	if liked.status != http.StatusOK {
		t.Fatalf("PUT likes = %d %s", liked.status, liked.raw)
	}

	card := liked.data(t)
	likes, _ := card["likes"].([]interface{})
	if len(likes) != 1 {
		t.Fatalf("likes after liking twice = %v", likes)
	}
	if like, _ := likes[0].(map[string]interface{}); like["_id"] != idB {
		t.Errorf("like = %v, want user %s", likes[0], idB)
	}
	if owner, _ := card["owner"].(map[string]interface{}); owner["_id"] != idA {
		t.Errorf("owner = %v, want populated user %s", card["owner"], idA)
	}

	noop := env.do(t, http.MethodDelete, path, tokenA, "")
	if l, _ := noop.data(t)["likes"].([]interface{}); len(l) != 1 {
		t.Errorf("unlike by non-liker changed likes: %v", l)
	}

	unliked := env.do(t, http.MethodDelete, path, tokenB, "")
	if l, _ := unliked.data(t)["likes"].([]interface{}); len(l) != 0 {
		t.Errorf("likes after unlike = %v", l)
	}

	missing := env.do(t, http.MethodPut, "/cards/c9bf9e57-1685-4c89-bafb-ff5af830be8a/likes", tokenB, "")
	if missing.status != http.StatusNotFound {
		t.Errorf("like on missing card = %d, want 404", missing.status)
	}
}

// ========================================
// Infrastructure
// ========================================

func TestRecoverer(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Errorf("panic value leaked to client: %s", rec.Body.String())
	}
}

func TestHandlerFunc_UntypedErrorIsInternal(t *testing.T) {
	h := HandlerFunc(func(w http.ResponseWriter, r *http.Request) error {
		return io.ErrUnexpectedEOF
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	var body models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(body.Message, "EOF") {
		t.Errorf("cause leaked to client: %q", body.Message)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Security.RateLimitDisabled = false
	cfg.Security.RateLimitReqs = 2
	cfg.Security.RateLimitWindow = time.Minute
	env := newTestEnv(t, cfg)

	var last response
	for i := 0; i < 3; i++ {
		last = env.do(t, http.MethodPost, "/signin", "", `{"email":"a@b.com","password":"password1"}`)
	}
	if last.status != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last.status)
	}
	if last.message() != MsgTooManyRequests {
		t.Errorf("message = %q", last.message())
	}
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	env := newTestEnv(t, testConfig())

	r := env.do(t, http.MethodGet, "/cards", "", "")
	if r.header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options")
	}
	if r.header.Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options")
	}
	if r.header.Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, testConfig())
	env.do(t, http.MethodGet, "/cards", "", "")

	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics status = %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("api_requests_total")) {
		t.Error("metrics output missing api_requests_total")
	}
}
