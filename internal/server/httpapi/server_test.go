package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sbuga/passvault/internal/common"
	"github.com/sbuga/passvault/internal/logging"
	"github.com/sbuga/passvault/internal/server/accounts"
	"github.com/sbuga/passvault/internal/server/auth"
	"github.com/sbuga/passvault/internal/server/backup"
	"github.com/sbuga/passvault/internal/server/credentials"
	"github.com/sbuga/passvault/internal/server/masterlock"
)

var testSecret = []byte("test-secret")

type fakeAccounts struct {
	registerErr error
	loginErr    error
	account     *accounts.Account
}

func (f *fakeAccounts) Register(ctx context.Context, req accounts.RegisterRequest) (*accounts.AuthResult, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return &accounts.AuthResult{Account: f.account, Token: "issued-token"}, nil
}

func (f *fakeAccounts) Login(ctx context.Context, email, password string) (*accounts.AuthResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &accounts.AuthResult{Account: f.account, Token: "issued-token"}, nil
}

func (f *fakeAccounts) GetProfile(ctx context.Context, accountID string) (*accounts.Account, error) {
	return f.account, nil
}

func (f *fakeAccounts) VerifyMasterPassword(ctx context.Context, accountID, plaintext string) (bool, error) {
	return plaintext == "mp1234567", nil
}

type fakeCredentials struct {
	records map[string]*credentials.Record
	ownerID string // last owner seen, for scoping assertions
}

func (f *fakeCredentials) Create(ctx context.Context, ownerID string, rec *credentials.Record) (*credentials.Record, error) {
	f.ownerID = ownerID
	rec.ID = "rec-1"
	rec.OwnerID = ownerID
	f.records[rec.ID] = rec
	return rec, nil
}

func (f *fakeCredentials) Get(ctx context.Context, ownerID, id string) (*credentials.Record, error) {
	f.ownerID = ownerID
	rec, ok := f.records[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return rec, nil
}

func (f *fakeCredentials) List(ctx context.Context, ownerID string, filter credentials.Filter) ([]*credentials.Record, error) {
	f.ownerID = ownerID
	out := []*credentials.Record{}
	for _, rec := range f.records {
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeCredentials) Update(ctx context.Context, ownerID, id string, rec *credentials.Record) (*credentials.Record, error) {
	f.ownerID = ownerID
	if _, ok := f.records[id]; !ok {
		return nil, common.ErrNotFound
	}
	rec.ID = id
	f.records[id] = rec
	return rec, nil
}

func (f *fakeCredentials) Delete(ctx context.Context, ownerID, id string) error {
	f.ownerID = ownerID
	if _, ok := f.records[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.records, id)
	return nil
}

type fakeBackups struct {
	snapErr error
}

func (f *fakeBackups) Snapshot(ctx context.Context, ownerID string) (*backup.Snapshot, error) {
	if f.snapErr != nil {
		return nil, f.snapErr
	}
	return &backup.Snapshot{Key: "vault/" + ownerID + "/snap.json", Records: 1, UploadedAt: time.Now()}, nil
}

func (f *fakeBackups) List(ctx context.Context, ownerID string) ([]string, error) {
	return []string{"vault/" + ownerID + "/snap.json"}, nil
}

type testEnv struct {
	server      *Server
	accounts    *fakeAccounts
	credentials *fakeCredentials
	backups     *fakeBackups
	gate        *masterlock.Gate
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := logging.NewJSON()
	env := &testEnv{
		accounts: &fakeAccounts{account: &accounts.Account{
			ID:        "acc-1",
			Email:     "a@example.com",
			FirstName: "Jane",
			LastName:  "Doe",
			CreatedAt: time.Now(),
		}},
		credentials: &fakeCredentials{records: map[string]*credentials.Record{}},
		backups:     &fakeBackups{},
		gate:        masterlock.NewGate(nil, false, logger),
	}
	env.server = NewServer(":0", logger, env.accounts, env.credentials, env.gate, env.backups, testSecret)
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.server.routes().ServeHTTP(w, r)
	return w
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken(auth.Identity{AccountID: "acc-1", Email: "a@example.com"}, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

// --- auth endpoints ---

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/auth/register",
		`{"email":"a@example.com","password":"pw1234567","masterPassword":"mp1234567","firstName":"Jane","lastName":"Doe"}`, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body)
	}

	var res struct {
		Account accountResponse `json:"account"`
		Token   string          `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Token != "issued-token" || res.Account.Email != "a@example.com" {
		t.Fatalf("unexpected response: %+v", res)
	}
}

func TestRegisterEndpoint_StatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{common.ErrValidation, http.StatusBadRequest},
		{common.ErrDuplicateEmail, http.StatusConflict},
		{common.ErrInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		env := newTestEnv(t)
		env.accounts.registerErr = tc.err
		w := env.do(t, http.MethodPost, "/api/auth/register", `{"email":"a@example.com"}`, "")
		if w.Code != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, w.Code)
		}
	}
}

func TestLoginEndpoint_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.accounts.loginErr = common.ErrInvalidCredentials

	w := env.do(t, http.MethodPost, "/api/auth/login", `{"email":"a@example.com","password":"x"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	var res errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Error != common.ErrInvalidCredentials.Error() {
		t.Fatalf("unexpected error message: %q", res.Error)
	}
}

func TestProfileEndpoint_RequiresToken(t *testing.T) {
	env := newTestEnv(t)

	for name, token := range map[string]string{
		"missing":   "",
		"malformed": "not-a-jwt",
	} {
		w := env.do(t, http.MethodGet, "/api/auth/me", "", token)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s token: expected 401, got %d", name, w.Code)
		}
	}

	expired, err := auth.GenerateToken(auth.Identity{AccountID: "acc-1"}, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if w := env.do(t, http.MethodGet, "/api/auth/me", "", expired); w.Code != http.StatusUnauthorized {
		t.Fatalf("expired token: expected 401, got %d", w.Code)
	}

	if w := env.do(t, http.MethodGet, "/api/auth/me", "", bearerToken(t)); w.Code != http.StatusOK {
		t.Fatalf("valid token: expected 200, got %d", w.Code)
	}
}

func TestVerifyMasterEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := bearerToken(t)

	w := env.do(t, http.MethodPost, "/api/auth/verify-master", `{"masterPassword":"mp1234567"}`, token)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"valid":true`) {
		t.Fatalf("expected valid=true, got %d: %s", w.Code, w.Body)
	}

	w = env.do(t, http.MethodPost, "/api/auth/verify-master", `{"masterPassword":"wrong"}`, token)
	if !strings.Contains(w.Body.String(), `"valid":false`) {
		t.Fatalf("expected valid=false, got %s", w.Body)
	}

	if w := env.do(t, http.MethodPost, "/api/auth/verify-master", `{"masterPassword":"mp1234567"}`, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated: expected 401, got %d", w.Code)
	}
}

// --- credentials endpoints ---

func TestCredentialEndpoints_CRUD(t *testing.T) {
	env := newTestEnv(t)
	token := bearerToken(t)

	body := `{"serviceName":"GitHub","serviceUrl":"https://github.com","username":"jane","email":"jane@example.com","password":"hunter2"}`
	w := env.do(t, http.MethodPost, "/api/credentials", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body)
	}
	if env.credentials.ownerID != "acc-1" {
		t.Fatalf("handler did not pass the token's account id, got %q", env.credentials.ownerID)
	}

	if w := env.do(t, http.MethodGet, "/api/credentials", "", token); w.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", w.Code)
	}

	if w := env.do(t, http.MethodGet, "/api/credentials/rec-1", "", token); w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/credentials/missing", "", token); w.Code != http.StatusNotFound {
		t.Fatalf("get missing: expected 404, got %d", w.Code)
	}

	if w := env.do(t, http.MethodPut, "/api/credentials/rec-1", body, token); w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", w.Code)
	}

	if w := env.do(t, http.MethodDelete, "/api/credentials/rec-1", "", token); w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	if w := env.do(t, http.MethodDelete, "/api/credentials/rec-1", "", token); w.Code != http.StatusNotFound {
		t.Fatalf("delete again: expected 404, got %d", w.Code)
	}
}

func TestCredentialEndpoints_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)
	if w := env.do(t, http.MethodGet, "/api/credentials", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

// --- master lock endpoints ---

func TestMasterLockEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := bearerToken(t)

	w := env.do(t, http.MethodGet, "/api/masterlock", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "needs_setup") {
		t.Fatalf("status: expected needs_setup, got %d: %s", w.Code, w.Body)
	}

	if w := env.do(t, http.MethodPost, "/api/masterlock/setup", `{"passphrase":"short"}`, token); w.Code != http.StatusBadRequest {
		t.Fatalf("short setup: expected 400, got %d", w.Code)
	}
	if w := env.do(t, http.MethodPost, "/api/masterlock/setup", `{"passphrase":"open-sesame-42"}`, token); w.Code != http.StatusCreated {
		t.Fatalf("setup: expected 201, got %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/masterlock/unlock", `{"passphrase":"open-sesame-42"}`, token)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"unlocked":true`) {
		t.Fatalf("unlock: expected unlocked=true, got %d: %s", w.Code, w.Body)
	}

	w = env.do(t, http.MethodPost, "/api/masterlock/unlock", `{"passphrase":"wrong"}`, token)
	if !strings.Contains(w.Body.String(), `"unlocked":false`) {
		t.Fatalf("wrong unlock: expected unlocked=false, got %s", w.Body)
	}
}

// --- tools endpoints ---

func TestStrengthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/tools/strength", `{"password":"Abcdefg1"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var res strengthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if res.Score != 70 {
		t.Fatalf("expected score 70, got %d", res.Score)
	}
}

func TestGenerateEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/tools/generate", `{"length":16,"includeSpecial":true}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var res generateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(res.Password) != 16 {
		t.Fatalf("expected 16-char password, got %q", res.Password)
	}

	if w := env.do(t, http.MethodPost, "/api/tools/generate", `{"length":0}`, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid length: expected 400, got %d", w.Code)
	}
}

// --- backup endpoints ---

func TestBackupEndpoints(t *testing.T) {
	env := newTestEnv(t)
	token := bearerToken(t)

	w := env.do(t, http.MethodPost, "/api/backup", "", token)
	if w.Code != http.StatusCreated {
		t.Fatalf("snapshot: expected 201, got %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/backup", "", token)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "vault/acc-1/") {
		t.Fatalf("list: unexpected response %d: %s", w.Code, w.Body)
	}

	if w := env.do(t, http.MethodPost, "/api/backup", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated snapshot: expected 401, got %d", w.Code)
	}
}
