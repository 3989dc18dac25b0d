package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AgnesMuita/asset-maintenance-api/internal/bootstrap"
	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
	"github.com/AgnesMuita/asset-maintenance-api/internal/http/router"
)

func startServer(t *testing.T) (*httptest.Server, *bootstrap.Set) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	set, err := bootstrap.Build(db, bootstrap.Options{
		AccessSecret:  "integration-access-secret",
		RefreshSecret: "integration-refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    2 * time.Hour,
		Pepper:        "integration-pepper",
		MarkerTTL:     time.Minute,
		Retention:     time.Hour,
		SweepInterval: time.Hour,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	dep := set.RouterDependencies()
	dep.AuthRateLimitRPM = 1000
	dep.APIRateLimitRPM = 1000
	srv := httptest.NewServer(router.NewRouter(dep))
	t.Cleanup(srv.Close)
	return srv, set
}

type authPayload struct {
	Success bool `json:"success"`
	Data    struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	} `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func postJSON(t *testing.T, url, body string) (*http.Response, authPayload) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var payload authPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return resp, payload
}

func TestRefreshRotationEndToEnd(t *testing.T) {
	srv, set := startServer(t)

	resp, reg := postJSON(t, srv.URL+"/api/v1/auth/register",
		`{"first_name":"Ann","email":"ann@example.com","password":"pass-word-1"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}
	if reg.Data.AccessToken == "" || reg.Data.RefreshToken == "" {
		t.Fatal("register: expected both tokens")
	}

	account, err := set.Accounts.FindByEmail("ann@example.com")
	if err != nil {
		t.Fatalf("find account: %v", err)
	}
	if n, err := set.Tokens.CountActiveForAccount(account.ID); err != nil || n != 1 {
		t.Fatalf("expected 1 active session after register, got %d (err %v)", n, err)
	}

	resp, refreshed := postJSON(t, srv.URL+"/api/v1/auth/refreshToken",
		fmt.Sprintf(`{"refreshToken":%q}`, reg.Data.RefreshToken))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d", resp.StatusCode)
	}
	if refreshed.Data.RefreshToken == "" || refreshed.Data.RefreshToken == reg.Data.RefreshToken {
		t.Fatal("refresh must return a different refresh token")
	}

	// The original token was consumed by the rotation.
	resp, replay := postJSON(t, srv.URL+"/api/v1/auth/refreshToken",
		fmt.Sprintf(`{"refreshToken":%q}`, reg.Data.RefreshToken))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("replay: expected 401, got %d", resp.StatusCode)
	}
	if replay.Error == nil || replay.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("replay: expected UNAUTHORIZED code, got %+v", replay.Error)
	}

	// The rotated token still works.
	resp, _ = postJSON(t, srv.URL+"/api/v1/auth/refreshToken",
		fmt.Sprintf(`{"refreshToken":%q}`, refreshed.Data.RefreshToken))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("rotated token refresh: expected 200, got %d", resp.StatusCode)
	}
}

func TestLoginDistinguishesUnknownAccountFromBadPassword(t *testing.T) {
	srv, _ := startServer(t)

	postJSON(t, srv.URL+"/api/v1/auth/register",
		`{"first_name":"Bob","email":"bob@example.com","password":"right-password"}`)

	resp, payload := postJSON(t, srv.URL+"/api/v1/auth/login",
		`{"email":"nobody@example.com","password":"whatever"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown account: expected 404, got %d", resp.StatusCode)
	}
	if payload.Error == nil || payload.Error.Code != "NOT_FOUND" {
		t.Fatalf("unknown account: expected NOT_FOUND, got %+v", payload.Error)
	}

	resp, payload = postJSON(t, srv.URL+"/api/v1/auth/login",
		`{"email":"bob@example.com","password":"wrong-password"}`)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("bad password: expected 403, got %d", resp.StatusCode)
	}
	if payload.Error == nil || payload.Error.Code != "INVALID_CREDENTIALS" {
		t.Fatalf("bad password: expected INVALID_CREDENTIALS, got %+v", payload.Error)
	}
}

func TestRevokeAllKillsEverySession(t *testing.T) {
	srv, set := startServer(t)

	_, reg := postJSON(t, srv.URL+"/api/v1/auth/register",
		`{"first_name":"Cat","email":"cat@example.com","password":"pass-word-1"}`)

	for i := 0; i < 2; i++ {
		resp, _ := postJSON(t, srv.URL+"/api/v1/auth/login",
			`{"email":"cat@example.com","password":"pass-word-1"}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("login %d: expected 200, got %d", i, resp.StatusCode)
		}
	}

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/auth/revokeRefreshTokens", nil)
	req.Header.Set("Authorization", "Bearer "+reg.Data.AccessToken)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("revoke: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("revoke: expected 200, got %d", resp.StatusCode)
	}

	account, err := set.Accounts.FindByEmail("cat@example.com")
	if err != nil {
		t.Fatalf("find account: %v", err)
	}
	if n, err := set.Tokens.CountActiveForAccount(account.ID); err != nil || n != 0 {
		t.Fatalf("expected 0 active sessions after revoke, got %d (err %v)", n, err)
	}

	// Register session was revoked too; its refresh token is dead.
	refreshResp, _ := postJSON(t, srv.URL+"/api/v1/auth/refreshToken",
		fmt.Sprintf(`{"refreshToken":%q}`, reg.Data.RefreshToken))
	if refreshResp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("revoked refresh: expected 401, got %d", refreshResp.StatusCode)
	}
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	srv, _ := startServer(t)
	resp, payload := postJSON(t, srv.URL+"/api/v1/auth/register", `{"email":"x@example.com"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if payload.Error == nil || payload.Error.Code != "BAD_REQUEST" {
		t.Fatalf("expected BAD_REQUEST, got %+v", payload.Error)
	}
}

func TestRegisterWithOnlyEmailAndPassword(t *testing.T) {
	srv, set := startServer(t)

	resp, payload := postJSON(t, srv.URL+"/api/v1/auth/register",
		`{"email":"a@x.com","password":"pw123456"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for minimal registration, got %d", resp.StatusCode)
	}
	if payload.Data.AccessToken == "" || payload.Data.RefreshToken == "" {
		t.Fatal("expected both tokens in minimal registration response")
	}

	account, err := set.Accounts.FindByEmail("a@x.com")
	if err != nil {
		t.Fatalf("find account: %v", err)
	}
	if account.Role != domain.RoleBasic {
		t.Fatalf("expected basic role on self-registration, got %q", account.Role)
	}
}

func TestRegisterCannotChooseRole(t *testing.T) {
	srv, set := startServer(t)

	resp, _ := postJSON(t, srv.URL+"/api/v1/auth/register",
		`{"email":"sneaky@example.com","password":"pw123456","role":"superadmin"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role field, got %d", resp.StatusCode)
	}
	if _, err := set.Accounts.FindByEmail("sneaky@example.com"); err == nil {
		t.Fatal("expected no account created from rejected registration")
	}
}

func TestRevokeOtherAccountNeedsCapability(t *testing.T) {
	srv, set := startServer(t)

	postJSON(t, srv.URL+"/api/v1/auth/register",
		`{"email":"victim@example.com","password":"pw123456"}`)
	_, caller := postJSON(t, srv.URL+"/api/v1/auth/register",
		`{"email":"caller@example.com","password":"pw123456"}`)

	victimAccount, err := set.Accounts.FindByEmail("victim@example.com")
	if err != nil {
		t.Fatalf("find victim: %v", err)
	}

	revoke := func(token, body string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/auth/revokeRefreshTokens", strings.NewReader(body))
		if err != nil {
			t.Fatalf("build revoke request: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("revoke: %v", err)
		}
		resp.Body.Close()
		return resp
	}

	// A basic caller naming another account is refused and the victim's
	// session survives.
	resp := revoke(caller.Data.AccessToken, fmt.Sprintf(`{"userId":%d}`, victimAccount.ID))
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("cross-account revoke by basic role: expected 403, got %d", resp.StatusCode)
	}
	if n, err := set.Tokens.CountActiveForAccount(victimAccount.ID); err != nil || n != 1 {
		t.Fatalf("expected victim session untouched, got %d (err %v)", n, err)
	}

	admin := &domain.Account{
		FirstName:    "Ops",
		Email:        "ops@example.com",
		PasswordHash: "x",
		Role:         domain.RoleAdmin,
		Active:       true,
	}
	if err := set.Accounts.Create(admin); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	adminToken, err := set.JWTManager.SignAccessToken(admin.ID, string(admin.Role))
	if err != nil {
		t.Fatalf("sign admin token: %v", err)
	}

	resp = revoke(adminToken, fmt.Sprintf(`{"userId":%d}`, victimAccount.ID))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cross-account revoke by admin: expected 200, got %d", resp.StatusCode)
	}
	if n, err := set.Tokens.CountActiveForAccount(victimAccount.ID); err != nil || n != 0 {
		t.Fatalf("expected victim sessions revoked, got %d (err %v)", n, err)
	}

	// The caller's own session was not collateral damage.
	callerAccount, err := set.Accounts.FindByEmail("caller@example.com")
	if err != nil {
		t.Fatalf("find caller: %v", err)
	}
	if n, err := set.Tokens.CountActiveForAccount(callerAccount.ID); err != nil || n != 1 {
		t.Fatalf("expected caller session intact, got %d (err %v)", n, err)
	}
}
