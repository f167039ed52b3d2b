package auth

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"studycycle/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const testSecret = "test-secret"

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandler(db, testSecret, 30*time.Minute, 168*time.Hour, logger)
}

func newAuthRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignup_ThenLogin(t *testing.T) {
	h := newTestHandler(t)
	r := newAuthRouter(h)

	w := postJSON(t, r, "/auth/signup", gin.H{"email": "alice@example.com", "password": "secret1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = postJSON(t, r, "/auth/login", gin.H{"email": "alice@example.com", "password": "secret1"})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp loginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal login response: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("expected both tokens in login response")
	}
	if resp.TokenType != "bearer" {
		t.Fatalf("expected bearer token type, got %q", resp.TokenType)
	}

	uid, err := VerifyToken(resp.AccessToken, testSecret, TokenTypeAccess)
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}
	if uid != resp.UserID {
		t.Fatalf("expected user id %d in token, got %d", resp.UserID, uid)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	h := newTestHandler(t)
	r := newAuthRouter(h)

	w := postJSON(t, r, "/auth/signup", gin.H{"email": "bob@example.com", "password": "secret1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("first signup: expected 201, got %d", w.Code)
	}

	// 邮箱大小写不同也算重复
	w = postJSON(t, r, "/auth/signup", gin.H{"email": "Bob@Example.com", "password": "another1"})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate signup: expected 409, got %d", w.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newTestHandler(t)
	r := newAuthRouter(h)

	postJSON(t, r, "/auth/signup", gin.H{"email": "carol@example.com", "password": "secret1"})

	w := postJSON(t, r, "/auth/login", gin.H{"email": "carol@example.com", "password": "wrong-pass"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	// 未知邮箱与密码错误返回完全一致，不泄露账号是否存在
	w2 := postJSON(t, r, "/auth/login", gin.H{"email": "nobody@example.com", "password": "wrong-pass"})
	if w2.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown email, got %d", w2.Code)
	}
	if w.Body.String() != w2.Body.String() {
		t.Fatalf("expected identical error bodies, got %q vs %q", w.Body.String(), w2.Body.String())
	}
}

func TestRefresh_IssuesNewAccessToken(t *testing.T) {
	h := newTestHandler(t)
	r := newAuthRouter(h)

	postJSON(t, r, "/auth/signup", gin.H{"email": "dave@example.com", "password": "secret1"})
	w := postJSON(t, r, "/auth/login", gin.H{"email": "dave@example.com", "password": "secret1"})

	var login loginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil {
		t.Fatalf("unmarshal login response: %v", err)
	}

	w = postJSON(t, r, "/auth/refresh", gin.H{"refresh_token": login.RefreshToken})
	if w.Code != http.StatusOK {
		t.Fatalf("refresh: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var refreshed refreshResponse
	if err := json.Unmarshal(w.Body.Bytes(), &refreshed); err != nil {
		t.Fatalf("unmarshal refresh response: %v", err)
	}
	if _, err := VerifyToken(refreshed.AccessToken, testSecret, TokenTypeAccess); err != nil {
		t.Fatalf("verify refreshed access token: %v", err)
	}
}

func TestRefresh_RejectsAccessToken(t *testing.T) {
	h := newTestHandler(t)
	r := newAuthRouter(h)

	accessToken, err := h.IssueToken(1, TokenTypeAccess)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	// 访问令牌不能当刷新令牌用
	w := postJSON(t, r, "/auth/refresh", gin.H{"refresh_token": accessToken})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestVerifyToken_Invalid(t *testing.T) {
	h := newTestHandler(t)

	token, err := h.IssueToken(42, TokenTypeAccess)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	if _, err := VerifyToken(token, "other-secret", TokenTypeAccess); err == nil {
		t.Fatalf("expected error for wrong secret")
	}
	if _, err := VerifyToken("not-a-token", testSecret, TokenTypeAccess); err == nil {
		t.Fatalf("expected error for malformed token")
	}
	if _, err := VerifyToken(token, testSecret, TokenTypeRefresh); err == nil {
		t.Fatalf("expected error for wrong token type")
	}
}
