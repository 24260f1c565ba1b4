package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bloomlog/internal/db"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// newAuthTestEngine 挂上会话中间件，注册/登录处理器依赖它写 cookie
func newAuthTestEngine(api *API) *gin.Engine {
	r := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	r.Use(sessions.Sessions("bloomlog_session", store))
	r.POST("/auth/signup", api.Signup)
	r.POST("/auth/login", api.Login)
	return r
}

func TestSignupCreatesProfileWithDefaults(t *testing.T) {
	api := setupTestAPI(t)
	r := newAuthTestEngine(api)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/auth/signup", map[string]string{
		"email":    "Nina@Example.com",
		"name":     "Nina",
		"password": "hunter2-hunter2",
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(w.Result().Cookies()) == 0 {
		t.Fatal("expected a session cookie after signup")
	}

	var user db.User
	if err := api.db.Where("email = ?", "nina@example.com").First(&user).Error; err != nil {
		t.Fatalf("expected user credentials to be created: %v", err)
	}
	if user.Password == "hunter2-hunter2" {
		t.Fatal("expected password to be hashed")
	}

	profile, err := api.profiles.Get()
	if err != nil {
		t.Fatalf("expected profile to be created: %v", err)
	}
	if profile.Plan != "free" || !profile.ReminderEnabled || profile.ReminderTime != "09:00" {
		t.Fatalf("unexpected profile defaults: %+v", profile)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	api := setupTestAPI(t)
	r := newAuthTestEngine(api)

	payload := map[string]string{"email": "dup@example.com", "name": "Dup", "password": "secret-pass"}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/auth/signup", payload))
	if w.Code != http.StatusOK {
		t.Fatalf("first signup failed: %d", w.Code)
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, jsonRequest(t, http.MethodPost, "/auth/signup", payload))
	if w2.Code != http.StatusConflict {
		t.Fatalf("expected status 409 for duplicate signup, got %d", w2.Code)
	}
}

func TestSignupLeavesNoOrphanCredentials(t *testing.T) {
	api := setupTestAPI(t)
	r := newAuthTestEngine(api)

	// 邮箱已被档案占用时整个注册回滚，不留下孤儿凭据挡住后续注册
	if err := api.db.Create(&db.UserProfile{UUID: "taken-uuid", Email: "taken@example.com", Name: "Taken"}).Error; err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/auth/signup", map[string]string{
		"email":    "taken@example.com",
		"name":     "Late",
		"password": "some-password",
	}))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}

	var count int64
	if err := api.db.Model(&db.User{}).Where("email = ?", "taken@example.com").Count(&count).Error; err != nil {
		t.Fatalf("failed to count users: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no credential row after failed signup, found %d", count)
	}
}

func TestSignupRequiresEmailAndPassword(t *testing.T) {
	api := setupTestAPI(t)
	r := newAuthTestEngine(api)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/auth/signup", map[string]string{"name": "anon"}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["error"] == "" {
		t.Fatal("expected an error message")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	api := setupTestAPI(t)
	r := newAuthTestEngine(api)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/auth/signup", map[string]string{
		"email":    "leo@example.com",
		"name":     "Leo",
		"password": "correct-horse",
	}))
	if w.Code != http.StatusOK {
		t.Fatalf("signup failed: %d", w.Code)
	}

	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, jsonRequest(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "leo@example.com",
		"password": "battery-staple",
	}))
	if w2.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w2.Code)
	}

	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, jsonRequest(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    "leo@example.com",
		"password": "correct-horse",
	}))
	if w3.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w3.Code)
	}
}
