package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/collabhub/internal/app/models"
	"github.com/yigit/collabhub/internal/app/models/dto"
	"github.com/yigit/collabhub/internal/pkg/apperrors"
	"github.com/yigit/collabhub/internal/pkg/auth"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return body
}

func TestHandleAPIErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		code    dto.ErrorCode
		message string
	}{
		{"not found", apperrors.NewResourceNotFoundError("Project not found"), 404, dto.ErrorCodeResourceNotFound, "Project not found"},
		{"forbidden", apperrors.NewForbiddenError("Only the owner"), 403, dto.ErrorCodeForbidden, "Only the owner"},
		{"invalid state", apperrors.NewInvalidStateError("Request has already been approved"), 400, dto.ErrorCodeInvalidState, "Request has already been approved"},
		{"conflict", apperrors.NewConflictError("Already a contributor"), 409, dto.ErrorCodeConflict, "Already a contributor"},
		{"unauthorized", apperrors.NewUnauthorizedError("Login required"), 401, dto.ErrorCodeUnauthorized, "Login required"},
		{"credentials", apperrors.NewCustomError(apperrors.ErrInvalidCredentials, "Bad password"), 401, dto.ErrorCodeInvalidCredentials, "Bad password"},
		{"wrapped", fmt.Errorf("respond: %w", apperrors.NewConflictError("dup")), 409, dto.ErrorCodeConflict, "dup"},
		{"bare sentinel", apperrors.ErrResourceNotFound, 404, dto.ErrorCodeResourceNotFound, "Resource not found"},
		{"unknown", errors.New("pq: connection refused at 10.0.0.5"), 500, dto.ErrorCodeInternalServer, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			HandleAPIError(c, tt.err)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			body := decodeError(t, w)
			if body.Success || body.Error == nil {
				t.Fatalf("body = %s", w.Body.String())
			}
			if body.Error.Code != tt.code || body.Error.Message != tt.message {
				t.Errorf("error = %+v", body.Error)
			}
		})
	}
}

func TestHandleAPIErrorValidationDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)

	HandleAPIError(c, apperrors.NewValidationError("Title is required", map[string]interface{}{"field": "title"}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	details, ok := decodeError(t, w).Error.Details.(map[string]interface{})
	if !ok || details["field"] != "title" {
		t.Errorf("details = %#v", details)
	}
}

func newJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "collabhub.test"})
}

func authRouter(m gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/me", m, func(c *gin.Context) {
		id := GetOptionalUserID(c)
		if id == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, id.String()+" "+c.GetString(ContextUsername))
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	jwtService := newJWT()
	user := &models.User{ID: uuid.New(), Username: "alice"}
	token, _, err := jwtService.GenerateAccessToken(user)
	if err != nil {
		t.Fatal(err)
	}
	router := authRouter(NewAuthMiddleware(jwtService).JWTAuth())

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"bearer", "Bearer " + token, "", 200},
		{"raw token", token, "", 200},
		{"query token", "", "?token=" + token, 200},
		{"missing", "", "", 401},
		{"garbage", "Bearer not.a.jwt", "", 401},
		{"wrong scheme", "Basic abc", "", 401},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			if tt.status == 200 && w.Body.String() != user.ID.String()+" alice" {
				t.Errorf("body = %q", w.Body.String())
			}
		})
	}
}

func TestJWTAuthExpiredToken(t *testing.T) {
	expired := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: -time.Minute, TokenIssuer: "collabhub.test"})
	token, _, err := expired.GenerateAccessToken(&models.User{ID: uuid.New(), Username: "alice"})
	if err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	authRouter(NewAuthMiddleware(newJWT()).JWTAuth()).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	if code := decodeError(t, w).Error.Code; code != dto.ErrorCodeExpiredToken {
		t.Errorf("code = %s", code)
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtService := newJWT()
	user := &models.User{ID: uuid.New(), Username: "bob"}
	token, _, _ := jwtService.GenerateAccessToken(user)
	router := authRouter(NewAuthMiddleware(jwtService).OptionalAuth())

	for header, want := range map[string]string{
		"":                   "anonymous",
		"Bearer garbage.x.y": "anonymous",
		"Bearer " + token:    user.ID.String() + " bob",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK || w.Body.String() != want {
			t.Errorf("header %q: %d %q, want %q", header, w.Code, w.Body.String(), want)
		}
	}
}

func TestRateLimiterAllowsBurstThenBlocks(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Minute), 2, time.Minute)
	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return current }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("burst should be allowed")
	}
	if rl.Allow("a") {
		t.Fatal("third request should be limited")
	}
	if !rl.Allow("b") {
		t.Fatal("other clients are independent")
	}

	current = current.Add(time.Minute)
	if !rl.Allow("a") {
		t.Fatal("token should refill after a minute")
	}

	current = current.Add(2 * time.Minute)
	rl.Allow("c")
	if _, ok := rl.limiters["b"]; ok {
		t.Error("idle limiter was not evicted")
	}
}

func TestRateLimiterSweepsAtMostOncePerHalfTTL(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Second), 1, time.Minute)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	current := start
	rl.now = func() time.Time { return current }

	rl.Allow("a")
	current = start.Add(40 * time.Second)
	rl.Allow("b")

	// "a" is past its TTL, but the last sweep was only 21s ago
	current = start.Add(61 * time.Second)
	rl.Allow("c")
	if _, ok := rl.limiters["a"]; !ok {
		t.Fatal("sweep ran before half the TTL elapsed")
	}

	current = start.Add(70 * time.Second)
	rl.Allow("c")
	if _, ok := rl.limiters["a"]; ok {
		t.Error("idle limiter was not evicted on the next sweep")
	}
	if len(rl.limiters) != 2 {
		t.Errorf("limiters = %d, want b and c", len(rl.limiters))
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.POST("/join", RateLimitMiddleware(1, 1), func(c *gin.Context) { c.Status(http.StatusCreated) })

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/join", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusCreated || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}

func TestBindJSONWritesValidationError(t *testing.T) {
	r := gin.New()
	r.POST("/comments", func(c *gin.Context) {
		var req dto.CreateCommentRequest
		if !BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusCreated)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/comments", nil)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if code := decodeError(t, w).Error.Code; code != dto.ErrorCodeValidationFailed {
		t.Errorf("code = %s", code)
	}
}

func TestRequestLoggerAndMetricsPassThrough(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()), Metrics())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK || w.Body.String() != "pong" {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}
}
