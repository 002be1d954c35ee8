package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestIssueAndVerifyRoundtrip(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour)

	token, err := sessions.Issue(Identity{ID: "u1", Email: "kaas@example.nl", IsAdmin: true})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	id, err := sessions.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id.ID != "u1" || id.Email != "kaas@example.nl" || !id.IsAdmin {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestVerifyRejectsGarbageAndWrongSecret(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour)

	if _, err := sessions.Verify("not-a-token"); err == nil {
		t.Fatalf("expected error for garbage token")
	}

	other := NewSessions("other-secret", time.Hour)
	token, err := other.Issue(Identity{ID: "u1", Email: "kaas@example.nl"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := sessions.Verify(token); err == nil {
		t.Fatalf("expected error for token signed with another secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	sessions := NewSessions("test-secret", -time.Minute)
	token, err := sessions.Issue(Identity{ID: "u1", Email: "kaas@example.nl"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := sessions.Verify(token); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func newAuthRouter(sessions *Sessions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware(sessions))
	router.GET("/open", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/mijn", RequireAuth(), func(c *gin.Context) {
		id, _ := CurrentIdentity(c)
		c.JSON(http.StatusOK, id)
	})
	router.GET("/admin", RequireAuth(), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestMiddlewareGuestPassesOpenRoute(t *testing.T) {
	router := newAuthRouter(NewSessions("test-secret", time.Hour))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mijn", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for guest on protected route, got %d", rec.Code)
	}
}

func TestRequireAdminRejectsRegularUser(t *testing.T) {
	sessions := NewSessions("test-secret", time.Hour)
	router := newAuthRouter(sessions)

	token, err := sessions.Issue(Identity{ID: "u1", Email: "kaas@example.nl", IsAdmin: false})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/mijn", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on /mijn, got %d", rec.Code)
	}
}
