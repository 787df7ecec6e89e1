package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"resume-builder/internal/shared/auth"
)

func newAuthRouter(env string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth(env))
	router.GET("/api/v1/resume", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"principal": PrincipalFromContext(c)})
	})
	router.OPTIONS("/api/v1/resume", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func signToken(t *testing.T, caps ...string) string {
	t.Helper()
	token, err := auth.SignJWT(auth.Claims{
		Capabilities:     caps,
		RegisteredClaims: jwt.RegisteredClaims{Subject: "admin:1"},
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestAuthAllowsOptionsWithoutIdentity(t *testing.T) {
	router := newAuthRouter("dev")

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/resume", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestAuthCapabilityCheck(t *testing.T) {
	t.Setenv("JWT_SECRET", "middleware-secret")
	t.Setenv("ENV", "prod")

	tests := []struct {
		name   string
		header string
		dev    string
		want   int
	}{
		{name: "admin token", header: "Bearer " + signToken(t, auth.CapabilityManageOptions), want: http.StatusOK},
		{name: "missing capability", header: "Bearer " + signToken(t, "read"), want: http.StatusForbidden},
		{name: "malformed scheme", header: "Token abc", want: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer abc.def.ghi", want: http.StatusUnauthorized},
		{name: "dev header outside dev", dev: "jane", want: http.StatusUnauthorized},
		{name: "no identity", want: http.StatusUnauthorized},
	}

	router := newAuthRouter("prod")
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/resume", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.dev != "" {
				req.Header.Set(DevUserHeader, tt.dev)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, resp.Code, resp.Body.String())
			}
		})
	}
}

func TestAuthDevHeader(t *testing.T) {
	router := newAuthRouter("dev")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resume", nil)
	req.Header.Set(DevUserHeader, "jane")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if body := resp.Body.String(); body != `{"principal":"dev:jane"}` {
		t.Fatalf("unexpected body %s", body)
	}
}
