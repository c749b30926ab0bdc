package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestIssueAndValidate(t *testing.T) {
	issuer, err := NewIssuer("s3cret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	token, expires, err := issuer.Issue("cli")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if time.Until(expires) <= 0 {
		t.Errorf("Expected expiry in the future, got %v", expires)
	}

	subject, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if subject != "cli" {
		t.Errorf("Expected subject cli, got %q", subject)
	}
}

func TestValidateRejects(t *testing.T) {
	issuer, _ := NewIssuer("s3cret", time.Hour)
	other, _ := NewIssuer("other", time.Hour)
	foreign, _, _ := other.Issue("cli")

	expired, _ := NewIssuer("s3cret", time.Minute)
	expired.SetClock(func() time.Time { return time.Now().Add(-time.Hour) })
	old, _, _ := expired.Issue("cli")

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"expired", old},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.Validate(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	if _, err := NewIssuer("", 0); !errors.Is(err, ErrNoSecret) {
		t.Errorf("Expected ErrNoSecret, got %v", err)
	}
}

func TestExchange(t *testing.T) {
	issuer, _ := NewIssuer("s3cret", time.Hour)
	if _, _, err := issuer.Exchange("client", "wrong", "cli"); !errors.Is(err, ErrInvalidClient) {
		t.Errorf("Expected ErrInvalidClient, got %v", err)
	}
	if _, _, err := issuer.Exchange("", "", "cli"); !errors.Is(err, ErrInvalidClient) {
		t.Errorf("Expected unset client secret to refuse, got %v", err)
	}
	if _, _, err := issuer.Exchange("client", "client", "cli"); err != nil {
		t.Errorf("Expected exchange to succeed, got %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer, _ := NewIssuer("s3cret", time.Hour)
	token, _, _ := issuer.Issue("cli")

	router := gin.New()
	router.GET("/private", Middleware(issuer), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(SubjectKey))
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, w.Code)
			}
			if tt.status == http.StatusOK && w.Body.String() != "cli" {
				t.Errorf("Expected subject in context, got %q", w.Body.String())
			}
		})
	}
}
