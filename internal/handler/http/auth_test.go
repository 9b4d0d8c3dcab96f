package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tindago/shop-backend-go/internal/domain/auth"
	"github.com/tindago/shop-backend-go/internal/pkg/jwt"
)

type stubAuthService struct {
	login func(req auth.LoginRequest) (auth.LoginResponse, error)
}

func (s *stubAuthService) Login(_ context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	return s.login(req)
}

func (s *stubAuthService) Refresh(_ context.Context, _ string) (auth.RefreshResponse, error) {
	return auth.RefreshResponse{}, auth.ErrInvalidToken
}

func (s *stubAuthService) Logout(_ context.Context, _ string) error {
	return nil
}

func newTestJWTService() jwt.Service {
	return jwt.NewJWTService("test-secret-key-for-jwt", "1h", "24h")
}

func TestLoginSetsRefreshCookie(t *testing.T) {
	jwtService := newTestJWTService()
	svc := &stubAuthService{
		login: func(req auth.LoginRequest) (auth.LoginResponse, error) {
			require.Equal(t, "CASH-001", req.EmployeeCode)
			token, exp, err := jwtService.GenerateRefreshToken("staff-1")
			require.NoError(t, err)
			return auth.LoginResponse{
				AccessToken:      "access-token",
				RefreshToken:     token,
				RefreshExpiresAt: exp,
				StaffID:          "staff-1",
				Name:             "Ana",
				Role:             "cashier",
			}, nil
		},
	}
	handler := NewAuthHandler(svc, jwtService)

	body, _ := json.Marshal(map[string]string{
		"employee_code": "CASH-001",
		"password":      "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			AccessToken string `json:"access_token"`
			StaffID     string `json:"staff_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "access-token", envelope.Data.AccessToken)
	assert.Equal(t, "staff-1", envelope.Data.StaffID)
	assert.NotContains(t, rec.Body.String(), "refresh_token")

	var refreshCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refresh_token" {
			refreshCookie = c
		}
	}
	require.NotNil(t, refreshCookie, "refresh token must be set as a cookie")
	assert.True(t, refreshCookie.HttpOnly)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{
		login: func(auth.LoginRequest) (auth.LoginResponse, error) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(svc, newTestJWTService())

	body, _ := json.Marshal(map[string]string{
		"employee_code": "CASH-001",
		"password":      "wrong",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestLoginMalformedBody(t *testing.T) {
	svc := &stubAuthService{
		login: func(auth.LoginRequest) (auth.LoginResponse, error) {
			t.Fatal("service must not be called")
			return auth.LoginResponse{}, nil
		},
	}
	handler := NewAuthHandler(svc, newTestJWTService())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.Login(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
