package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shipdesk/internal/domain"
	"shipdesk/internal/service"
	"shipdesk/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authRouter(authSvc service.AuthService, regSvc service.RegistrationService) *gin.Engine {
	r := gin.New()
	h := NewAuthHandler(authSvc, regSvc)
	r.POST("/auth/register", h.Register)
	r.POST("/auth/send-otp", h.SendOTP)
	r.POST("/auth/verify-otp", h.VerifyOTP)
	r.POST("/auth/login", h.Login)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestLoginHandlerEmailNotFound(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	authSvc.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrEmailNotFound)

	r := authRouter(authSvc, new(mocks.MockRegistrationService))
	w := postJSON(t, r, "/auth/login", gin.H{"email": "ghost@acme.example", "password": "whatever"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EMAIL_NOT_FOUND", resp.Error.Code)
	assert.Equal(t, "Email not found", resp.Error.Message)
}

func TestLoginHandlerInvalidPassword(t *testing.T) {
	authSvc := new(mocks.MockAuthService)
	authSvc.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidPassword)

	r := authRouter(authSvc, new(mocks.MockRegistrationService))
	w := postJSON(t, r, "/auth/login", gin.H{"email": "ops@acme.example", "password": "wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "Invalid password", resp.Error.Message)
}

func TestLoginHandlerValidation(t *testing.T) {
	r := authRouter(new(mocks.MockAuthService), new(mocks.MockRegistrationService))
	w := postJSON(t, r, "/auth/login", gin.H{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterHandlerDuplicate(t *testing.T) {
	regSvc := new(mocks.MockRegistrationService)
	regSvc.On("Register", mock.Anything, mock.Anything).Return(domain.ErrDuplicateEmail)

	r := authRouter(new(mocks.MockAuthService), regSvc)
	w := postJSON(t, r, "/auth/register", gin.H{
		"email": "taken@acme.example", "password": "long-enough-pw", "name": "Somebody",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "Email already registered. Try to login.", resp.Error.Message)
}

func TestVerifyOTPHandlerExpired(t *testing.T) {
	regSvc := new(mocks.MockRegistrationService)
	regSvc.On("VerifyOTP", mock.Anything, mock.Anything).Return(nil, domain.ErrOTPExpired)

	r := authRouter(new(mocks.MockAuthService), regSvc)
	w := postJSON(t, r, "/auth/verify-otp", gin.H{"email": "pending@acme.example", "otp": "123456"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "OTP expired", resp.Error.Message)
}

func TestVerifyOTPHandlerSuccess(t *testing.T) {
	regSvc := new(mocks.MockRegistrationService)
	regSvc.On("VerifyOTP", mock.Anything, mock.Anything).Return(&service.LoginOutput{
		Tokens:  &service.TokenPair{AccessToken: "at", RefreshToken: "rt"},
		Session: domain.Session{Email: "pending@acme.example", Role: domain.RoleUser},
	}, nil)

	r := authRouter(new(mocks.MockAuthService), regSvc)
	w := postJSON(t, r, "/auth/verify-otp", gin.H{"email": "pending@acme.example", "otp": "123456"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
}

func TestSendOTPHandlerValidation(t *testing.T) {
	r := authRouter(new(mocks.MockAuthService), new(mocks.MockRegistrationService))
	w := postJSON(t, r, "/auth/send-otp", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
