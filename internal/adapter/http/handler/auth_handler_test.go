package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "todoapi/pkg/test"

	"todoapi/internal/adapter/database/repository"
	"todoapi/internal/adapter/http/handler"
	"todoapi/internal/adapter/http/routes"
	"todoapi/internal/core/model/response"
	"todoapi/internal/core/service"
	"todoapi/internal/shared"
	"todoapi/pkg/auth"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	db := InitTestDB()
	metrics := shared.NewAppMetrics(prometheus.NewRegistry())

	userRepo := repository.NewUserRepository(db)
	todoRepo := repository.NewTodoRepository(db)

	authSvc := service.NewAuthService(userRepo, auth.NewJWT("handler-test-secret", auth.DefaultTTL))
	todoSvc := service.NewTodoService(todoRepo)

	return routes.SetupRouterForTests(routes.HandlersConfig{
		AuthService: authSvc,
		AuthHandler: handler.NewAuthHandler(authSvc, metrics),
		TodoHandler: handler.NewTodoHandler(todoSvc, metrics),
	})
}

func performJSON(router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader

	if body != "" {
		reader = strings.NewReader(body)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	return rr
}

type AuthHandlerSuite struct {
	suite.Suite
	Router *gin.Engine
}

func (s *AuthHandlerSuite) SetupTest() {
	s.Router = newTestRouter()
}

func TestAuthHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) registerToken(email string) string {
	rr := performJSON(s.Router, "POST", "/api/v1/auth/register", `{"email": "`+email+`", "password": "12345678"}`, "")

	s.Require().Equal(http.StatusCreated, rr.Code)

	var data response.AuthResponse
	json.Unmarshal(rr.Body.Bytes(), &data)

	return data.AccessToken
}

func (s *AuthHandlerSuite) TestRegisterSuccess() {
	rr := performJSON(s.Router, "POST", "/api/v1/auth/register", `{"email": "eu@test.com", "password": "12345678"}`, "")

	Expect(rr.Code).To(Equal(http.StatusCreated))

	var data response.AuthResponse
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data.AccessToken).ToNot(BeEmpty())
	Expect(data.TokenType).To(Equal("bearer"))
	Expect(data.User.Email).To(Equal("eu@test.com"))
}

func (s *AuthHandlerSuite) TestRegisterValidationError() {
	rr := performJSON(s.Router, "POST", "/api/v1/auth/register", `{"email": "invalid-email", "password": "123"}`, "")

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	var data response.ErrorResponse
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data.Error.Code).To(Equal("VALIDATION_ERROR"))
	Expect(len(data.Error.Errors)).To(BeNumerically(">", 0))
}

func (s *AuthHandlerSuite) TestRegisterDuplicateEmail() {
	s.registerToken("dup@test.com")

	rr := performJSON(s.Router, "POST", "/api/v1/auth/register", `{"email": "dup@test.com", "password": "12345678"}`, "")

	Expect(rr.Code).To(Equal(http.StatusConflict))

	var data response.ErrorResponse
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data.Error.Code).To(Equal("DUPLICATE_EMAIL"))
}

func (s *AuthHandlerSuite) TestLoginSuccess() {
	s.registerToken("login@test.com")

	rr := performJSON(s.Router, "POST", "/api/v1/auth/login", `{"email": "login@test.com", "password": "12345678"}`, "")

	Expect(rr.Code).To(Equal(http.StatusOK))

	var data response.AuthResponse
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data.AccessToken).ToNot(BeEmpty())
}

func (s *AuthHandlerSuite) TestLoginInvalidCredentials() {
	s.registerToken("victim@test.com")

	rr := performJSON(s.Router, "POST", "/api/v1/auth/login", `{"email": "victim@test.com", "password": "wrongpassword"}`, "")

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))

	var data response.ErrorResponse
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data.Error.Code).To(Equal("INVALID_CREDENTIALS"))
}

func (s *AuthHandlerSuite) TestMeSuccess() {
	token := s.registerToken("me@test.com")

	rr := performJSON(s.Router, "GET", "/api/v1/auth/me", "", token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	var data response.UserResponse
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data.Email).To(Equal("me@test.com"))
	Expect(data.IsActive).To(BeTrue())
}

func (s *AuthHandlerSuite) TestMeWithoutToken() {
	rr := performJSON(s.Router, "GET", "/api/v1/auth/me", "", "")

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *AuthHandlerSuite) TestMeWithGarbageToken() {
	rr := performJSON(s.Router, "GET", "/api/v1/auth/me", "", "garbage")

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))

	var data response.ErrorResponse
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data.Error.Code).To(Equal("TOKEN_INVALID"))
}
