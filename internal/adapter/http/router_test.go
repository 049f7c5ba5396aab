package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"todohub/internal/adapter/database/repository"
	httpadapter "todohub/internal/adapter/http"
	"todohub/internal/adapter/http/handler"
	"todohub/internal/adapter/ws"
	"todohub/internal/core/service"
	"todohub/pkg/auth"
	"todohub/pkg/config"
	"todohub/pkg/metrics"
	"todohub/pkg/test"
)

type RouterTestSuite struct {
	suite.Suite
	Router *gin.Engine
}

func (s *RouterTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db := test.NewDB(s.T())
	logger := zerolog.Nop()

	registry := prometheus.NewRegistry()
	appMetrics := metrics.NewAppMetrics(registry)

	cfg := config.GetDefaultConfig()
	cfg.RateLimitEnabled = false

	hub := ws.NewHub(logger, appMetrics)

	todoRepo := repository.NewTodoRepository(db)
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	shareRepo := repository.NewShareRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	presetRepo := repository.NewPresetRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)

	jwt := auth.NewJWT(cfg.JWTSecret, cfg.TokenTTL)

	todoService := service.NewTodoService(todoRepo, categoryRepo, tagRepo, logger)
	userService := service.NewUserService(userRepo, refreshRepo, jwt, logger)
	sharingService := service.NewSharingService(todoRepo, userRepo, shareRepo, activityRepo, hub, logger)
	commentService := service.NewCommentService(commentRepo, todoRepo, sharingService, logger)
	labelService := service.NewLabelService(categoryRepo, tagRepo, logger)
	presetService := service.NewPresetService(presetRepo, todoService, logger)

	s.Router = httpadapter.NewRouter(cfg, jwt, hub, httpadapter.Handlers{
		Auth:    handler.NewAuthHandler(userService, logger),
		User:    handler.NewUserHandler(userService),
		Todo:    handler.NewTodoHandler(todoService, logger, appMetrics),
		Share:   handler.NewShareHandler(sharingService, logger, appMetrics),
		Comment: handler.NewCommentHandler(commentService),
		Label:   handler.NewLabelHandler(labelService),
		Preset:  handler.NewPresetHandler(presetService),
	}, logger, appMetrics, registry)
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) request(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer

	if body != nil {
		err := json.NewEncoder(&buf).Encode(body)
		assert.NoError(s.T(), err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	s.Router.ServeHTTP(recorder, req)

	return recorder
}

func (s *RouterTestSuite) decodeData(recorder *httptest.ResponseRecorder, out any) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}

	err := json.Unmarshal(recorder.Body.Bytes(), &envelope)
	assert.NoError(s.T(), err)

	err = json.Unmarshal(envelope.Data, out)
	assert.NoError(s.T(), err)
}

func (s *RouterTestSuite) signUp(email string) string {
	recorder := s.request(http.MethodPost, "/signup", "", map[string]any{
		"email":    email,
		"password": "secret123",
	})

	assert.Equal(s.T(), http.StatusCreated, recorder.Code)

	var data struct {
		Token string `json:"token"`
	}
	s.decodeData(recorder, &data)
	assert.NotEmpty(s.T(), data.Token)

	return data.Token
}

func (s *RouterTestSuite) TestSignUpAndLogin() {
	s.signUp("flow@example.com")

	recorder := s.request(http.MethodPost, "/auth", "", map[string]any{
		"email":    "flow@example.com",
		"password": "secret123",
	})
	assert.Equal(s.T(), http.StatusOK, recorder.Code)

	recorder = s.request(http.MethodPost, "/auth", "", map[string]any{
		"email":    "flow@example.com",
		"password": "wrong-password",
	})
	assert.Equal(s.T(), http.StatusUnauthorized, recorder.Code)
}

func (s *RouterTestSuite) TestRefreshRotatesTokenPair() {
	recorder := s.request(http.MethodPost, "/signup", "", map[string]any{
		"email":    "rotate@example.com",
		"password": "secret123",
	})
	assert.Equal(s.T(), http.StatusCreated, recorder.Code)

	var signedUp struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
	}
	s.decodeData(recorder, &signedUp)
	assert.NotEmpty(s.T(), signedUp.RefreshToken)

	recorder = s.request(http.MethodPost, "/auth/refresh", "", map[string]any{
		"refresh_token": signedUp.RefreshToken,
	})
	assert.Equal(s.T(), http.StatusOK, recorder.Code)

	var refreshed struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
	}
	s.decodeData(recorder, &refreshed)
	assert.NotEmpty(s.T(), refreshed.Token)
	assert.NotEqual(s.T(), signedUp.RefreshToken, refreshed.RefreshToken)

	// The spent token no longer works.
	recorder = s.request(http.MethodPost, "/auth/refresh", "", map[string]any{
		"refresh_token": signedUp.RefreshToken,
	})
	assert.Equal(s.T(), http.StatusUnauthorized, recorder.Code)
}

func (s *RouterTestSuite) TestSignUp_ValidationError() {
	recorder := s.request(http.MethodPost, "/signup", "", map[string]any{
		"email":    "not-an-email",
		"password": "secret123",
	})

	assert.Equal(s.T(), http.StatusBadRequest, recorder.Code)
	assert.Contains(s.T(), recorder.Body.String(), "VALIDATION_ERROR")
}

func (s *RouterTestSuite) TestSignUp_DuplicateConflicts() {
	s.signUp("dup@example.com")

	recorder := s.request(http.MethodPost, "/signup", "", map[string]any{
		"email":    "dup@example.com",
		"password": "secret123",
	})

	assert.Equal(s.T(), http.StatusConflict, recorder.Code)
}

func (s *RouterTestSuite) TestProtectedRoutesRejectMissingToken() {
	recorder := s.request(http.MethodGet, "/todos", "", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, recorder.Code)

	recorder = s.request(http.MethodGet, "/todos", "garbage-token", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, recorder.Code)
}

func (s *RouterTestSuite) TestTodoLifecycle() {
	token := s.signUp("todos@example.com")

	recorder := s.request(http.MethodPost, "/todos", token, map[string]any{
		"title":    "Write tests",
		"priority": 2,
	})
	assert.Equal(s.T(), http.StatusCreated, recorder.Code)

	var created struct {
		ID     int    `json:"id"`
		Title  string `json:"title"`
		Status string `json:"status"`
	}
	s.decodeData(recorder, &created)
	assert.Equal(s.T(), "Write tests", created.Title)
	assert.Equal(s.T(), "pending", created.Status)

	recorder = s.request(http.MethodGet, "/todos", token, nil)
	assert.Equal(s.T(), http.StatusOK, recorder.Code)
	assert.Contains(s.T(), recorder.Body.String(), "Write tests")

	recorder = s.request(http.MethodPut, fmt.Sprintf("/todos/%d", created.ID), token, map[string]any{
		"is_completed": true,
	})
	assert.Equal(s.T(), http.StatusOK, recorder.Code)

	var updated struct {
		IsCompleted bool `json:"is_completed"`
	}
	s.decodeData(recorder, &updated)
	assert.True(s.T(), updated.IsCompleted)

	recorder = s.request(http.MethodDelete, fmt.Sprintf("/todos/%d", created.ID), token, nil)
	assert.Equal(s.T(), http.StatusNoContent, recorder.Code)

	recorder = s.request(http.MethodGet, fmt.Sprintf("/todos/%d", created.ID), token, nil)
	assert.Equal(s.T(), http.StatusNotFound, recorder.Code)
}

func (s *RouterTestSuite) TestSearchViaQueryString() {
	token := s.signUp("search@example.com")

	s.request(http.MethodPost, "/todos", token, map[string]any{"title": "Buy milk"})
	s.request(http.MethodPost, "/todos", token, map[string]any{"title": "Walk dog"})

	recorder := s.request(http.MethodGet, "/todos/search?search_query=milk", token, nil)
	assert.Equal(s.T(), http.StatusOK, recorder.Code)

	var result struct {
		TotalCount int `json:"total_count"`
	}
	s.decodeData(recorder, &result)
	assert.Equal(s.T(), 1, result.TotalCount)
}

func (s *RouterTestSuite) TestShareFlowOverHTTP() {
	ownerToken := s.signUp("owner@example.com")
	friendToken := s.signUp("friend@example.com")

	recorder := s.request(http.MethodPost, "/todos", ownerToken, map[string]any{"title": "Shared"})
	assert.Equal(s.T(), http.StatusCreated, recorder.Code)

	var todo struct {
		ID int `json:"id"`
	}
	s.decodeData(recorder, &todo)

	var friend struct {
		ID int `json:"id"`
	}
	recorder = s.request(http.MethodGet, "/users/me", friendToken, nil)
	assert.Equal(s.T(), http.StatusOK, recorder.Code)
	s.decodeData(recorder, &friend)

	recorder = s.request(http.MethodPost, fmt.Sprintf("/todos/%d/shares", todo.ID), ownerToken, map[string]any{
		"shared_with_user_id": friend.ID,
		"permission":          "edit",
	})
	assert.Equal(s.T(), http.StatusCreated, recorder.Code)

	recorder = s.request(http.MethodGet, "/shared-with-me", friendToken, nil)
	assert.Equal(s.T(), http.StatusOK, recorder.Code)
	assert.Contains(s.T(), recorder.Body.String(), "Shared")
	assert.Contains(s.T(), recorder.Body.String(), "owner@example.com")

	// Sharing twice conflicts.
	recorder = s.request(http.MethodPost, fmt.Sprintf("/todos/%d/shares", todo.ID), ownerToken, map[string]any{
		"shared_with_user_id": friend.ID,
		"permission":          "edit",
	})
	assert.Equal(s.T(), http.StatusConflict, recorder.Code)
}

func (s *RouterTestSuite) TestMetricsEndpointIsPublic() {
	recorder := s.request(http.MethodGet, "/metrics", "", nil)
	assert.Equal(s.T(), http.StatusOK, recorder.Code)
}
