package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"chat-session-server/internal/middleware"
	"chat-session-server/internal/model"
	"chat-session-server/internal/repository"
	"chat-session-server/internal/service"
	"chat-session-server/pkg/response"
)

const testAPIKey = "test-secret-key"

// newTestRouter 创建测试路由
// 使用内存 SQLite，路由注册与 main 中保持一致
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ChatSession{}, &model.Message{}))

	chatService := service.NewChatService(
		repository.NewSessionRepository(db),
		repository.NewMessageRepository(db),
	)
	sessionHandler := NewSessionHandler(chatService)
	messageHandler := NewMessageHandler(chatService)

	router := gin.New()
	api := router.Group("/api")
	api.Use(middleware.APIKeyMiddleware(testAPIKey))

	sessions := api.Group("/sessions")
	{
		sessions.POST("", sessionHandler.CreateSession)
		sessions.PATCH("/:session_id/rename", sessionHandler.RenameSession)
		sessions.PATCH("/:session_id/favorite", sessionHandler.MarkFavorite)
		sessions.DELETE("/:session_id", sessionHandler.DeleteSession)
		sessions.POST("/:session_id/messages", messageHandler.AddMessage)
		sessions.GET("/:session_id/messages", messageHandler.GetMessages)
	}

	return router
}

// doRequest 发送带合法 API Key 的请求
func doRequest(router *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeResponse 解析统一响应结构
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// createSession 测试辅助：创建会话并返回 ID
func createSession(t *testing.T, router *gin.Engine, userID string) int64 {
	t.Helper()
	w := doRequest(router, http.MethodPost, "/api/sessions?user_id="+userID, "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	return int64(data["id"].(float64))
}

func TestAPIKeyRequired(t *testing.T) {
	router := newTestRouter(t)

	// 所有路由缺失或错误的 API Key 都必须返回 401，与请求体是否合法无关
	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/sessions?user_id=alice"},
		{http.MethodPatch, "/api/sessions/1/rename?name=x"},
		{http.MethodPatch, "/api/sessions/1/favorite?favorite=true"},
		{http.MethodDelete, "/api/sessions/1"},
		{http.MethodPost, "/api/sessions/1/messages?sender=user&content=hi"},
		{http.MethodGet, "/api/sessions/1/messages"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			// 无 Key
			req := httptest.NewRequest(route.method, route.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			// 错误的 Key
			req = httptest.NewRequest(route.method, route.path, nil)
			req.Header.Set(middleware.APIKeyHeader, "wrong-key")
			w = httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			resp := decodeResponse(t, w)
			assert.Equal(t, response.CodeUnauthorized, resp.Code)
		})
	}
}

func TestCreateSessionEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/sessions?user_id=alice", "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, response.CodeSuccess, resp.Code)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "alice", data["user_id"])
	assert.Equal(t, false, data["favorite"])
	assert.NotZero(t, data["id"])
}

func TestCreateSessionEndpoint_JSONBody(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/sessions", `{"user_id":"bob"}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "bob", data["user_id"])
}

func TestCreateSessionEndpoint_EmptyUserID(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/sessions", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, response.CodeValidationError, resp.Code)
}

func TestRenameSessionEndpoint(t *testing.T) {
	router := newTestRouter(t)
	sessionID := createSession(t, router, "alice")

	w := doRequest(router, http.MethodPatch,
		fmt.Sprintf("/api/sessions/%d/rename?name=renamed", sessionID), "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "renamed", data["name"])
}

func TestRenameSessionEndpoint_NotFound(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPatch, "/api/sessions/9999/rename?name=x", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, response.CodeSessionNotFound, resp.Code)
}

func TestRenameSessionEndpoint_EmptyName(t *testing.T) {
	router := newTestRouter(t)
	sessionID := createSession(t, router, "alice")

	w := doRequest(router, http.MethodPatch,
		fmt.Sprintf("/api/sessions/%d/rename", sessionID), "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestRenameSessionEndpoint_InvalidID(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPatch, "/api/sessions/abc/rename?name=x", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestMarkFavoriteEndpoint(t *testing.T) {
	router := newTestRouter(t)
	sessionID := createSession(t, router, "alice")

	w := doRequest(router, http.MethodPatch,
		fmt.Sprintf("/api/sessions/%d/favorite?favorite=true", sessionID), "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, true, data["favorite"])

	// 取消收藏
	w = doRequest(router, http.MethodPatch,
		fmt.Sprintf("/api/sessions/%d/favorite?favorite=false", sessionID), "")
	require.Equal(t, http.StatusOK, w.Code)

	resp = decodeResponse(t, w)
	data = resp.Data.(map[string]interface{})
	assert.Equal(t, false, data["favorite"])
}

func TestMarkFavoriteEndpoint_NotFound(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPatch, "/api/sessions/9999/favorite?favorite=true", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteSessionEndpoint(t *testing.T) {
	router := newTestRouter(t)
	sessionID := createSession(t, router, "alice")

	// 先写入一条消息
	w := doRequest(router, http.MethodPost,
		fmt.Sprintf("/api/sessions/%d/messages?sender=user&content=hi", sessionID), "")
	require.Equal(t, http.StatusOK, w.Code)

	// 删除会话
	w = doRequest(router, http.MethodDelete, fmt.Sprintf("/api/sessions/%d", sessionID), "")
	require.Equal(t, http.StatusOK, w.Code)

	// 删除后读取消息必须是 404，而不是空列表
	w = doRequest(router, http.MethodGet,
		fmt.Sprintf("/api/sessions/%d/messages", sessionID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteSessionEndpoint_NotFound(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodDelete, "/api/sessions/9999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddMessageEndpoint(t *testing.T) {
	router := newTestRouter(t)
	sessionID := createSession(t, router, "alice")

	w := doRequest(router, http.MethodPost,
		fmt.Sprintf("/api/sessions/%d/messages?sender=user&content=hi&context=extra", sessionID), "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "user", data["sender"])
	assert.Equal(t, "hi", data["content"])
	assert.Equal(t, "extra", data["context"])
	assert.Equal(t, float64(sessionID), data["session_id"])
}

func TestAddMessageEndpoint_JSONBody(t *testing.T) {
	router := newTestRouter(t)
	sessionID := createSession(t, router, "alice")

	w := doRequest(router, http.MethodPost,
		fmt.Sprintf("/api/sessions/%d/messages", sessionID),
		`{"sender":"assistant","content":"你好"}`)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "assistant", data["sender"])
	assert.Equal(t, "你好", data["content"])
}

func TestAddMessageEndpoint_SessionNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(router, http.MethodPost,
		"/api/sessions/9999/messages?sender=user&content=hi", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddMessageEndpoint_Validation(t *testing.T) {
	router := newTestRouter(t)
	sessionID := createSession(t, router, "alice")

	// 缺少 content
	w := doRequest(router, http.MethodPost,
		fmt.Sprintf("/api/sessions/%d/messages?sender=user", sessionID), "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// 缺少 sender
	w = doRequest(router, http.MethodPost,
		fmt.Sprintf("/api/sessions/%d/messages?content=hi", sessionID), "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetMessagesEndpoint_Pagination(t *testing.T) {
	router := newTestRouter(t)
	sessionID := createSession(t, router, "alice")

	for i := 0; i < 5; i++ {
		w := doRequest(router, http.MethodPost,
			fmt.Sprintf("/api/sessions/%d/messages?sender=user&content=m%d", sessionID, i), "")
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doRequest(router, http.MethodGet,
		fmt.Sprintf("/api/sessions/%d/messages?skip=2&limit=2", sessionID), "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	messages := resp.Data.([]interface{})
	require.Len(t, messages, 2)
	assert.Equal(t, "m2", messages[0].(map[string]interface{})["content"])
	assert.Equal(t, "m3", messages[1].(map[string]interface{})["content"])
}

func TestGetMessagesEndpoint_InvalidParams(t *testing.T) {
	router := newTestRouter(t)
	sessionID := createSession(t, router, "alice")

	cases := []string{
		"skip=-1",
		"skip=abc",
		"limit=0",
		"limit=101",
		"limit=abc",
	}
	for _, query := range cases {
		t.Run(query, func(t *testing.T) {
			w := doRequest(router, http.MethodGet,
				fmt.Sprintf("/api/sessions/%d/messages?%s", sessionID, query), "")
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		})
	}
}

func TestGetMessagesEndpoint_Empty(t *testing.T) {
	router := newTestRouter(t)
	sessionID := createSession(t, router, "alice")

	// 没有消息时返回空列表
	w := doRequest(router, http.MethodGet,
		fmt.Sprintf("/api/sessions/%d/messages", sessionID), "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	messages := resp.Data.([]interface{})
	assert.Empty(t, messages)
}
