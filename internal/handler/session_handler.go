// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"chat-session-server/internal/service"
	"chat-session-server/pkg/response"
)

// SessionHandler 会话请求处理器
type SessionHandler struct {
	chatService *service.ChatService
}

// NewSessionHandler 创建 SessionHandler 实例
func NewSessionHandler(chatService *service.ChatService) *SessionHandler {
	return &SessionHandler{
		chatService: chatService,
	}
}

// createSessionRequest 创建会话请求体
// 参数也可以通过 query 传递，body 作为补充
type createSessionRequest struct {
	UserID string `json:"user_id"`
}

// renameSessionRequest 重命名会话请求体
type renameSessionRequest struct {
	Name string `json:"name"`
}

// favoriteSessionRequest 收藏会话请求体
type favoriteSessionRequest struct {
	Favorite *bool `json:"favorite"`
}

// parseSessionID 从路径参数解析会话 ID
// 解析失败时写入 422 响应并返回 false
func parseSessionID(c *gin.Context) (int64, bool) {
	sessionID, err := strconv.ParseInt(c.Param("session_id"), 10, 64)
	if err != nil || sessionID <= 0 {
		response.ValidationError(c, "无效的会话ID")
		return 0, false
	}
	return sessionID, true
}

// CreateSession 创建新会话
// POST /api/sessions?user_id=xxx
func (h *SessionHandler) CreateSession(c *gin.Context) {
	// user_id 优先从 query 获取，其次从 JSON body
	userID := c.Query("user_id")
	if userID == "" {
		var req createSessionRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			userID = req.UserID
		}
	}

	session, err := h.chatService.CreateSession(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyUserID) {
			response.ValidationError(c, err.Error())
			return
		}
		response.InternalError(c, "创建会话失败")
		return
	}

	response.Success(c, session)
}

// RenameSession 重命名会话
// PATCH /api/sessions/:session_id/rename?name=xxx
func (h *SessionHandler) RenameSession(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	name := c.Query("name")
	if name == "" {
		var req renameSessionRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			name = req.Name
		}
	}

	session, err := h.chatService.RenameSession(c.Request.Context(), sessionID, name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.SessionNotFound(c)
		case errors.Is(err, service.ErrEmptyName):
			response.ValidationError(c, err.Error())
		default:
			response.InternalError(c, "重命名会话失败")
		}
		return
	}

	response.Success(c, session)
}

// MarkFavorite 设置会话的收藏状态
// PATCH /api/sessions/:session_id/favorite?favorite=true
func (h *SessionHandler) MarkFavorite(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	var favorite bool
	if raw := c.Query("favorite"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			response.ValidationError(c, "无效的收藏状态")
			return
		}
		favorite = parsed
	} else {
		var req favoriteSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Favorite == nil {
			response.ValidationError(c, "无效的收藏状态")
			return
		}
		favorite = *req.Favorite
	}

	session, err := h.chatService.MarkFavorite(c.Request.Context(), sessionID, favorite)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.SessionNotFound(c)
			return
		}
		response.InternalError(c, "更新收藏状态失败")
		return
	}

	response.Success(c, session)
}

// DeleteSession 删除会话及其所有消息
// DELETE /api/sessions/:session_id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	if err := h.chatService.DeleteSession(c.Request.Context(), sessionID); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.SessionNotFound(c)
			return
		}
		response.InternalError(c, "删除会话失败")
		return
	}

	response.Success(c, gin.H{
		"deleted": sessionID,
	})
}
