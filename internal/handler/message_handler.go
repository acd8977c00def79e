// Package handler 提供 HTTP 请求处理器
package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"chat-session-server/internal/service"
	"chat-session-server/pkg/response"
)

// 消息分页参数的默认值与上限
const (
	defaultMessageLimit = 20  // limit 默认值
	maxMessageLimit     = 100 // limit 上限
)

// MessageHandler 消息请求处理器
type MessageHandler struct {
	chatService *service.ChatService
}

// NewMessageHandler 创建 MessageHandler 实例
func NewMessageHandler(chatService *service.ChatService) *MessageHandler {
	return &MessageHandler{
		chatService: chatService,
	}
}

// addMessageRequest 追加消息请求体
// 参数也可以通过 query 传递，body 作为补充
type addMessageRequest struct {
	Sender  string  `json:"sender"`
	Content string  `json:"content"`
	Context *string `json:"context"`
}

// AddMessage 向会话追加一条消息
// POST /api/sessions/:session_id/messages?sender=user&content=hi
func (h *MessageHandler) AddMessage(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	sender := c.Query("sender")
	content := c.Query("content")
	var msgContext *string
	if raw, exists := c.GetQuery("context"); exists {
		msgContext = &raw
	}
	if sender == "" && content == "" {
		var req addMessageRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			sender = req.Sender
			content = req.Content
			msgContext = req.Context
		}
	}

	message, err := h.chatService.AddMessage(c.Request.Context(), sessionID, sender, content, msgContext)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			response.SessionNotFound(c)
		case errors.Is(err, service.ErrEmptySender), errors.Is(err, service.ErrEmptyContent):
			response.ValidationError(c, err.Error())
		default:
			response.InternalError(c, "追加消息失败")
		}
		return
	}

	response.Success(c, message)
}

// GetMessages 分页获取会话的消息
// GET /api/sessions/:session_id/messages?skip=0&limit=20
// skip >= 0，1 <= limit <= 100，越界直接返回 422
func (h *MessageHandler) GetMessages(c *gin.Context) {
	sessionID, ok := parseSessionID(c)
	if !ok {
		return
	}

	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		response.ValidationError(c, "skip 必须为非负整数")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultMessageLimit)))
	if err != nil || limit < 1 || limit > maxMessageLimit {
		response.ValidationError(c, "limit 必须在 1 到 100 之间")
		return
	}

	messages, err := h.chatService.GetMessages(c.Request.Context(), sessionID, skip, limit)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.SessionNotFound(c)
			return
		}
		response.InternalError(c, "获取消息失败")
		return
	}

	response.Success(c, messages)
}
