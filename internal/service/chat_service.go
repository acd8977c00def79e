// Package service 提供业务逻辑层的实现
package service

import (
	"context"
	"errors"
	"strings"

	"chat-session-server/internal/model"
	"chat-session-server/internal/repository"
)

// 聊天服务相关错误
// Handler 层根据这些错误决定 HTTP 状态码
var (
	ErrSessionNotFound = errors.New("会话不存在")
	ErrEmptyUserID     = errors.New("用户ID不能为空")
	ErrEmptyName       = errors.New("会话名称不能为空")
	ErrEmptySender     = errors.New("消息发送方不能为空")
	ErrEmptyContent    = errors.New("消息内容不能为空")
)

// ChatService 聊天会话服务
// 负责会话和消息的全部业务逻辑：参数校验、持久化调用、错误映射
type ChatService struct {
	sessionRepo *repository.SessionRepository // 会话数据访问层
	messageRepo *repository.MessageRepository // 消息数据访问层
}

// NewChatService 创建 ChatService 实例
func NewChatService(
	sessionRepo *repository.SessionRepository,
	messageRepo *repository.MessageRepository,
) *ChatService {
	return &ChatService{
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
	}
}

// CreateSession 创建新会话
// 名称使用默认值，收藏状态为 false
func (s *ChatService) CreateSession(ctx context.Context, userID string) (*model.ChatSession, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrEmptyUserID
	}

	session := &model.ChatSession{
		UserID:   userID,
		Name:     model.DefaultSessionName,
		Favorite: false,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// RenameSession 重命名会话
// 先检查会话是否存在，不存在的会话即使名称非法也返回 ErrSessionNotFound
func (s *ChatService) RenameSession(ctx context.Context, sessionID int64, name string) (*model.ChatSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}

	session.Name = name
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// MarkFavorite 设置会话的收藏状态
// 操作是幂等的：重复设置相同的值不会改变最终状态
func (s *ChatService) MarkFavorite(ctx context.Context, sessionID int64, favorite bool) (*model.ChatSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	session.Favorite = favorite
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteSession 删除会话及其所有消息
// 两者在同一个事务中删除，保证不会留下孤儿消息
func (s *ChatService) DeleteSession(ctx context.Context, sessionID int64) error {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}

	return s.sessionRepo.DeleteWithMessages(ctx, sessionID)
}

// AddMessage 向会话追加一条消息
// context 为可选的附加上下文，传 nil 表示不设置
func (s *ChatService) AddMessage(ctx context.Context, sessionID int64, sender, content string, msgContext *string) (*model.Message, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if strings.TrimSpace(sender) == "" {
		return nil, ErrEmptySender
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	message := &model.Message{
		SessionID: sessionID,
		Sender:    sender,
		Content:   content,
		Context:   msgContext,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// GetMessages 分页获取会话的消息
// 按创建顺序返回（最早的在前），skip 超出总数时返回空列表
// skip/limit 的范围校验由 Handler 层完成
func (s *ChatService) GetMessages(ctx context.Context, sessionID int64, skip, limit int) ([]model.Message, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	return s.messageRepo.GetBySessionID(ctx, sessionID, skip, limit)
}
