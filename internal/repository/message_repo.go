// Package repository 提供数据访问层的实现
package repository

import (
	"context"

	"gorm.io/gorm"

	"chat-session-server/internal/model"
)

// MessageRepository 消息数据访问层
// 负责消息相关的所有数据库操作
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建 MessageRepository 实例
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create 创建新消息
// 参数:
//   - ctx: 上下文
//   - message: 消息对象，ID 和 CreatedAt 会被自动填充
//
// 返回:
//   - error: 数据库错误
func (r *MessageRepository) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// GetBySessionID 分页获取会话的消息
// 按创建时间正序排列（最早的在前），同一时间以 ID 升序打破并列
// skip 超出消息总数时返回空列表而不是错误
// 参数:
//   - ctx: 上下文
//   - sessionID: 会话ID
//   - skip: 跳过的记录数
//   - limit: 返回的最大记录数
//
// 返回:
//   - []model.Message: 消息列表
//   - error: 数据库错误
func (r *MessageRepository) GetBySessionID(ctx context.Context, sessionID int64, skip, limit int) ([]model.Message, error) {
	messages := make([]model.Message, 0, limit)
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Offset(skip).
		Limit(limit).
		Find(&messages).Error
	return messages, err
}
