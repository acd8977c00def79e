// Package model 定义了与数据库表对应的数据结构
package model

import (
	"time"
)

// 消息发送方常量
const (
	SenderUser      = "user"      // 用户消息
	SenderAssistant = "assistant" // AI 助手响应
)

// Message 消息模型
// 对应数据库表 messages
// 消息一经创建不可修改，只会随所属会话一起删除
type Message struct {
	// ID 消息唯一标识，自增主键
	ID int64 `gorm:"primaryKey" json:"id"`

	// SessionID 所属会话ID，外键关联 chat_sessions.id
	SessionID int64 `gorm:"index;not null" json:"session_id"`

	// Sender 消息发送方，如 user / assistant
	Sender string `gorm:"size:50;not null" json:"sender"`

	// Content 消息内容
	// 使用 TEXT 类型存储，可以存储较长的内容
	Content string `gorm:"type:text;not null" json:"content"`

	// Context 附加上下文信息，可选
	// 使用指针类型表示可以为 NULL
	Context *string `gorm:"type:text" json:"context,omitempty"`

	// CreatedAt 消息创建时间
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	// Session 所属会话（多对一关系）
	Session *ChatSession `gorm:"foreignKey:SessionID" json:"session,omitempty"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "messages"
}
