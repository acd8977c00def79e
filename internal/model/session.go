// Package model 定义了与数据库表对应的数据结构
package model

import (
	"time"
)

// DefaultSessionName 新会话的默认名称
// 创建时统一使用空字符串，重命名后才有实际名称
const DefaultSessionName = ""

// ChatSession 聊天会话模型
// 对应数据库表 chat_sessions
// 表示某个用户的一次聊天会话，是消息的容器
type ChatSession struct {
	// ID 会话唯一标识，自增主键
	ID int64 `gorm:"primaryKey" json:"id"`

	// UserID 所属用户标识
	// 由调用方提供的字符串，不允许为空
	UserID string `gorm:"size:100;index;not null" json:"user_id"`

	// Name 会话名称
	// 创建时为默认值（空字符串），通过重命名接口修改
	Name string `gorm:"size:200" json:"name"`

	// Favorite 是否收藏
	Favorite bool `gorm:"default:false" json:"favorite"`

	// CreatedAt 创建时间，由 GORM 自动填充，创建后不再变更
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Messages 会话中的所有消息（一对多关系）
	Messages []Message `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
}

// TableName 指定表名
func (ChatSession) TableName() string {
	return "chat_sessions"
}
