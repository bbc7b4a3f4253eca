package chat

import "time"

const (
	SourceCatalog     = "catalog"
	SourceFallbackLLM = "fallback_llm"
)

// Turn is one append-only exchange: the user's message and the bot's reply.
type Turn struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint64    `gorm:"not null;index:idx_conv_user_session,priority:1" json:"-"`
	SessionID      string    `gorm:"type:varchar(36);not null;index:idx_conv_user_session,priority:2;index" json:"session_id"`
	UserMessage    string    `gorm:"type:text;not null" json:"user_message"`
	BotResponse    string    `gorm:"type:text;not null" json:"bot_response"`
	Intent         string    `gorm:"type:varchar(50);not null" json:"intent"`
	Confidence     float64   `gorm:"not null" json:"confidence"`
	ResponseSource string    `gorm:"type:varchar(16);not null;default:catalog" json:"response_source"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

func (Turn) TableName() string { return "conversations" }

// Session records which user owns a session id. The primary key makes the
// first writer the owner.
type Session struct {
	SessionID string    `gorm:"type:varchar(36);primaryKey" json:"session_id"`
	UserID    uint64    `gorm:"not null;index" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (Session) TableName() string { return "chat_sessions" }
