package models

import "time"

// CartState persists the serialized cart of one shopper session.
type CartState struct {
	SessionID string    `gorm:"column:session_id;primaryKey;size:64"`
	Version   int       `gorm:"column:version;not null;default:1"`
	Payload   string    `gorm:"column:payload;type:text;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartState) TableName() string {
	return "cart_states"
}
