package models

import (
	"fmt"
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey"`
	TelegramID   int64     `gorm:"uniqueIndex;not null"`
	Username     string    `gorm:"type:varchar(255)"`
	ReferralCode string    `gorm:"uniqueIndex;type:varchar(32);not null"`
	ReferredBy   *int64    `gorm:"index"` // telegram id of the referrer, nil until claimed
	CoinBalance  int64     `gorm:"default:0;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// ReferralCodeFor derives the user's permanent referral code from their telegram id.
func ReferralCodeFor(telegramID int64) string {
	return fmt.Sprintf("r%d", telegramID)
}

// DisplayName returns the username, falling back to a synthetic label.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return fmt.Sprintf("user%d", u.TelegramID)
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
