package models

import (
	"time"
)

// TxKind is the closed set of balance-affecting event kinds.
type TxKind string

const (
	TxReward      TxKind = "reward"
	TxReferral    TxKind = "referral"
	TxSearch      TxKind = "search"
	TxAdminAdjust TxKind = "admin_adjust"
	TxAdminSet    TxKind = "admin_set"
)

// Valid reports whether k is one of the known transaction kinds.
func (k TxKind) Valid() bool {
	switch k {
	case TxReward, TxReferral, TxSearch, TxAdminAdjust, TxAdminSet:
		return true
	}
	return false
}

// CoinTransaction is one row of the append-only audit log. Amount is a signed
// delta, except for TxAdminSet rows which record the new absolute balance.
type CoinTransaction struct {
	ID         uint      `gorm:"primaryKey"`
	TelegramID int64     `gorm:"not null;index"`
	Kind       TxKind    `gorm:"type:varchar(20);not null;index"`
	Amount     int64     `gorm:"not null"`
	Note       string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index"`
}

func (CoinTransaction) TableName() string {
	return "coin_transactions"
}
