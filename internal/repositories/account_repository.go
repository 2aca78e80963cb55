package repositories

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arashv/leakscan_bot/internal/models"
	"github.com/arashv/leakscan_bot/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountRepository is the durable account store: one row per telegram identity
// plus an append-only coin transaction log. Every balance mutation goes through
// a locked transaction so the balance and its log row commit together.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindByTelegramID returns the account, or (nil, nil) when absent.
func (r *AccountRepository) FindByTelegramID(telegramID int64) (*models.User, error) {
	var user models.User
	result := r.db.Where("telegram_id = ?", telegramID).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeStorage, "failed to get account")
	}

	return &user, nil
}

// FindByReferralCode returns the account owning code, or (nil, nil) when absent.
func (r *AccountRepository) FindByReferralCode(code string) (*models.User, error) {
	var user models.User
	result := r.db.Where("referral_code = ?", code).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeStorage, "failed to get account by referral code")
	}

	return &user, nil
}

// FindByIdentifier resolves an admin-supplied token that is either a numeric
// telegram id or a username (leading @ stripped, exact match).
func (r *AccountRepository) FindByIdentifier(identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "empty account identifier")
	}

	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		return r.FindByTelegramID(id)
	}

	username := strings.TrimPrefix(identifier, "@")
	var user models.User
	result := r.db.Where("username = ?", username).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeStorage, "failed to get account by username")
	}

	return &user, nil
}

// ListAccounts returns up to limit accounts, most recently created first.
func (r *AccountRepository) ListAccounts(limit int) ([]models.User, error) {
	var users []models.User
	result := r.db.Order("created_at DESC").Limit(limit).Find(&users)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeStorage, "failed to list accounts")
	}
	return users, nil
}

// CreateAccount inserts a new account with its signing bonus and the matching
// reward transaction, all in one transaction. When the identity already exists
// the existing row is returned with created=false; this makes provisioning
// safe to call on every inbound message.
func (r *AccountRepository) CreateAccount(telegramID int64, username string, bonus int64, note string) (*models.User, bool, error) {
	user := &models.User{}
	created := false

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("telegram_id = ?", telegramID).First(&existing).Error
		if err == nil {
			*user = existing
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return errors.Wrap(err, errors.ErrCodeStorage, "failed to check account existence")
		}

		user.TelegramID = telegramID
		user.Username = username
		user.ReferralCode = models.ReferralCodeFor(telegramID)
		user.CoinBalance = bonus
		if err := tx.Create(user).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeStorage, "failed to create account")
		}

		if bonus != 0 {
			reward := &models.CoinTransaction{
				TelegramID: telegramID,
				Kind:       models.TxReward,
				Amount:     bonus,
				Note:       note,
			}
			if err := tx.Create(reward).Error; err != nil {
				return errors.Wrap(err, errors.ErrCodeStorage, "failed to log signing bonus")
			}
		}

		created = true
		return nil
	})
	if err != nil {
		// Two concurrent first contacts can both pass the existence check; the
		// loser hits the unique index. Treat that as "already exists".
		if existing, findErr := r.FindByTelegramID(telegramID); findErr == nil && existing != nil {
			return existing, false, nil
		}
		return nil, false, err
	}

	return user, created, nil
}

// Deduct subtracts amount from the balance and logs a negative delta. The
// balance check runs under a row lock, so concurrent deductions serialize and
// the balance can never go negative.
func (r *AccountRepository) Deduct(telegramID int64, amount int64, kind models.TxKind, note string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.ErrCodeUnknownAccount, "account not found")
			}
			return errors.Wrap(err, errors.ErrCodeStorage, "failed to get account")
		}

		if user.CoinBalance < amount {
			return errors.New(errors.ErrCodeInsufficientFunds,
				fmt.Sprintf("insufficient coins: have %d, need %d", user.CoinBalance, amount))
		}

		newBalance := user.CoinBalance - amount
		if err := tx.Model(&user).Update("coin_balance", newBalance).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeStorage, "failed to update balance")
		}

		transaction := &models.CoinTransaction{
			TelegramID: telegramID,
			Kind:       kind,
			Amount:     -amount,
			Note:       note,
		}
		if err := tx.Create(transaction).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeStorage, "failed to log transaction")
		}

		return nil
	})
}

// Credit adds amount to the balance and logs the positive delta.
func (r *AccountRepository) Credit(telegramID int64, amount int64, kind models.TxKind, note string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.ErrCodeUnknownAccount, "account not found")
			}
			return errors.Wrap(err, errors.ErrCodeStorage, "failed to get account")
		}

		newBalance := user.CoinBalance + amount
		if err := tx.Model(&user).Update("coin_balance", newBalance).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeStorage, "failed to update balance")
		}

		transaction := &models.CoinTransaction{
			TelegramID: telegramID,
			Kind:       kind,
			Amount:     amount,
			Note:       note,
		}
		if err := tx.Create(transaction).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeStorage, "failed to log transaction")
		}

		return nil
	})
}

// SetBalance overrides the balance to an exact value. The admin_set log row
// records the new absolute value, not a delta.
func (r *AccountRepository) SetBalance(telegramID int64, amount int64, note string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.ErrCodeUnknownAccount, "account not found")
			}
			return errors.Wrap(err, errors.ErrCodeStorage, "failed to get account")
		}

		if err := tx.Model(&user).Update("coin_balance", amount).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeStorage, "failed to set balance")
		}

		transaction := &models.CoinTransaction{
			TelegramID: telegramID,
			Kind:       models.TxAdminSet,
			Amount:     amount,
			Note:       note,
		}
		if err := tx.Create(transaction).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeStorage, "failed to log transaction")
		}

		return nil
	})
}

// ClaimReferral sets referred_by in a single conditional update. It returns
// true only for the call that actually claimed the slot; an already-referred
// account leaves RowsAffected at zero. No read-then-write gap.
func (r *AccountRepository) ClaimReferral(telegramID, referrerID int64) (bool, error) {
	result := r.db.Model(&models.User{}).
		Where("telegram_id = ? AND referred_by IS NULL", telegramID).
		Update("referred_by", referrerID)

	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeStorage, "failed to claim referral")
	}
	return result.RowsAffected == 1, nil
}

// Transactions returns the account's most recent log rows, newest first.
func (r *AccountRepository) Transactions(telegramID int64, limit int) ([]models.CoinTransaction, error) {
	var transactions []models.CoinTransaction
	result := r.db.Where("telegram_id = ?", telegramID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeStorage, "failed to get transaction history")
	}

	return transactions, nil
}

// CountAccounts returns the total number of provisioned accounts.
func (r *AccountRepository) CountAccounts() (int64, error) {
	var count int64
	result := r.db.Model(&models.User{}).Count(&count)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeStorage, "failed to count accounts")
	}
	return count, nil
}

// TotalCoins returns the sum of all balances (coins outstanding).
func (r *AccountRepository) TotalCoins() (int64, error) {
	var total int64
	result := r.db.Model(&models.User{}).
		Select("COALESCE(SUM(coin_balance), 0)").
		Scan(&total)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeStorage, "failed to sum balances")
	}
	return total, nil
}
