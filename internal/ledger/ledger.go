// Package ledger implements the coin accounting engine: idempotent account
// provisioning with signing bonus and referral rewards, atomic debit-for-use,
// admin credits and overrides, and balance queries. It owns no persistence of
// its own; a Store is injected at construction.
package ledger

import (
	"fmt"

	"github.com/arashv/leakscan_bot/internal/models"
	"github.com/arashv/leakscan_bot/pkg/errors"
	"github.com/arashv/leakscan_bot/pkg/logger"
)

// Store is the durable account store the engine operates against. Lookups
// return (nil, nil) for absent accounts. Deduct must check sufficiency and
// apply the balance change and log row atomically; ClaimReferral must be a
// single conditional set-if-null.
type Store interface {
	FindByTelegramID(telegramID int64) (*models.User, error)
	FindByReferralCode(code string) (*models.User, error)
	FindByIdentifier(identifier string) (*models.User, error)
	ListAccounts(limit int) ([]models.User, error)
	CreateAccount(telegramID int64, username string, bonus int64, note string) (*models.User, bool, error)
	Deduct(telegramID int64, amount int64, kind models.TxKind, note string) error
	Credit(telegramID int64, amount int64, kind models.TxKind, note string) error
	SetBalance(telegramID int64, amount int64, note string) error
	ClaimReferral(telegramID, referrerID int64) (bool, error)
	Transactions(telegramID int64, limit int) ([]models.CoinTransaction, error)
	CountAccounts() (int64, error)
	TotalCoins() (int64, error)
}

// Config carries the amounts and the privileged allow-list, supplied at
// construction and opaque to callers.
type Config struct {
	SigningBonus   int64
	ReferralReward int64
	SearchCost     int64
	PrivilegedIDs  []int64
}

type Ledger struct {
	store          Store
	signingBonus   int64
	referralReward int64
	searchCost     int64
	privileged     map[int64]struct{}
}

func New(store Store, cfg Config) *Ledger {
	privileged := make(map[int64]struct{}, len(cfg.PrivilegedIDs))
	for _, id := range cfg.PrivilegedIDs {
		privileged[id] = struct{}{}
	}

	return &Ledger{
		store:          store,
		signingBonus:   cfg.SigningBonus,
		referralReward: cfg.ReferralReward,
		searchCost:     cfg.SearchCost,
		privileged:     privileged,
	}
}

// ProvisionResult reports what EnsureAccount actually did.
type ProvisionResult struct {
	Account         *models.User
	Created         bool
	ReferralApplied bool
}

// EnsureAccount lazily creates the account (granting the signing bonus once)
// and applies an optional referral token. Every sub-step is idempotent:
// repeated calls with the same arguments never double-grant. Self-referral and
// already-referred accounts are silent no-ops.
func (l *Ledger) EnsureAccount(telegramID int64, username, referralToken string) (*ProvisionResult, error) {
	account, created, err := l.store.CreateAccount(telegramID, username, l.signingBonus, "new_user_bonus")
	if err != nil {
		return nil, err
	}
	if created {
		logger.Info("Account provisioned", "telegram_id", telegramID, "bonus", l.signingBonus)
	}

	result := &ProvisionResult{Account: account, Created: created}

	if referralToken == "" {
		return result, nil
	}

	referrer, err := l.store.FindByReferralCode(referralToken)
	if err != nil {
		return nil, err
	}
	if referrer == nil || referrer.TelegramID == telegramID {
		// Unknown token or self-referral: no reward either way.
		return result, nil
	}

	claimed, err := l.store.ClaimReferral(telegramID, referrer.TelegramID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return result, nil
	}

	if err := l.store.Credit(referrer.TelegramID, l.referralReward, models.TxReferral,
		fmt.Sprintf("referred %d", telegramID)); err != nil {
		return nil, err
	}
	if err := l.store.Credit(telegramID, l.referralReward, models.TxReferral,
		fmt.Sprintf("referred_by %d", referrer.TelegramID)); err != nil {
		return nil, err
	}

	logger.Info("Referral applied",
		"telegram_id", telegramID, "referrer_id", referrer.TelegramID, "reward", l.referralReward)

	result.ReferralApplied = true
	if refreshed, err := l.store.FindByTelegramID(telegramID); err == nil && refreshed != nil {
		result.Account = refreshed
	}

	return result, nil
}

// Debit charges amount against the account, logging a search transaction.
// Fails with UNKNOWN_ACCOUNT for unprovisioned identities and with
// INSUFFICIENT_FUNDS when the balance is too low; a failed debit leaves the
// balance untouched.
func (l *Ledger) Debit(telegramID int64, amount int64) error {
	if amount <= 0 {
		return errors.New(errors.ErrCodeInvalidArgument, "debit amount must be positive")
	}
	return l.store.Deduct(telegramID, amount, models.TxSearch, "osint_search")
}

// DebitSearch charges the configured per-search cost.
func (l *Ledger) DebitSearch(telegramID int64) error {
	return l.Debit(telegramID, l.searchCost)
}

// Credit applies an unconditional additive adjustment. The amount may be any
// integer magnitude; negative admin adjustments are allowed.
func (l *Ledger) Credit(telegramID int64, amount int64, kind models.TxKind, note string) error {
	if !kind.Valid() || kind == models.TxAdminSet {
		return errors.New(errors.ErrCodeInvalidArgument, fmt.Sprintf("invalid transaction kind %q", kind))
	}
	return l.store.Credit(telegramID, amount, kind, note)
}

// SetBalance overrides the balance to an exact value (admin only). The logged
// admin_set amount is the new absolute value.
func (l *Ledger) SetBalance(telegramID int64, amount int64) error {
	return l.store.SetBalance(telegramID, amount, "admin_set_coins")
}

// Account returns the account snapshot, or (nil, nil) when the identity has
// never been provisioned.
func (l *Ledger) Account(telegramID int64) (*models.User, error) {
	return l.store.FindByTelegramID(telegramID)
}

// BalanceOf returns the current balance, 0 for unknown identities. Unlike
// Debit, absence is not an error here.
func (l *Ledger) BalanceOf(telegramID int64) (int64, error) {
	account, err := l.store.FindByTelegramID(telegramID)
	if err != nil {
		return 0, err
	}
	if account == nil {
		return 0, nil
	}
	return account.CoinBalance, nil
}

// ListTop returns up to limit accounts, most recently created first.
func (l *Ledger) ListTop(limit int) ([]models.User, error) {
	if limit <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "limit must be positive")
	}
	return l.store.ListAccounts(limit)
}

// Resolve maps an admin-supplied token (numeric id or @username) to an
// account. Returns (nil, nil) when no account matches.
func (l *Ledger) Resolve(token string) (*models.User, error) {
	return l.store.FindByIdentifier(token)
}

// IsPrivileged reports whether the identity is on the configured allow-list.
// The transport decides what privilege means; typically it skips the debit.
func (l *Ledger) IsPrivileged(telegramID int64) bool {
	_, ok := l.privileged[telegramID]
	return ok
}

// History returns the account's most recent transactions, newest first.
func (l *Ledger) History(telegramID int64, limit int) ([]models.CoinTransaction, error) {
	if limit <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "limit must be positive")
	}
	return l.store.Transactions(telegramID, limit)
}

// Stats returns the number of accounts and the coins outstanding.
func (l *Ledger) Stats() (accounts int64, coins int64, err error) {
	accounts, err = l.store.CountAccounts()
	if err != nil {
		return 0, 0, err
	}
	coins, err = l.store.TotalCoins()
	if err != nil {
		return 0, 0, err
	}
	return accounts, coins, nil
}

// Reconcile recomputes the balance from the transaction log. admin_set rows
// are checkpoints: the balance restarts at the logged absolute value and later
// deltas apply on top.
func (l *Ledger) Reconcile(telegramID int64) (int64, error) {
	rows, err := l.store.Transactions(telegramID, 10000)
	if err != nil {
		return 0, err
	}

	// Rows arrive newest first; replay oldest first.
	var balance int64
	for i := len(rows) - 1; i >= 0; i-- {
		row := rows[i]
		if row.Kind == models.TxAdminSet {
			balance = row.Amount
		} else {
			balance += row.Amount
		}
	}
	return balance, nil
}

// SearchCost exposes the configured per-search cost for rendering.
func (l *Ledger) SearchCost() int64 {
	return l.searchCost
}

// ReferralReward exposes the configured referral reward for rendering.
func (l *Ledger) ReferralReward() int64 {
	return l.referralReward
}
