package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arashv/leakscan_bot/internal/models"
	"github.com/arashv/leakscan_bot/pkg/logger"
	"github.com/arashv/leakscan_bot/pkg/utils"
)

func (h *HandlerManager) requireAdmin(userID int64, bot BotInterface) bool {
	if !h.Ledger.IsPrivileged(userID) {
		bot.SendMessage(userID, "Unauthorized.")
		return false
	}
	return true
}

// HandleUsers lists the most recently registered accounts.
func (h *HandlerManager) HandleUsers(adminID int64, bot BotInterface) {
	if !h.requireAdmin(adminID, bot) {
		return
	}

	users, err := h.Ledger.ListTop(200)
	if err != nil {
		logger.Error("Failed to list users", "admin_id", adminID, "error", err)
		bot.SendMessage(adminID, "Failed to list users.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Users:\n")
	for _, u := range users {
		sb.WriteString(fmt.Sprintf("%d | @%s | coins=%d | ref=%s\n",
			u.TelegramID, u.DisplayName(), u.CoinBalance, u.ReferralCode))
	}
	bot.SendMessage(adminID, utils.TruncateForTelegram(sb.String()))
}

// HandleAddCoin credits (or with a negative amount, debits) a target account.
func (h *HandlerManager) HandleAddCoin(adminID int64, identifier, amountArg string, bot BotInterface) {
	if !h.requireAdmin(adminID, bot) {
		return
	}
	if identifier == "" || amountArg == "" {
		bot.SendMessage(adminID, "Usage: /addcoin <tg_id_or_username> <amount>")
		return
	}

	amount, err := strconv.ParseInt(amountArg, 10, 64)
	if err != nil {
		bot.SendMessage(adminID, "Amount must be an integer.")
		return
	}

	target, err := h.Ledger.Resolve(identifier)
	if err != nil {
		logger.Error("Failed to resolve target", "admin_id", adminID, "identifier", identifier, "error", err)
		bot.SendMessage(adminID, "Failed to look up user.")
		return
	}
	if target == nil {
		bot.SendMessage(adminID, "User not found.")
		return
	}

	note := fmt.Sprintf("added_by %d", adminID)
	if err := h.Ledger.Credit(target.TelegramID, amount, models.TxAdminAdjust, note); err != nil {
		logger.Error("Failed to credit coins", "admin_id", adminID, "target", target.TelegramID, "error", err)
		bot.SendMessage(adminID, "Failed to adjust coins.")
		return
	}

	logger.Info("Admin adjusted coins", "admin_id", adminID, "target", target.TelegramID, "amount", amount)
	bot.SendMessage(adminID, fmt.Sprintf("Added %d coins to %d.", amount, target.TelegramID))
}

// HandleSetCoins overrides a target account's balance to an exact value.
func (h *HandlerManager) HandleSetCoins(adminID int64, identifier, amountArg string, bot BotInterface) {
	if !h.requireAdmin(adminID, bot) {
		return
	}
	if identifier == "" || amountArg == "" {
		bot.SendMessage(adminID, "Usage: /setcoins <tg_id_or_username> <amount>")
		return
	}

	amount, err := strconv.ParseInt(amountArg, 10, 64)
	if err != nil {
		bot.SendMessage(adminID, "Amount must be an integer.")
		return
	}

	target, err := h.Ledger.Resolve(identifier)
	if err != nil {
		logger.Error("Failed to resolve target", "admin_id", adminID, "identifier", identifier, "error", err)
		bot.SendMessage(adminID, "Failed to look up user.")
		return
	}
	if target == nil {
		bot.SendMessage(adminID, "User not found.")
		return
	}

	if err := h.Ledger.SetBalance(target.TelegramID, amount); err != nil {
		logger.Error("Failed to set balance", "admin_id", adminID, "target", target.TelegramID, "error", err)
		bot.SendMessage(adminID, "Failed to set coins.")
		return
	}

	logger.Info("Admin set balance", "admin_id", adminID, "target", target.TelegramID, "amount", amount)
	bot.SendMessage(adminID, fmt.Sprintf("Set %d coins to %d.", target.TelegramID, amount))
}

// HandleStats reports the user count and coins outstanding.
func (h *HandlerManager) HandleStats(adminID int64, bot BotInterface) {
	if !h.requireAdmin(adminID, bot) {
		return
	}

	accounts, coins, err := h.Ledger.Stats()
	if err != nil {
		logger.Error("Failed to get stats", "admin_id", adminID, "error", err)
		bot.SendMessage(adminID, "Failed to get stats.")
		return
	}

	bot.SendMessage(adminID, fmt.Sprintf("Users: %d\nTotal coins outstanding: %d", accounts, coins))
}

// HandleBroadcast sends a message to every registered user.
func (h *HandlerManager) HandleBroadcast(adminID int64, message string, bot BotInterface) {
	if !h.requireAdmin(adminID, bot) {
		return
	}
	if strings.TrimSpace(message) == "" {
		bot.SendMessage(adminID, "Usage: /broadcast <message>")
		return
	}

	users, err := h.Ledger.ListTop(10000)
	if err != nil {
		logger.Error("Failed to list users for broadcast", "admin_id", adminID, "error", err)
		bot.SendMessage(adminID, "Failed to list users.")
		return
	}

	sent := 0
	for _, u := range users {
		if bot.SendMessage(u.TelegramID, message) != 0 {
			sent++
		}
	}

	logger.Info("Admin broadcast message", "admin_id", adminID, "recipients", sent)
	bot.SendMessage(adminID, fmt.Sprintf("Broadcast sent to %d users.", sent))
}
