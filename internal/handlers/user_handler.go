package handlers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arashv/leakscan_bot/internal/security"
	apperrors "github.com/arashv/leakscan_bot/pkg/errors"
	"github.com/arashv/leakscan_bot/pkg/logger"
	"github.com/arashv/leakscan_bot/pkg/utils"
)

// HandleStart provisions the account (idempotent) and applies an optional
// referral token carried in the /start deep link.
func (h *HandlerManager) HandleStart(userID int64, username, referralToken string, bot BotInterface) {
	username = security.SanitizeString(username)

	res, err := h.Ledger.EnsureAccount(userID, username, strings.TrimSpace(referralToken))
	if err != nil {
		logger.Error("Failed to provision account", "user_id", userID, "error", err)
		bot.SendMessage(userID, "Something went wrong, please try again later.")
		return
	}

	text := fmt.Sprintf(
		"🔎 LeakScan Bot\n"+
			"Send /search <query> to scan. Each search costs %d coin(s).\n"+
			"You got %d coin(s) for joining.\nUse /referral to get your referral link.",
		h.Ledger.SearchCost(), h.Config.NewUserCoins)
	if res.ReferralApplied {
		text += fmt.Sprintf("\n\n🎁 Referral applied: you and your inviter each got %d coin(s).",
			h.Ledger.ReferralReward())
	}
	bot.SendMessage(userID, text)
}

// HandleReferral sends the user their referral code and invite link.
func (h *HandlerManager) HandleReferral(userID int64, bot BotInterface) {
	account, err := h.Ledger.Account(userID)
	if err != nil {
		logger.Error("Failed to resolve account", "user_id", userID, "error", err)
		bot.SendMessage(userID, "Something went wrong, please try again later.")
		return
	}
	if account == nil {
		bot.SendMessage(userID, "User not found. Send /start first.")
		return
	}

	link := fmt.Sprintf("https://t.me/%s?start=%s", bot.GetUsername(), account.ReferralCode)
	bot.SendMarkdown(userID, fmt.Sprintf(
		"Your referral code: `%s`\nInvite link: %s\nBoth you and the new user get %d coin(s) when they use this link.",
		account.ReferralCode, link, h.Ledger.ReferralReward()))
}

// HandleBalance reports the current coin balance; unknown users see 0.
func (h *HandlerManager) HandleBalance(userID int64, bot BotInterface) {
	balance, err := h.Ledger.BalanceOf(userID)
	if err != nil {
		logger.Error("Failed to get balance", "user_id", userID, "error", err)
		bot.SendMessage(userID, "Something went wrong, please try again later.")
		return
	}
	bot.SendMessage(userID, fmt.Sprintf("Your balance: %d coin(s).", balance))
}

// HandleDeposit sends the manual top-up instructions. Deposits are off-band;
// an admin credits coins after verifying the transfer.
func (h *HandlerManager) HandleDeposit(userID int64, username, amountArg string, bot BotInterface) {
	amount := strings.TrimSpace(amountArg)
	if amount == "" {
		amount = "1"
	}
	if username == "" {
		username = fmt.Sprintf("user%d", userID)
	}

	bot.SendMarkdown(userID, fmt.Sprintf(
		"To deposit %s coin(s):\n\n"+
			"1) Send the transfer to UPI ID: `%s`\n"+
			"2) In the UPI transaction note include your Telegram username: `%s`\n"+
			"3) After you make the transfer, notify an admin or wait for manual approval.\n\n"+
			"Admin will credit coins after verifying the transaction.",
		amount, h.Config.UPIID, utils.EscapeMarkdown(username)))
}

// HandleSearch charges the per-search cost (privileged identities are exempt,
// decided here in the transport per the allow-list) and runs the lookup.
func (h *HandlerManager) HandleSearch(userID int64, query string, bot BotInterface) {
	query = security.SanitizeQuery(query)
	if query == "" {
		bot.SendMessage(userID, "Usage: /search <query>")
		return
	}

	if !h.Ledger.IsPrivileged(userID) {
		if err := h.Ledger.DebitSearch(userID); err != nil {
			switch apperrors.CodeOf(err) {
			case apperrors.ErrCodeInsufficientFunds:
				bot.SendMessage(userID, "Insufficient coins. Use /deposit to top up.")
			case apperrors.ErrCodeUnknownAccount:
				bot.SendMessage(userID, "User not found. Send /start first.")
			default:
				logger.Error("Debit failed", "user_id", userID, "error", err)
				bot.SendMessage(userID, "Something went wrong, please try again later.")
			}
			return
		}
	}

	bot.SendMarkdown(userID, fmt.Sprintf("Scanning for: `%s` …", utils.EscapeMarkdown(query)))

	result, err := h.OSINT.Search(query)
	if err != nil {
		logger.Error("LeakOSINT query failed", "user_id", userID, "error", err)
		bot.SendMessage(userID, "Search failed. Please try again later.")
		return
	}

	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		pretty = result
	}
	out := utils.TruncateForTelegram(string(pretty))
	bot.SendMarkdown(userID, fmt.Sprintf("```\n%s\n```", out))
}

// HandleSearchNumber validates the target as a phone number, then runs the
// regular search path.
func (h *HandlerManager) HandleSearchNumber(userID int64, number string, bot BotInterface) {
	number = strings.TrimSpace(number)
	if number == "" {
		bot.SendMessage(userID, "Usage: /searchnumber <number>")
		return
	}
	if !security.ValidatePhoneNumber(number) {
		bot.SendMessage(userID, "That doesn't look like a phone number. Usage: /searchnumber <number>")
		return
	}
	h.HandleSearch(userID, number, bot)
}

// HandleHistory shows the user's recent ledger entries.
func (h *HandlerManager) HandleHistory(userID int64, bot BotInterface) {
	rows, err := h.Ledger.History(userID, 20)
	if err != nil {
		logger.Error("Failed to get history", "user_id", userID, "error", err)
		bot.SendMessage(userID, "Something went wrong, please try again later.")
		return
	}
	if len(rows) == 0 {
		bot.SendMessage(userID, "No transactions yet. Send /start first.")
		return
	}

	var sb strings.Builder
	sb.WriteString("Recent transactions:\n")
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%s | %s | %+d | %s\n",
			row.CreatedAt.Format("2006-01-02 15:04"), row.Kind, row.Amount, row.Note))
	}
	bot.SendMessage(userID, utils.TruncateForTelegram(sb.String()))
}
