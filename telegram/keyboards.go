package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Main menu button labels
const (
	BtnBalance    = "💰 Balance"
	BtnSearchHelp = "🔎 How to search"
	BtnReferral   = "🎁 Referral"
	BtnDeposit    = "💳 Deposit"
	BtnHistory    = "🧾 History"
)

// MainMenuKeyboard creates the persistent reply keyboard
func MainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton

	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(BtnBalance),
		tgbotapi.NewKeyboardButton(BtnSearchHelp),
	))

	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(BtnReferral),
		tgbotapi.NewKeyboardButton(BtnDeposit),
		tgbotapi.NewKeyboardButton(BtnHistory),
	))

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}
