package handlers

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/arashv/leakscan_bot/pkg/logger"
)

// HandleExport dumps the full ledger (accounts plus their transaction logs)
// into an xlsx workbook and sends it back as a document.
func (h *HandlerManager) HandleExport(adminID int64, bot BotInterface) {
	if !h.requireAdmin(adminID, bot) {
		return
	}

	users, err := h.Ledger.ListTop(10000)
	if err != nil {
		logger.Error("Failed to list users for export", "admin_id", adminID, "error", err)
		bot.SendMessage(adminID, "Failed to export ledger.")
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	const usersSheet = "Users"
	const txSheet = "Transactions"
	f.SetSheetName("Sheet1", usersSheet)
	if _, err := f.NewSheet(txSheet); err != nil {
		logger.Error("Failed to create sheet", "error", err)
		bot.SendMessage(adminID, "Failed to export ledger.")
		return
	}

	userHeader := []interface{}{"Telegram ID", "Username", "Referral Code", "Referred By", "Balance", "Created At"}
	for col, v := range userHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(usersSheet, cell, v)
	}

	txHeader := []interface{}{"Telegram ID", "Kind", "Amount", "Note", "Created At"}
	for col, v := range txHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(txSheet, cell, v)
	}

	txRow := 2
	for i, u := range users {
		referredBy := ""
		if u.ReferredBy != nil {
			referredBy = fmt.Sprintf("%d", *u.ReferredBy)
		}
		row := []interface{}{u.TelegramID, u.DisplayName(), u.ReferralCode, referredBy, u.CoinBalance,
			u.CreatedAt.Format(time.RFC3339)}
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(usersSheet, cell, v)
		}

		transactions, err := h.Ledger.History(u.TelegramID, 1000)
		if err != nil {
			logger.Warn("Skipping transactions in export", "telegram_id", u.TelegramID, "error", err)
			continue
		}
		for _, tx := range transactions {
			row := []interface{}{tx.TelegramID, string(tx.Kind), tx.Amount, tx.Note,
				tx.CreatedAt.Format(time.RFC3339)}
			for col, v := range row {
				cell, _ := excelize.CoordinatesToCellName(col+1, txRow)
				f.SetCellValue(txSheet, cell, v)
			}
			txRow++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to build export workbook", "admin_id", adminID, "error", err)
		bot.SendMessage(adminID, "Failed to export ledger.")
		return
	}

	filename := fmt.Sprintf("ledger_%s.xlsx", time.Now().Format("20060102_150405"))
	bot.SendDocument(adminID, filename, buf.Bytes(), fmt.Sprintf("Ledger export: %d users", len(users)))
	logger.Info("Admin exported ledger", "admin_id", adminID, "users", len(users))
}
