package handlers

import (
	"github.com/arashv/leakscan_bot/internal/config"
	"github.com/arashv/leakscan_bot/internal/leakosint"
	"github.com/arashv/leakscan_bot/internal/ledger"
)

// BotInterface is the slice of the transport the handlers need. Keeping it an
// interface avoids a circular dependency on the telegram package and lets the
// tests drive handlers with a recorder.
type BotInterface interface {
	SendMessage(chatID int64, text string) int
	SendMarkdown(chatID int64, text string) int
	SendDocument(chatID int64, filename string, data []byte, caption string)
	GetUsername() string
}

type HandlerManager struct {
	Config *config.Config
	Ledger *ledger.Ledger
	OSINT  *leakosint.Client
}

func NewHandlerManager(cfg *config.Config, l *ledger.Ledger, osint *leakosint.Client) *HandlerManager {
	return &HandlerManager{
		Config: cfg,
		Ledger: l,
		OSINT:  osint,
	}
}
