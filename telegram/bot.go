package telegram

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"

	"github.com/arashv/leakscan_bot/internal/config"
	"github.com/arashv/leakscan_bot/internal/handlers"
	"github.com/arashv/leakscan_bot/internal/leakosint"
	"github.com/arashv/leakscan_bot/internal/ledger"
	"github.com/arashv/leakscan_bot/internal/middleware"
	"github.com/arashv/leakscan_bot/internal/repositories"
	"github.com/arashv/leakscan_bot/pkg/logger"
)

const workerCount = 10

type Bot struct {
	api      *tgbotapi.BotAPI
	config   *config.Config
	handlers *handlers.HandlerManager
	limiter  *middleware.RateLimiter

	// Worker pool for parallel processing; updates are hashed by user id so
	// each user's messages are handled in order.
	workerChans []chan tgbotapi.Update
}

func InitBot(cfg *config.Config, db *gorm.DB) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	if cfg.AppEnv == "development" {
		api.Debug = true
	}

	logger.Info("Authorized on account", "username", api.Self.UserName)

	store := repositories.NewAccountRepository(db)
	coinLedger := ledger.New(store, ledger.Config{
		SigningBonus:   cfg.NewUserCoins,
		ReferralReward: cfg.ReferralReward,
		SearchCost:     cfg.SearchCost,
		PrivilegedIDs:  cfg.AdminIDs,
	})
	osint := leakosint.NewClient(cfg.LeakOSINTURL, cfg.LeakOSINTToken, cfg.SearchLimit, cfg.SearchLang)
	handlerMgr := handlers.NewHandlerManager(cfg, coinLedger, osint)

	bot := &Bot{
		api:         api,
		config:      cfg,
		handlers:    handlerMgr,
		limiter:     middleware.NewRateLimiter(cfg.RateLimitPerUser, time.Minute),
		workerChans: make([]chan tgbotapi.Update, workerCount),
	}

	for i := 0; i < workerCount; i++ {
		bot.workerChans[i] = make(chan tgbotapi.Update, 100)
		go bot.startWorker(bot.workerChans[i])
	}

	go bot.startUpdateListener()

	return bot, nil
}

func (b *Bot) startUpdateListener() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	logger.Info("Starting update listener...")
	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || update.Message.From == nil {
			continue
		}

		userID := update.Message.From.ID
		workerIdx := userID % int64(len(b.workerChans))
		if workerIdx < 0 {
			workerIdx = -workerIdx
		}
		b.workerChans[workerIdx] <- update
	}
}

func (b *Bot) startWorker(updates <-chan tgbotapi.Update) {
	for update := range updates {
		b.handleUpdate(update)
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in update handler", "panic", r)
		}
	}()

	message := update.Message
	userID := message.From.ID

	if !b.limiter.Allow(userID) {
		logger.Warn("Rate limit exceeded", "user_id", userID)
		return
	}

	if message.IsCommand() {
		b.handleCommand(message)
		return
	}

	b.handleMenuText(message)
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	userID := message.From.ID
	username := message.From.UserName
	args := message.CommandArguments()

	switch message.Command() {
	case "start":
		b.handlers.HandleStart(userID, username, args, b)
		b.sendMainMenu(userID)
	case "referral":
		b.handlers.HandleReferral(userID, b)
	case "balance":
		b.handlers.HandleBalance(userID, b)
	case "deposit":
		b.handlers.HandleDeposit(userID, username, args, b)
	case "search":
		b.handlers.HandleSearch(userID, args, b)
	case "search_number", "searchnumber":
		b.handlers.HandleSearchNumber(userID, args, b)
	case "history":
		b.handlers.HandleHistory(userID, b)

	case "users":
		b.handlers.HandleUsers(userID, b)
	case "broadcast":
		b.handlers.HandleBroadcast(userID, args, b)
	case "addcoin":
		ident, amount := splitIdentAmount(args)
		b.handlers.HandleAddCoin(userID, ident, amount, b)
	case "setcoins":
		ident, amount := splitIdentAmount(args)
		b.handlers.HandleSetCoins(userID, ident, amount, b)
	case "stats":
		b.handlers.HandleStats(userID, b)
	case "export":
		b.handlers.HandleExport(userID, b)

	default:
		b.SendMessage(userID, "Unknown command. Try /search <query>, /balance or /referral.")
	}
}

func (b *Bot) handleMenuText(message *tgbotapi.Message) {
	userID := message.From.ID

	switch message.Text {
	case BtnBalance:
		b.handlers.HandleBalance(userID, b)
	case BtnReferral:
		b.handlers.HandleReferral(userID, b)
	case BtnDeposit:
		b.handlers.HandleDeposit(userID, message.From.UserName, "", b)
	case BtnHistory:
		b.handlers.HandleHistory(userID, b)
	case BtnSearchHelp:
		b.SendMessage(userID, fmt.Sprintf(
			"Send /search <query> to scan leaks for an email, name or username.\n"+
				"Send /search_number <number> for phone lookups.\n"+
				"Each search costs %d coin(s).", b.config.SearchCost))
	default:
		// Free text is not a paid search; make the user ask explicitly.
		b.SendMessage(userID, "Use /search <query> to run a scan.")
	}
}

func splitIdentAmount(args string) (string, string) {
	fields := strings.Fields(args)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], fields[1]
	}
}

func (b *Bot) sendMainMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "What would you like to do?")
	msg.ReplyMarkup = MainMenuKeyboard()
	if _, err := b.api.Send(msg); err != nil {
		logger.Error("Failed to send main menu", "chat_id", chatID, "error", err)
	}
}

// SendMessage sends plain text and returns the message id, 0 on failure.
func (b *Bot) SendMessage(chatID int64, text string) int {
	msg := tgbotapi.NewMessage(chatID, text)
	sent, err := b.api.Send(msg)
	if err != nil {
		logger.Error("Failed to send message", "chat_id", chatID, "error", err)
		return 0
	}
	return sent.MessageID
}

// SendMarkdown sends Markdown-formatted text and returns the message id.
func (b *Bot) SendMarkdown(chatID int64, text string) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	sent, err := b.api.Send(msg)
	if err != nil {
		logger.Error("Failed to send markdown message", "chat_id", chatID, "error", err)
		return 0
	}
	return sent.MessageID
}

// SendDocument uploads a file to the chat.
func (b *Bot) SendDocument(chatID int64, filename string, data []byte, caption string) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: filename, Bytes: data})
	doc.Caption = caption
	if _, err := b.api.Send(doc); err != nil {
		logger.Error("Failed to send document", "chat_id", chatID, "error", err)
	}
}

// GetUsername returns the bot's own username for building invite links.
func (b *Bot) GetUsername() string {
	return b.api.Self.UserName
}

// Stop shuts down the update listener.
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}
