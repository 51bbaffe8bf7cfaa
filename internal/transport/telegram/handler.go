package telegram

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	messageDomain "github.com/reshetovitsme/termbot/internal/modules/message/domain"
	messageService "github.com/reshetovitsme/termbot/internal/modules/message/service"
	"github.com/reshetovitsme/termbot/internal/shared/config"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

type messageSender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
}

// Handler bridges Telegram long polling to the message router
type Handler struct {
	cfg      *config.Config
	messages *messageService.Service
	bot      *bot.Bot
	selfID   atomic.Int64
	cancel   context.CancelFunc
}

// New creates the Telegram bot client with the router as its default handler
func New(cfg *config.Config, messages *messageService.Service) (*Handler, error) {
	h := &Handler{
		cfg:      cfg,
		messages: messages,
	}

	opts := []bot.Option{
		bot.WithDefaultHandler(h.HandleUpdate),
	}
	if cfg.TelegramAPIURL != "" {
		opts = append(opts, bot.WithServerURL(cfg.TelegramAPIURL))
	}

	b, err := bot.New(cfg.TelegramBotToken, opts...)
	if err != nil {
		return nil, oops.With("context", "failed to create telegram bot").Wrap(err)
	}
	h.bot = b

	return h, nil
}

// Start resolves the bot identity and begins polling in the background
func (h *Handler) Start(ctx context.Context) error {
	me, err := h.bot.GetMe(ctx)
	if err != nil {
		return oops.With("context", "failed to get telegram bot identity").Wrap(err)
	}
	h.selfID.Store(me.ID)
	slog.Info("Connected to Telegram", "username", me.Username, "user_id", me.ID)

	pollCtx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go h.bot.Start(pollCtx)

	return nil
}

// Close stops polling
func (h *Handler) Close(ctx context.Context) error {
	if h.cancel != nil {
		h.cancel()
	}
	return nil
}

// HandleUpdate processes incoming updates
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil {
		msg = update.ChannelPost
	}
	if msg == nil {
		return
	}

	inbound := toInbound(msg, h.selfID.Load())
	if inbound.Text == "" {
		return
	}

	for _, reply := range h.messages.HandleMessage(ctx, inbound) {
		if err := send(ctx, b, msg.Chat.ID, reply); err != nil {
			if reply.IsStructured() {
				slog.Warn("Definition reply lost, cooldowns already restarted", "chat_id", msg.Chat.ID, "terms", lo.Map(reply.Fields, fieldName), "error", err)
				continue
			}
			slog.Error("Failed to send reply", "chat_id", msg.Chat.ID, "error", err)
		}
	}
}

func toInbound(msg *models.Message, selfID int64) messageDomain.Inbound {
	text := msg.Text
	if text == "" {
		text = msg.Caption
	}

	in := messageDomain.Inbound{
		ChannelID:   strconv.FormatInt(msg.Chat.ID, 10),
		ChannelName: chatName(msg.Chat),
		Text:        text,
	}

	switch {
	case msg.From != nil:
		in.AuthorID = strconv.FormatInt(msg.From.ID, 10)
		in.AuthorName = authorName(msg.From)
		in.FromSelf = selfID != 0 && msg.From.ID == selfID
	case msg.SenderChat != nil:
		in.AuthorID = strconv.FormatInt(msg.SenderChat.ID, 10)
		in.AuthorName = chatName(*msg.SenderChat)
	}

	return in
}

func fieldName(f messageDomain.Field, _ int) string {
	return f.Name
}

func chatName(chat models.Chat) string {
	switch {
	case chat.Title != "":
		return chat.Title
	case chat.Username != "":
		return "@" + chat.Username
	default:
		return chat.FirstName
	}
}

func authorName(user *models.User) string {
	if user.Username != "" {
		return "@" + user.Username
	}
	return user.FirstName
}

func send(ctx context.Context, s messageSender, chatID int64, reply messageDomain.Reply) error {
	for _, text := range render(reply) {
		_, err := s.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      text,
			ParseMode: models.ParseModeHTML,
		})
		if err != nil {
			return oops.With("chat_id", chatID).Wrap(err)
		}
	}
	return nil
}
