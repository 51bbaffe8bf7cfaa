package discord

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	messageDomain "github.com/reshetovitsme/termbot/internal/modules/message/domain"
	messageService "github.com/reshetovitsme/termbot/internal/modules/message/service"
	"github.com/reshetovitsme/termbot/internal/shared/config"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Discord embed limits
const (
	maxEmbedFields   = 25
	maxFieldName     = 256
	maxFieldValue    = 1024
	maxEmbedLength   = 6000
	maxMessageLength = 2000
)

type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Handler bridges a Discord gateway session to the message router
type Handler struct {
	cfg      *config.Config
	messages *messageService.Service
	session  *discordgo.Session
	ctx      context.Context
	cancel   context.CancelFunc
}

// New creates a Discord session and registers the event handlers.
// The gateway connection is opened by Start.
func New(cfg *config.Config, messages *messageService.Service) (*Handler, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, oops.With("context", "failed to create discord session").Wrap(err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentsMessageContent

	ctx, cancel := context.WithCancel(context.Background())
	h := &Handler{
		cfg:      cfg,
		messages: messages,
		session:  session,
		ctx:      ctx,
		cancel:   cancel,
	}
	session.AddHandler(h.handleReady)
	session.AddHandler(h.handleMessageCreate)

	return h, nil
}

// Start opens the gateway connection
func (h *Handler) Start(ctx context.Context) error {
	if err := h.session.Open(); err != nil {
		return oops.With("context", "failed to open discord gateway").Wrap(err)
	}
	return nil
}

// Close disconnects from the gateway
func (h *Handler) Close(ctx context.Context) error {
	h.cancel()
	return h.session.Close()
}

func (h *Handler) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	slog.Info("Connected to Discord", "username", r.User.Username, "user_id", r.User.ID, "guilds", len(r.Guilds))
}

func (h *Handler) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}

	selfID := ""
	if s.State != nil && s.State.User != nil {
		selfID = s.State.User.ID
	}

	inbound := toInbound(m.Message, selfID, channelName(s, m.ChannelID))
	for _, reply := range h.messages.HandleMessage(h.ctx, inbound) {
		if err := send(s, m.ChannelID, reply); err != nil {
			if reply.IsStructured() {
				slog.Warn("Definition reply lost, cooldowns already restarted", "channel_id", m.ChannelID, "terms", fieldNames(reply), "error", err)
				continue
			}
			slog.Error("Failed to send reply", "channel_id", m.ChannelID, "error", err)
		}
	}
}

func toInbound(m *discordgo.Message, selfID, channelName string) messageDomain.Inbound {
	return messageDomain.Inbound{
		ChannelID:   m.ChannelID,
		ChannelName: channelName,
		AuthorID:    m.Author.ID,
		AuthorName:  m.Author.Username,
		Text:        m.Content,
		FromSelf:    selfID != "" && m.Author.ID == selfID,
	}
}

func channelName(s *discordgo.Session, channelID string) string {
	if s.State != nil {
		if ch, err := s.State.Channel(channelID); err == nil {
			return ch.Name
		}
	}
	ch, err := s.Channel(channelID)
	if err != nil {
		slog.Debug("Could not resolve channel name", "channel_id", channelID, "error", err)
		return ""
	}
	return ch.Name
}

func send(s messageSender, channelID string, reply messageDomain.Reply) error {
	if !reply.IsStructured() {
		_, err := s.ChannelMessageSend(channelID, truncate(reply.Text, maxMessageLength))
		return err
	}

	for _, embed := range toEmbeds(reply) {
		if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
			return err
		}
	}
	return nil
}

// toEmbeds renders fields as title-less embeds. A new embed starts when the
// field count or the total character count would exceed the embed limits.
func toEmbeds(reply messageDomain.Reply) []*discordgo.MessageEmbed {
	var (
		embeds  []*discordgo.MessageEmbed
		current *discordgo.MessageEmbed
		size    int
	)
	for _, field := range reply.Fields {
		f := &discordgo.MessageEmbedField{
			Name:  truncate(field.Name, maxFieldName),
			Value: truncate(field.Value, maxFieldValue),
		}
		n := utf8.RuneCountInString(f.Name) + utf8.RuneCountInString(f.Value)

		if current == nil || len(current.Fields) == maxEmbedFields || size+n > maxEmbedLength {
			current = &discordgo.MessageEmbed{}
			embeds = append(embeds, current)
			size = 0
		}
		current.Fields = append(current.Fields, f)
		size += n
	}
	return embeds
}

func fieldNames(reply messageDomain.Reply) []string {
	return lo.Map(reply.Fields, func(f messageDomain.Field, _ int) string { return f.Name })
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
