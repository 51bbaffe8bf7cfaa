package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	channelDomain "github.com/reshetovitsme/termbot/internal/modules/channel/domain"
	channelService "github.com/reshetovitsme/termbot/internal/modules/channel/service"
	"github.com/reshetovitsme/termbot/internal/modules/command/domain"
	definitionService "github.com/reshetovitsme/termbot/internal/modules/definition/service"
	messageDomain "github.com/reshetovitsme/termbot/internal/modules/message/domain"
	preferenceService "github.com/reshetovitsme/termbot/internal/modules/preference/service"
	termDomain "github.com/reshetovitsme/termbot/internal/modules/term/domain"
	termService "github.com/reshetovitsme/termbot/internal/modules/term/service"
	"github.com/reshetovitsme/termbot/internal/shared/config"
	sharedErrors "github.com/reshetovitsme/termbot/internal/shared/errors"
	"github.com/samber/lo"
)

const (
	incorrectUsage = "Incorrect Command. Usage:"
	unauthorized   = "You are not authorized to change the glossary."
)

type handler func(ctx context.Context, msg messageDomain.Inbound, args string) []messageDomain.Reply

// Service parses prefixed messages and runs the matching command
type Service struct {
	prefix       string
	allowedUsers []string
	terms        *termService.Service
	channels     *channelService.Service
	prefs        *preferenceService.Service
	presenter    *definitionService.Service
	handlers     map[string]handler
}

// New creates a new command dispatcher
func New(cfg *config.Config, terms *termService.Service, channels *channelService.Service, prefs *preferenceService.Service, presenter *definitionService.Service) *Service {
	s := &Service{
		prefix:       cfg.CommandPrefix,
		allowedUsers: cfg.AllowedUsers,
		terms:        terms,
		channels:     channels,
		prefs:        prefs,
		presenter:    presenter,
	}
	s.handlers = map[string]handler{
		domain.Define:       s.handleDefine,
		domain.Add:          s.handleAdd,
		domain.Remove:       s.handleRemove,
		domain.Clone:        s.handleClone,
		domain.Ignore:       s.handleIgnore,
		domain.PlusChannel:  s.handlePlusChannel,
		domain.MinusChannel: s.handleMinusChannel,
		domain.Cooldown:     s.handleCooldown,
		domain.Help:         s.handleHelp,
		domain.Test:         s.handleTest,
	}
	return s
}

// IsCommand reports whether text carries the command prefix
func (s *Service) IsCommand(text string) bool {
	return strings.HasPrefix(text, s.prefix)
}

// Dispatch runs the command in msg and returns the replies to send, in order
func (s *Service) Dispatch(ctx context.Context, msg messageDomain.Inbound) []messageDomain.Reply {
	name, args, ok := domain.Parse(s.prefix, msg.Text)
	if !ok {
		return nil
	}
	slog.DebugContext(ctx, "Command received", "command", name, "args", args, "channel_id", msg.ChannelID, "author_id", msg.AuthorID)

	cmd, known := domain.Lookup(name)
	h, hasHandler := s.handlers[name]
	if !known || !hasHandler {
		return []messageDomain.Reply{messageDomain.Textf("Incorrect Command, use %shelp to see commands.", s.prefix)}
	}

	if cmd.Mutating && !s.isAuthorized(msg.AuthorID) {
		slog.InfoContext(ctx, "Unauthorized command", "command", name, "author_id", msg.AuthorID)
		return []messageDomain.Reply{{Text: unauthorized}}
	}

	return h(ctx, msg, args)
}

// Usage returns the incorrect-usage reply for a command
func (s *Service) Usage(name string) messageDomain.Reply {
	cmd, _ := domain.Lookup(name)
	return messageDomain.Textf("%s\n`%s%s`", incorrectUsage, s.prefix, cmd.Usage)
}

func (s *Service) isAuthorized(authorID string) bool {
	if len(s.allowedUsers) == 0 {
		return true
	}
	return lo.Contains(s.allowedUsers, authorID)
}

func (s *Service) handleDefine(ctx context.Context, msg messageDomain.Inbound, args string) []messageDomain.Reply {
	term := strings.TrimSpace(args)
	if term == "" {
		return []messageDomain.Reply{s.Usage(domain.Define)}
	}

	reply, ok := s.presenter.Present(msg.ChannelID, []string{term}, false)
	if !ok {
		slog.InfoContext(ctx, "Attempted to define term that doesn't exist", "term", term)
		return []messageDomain.Reply{messageDomain.Textf("Term **%s** does not exist.", term)}
	}
	return []messageDomain.Reply{reply}
}

func (s *Service) handleAdd(ctx context.Context, _ messageDomain.Inbound, args string) []messageDomain.Reply {
	term, definition, ok := strings.Cut(args, ":")
	if !ok {
		slog.InfoContext(ctx, "Wrong syntax on 'add' command")
		return []messageDomain.Reply{s.Usage(domain.Add)}
	}

	outcome, err := s.terms.Add(term, definition)
	if err != nil {
		slog.InfoContext(ctx, "Wrong syntax on 'add' command", "error", err)
		return []messageDomain.Reply{s.Usage(domain.Add)}
	}

	term = strings.TrimSpace(term)
	if outcome == termDomain.AddOutcomeCreated {
		return []messageDomain.Reply{messageDomain.Textf("Added new term: **%s**", term)}
	}
	return []messageDomain.Reply{messageDomain.Textf("Added new definition to **%s**", term)}
}

func (s *Service) handleRemove(ctx context.Context, _ messageDomain.Inbound, args string) []messageDomain.Reply {
	terms := domain.SplitList(args)
	if len(terms) == 0 {
		slog.InfoContext(ctx, "Wrong syntax on 'remove' command")
		return []messageDomain.Reply{s.Usage(domain.Remove)}
	}

	return lo.Map(s.terms.RemoveMany(terms), func(r termDomain.RemoveResult, _ int) messageDomain.Reply {
		if !r.Found {
			return messageDomain.Textf("Term **%s** does not exist. Cannot be removed.", r.Term)
		}
		return messageDomain.Textf("Removed term **%s** with %d %s.", r.Term, r.Count, plural(r.Count, "definition"))
	})
}

func (s *Service) handleClone(ctx context.Context, _ messageDomain.Inbound, args string) []messageDomain.Reply {
	parts := strings.Split(args, ",")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		slog.InfoContext(ctx, "Clone attempt failed with incorrect syntax")
		return []messageDomain.Reply{s.Usage(domain.Clone)}
	}
	src, dst := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

	err := s.terms.Clone(src, dst)
	switch {
	case err == nil:
		return []messageDomain.Reply{messageDomain.Textf("Successfully added **%s** from **%s**", dst, src)}
	case errors.Is(err, sharedErrors.ErrTermNotFound):
		return []messageDomain.Reply{messageDomain.Textf("**%s** does not exist, cannot be cloned.", src)}
	case errors.Is(err, sharedErrors.ErrTermExists):
		return []messageDomain.Reply{messageDomain.Textf("**%s** already exists, clone failed.", dst)}
	default:
		slog.WarnContext(ctx, "Unknown error cloning term", "source", src, "destination", dst, "error", err)
		return []messageDomain.Reply{s.Usage(domain.Clone)}
	}
}

func (s *Service) handleIgnore(ctx context.Context, _ messageDomain.Inbound, args string) []messageDomain.Reply {
	terms := domain.SplitList(args)
	if len(terms) == 0 {
		slog.InfoContext(ctx, "Wrong syntax on 'ignore' command")
		return []messageDomain.Reply{s.Usage(domain.Ignore)}
	}

	return lo.Map(terms, func(term string, _ int) messageDomain.Reply {
		ignored, err := s.terms.ToggleIgnore(term)
		switch {
		case err != nil:
			return messageDomain.Textf("Term **%s** does not exist. Cannot be ignored.", term)
		case ignored:
			return messageDomain.Textf("Now ignoring **%s**.", term)
		default:
			return messageDomain.Textf("No longer ignoring **%s**.", term)
		}
	})
}

func (s *Service) handlePlusChannel(ctx context.Context, msg messageDomain.Inbound, _ string) []messageDomain.Reply {
	channel := channelDomain.Channel{ID: msg.ChannelID, Name: msg.ChannelName}
	slog.InfoContext(ctx, "Attempting to whitelist channel", "channel", channel.DisplayName(), "channel_id", channel.ID)

	if !s.channels.AddChannel(channel.ID) {
		return []messageDomain.Reply{messageDomain.Textf("Channel *%s* already active.", channel.DisplayName())}
	}
	return []messageDomain.Reply{messageDomain.Textf("Channel *%s* added to whitelist.", channel.DisplayName())}
}

func (s *Service) handleMinusChannel(ctx context.Context, msg messageDomain.Inbound, _ string) []messageDomain.Reply {
	channel := channelDomain.Channel{ID: msg.ChannelID, Name: msg.ChannelName}
	slog.InfoContext(ctx, "Attempting to remove channel from whitelist", "channel", channel.DisplayName(), "channel_id", channel.ID)

	if !s.channels.RemoveChannel(channel.ID) {
		return []messageDomain.Reply{messageDomain.Textf("Channel *%s* already inactive.", channel.DisplayName())}
	}
	return []messageDomain.Reply{messageDomain.Textf("Channel *%s* removed from whitelist.", channel.DisplayName())}
}

func (s *Service) handleCooldown(ctx context.Context, msg messageDomain.Inbound, args string) []messageDomain.Reply {
	args = strings.TrimSpace(args)
	if args == "" {
		return []messageDomain.Reply{messageDomain.Textf("Cooldown is **%s** minutes.", s.prefs.CooldownMinutes())}
	}

	// Reading the cooldown is open to everyone, setting it is not
	if !s.isAuthorized(msg.AuthorID) {
		slog.InfoContext(ctx, "Unauthorized command", "command", domain.Cooldown, "author_id", msg.AuthorID)
		return []messageDomain.Reply{{Text: unauthorized}}
	}

	minutes, err := strconv.ParseFloat(args, 64)
	if err != nil {
		return []messageDomain.Reply{s.Usage(domain.Cooldown)}
	}
	shown, err := s.prefs.SetCooldownMinutes(minutes)
	if err != nil {
		return []messageDomain.Reply{s.Usage(domain.Cooldown)}
	}
	return []messageDomain.Reply{messageDomain.Textf("Cooldown set to **%s** minutes.", shown)}
}

func (s *Service) handleHelp(_ context.Context, _ messageDomain.Inbound, _ string) []messageDomain.Reply {
	var text strings.Builder
	text.WriteString("**Commands**\n")
	for _, cmd := range domain.Catalog {
		text.WriteString(fmt.Sprintf("*%s* - %s\n`%s%s`\n", cmd.Name, cmd.Short, s.prefix, cmd.Usage))
	}
	return []messageDomain.Reply{{Text: strings.TrimRight(text.String(), "\n")}}
}

func (s *Service) handleTest(_ context.Context, _ messageDomain.Inbound, _ string) []messageDomain.Reply {
	return []messageDomain.Reply{{Text: "Hello World!"}}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
