package service

import (
	"context"
	"log/slog"
	"sync"

	channelService "github.com/reshetovitsme/termbot/internal/modules/channel/service"
	commandService "github.com/reshetovitsme/termbot/internal/modules/command/service"
	definitionService "github.com/reshetovitsme/termbot/internal/modules/definition/service"
	"github.com/reshetovitsme/termbot/internal/modules/message/domain"
	scannerService "github.com/reshetovitsme/termbot/internal/modules/scanner/service"
)

// Service routes every inbound message to the command dispatcher or to
// passive detection. Messages are handled one at a time.
type Service struct {
	commands  *commandService.Service
	channels  *channelService.Service
	scanner   *scannerService.Service
	presenter *definitionService.Service
	mu        sync.Mutex
}

// New creates a new message router
func New(commands *commandService.Service, channels *channelService.Service, scanner *scannerService.Service, presenter *definitionService.Service) *Service {
	return &Service{
		commands:  commands,
		channels:  channels,
		scanner:   scanner,
		presenter: presenter,
	}
}

// HandleMessage processes msg to completion and returns the replies to post
// in msg.ChannelID
func (s *Service) HandleMessage(ctx context.Context, msg domain.Inbound) []domain.Reply {
	if msg.FromSelf {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.commands.IsCommand(msg.Text) {
		return s.commands.Dispatch(ctx, msg)
	}

	if !s.channels.IsWhitelisted(msg.ChannelID) {
		return nil
	}

	matched := s.scanner.Scan(msg.Text, msg.ChannelID)
	if len(matched) == 0 {
		return nil
	}

	reply, ok := s.presenter.Present(msg.ChannelID, matched, true)
	if !ok {
		return nil
	}

	slog.InfoContext(ctx, "Detected terms", "channel_id", msg.ChannelID, "terms", matched)
	return []domain.Reply{reply}
}
