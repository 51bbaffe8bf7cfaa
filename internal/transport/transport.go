// Package transport connects the bot to a chat platform.
package transport

import "context"

// Runner is a chat platform connection. Start returns once the connection is
// established; events are then delivered in the background until Close.
type Runner interface {
	Start(ctx context.Context) error
	Close(ctx context.Context) error
}
