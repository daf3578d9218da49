package bot

import (
	"context"

	"github.com/Arabx-yung/trade-bot/internal/telegram"
	"github.com/Arabx-yung/trade-bot/pkg/utils"
)

// UpdateSource produces inbound updates. The Telegram client satisfies
// it.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]telegram.Update, error)
}

// Run long-polls for updates until the context is cancelled, retrying
// transient poll failures with backoff. Dispatch is asynchronous; Run
// drains the per-user queues before returning.
func (b *Bot) Run(ctx context.Context, src UpdateSource, pollTimeout int) error {
	defer b.Shutdown()

	retryCfg := utils.DefaultRetryConfig()
	var offset int64

	b.logger.Info().Int("poll_timeout", pollTimeout).Msg("bot polling started")
	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("bot polling stopped")
			return ctx.Err()
		default:
		}

		var updates []telegram.Update
		err := utils.Retry(ctx, retryCfg, func() error {
			var perr error
			updates, perr = src.GetUpdates(ctx, offset, pollTimeout)
			return perr
		})
		if err != nil {
			if ctx.Err() != nil {
				b.logger.Info().Msg("bot polling stopped")
				return ctx.Err()
			}
			b.logger.Error().Err(err).Msg("polling for updates failed, continuing")
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			b.HandleUpdate(ctx, u)
		}
	}
}
