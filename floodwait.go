package autogroup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gotd/td/bin"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
)

// maxFloodWaits bounds how many FLOOD_WAIT errors a single RPC sits out.
const maxFloodWaits = 3

// floodWaitMiddleware sleeps through FLOOD_WAIT errors and retries the RPC,
// giving up after maxWaits waits.
type floodWaitMiddleware struct {
	logger   *slog.Logger
	maxWaits int
}

func newFloodWaitMiddleware(logger *slog.Logger) floodWaitMiddleware {
	return floodWaitMiddleware{logger: logger, maxWaits: maxFloodWaits}
}

func (f floodWaitMiddleware) Handle(next tg.Invoker) telegram.InvokeFunc {
	return func(ctx context.Context, input bin.Encoder, output bin.Decoder) error {
		for waits := 0; ; waits++ {
			err := next.Invoke(ctx, input, output)
			if err == nil {
				return nil
			}

			d, ok := tgerr.AsFloodWait(err)
			if !ok {
				return err
			}
			if waits >= f.maxWaits {
				return fmt.Errorf("%s: giving up after %d flood waits: %w", rpcName(input), waits, err)
			}

			f.logger.Warn("flood wait", "rpc", rpcName(input), "wait", d, "attempt", waits+1)

			timer := time.NewTimer(d)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
}

func rpcName(input bin.Encoder) string {
	if t, ok := input.(interface{ TypeName() string }); ok {
		return t.TypeName()
	}
	return fmt.Sprintf("%T", input)
}
