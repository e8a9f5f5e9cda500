package autogroup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/gotd/td/bin"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
)

type flakyInvoker struct {
	calls    int
	failures int
	err      error
}

func (f *flakyInvoker) Invoke(context.Context, bin.Encoder, bin.Decoder) error {
	f.calls++
	if f.calls <= f.failures {
		return f.err
	}
	return nil
}

func TestFloodWaitMiddleware(t *testing.T) {
	floodWait := tgerr.New(420, "FLOOD_WAIT_0")
	other := tgerr.New(400, "CHAT_TITLE_EMPTY")

	tests := []struct {
		name      string
		failures  int
		err       error
		wantCalls int
		wantErr   bool
	}{
		{"no error", 0, nil, 1, false},
		{"retried until success", 2, floodWait, 3, false},
		{"gives up", 10, floodWait, maxFloodWaits + 1, true},
		{"other errors pass through", 1, other, 1, true},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &flakyInvoker{failures: tt.failures, err: tt.err}
			call := newFloodWaitMiddleware(logger).Handle(inv)

			err := call(context.Background(), &tg.HelpGetConfigRequest{}, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, tt.err) {
				t.Errorf("err = %v, want it to wrap %v", err, tt.err)
			}
			if inv.calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", inv.calls, tt.wantCalls)
			}
		})
	}
}

func TestFloodWaitMiddlewareCancelled(t *testing.T) {
	inv := &flakyInvoker{failures: 10, err: tgerr.New(420, "FLOOD_WAIT_60")}
	call := newFloodWaitMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))).Handle(inv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := call(ctx, &tg.HelpGetConfigRequest{}, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if inv.calls != 1 {
		t.Errorf("calls = %d, want 1", inv.calls)
	}
}
