package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const sendTimeout = 30 * time.Second

// ErrQueueFull is returned by Send when too many messages await delivery.
var ErrQueueFull = errors.New("mail: delivery queue full")

// Dispatcher renders messages and hands them to a Sender on background
// goroutines, at most limit at a time. Send never blocks on delivery.
type Dispatcher struct {
	renderer *Renderer
	sender   Sender
	log      *slog.Logger
	group    errgroup.Group
	slots    chan struct{}
	pending  atomic.Int64
	queue    int64
}

// NewDispatcher creates a Dispatcher that keeps up to queue messages waiting
// or in flight. A limit below 1 means one send at a time; queue is raised to
// at least limit.
func NewDispatcher(logger *slog.Logger, renderer *Renderer, sender Sender, limit, queue int) *Dispatcher {
	limit = max(limit, 1)
	return &Dispatcher{
		renderer: renderer,
		sender:   sender,
		log:      logger.With("service", "mail"),
		slots:    make(chan struct{}, limit),
		queue:    int64(max(queue, limit)),
	}
}

// Send renders msg and delivers it in the background. Render errors are
// returned; delivery errors are logged. When the queue is full msg is
// dropped and ErrQueueFull returned.
func (d *Dispatcher) Send(ctx context.Context, msg Message) error {
	email, err := d.renderer.Render(msg)
	if err != nil {
		return err
	}

	if d.pending.Add(1) > d.queue {
		d.pending.Add(-1)
		d.log.WarnContext(ctx, "mail queue full, email dropped",
			slog.String("template", msg.Template),
			slog.Any("to", email.To),
		)
		return ErrQueueFull
	}

	bg := context.WithoutCancel(ctx)
	d.group.Go(func() error {
		defer d.pending.Add(-1)
		d.slots <- struct{}{}
		defer func() { <-d.slots }()

		sendCtx, cancel := context.WithTimeout(bg, sendTimeout)
		defer cancel()

		if err := d.sender.Send(sendCtx, email); err != nil {
			d.log.ErrorContext(sendCtx, "send email failed",
				slog.String("template", msg.Template),
				slog.Any("to", email.To),
				slog.String("error", err.Error()),
			)
			return nil
		}
		d.log.InfoContext(sendCtx, "email sent",
			slog.String("template", msg.Template),
			slog.Any("to", email.To),
		)
		return nil
	})
	return nil
}

// SendNow renders and delivers msg synchronously.
func (d *Dispatcher) SendNow(ctx context.Context, msg Message) error {
	email, err := d.renderer.Render(msg)
	if err != nil {
		return err
	}
	if err := d.sender.Send(ctx, email); err != nil {
		return fmt.Errorf("mail.SendNow: %w", err)
	}
	return nil
}

// Sync returns a view of d whose Send delivers before returning, for
// short-lived commands that exit right after sending.
func (d *Dispatcher) Sync() MessageSender {
	return syncDispatcher{d}
}

type syncDispatcher struct{ d *Dispatcher }

func (s syncDispatcher) Send(ctx context.Context, msg Message) error {
	return s.d.SendNow(ctx, msg)
}

// Wait blocks until every background send has finished.
func (d *Dispatcher) Wait() {
	_ = d.group.Wait()
}
