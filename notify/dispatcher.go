package notify

import (
	"context"
	"fmt"

	"skin-watcher/models"
	"skin-watcher/utils"
)

// Sender delivers one notification.
type Sender interface {
	Send(ctx context.Context, event models.Event) error
}

// LogSender prints notifications instead of pushing them.
type LogSender struct {
	Logger *utils.Logger
}

func (s LogSender) Send(_ context.Context, event models.Event) error {
	if event.Body == "" {
		s.Logger.Info("[notify] %s", event.Title)
	} else {
		s.Logger.Info("[notify] %s / %s", event.Title, event.Body)
	}
	return nil
}

// DispatchResult counts one Dispatch call.
type DispatchResult struct {
	Submitted int
	Failed    int
}

// Dispatcher sends notifications concurrently on a best-effort basis.
// Failures are logged, never returned.
type Dispatcher struct {
	sender      Sender
	logger      *utils.Logger
	concurrency int
	perSecond   float64
}

// NewDispatcher creates a Dispatcher. A nil sender detaches it: events are
// counted and dropped. concurrency 0 launches every send at once; perSecond
// 0 disables pacing.
func NewDispatcher(sender Sender, logger *utils.Logger, concurrency int, perSecond float64) *Dispatcher {
	return &Dispatcher{
		sender:      sender,
		logger:      logger,
		concurrency: concurrency,
		perSecond:   perSecond,
	}
}

// Dispatch submits all events and waits for every send to finish.
func (d *Dispatcher) Dispatch(ctx context.Context, events []models.Event) DispatchResult {
	if len(events) == 0 {
		return DispatchResult{}
	}
	if d.sender == nil {
		d.logger.Debug("[notify] No sender attached, dropping %d notification(s)", len(events))
		return DispatchResult{}
	}

	d.logger.Info("[notify] Sending %d notification(s)...", len(events))

	pool := utils.NewWorkerPool(d.concurrency, d.perSecond)
	for _, ev := range events {
		ev := ev
		pool.Submit(ctx, func(ctx context.Context) error {
			if err := d.sender.Send(ctx, ev); err != nil {
				return fmt.Errorf("%s for order #%d: %w", ev.Kind, ev.OrderID, err)
			}
			return nil
		})
	}

	// TODO: decide whether failed sends should be surfaced in the exit status.
	errs := pool.Wait()
	for _, err := range errs {
		d.logger.Warn("[notify] Notification not delivered: %v", err)
	}

	d.logger.Info("[notify] Sent! (%d ok, %d failed)", len(events)-len(errs), len(errs))
	return DispatchResult{Submitted: len(events), Failed: len(errs)}
}
