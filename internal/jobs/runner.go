package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/checkin"
	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/logger"
)

const (
	staleSweepInterval = 5 * time.Minute
	staleAfter         = 12 * time.Hour

	inactivityScanInterval = 24 * time.Hour
	inactiveAfter          = 7 * 24 * time.Hour
)

// CheckInStore is the slice of the check-in repository the runner needs.
type CheckInStore interface {
	CompleteStale(ctx context.Context, olderThan time.Duration) (int64, error)
	ListInactiveMembers(ctx context.Context, inactiveFor time.Duration) ([]checkin.InactiveMember, error)
}

// ReminderMailer sends the come-back nudge.
type ReminderMailer interface {
	SendInactivityReminder(ctx context.Context, email, name string, lastSeen time.Time) error
}

// Runner owns the periodic background work: closing forgotten
// check-ins and nudging members who stopped showing up.
type Runner struct {
	checkins CheckInStore
	mailer   ReminderMailer
	wg       sync.WaitGroup
	cancel   context.CancelFunc
}

func NewRunner(checkins CheckInStore, mailer ReminderMailer) *Runner {
	return &Runner{checkins: checkins, mailer: mailer}
}

func (r *Runner) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel

	r.wg.Add(2)
	go r.loop(ctx, staleSweepInterval, r.sweepStale)
	go r.loop(ctx, inactivityScanInterval, r.scanInactive)
}

// Stop cancels the loops and waits for in-flight runs to finish.
func (r *Runner) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}

func (r *Runner) loop(ctx context.Context, interval time.Duration, task func(context.Context)) {
	defer r.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			task(ctx)
		}
	}
}

func (r *Runner) sweepStale(ctx context.Context) {
	closed, err := r.checkins.CompleteStale(ctx, staleAfter)
	if err != nil {
		logger.Error("Stale check-in sweep failed", "error", err)
		return
	}
	if closed > 0 {
		logger.Info("Auto-completed stale check-ins", "count", closed)
	}
}

// scanInactive runs once a day, so each member gets at most one
// reminder per day no matter how long they stay away.
func (r *Runner) scanInactive(ctx context.Context) {
	members, err := r.checkins.ListInactiveMembers(ctx, inactiveAfter)
	if err != nil {
		logger.Error("Inactivity scan failed", "error", err)
		return
	}

	for _, m := range members {
		lastSeen := time.Now().Add(-inactiveAfter)
		if m.LastVisit != nil {
			lastSeen = *m.LastVisit
		}
		if err := r.mailer.SendInactivityReminder(ctx, m.Email, m.Name, lastSeen); err != nil {
			logger.Error("Failed to queue inactivity reminder", "email", m.Email, "error", err)
		}
	}

	if len(members) > 0 {
		logger.Info("Inactivity reminders queued", "count", len(members))
	}
}
