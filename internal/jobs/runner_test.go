package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Xxsnakesz/GymSyncPro-NEW-sub000/internal/checkin"
)

type fakeStore struct {
	mu        sync.Mutex
	staleArgs []time.Duration
	stale     int64
	staleErr  error
	inactive  []checkin.InactiveMember
}

func (f *fakeStore) CompleteStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.staleArgs = append(f.staleArgs, olderThan)
	return f.stale, f.staleErr
}

func (f *fakeStore) ListInactiveMembers(ctx context.Context, inactiveFor time.Duration) ([]checkin.InactiveMember, error) {
	return f.inactive, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (f *fakeMailer) SendInactivityReminder(ctx context.Context, email, name string, lastSeen time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, email)
	return f.err
}

func TestSweepStaleUsesCutoff(t *testing.T) {
	store := &fakeStore{stale: 2}
	r := NewRunner(store, &fakeMailer{})

	r.sweepStale(context.Background())

	assert.Equal(t, []time.Duration{staleAfter}, store.staleArgs)
}

func TestScanInactiveMailsEachMember(t *testing.T) {
	lastVisit := time.Now().Add(-10 * 24 * time.Hour)
	store := &fakeStore{inactive: []checkin.InactiveMember{
		{UserID: 1, Name: "Jo", Email: "jo@example.com", LastVisit: &lastVisit},
		{UserID: 2, Name: "Sam", Email: "sam@example.com"},
	}}
	mailer := &fakeMailer{}
	r := NewRunner(store, mailer)

	r.scanInactive(context.Background())

	assert.Equal(t, []string{"jo@example.com", "sam@example.com"}, mailer.sent)
}

func TestScanInactiveKeepsGoingAfterMailFailure(t *testing.T) {
	store := &fakeStore{inactive: []checkin.InactiveMember{
		{UserID: 1, Name: "Jo", Email: "jo@example.com"},
		{UserID: 2, Name: "Sam", Email: "sam@example.com"},
	}}
	mailer := &fakeMailer{err: errors.New("smtp down")}
	r := NewRunner(store, mailer)

	r.scanInactive(context.Background())

	// one failed send must not starve the rest of the list
	assert.Len(t, mailer.sent, 2)
}

func TestStopWaitsForLoops(t *testing.T) {
	r := NewRunner(&fakeStore{}, &fakeMailer{})

	r.Start(context.Background())
	done := make(chan struct{})
	go func() {
		r.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after cancel")
	}
}
