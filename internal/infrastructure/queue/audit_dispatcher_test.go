package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/goleak"

	"github.com/cts/user-auth-service/internal/core/domain"
)

// recordingRepo behaves like a real store: a cancelled context fails the insert.
type recordingRepo struct {
	mu          sync.Mutex
	events      []domain.AuditEvent
	err         error
	noDeadlines int
}

func (r *recordingRepo) Insert(ctx context.Context, e *domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); !ok {
		r.noDeadlines++
	}
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *e)
	return nil
}

func (r *recordingRepo) snapshot() []domain.AuditEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditEvent, len(r.events))
	copy(out, r.events)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestAuditDispatcher_WritesEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := &recordingRepo{}
	d := NewAuditDispatcher(2, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Record(domain.AuditEvent{Type: domain.AuditUserRegistered, UserID: "u1", Outcome: domain.OutcomeSuccess})
	d.Record(domain.AuditEvent{Type: domain.AuditUserLogin, Email: "b@x.com", Outcome: "not_found"})

	waitFor(t, func() bool { return len(repo.snapshot()) == 2 })

	cancel()
	d.Wait()
}

func TestAuditDispatcher_PreservesPerAccountOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := &recordingRepo{}
	d := NewAuditDispatcher(4, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	outcomes := []string{"invalid_credentials", "invalid_credentials", domain.OutcomeSuccess}
	for _, o := range outcomes {
		d.Record(domain.AuditEvent{Type: domain.AuditUserLogin, UserID: "u42", Outcome: o})
	}

	waitFor(t, func() bool { return len(repo.snapshot()) == len(outcomes) })
	for i, e := range repo.snapshot() {
		if e.Outcome != outcomes[i] {
			t.Fatalf("event %d out of order: got %s want %s", i, e.Outcome, outcomes[i])
		}
	}

	cancel()
	d.Wait()
}

func TestAuditDispatcher_DrainsOnShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := &recordingRepo{}
	d := NewAuditDispatcher(1, repo, zerolog.Nop())

	for i := 0; i < 10; i++ {
		d.Record(domain.AuditEvent{Type: domain.AuditUserLogin, UserID: "u1"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	if got := len(repo.snapshot()); got != 10 {
		t.Fatalf("expected 10 events flushed, got %d", got)
	}
}

func TestAuditDispatcher_QueuedEventsSurviveCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)

	const runs = 200
	lost := 0
	for i := 0; i < runs; i++ {
		repo := &recordingRepo{}
		d := NewAuditDispatcher(1, repo, zerolog.Nop())
		d.Record(domain.AuditEvent{Type: domain.AuditUserRegistered, UserID: "admin"})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		d.Start(ctx)
		d.Wait()

		lost += 1 - len(repo.snapshot())
	}
	if lost != 0 {
		t.Fatalf("lost %d/%d events queued before shutdown", lost, runs)
	}
}

func TestAuditDispatcher_WritesUseTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := &recordingRepo{}
	d := NewAuditDispatcher(2, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Record(domain.AuditEvent{Type: domain.AuditUserLogin, UserID: "u1"})
	d.Record(domain.AuditEvent{Type: domain.AuditUserLogin, UserID: "u2"})
	waitFor(t, func() bool { return len(repo.snapshot()) == 2 })

	cancel()
	d.Wait()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.noDeadlines != 0 {
		t.Fatalf("expected every insert to carry a deadline, %d did not", repo.noDeadlines)
	}
}

func TestAuditDispatcher_DropsWhenFull(t *testing.T) {
	repo := &recordingRepo{}
	d := NewAuditDispatcher(1, repo, zerolog.Nop())

	for i := 0; i < channelBuffer+10; i++ {
		d.Record(domain.AuditEvent{Type: domain.AuditUserLogin, UserID: "u1"})
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected buffer to hold %d events, got %d", channelBuffer, got)
	}
}

func TestAuditDispatcher_WriteErrorDoesNotStopWorker(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := &recordingRepo{err: errors.New("mongo unavailable")}
	d := NewAuditDispatcher(1, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Record(domain.AuditEvent{Type: domain.AuditUserLogin, UserID: "u1"})
	time.Sleep(20 * time.Millisecond)

	repo.mu.Lock()
	repo.err = nil
	repo.mu.Unlock()

	d.Record(domain.AuditEvent{Type: domain.AuditUserLogin, UserID: "u1", Outcome: domain.OutcomeSuccess})
	waitFor(t, func() bool {
		for _, e := range repo.snapshot() {
			if e.Outcome == domain.OutcomeSuccess {
				return true
			}
		}
		return false
	})

	cancel()
	d.Wait()
}

func TestShardIndex_Deterministic(t *testing.T) {
	d := NewAuditDispatcher(8, &recordingRepo{}, zerolog.Nop())
	a := d.shardIndex("u1")
	for i := 0; i < 10; i++ {
		if d.shardIndex("u1") != a {
			t.Fatalf("shard index not deterministic")
		}
	}
	if a < 0 || a >= 8 {
		t.Fatalf("shard index out of range: %d", a)
	}
}
