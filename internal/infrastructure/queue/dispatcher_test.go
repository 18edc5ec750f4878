package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/portalcliente/portal-api/internal/core/ports"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls map[string][]string
	fail  func(n ports.Notification, attempt int) error
	tries map[string]int
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{calls: map[string][]string{}, tries: map[string]int{}}
}

func (r *recordingNotifier) Notify(_ context.Context, n ports.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tries[n.Subject]++
	if r.fail != nil {
		if err := r.fail(n, r.tries[n.Subject]); err != nil {
			return err
		}
	}
	r.calls[n.Key] = append(r.calls[n.Key], n.Subject)
	return nil
}

func (r *recordingNotifier) delivered(key string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls[key]...)
}

func (r *recordingNotifier) attempts(subject string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tries[subject]
}

func fastBackoff() retry.Backoff {
	return retry.WithMaxRetries(3, retry.NewConstant(time.Millisecond))
}

func newTestDispatcher(workers int, n ports.Notifier) *Dispatcher {
	d := NewDispatcher(workers, n, zerolog.Nop())
	d.backoff = fastBackoff
	return d
}

func TestShardIndex_Deterministic(t *testing.T) {
	d := NewDispatcher(4, newRecordingNotifier(), zerolog.Nop())
	for _, key := range []string{"owner-1", "owner-2", "", "c1f0e7a2-7a59-4a53-9d1b-2f4a4b7c1e10"} {
		first := d.shardIndex(key)
		if first < 0 || first >= 4 {
			t.Fatalf("shardIndex(%q) = %d out of range", key, first)
		}
		for i := 0; i < 10; i++ {
			if got := d.shardIndex(key); got != first {
				t.Fatalf("shardIndex(%q) not stable: %d vs %d", key, got, first)
			}
		}
	}
}

func TestNewDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, newRecordingNotifier(), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Errorf("workers = %d, want %d", len(d.workers), defaultWorkers)
	}
}

func TestDispatcher_PreservesOrderPerKey(t *testing.T) {
	rec := newRecordingNotifier()
	d := newTestDispatcher(3, rec)
	d.Start(context.Background())

	want := []string{"a", "b", "c", "d", "e"}
	for _, s := range want {
		if !d.Enqueue(ports.Notification{Type: ports.NotifyRequestSubmitted, Key: "owner-1", Subject: s}) {
			t.Fatalf("enqueue %s rejected", s)
		}
	}
	d.Stop()

	got := rec.delivered("owner-1")
	if len(got) != len(want) {
		t.Fatalf("delivered %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("delivered %v, want %v", got, want)
		}
	}
}

func TestDispatcher_RetriesRetryableErrors(t *testing.T) {
	rec := newRecordingNotifier()
	rec.fail = func(_ ports.Notification, attempt int) error {
		if attempt < 3 {
			return retry.RetryableError(errors.New("503"))
		}
		return nil
	}
	d := newTestDispatcher(1, rec)
	d.Start(context.Background())
	d.Enqueue(ports.Notification{Type: ports.NotifyRequestAnswered, Key: "k", Subject: "flaky"})
	d.Stop()

	if got := rec.attempts("flaky"); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
	if got := rec.delivered("k"); len(got) != 1 {
		t.Errorf("delivered = %v, want one delivery", got)
	}
}

func TestDispatcher_DoesNotRetryPermanentErrors(t *testing.T) {
	rec := newRecordingNotifier()
	rec.fail = func(ports.Notification, int) error { return errors.New("400") }
	d := newTestDispatcher(1, rec)
	d.Start(context.Background())
	d.Enqueue(ports.Notification{Type: ports.NotifyRequestAnswered, Key: "k", Subject: "bad"})
	d.Stop()

	if got := rec.attempts("bad"); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestDispatcher_EnqueueAfterStop(t *testing.T) {
	d := newTestDispatcher(2, newRecordingNotifier())
	d.Start(context.Background())
	d.Stop()
	d.Stop()

	if d.Enqueue(ports.Notification{Key: "k"}) {
		t.Error("Enqueue after Stop should report false")
	}
}

func TestDispatcher_EnqueueFullChannelDoesNotBlock(t *testing.T) {
	d := newTestDispatcher(1, newRecordingNotifier())
	// Not started: nothing drains the channel.
	for i := 0; i < channelBuffer; i++ {
		if !d.Enqueue(ports.Notification{Key: "k"}) {
			t.Fatalf("enqueue %d rejected before buffer was full", i)
		}
	}

	done := make(chan bool)
	go func() { done <- d.Enqueue(ports.Notification{Key: "k"}) }()
	select {
	case ok := <-done:
		if ok {
			t.Error("Enqueue on a full channel should report false")
		}
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full channel")
	}
}
