package notify

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

type recordingSender struct {
	name     string
	err      error
	messages []string
}

func (s *recordingSender) Send(ctx context.Context, title, message string) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, title+"|"+message)
	return nil
}

func (s *recordingSender) Name() string { return s.name }

func TestNotifyDeliversToAllSenders(t *testing.T) {
	a := &recordingSender{name: "a"}
	b := &recordingSender{name: "b"}
	n := NewNotifier([]Sender{a, b}, nil, slog.New(slog.DiscardHandler))

	if err := n.Notify(context.Background(), EventOpportunities, "title", "body"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(a.messages) != 1 || len(b.messages) != 1 {
		t.Fatalf("messages a=%d b=%d, want 1 each", len(a.messages), len(b.messages))
	}
}

func TestNotifyFiltersEvents(t *testing.T) {
	a := &recordingSender{name: "a"}
	n := NewNotifier([]Sender{a}, []string{EventCycleFailed}, slog.New(slog.DiscardHandler))

	if err := n.Notify(context.Background(), EventOpportunities, "title", "body"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(a.messages) != 0 {
		t.Fatalf("filtered event delivered: %v", a.messages)
	}

	if err := n.Notify(context.Background(), EventCycleFailed, "title", "body"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(a.messages) != 1 {
		t.Fatalf("allowed event not delivered")
	}
}

func TestNotifyCollectsSenderFailures(t *testing.T) {
	broken := &recordingSender{name: "broken", err: errors.New("boom")}
	working := &recordingSender{name: "working"}
	n := NewNotifier([]Sender{broken, working}, nil, slog.New(slog.DiscardHandler))

	err := n.Notify(context.Background(), EventOpportunities, "title", "body")
	if err == nil {
		t.Fatal("Notify should report the failed sender")
	}
	if !strings.Contains(err.Error(), "broken") {
		t.Errorf("error %q missing sender name", err)
	}
	// One sender failing must not block the other.
	if len(working.messages) != 1 {
		t.Errorf("working sender got %d messages, want 1", len(working.messages))
	}
}

func TestNotifyNoSenders(t *testing.T) {
	n := NewNotifier(nil, nil, slog.New(slog.DiscardHandler))
	if err := n.Notify(context.Background(), EventOpportunities, "title", "body"); err != nil {
		t.Fatalf("Notify with no senders: %v", err)
	}
}
