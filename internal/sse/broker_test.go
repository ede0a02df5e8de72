package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "voicing.saved", Data: map[string]string{"id": "v1"}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: voicing.saved") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"id":"v1"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func TestPublishVoicingChange_LibraryThrottle(t *testing.T) {
	b := NewBroker(500 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// First event should trigger library.updated.
	b.PublishVoicingChange(VoicingChange{Kind: ChangeSaved, ID: "a", Name: "C major"})
	// Second event immediately should NOT trigger another library.updated.
	b.PublishVoicingChange(VoicingChange{Kind: ChangeDeleted, ID: "b"})

	// Drain and count events.
	time.Sleep(50 * time.Millisecond)
	libraryCount := 0
	voicingCount := 0
loop:
	for {
		select {
		case msg := <-ch:
			s := string(msg)
			if strings.Contains(s, "library.updated") {
				libraryCount++
			} else {
				voicingCount++
			}
		default:
			break loop
		}
	}

	if voicingCount != 2 {
		t.Errorf("voicing events = %d, want 2", voicingCount)
	}
	if libraryCount != 1 {
		t.Errorf("library events = %d, want 1 (throttled)", libraryCount)
	}
}

func TestPublishVoicingChangeIgnoresUnknownKind(t *testing.T) {
	b := NewBroker(time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishVoicingChange(VoicingChange{Kind: "renamed", ID: "a"})
	b.PublishFormulasReloaded(3)

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: formulas.reloaded") || !strings.Contains(s, `"count":3`) {
			t.Errorf("unexpected first message %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func drain(ch chan []byte) []string {
	var out []string
	for {
		select {
		case msg := <-ch:
			out = append(out, string(msg))
		default:
			return out
		}
	}
}

func TestVoicingSavedCarriesNotes(t *testing.T) {
	b := NewBroker(time.Hour)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishVoicingChange(VoicingChange{Kind: ChangeSaved, ID: "v1", Name: "C", Root: "C4", Notes: []string{"C4", "E4", "G4"}})
	b.PublishVoicingChange(VoicingChange{Kind: ChangeDeleted, ID: "v1", Name: "C", Root: "C4", Notes: []string{"C4"}})
	time.Sleep(50 * time.Millisecond)

	msgs := drain(ch)
	if len(msgs) != 3 {
		t.Fatalf("got %d messages, want 3: %q", len(msgs), msgs)
	}
	if !strings.HasPrefix(msgs[0], "id: 1\nevent: voicing.saved\n") ||
		!strings.Contains(msgs[0], `"root":"C4","notes":["C4","E4","G4"]`) {
		t.Errorf("saved frame = %q", msgs[0])
	}
	if !strings.HasPrefix(msgs[1], "id: 2\nevent: library.updated\n") || !strings.Contains(msgs[1], `"changes":1`) {
		t.Errorf("library frame = %q", msgs[1])
	}
	if !strings.HasPrefix(msgs[2], "id: 3\nevent: voicing.deleted\n") || strings.Contains(msgs[2], "notes") {
		t.Errorf("deleted frame = %q", msgs[2])
	}
}

func TestLibraryUpdatedCountsFoldedChanges(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishVoicingChange(VoicingChange{Kind: ChangeSaved, ID: "a"})
	b.PublishVoicingChange(VoicingChange{Kind: ChangeSaved, ID: "b"})
	b.PublishVoicingChange(VoicingChange{Kind: ChangeDeleted, ID: "a"})
	time.Sleep(150 * time.Millisecond)
	b.PublishVoicingChange(VoicingChange{Kind: ChangeDeleted, ID: "b"})
	time.Sleep(50 * time.Millisecond)

	var updates []string
	for _, msg := range drain(ch) {
		if strings.Contains(msg, "event: library.updated") {
			updates = append(updates, msg)
		}
	}
	if len(updates) != 2 {
		t.Fatalf("library.updated count = %d, want 2", len(updates))
	}
	if !strings.Contains(updates[0], `"changes":1`) || !strings.Contains(updates[1], `"changes":3`) {
		t.Errorf("updates = %q", updates)
	}
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	// Start handler in background.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	// Give handler time to subscribe.
	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.Publish(Event{Type: "formulas.reloaded", Data: map[string]int{"count": 20}})
	time.Sleep(50 * time.Millisecond)

	// Cancel context to disconnect.
	cancel()
	<-done

	body := w.Body.String()
	if !strings.HasPrefix(body, "retry: 3000\n\n") {
		t.Errorf("handler should open with a retry hint: %q", body)
	}
	if !strings.Contains(body, "event: formulas.reloaded") {
		t.Errorf("handler output missing event: %q", body)
	}

	// Client should be cleaned up.
	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 0 {
		t.Errorf("client not cleaned up after disconnect")
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Fill buffer (capacity 64) and then one more should not block.
	for i := 0; i < 70; i++ {
		b.Publish(Event{Type: "test", Data: map[string]string{"i": "x"}})
	}
	// If we reach here without deadlock, the test passes.
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after close")
	}

	// Should be safe no-op after close.
	b.Publish(Event{Type: "voicing.saved", Data: map[string]string{"id": "x"}})
	b.PublishVoicingChange(VoicingChange{Kind: ChangeSaved, ID: "x"})
	b.PublishFormulasReloaded(1)
}
