package queue

import (
	"testing"

	"github.com/feelmitra/mood-journal/internal/identity"
)

type recordingDispatcher struct{ events []identity.SessionEvent }

func (r *recordingDispatcher) Dispatch(ev identity.SessionEvent) { r.events = append(r.events, ev) }

func TestHandleMessage(t *testing.T) {
	d := &recordingDispatcher{}
	body := []byte(`{"event": "SIGNED_OUT", "auth_user_id": "auth-1", "email": "a@x.com", "occurred_at": "2026-03-10T18:30:00Z"}`)

	if err := handleMessage(body, d); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(d.events) != 1 {
		t.Fatalf("expected one dispatched event, got %d", len(d.events))
	}
	ev := d.events[0]
	if ev.Kind != identity.EventSignedOut || ev.Email != "a@x.com" || ev.AuthUserID != "auth-1" {
		t.Fatalf("event fields wrong: %+v", ev)
	}
}

func TestHandleMessageRejectsMalformedPayloads(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"invalid json", `{"event":`},
		{"missing kind", `{"email": "a@x.com"}`},
		{"missing email", `{"event": "SIGNED_OUT"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &recordingDispatcher{}
			if err := handleMessage([]byte(tc.body), d); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
			if len(d.events) != 0 {
				t.Fatalf("malformed payloads must not be dispatched")
			}
		})
	}
}
