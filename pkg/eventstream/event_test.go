package eventstream_test

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/globalbuddy/buddy/pkg/eventstream"
)

var _ = Describe("Event", func() {
	It("marshals TurnLoggedEvent with expected top-level keys", func() {
		now := time.Unix(1735689600, 0).UTC()
		event := eventstream.TurnLoggedEvent{
			SchemaVersion: eventstream.SchemaVersionV1,
			EventType:     eventstream.EventTypeTurnLogged,
			EventID:       "evt_123",
			EmittedAt:     now,
			Source: eventstream.EventSource{
				Scenario: "cafe",
				Provider: "gemini",
				Model:    "gemini-2.0-flash",
			},
			Turn: eventstream.TurnPayload{
				ID:          "turn-1",
				SessionID:   "sess-1",
				UserText:    "아이스 아메리카노 주세요",
				Reply:       "Sure! What size?",
				StartedAt:   now.Add(-2 * time.Second),
				CompletedAt: now,
				DurationMs:  2000,
			},
		}

		payload, err := json.Marshal(event)
		Expect(err).NotTo(HaveOccurred())

		var got map[string]any
		Expect(json.Unmarshal(payload, &got)).To(Succeed())

		Expect(got).To(HaveKey("schema_version"))
		Expect(got).To(HaveKey("event_type"))
		Expect(got).To(HaveKey("event_id"))
		Expect(got).To(HaveKey("emitted_at"))
		Expect(got).To(HaveKey("source"))
		Expect(got).To(HaveKey("turn"))
		Expect(got["turn"]).To(HaveKeyWithValue("session_id", "sess-1"))
	})

	It("defines stable event constants", func() {
		Expect(eventstream.SchemaVersionV1).To(BeNumerically(">", 0))
		Expect(eventstream.EventTypeTurnLogged).To(Equal("buddy.turn.logged"))
	})

	It("provides ErrNilTurnEvent for nil payload validation", func() {
		Expect(eventstream.ErrNilTurnEvent).To(MatchError("nil turn event"))
	})
})
