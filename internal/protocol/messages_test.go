package protocol

import (
	"encoding/json"
	"testing"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage(MessageTypeAction, ActionData{
		GameID:    "g1",
		Action:    "request_partner",
		PartnerID: "p3",
	})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded Message
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Type != MessageTypeAction {
		t.Errorf("type = %s, want %s", decoded.Type, MessageTypeAction)
	}

	var data ActionData
	if err := json.Unmarshal(decoded.Data, &data); err != nil {
		t.Fatalf("Unmarshal data: %v", err)
	}
	if data.PartnerID != "p3" {
		t.Errorf("partnerId = %q, want p3", data.PartnerID)
	}
	if decoded.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestActionRejectedCarriesRecovery(t *testing.T) {
	t.Parallel()

	msg, err := NewMessage(MessageTypeActionRejected, ActionRejectedData{
		GameID:       "g1",
		Action:       "offer_double",
		Code:         "wagering_closed",
		Message:      "wagering is closed for this hole",
		ValidActions: []string{"hole_out"},
	})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}

	var data ActionRejectedData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		t.Fatalf("Unmarshal data: %v", err)
	}
	if data.Code != "wagering_closed" {
		t.Errorf("code = %q", data.Code)
	}
	if len(data.ValidActions) != 1 || data.ValidActions[0] != "hole_out" {
		t.Errorf("validActions = %v", data.ValidActions)
	}
}

func TestOptionalFieldsOmitted(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(ActionData{GameID: "g1", Action: "go_solo"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := m["partnerId"]; ok {
		t.Error("empty partnerId should be omitted")
	}
	if _, ok := m["position"]; ok {
		t.Error("zero position should be omitted")
	}
}
