package events

import (
	"context"
	"encoding/json"
	"testing"
)

func TestNewEnvelope(t *testing.T) {
	envelope := NewEnvelope(OrderSubmitted, OrderSubmittedPayload{OrderID: 1, Total: "19.98"})

	if envelope.ID == "" {
		t.Error("Expected envelope ID to be set")
	}
	if envelope.Type != OrderSubmitted {
		t.Errorf("Expected type %s, got %s", OrderSubmitted, envelope.Type)
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var decoded struct {
		Type    string                `json:"type"`
		Payload OrderSubmittedPayload `json:"payload"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if decoded.Payload.Total != "19.98" || decoded.Type != "order.submitted" {
		t.Errorf("Expected order.submitted with total 19.98, got %s with %s", decoded.Type, decoded.Payload.Total)
	}
}

func TestNopPublisher(t *testing.T) {
	var publisher Publisher = Nop{}
	if err := publisher.Publish(context.Background(), UserCreated, nil); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}
