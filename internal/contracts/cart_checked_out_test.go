package contracts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/optivue/cart-service-go/internal/cart"
)

func salePrice(v int64) *int64 { return &v }

func checkedOutItems() []cart.Item {
	return []cart.Item{
		{
			ProductID: "15b50d93-e94b-4e2b-aba8-9ed785a7cdf6",
			Quantity:  2,
			Product:   cart.Product{ID: "15b50d93-e94b-4e2b-aba8-9ed785a7cdf6", Price: 2999, SalePrice: salePrice(1999)},
		},
		{
			ProductID: "bb0a9128-b176-4c0c-9240-8c9a25ffbfc8",
			VariantID: "v-onyx",
			Quantity:  1,
			Product:   cart.Product{ID: "bb0a9128-b176-4c0c-9240-8c9a25ffbfc8", Price: 1099},
			Variant:   &cart.Variant{ID: "v-onyx", Price: salePrice(1299)},
		},
	}
}

func TestBuildCartCheckedOutEvent(t *testing.T) {
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	ownerID := "1d439ea2-c678-4f2a-9ca9-d8a9755a6a5d"

	env := BuildCartCheckedOutEvent(ownerID, checkedOutItems(), EnvelopeOptions{
		PartitionKey:  ownerID,
		Sequence:      42,
		CorrelationID: "53b0fd3e-8d6b-49af-8c1f-12cf4182c2f7",
		CausationID:   "63b0fd3e-8d6b-49af-8c1f-12cf4182c2f7",
		EventID:       "73b0fd3e-8d6b-49af-8c1f-12cf4182c2f7",
		OccurredAt:    now,
	})

	if env.EventName != CartCheckedOutEventName || env.EventVersion != CartCheckedOutEventVersion {
		t.Fatalf("unexpected event identity %s v%d", env.EventName, env.EventVersion)
	}
	if env.EventID != "73b0fd3e-8d6b-49af-8c1f-12cf4182c2f7" {
		t.Fatalf("expected provided event id to be used, got %s", env.EventID)
	}
	if env.PartitionKey != ownerID || env.Sequence != 42 {
		t.Fatalf("unexpected partitioning %s/%d", env.PartitionKey, env.Sequence)
	}
	if env.Producer != CartServiceProducer {
		t.Fatalf("expected default producer, got %s", env.Producer)
	}
	if env.Schema != CartCheckedOutEnvelopedSchemaPath {
		t.Fatalf("unexpected schema path %s", env.Schema)
	}
	if env.Payload.Timestamp != now {
		t.Fatalf("expected payload timestamp to mirror occurredAt, got %s", env.Payload.Timestamp)
	}
	if env.Payload.TotalItems != 3 {
		t.Fatalf("expected 3 total items, got %d", env.Payload.TotalItems)
	}
	// Effective unit prices: product sale for line 1, variant price for line 2.
	if env.Payload.TotalPrice != 1999*2+1299 {
		t.Fatalf("unexpected total price %d", env.Payload.TotalPrice)
	}
	if len(env.Payload.Items) != 2 || env.Payload.Items[0].UnitPrice != 1999 || env.Payload.Items[1].UnitPrice != 1299 {
		t.Fatalf("payload items not mapped correctly: %+v", env.Payload.Items)
	}
}

func TestBuildCartCheckedOutEventDefaults(t *testing.T) {
	env := BuildCartCheckedOutEvent("owner", checkedOutItems(), EnvelopeOptions{
		PartitionKey: "owner",
		Sequence:     1,
	})

	if _, err := uuid.Parse(env.EventID); err != nil {
		t.Fatalf("expected generated event id to be a uuid, got %q", env.EventID)
	}
	if env.OccurredAt.IsZero() {
		t.Fatalf("expected occurredAt to default to now")
	}
	if env.Payload.Timestamp != env.OccurredAt {
		t.Fatalf("payload timestamp must mirror occurredAt")
	}
}

func TestEnvelopeWireShape(t *testing.T) {
	env := BuildCartCheckedOutEvent("owner", checkedOutItems(), EnvelopeOptions{
		PartitionKey: "owner",
		Sequence:     7,
	})

	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, field := range []string{"eventName", "eventVersion", "eventId", "producer", "partitionKey", "sequence", "occurredAt", "schema", "payload"} {
		if _, ok := decoded[field]; !ok {
			t.Fatalf("missing envelope field %q in %s", field, raw)
		}
	}
	if _, ok := decoded["causationId"]; ok {
		t.Fatalf("empty causation id must be omitted from the wire form")
	}
}
