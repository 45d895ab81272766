package mongodb

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
)

// El relayer publica el payload con json.Marshal: leído de la colección debe
// emitir exactamente los bytes que el servicio dueño escribió.
func TestFetchedPayloadPublishesVerbatim(t *testing.T) {
	original := `{"_id":"prod-1","sellerId":"seller-9","name":"Camiseta","stock":12,"price":{"amount":100,"discountPrice":80,"currency":"INR"}}`
	doc := mongoOutboxEvent{
		ID:            uuid.NewString(),
		AggregateType: "product",
		AggregateID:   "prod-1",
		EventType:     sharedEvents.ProductCreated,
		Payload:       original,
		CreatedAt:     time.Now().UTC(),
	}

	// Ida y vuelta por BSON, como al persistir y releer la colección.
	raw, err := bson.Marshal(doc)
	assert.NoError(t, err)

	var stored mongoOutboxEvent
	assert.NoError(t, bson.Unmarshal(raw, &stored))

	evt, err := stored.toDomain()
	assert.NoError(t, err)
	assert.Equal(t, doc.ID, evt.ID.String())
	assert.Equal(t, sharedEvents.ProductCreated, evt.EventType)

	wire, err := json.Marshal(evt.Payload)
	assert.NoError(t, err)
	assert.JSONEq(t, original, string(wire))

	// Un consumidor decodifica el contrato sin pérdidas.
	var snap sharedEvents.ProductSnapshot
	assert.NoError(t, json.Unmarshal(wire, &snap))
	assert.Equal(t, "prod-1", snap.ID)
	assert.Equal(t, "seller-9", snap.SellerID)
	assert.Equal(t, 12, snap.Stock)
}

func TestToDomainRejectsMalformedID(t *testing.T) {
	doc := mongoOutboxEvent{ID: "not-a-uuid", Payload: `{}`}

	_, err := doc.toDomain()
	assert.Error(t, err)
}
