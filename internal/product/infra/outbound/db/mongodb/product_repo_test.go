package mongodb

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	productDomain "github.com/davicafu/tiendalab/internal/product/domain"
	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
)

// El payload del outbox tiene que sobrevivir el viaje por BSON intacto: lo
// que el relayer publique debe ser decodificable con el contrato JSON de la
// cola, no con los nombres de campo de Go.
func TestOutboxPayloadSurvivesBSONRoundTrip(t *testing.T) {
	discount := 80.0
	now := time.Now().UTC()
	p := &productDomain.Product{
		ID:        "prod-1",
		SellerID:  "seller-9",
		Name:      "Camiseta",
		Category:  "ropa",
		Stock:     12,
		Price:     productDomain.Price{Amount: 100, DiscountPrice: &discount, Currency: "INR"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	docs, err := toMongoOutboxEvents(productDomain.NewProductCreatedEvents(p))
	assert.NoError(t, err)
	assert.Len(t, docs, 1)

	// Ida y vuelta por BSON, como al persistir y releer la colección.
	raw, err := bson.Marshal(docs[0])
	assert.NoError(t, err)

	var stored mongoOutboxEvent
	assert.NoError(t, bson.Unmarshal(raw, &stored))
	assert.Equal(t, sharedEvents.ProductCreated, stored.EventType)

	// Los bytes guardados respetan el contrato de la cola.
	var snap sharedEvents.ProductSnapshot
	assert.NoError(t, json.Unmarshal([]byte(stored.Payload), &snap))
	assert.Equal(t, "prod-1", snap.ID)
	assert.Equal(t, "seller-9", snap.SellerID)
	assert.Equal(t, 12, snap.Stock)
	assert.Equal(t, 100.0, snap.Price.Amount)
	if assert.NotNil(t, snap.Price.DiscountPrice) {
		assert.Equal(t, 80.0, *snap.Price.DiscountPrice)
	}
}

func TestOutboxStockPayloadKeepsPartialShape(t *testing.T) {
	p := &productDomain.Product{ID: "prod-1", Stock: 3}

	docs, err := toMongoOutboxEvents(productDomain.NewStockDecreasedEvents(p))
	assert.NoError(t, err)
	assert.Len(t, docs, 1)

	stored, ok := docs[0].(mongoOutboxEvent)
	assert.True(t, ok)

	// La actualización parcial viaja solo con {_id, stock}.
	assert.JSONEq(t, `{"_id": "prod-1", "stock": 3}`, stored.Payload)
}
