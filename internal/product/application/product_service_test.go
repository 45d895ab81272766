package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	productDomain "github.com/davicafu/tiendalab/internal/product/domain"
	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
	"github.com/davicafu/tiendalab/tests/mocks"
)

func TestCreateProduct_PublishesSnapshot(t *testing.T) {
	repo := mocks.NewInMemoryProductRepo()
	service := NewProductService(repo, zap.NewNop())

	discount := 80.0
	p, err := service.CreateProduct(context.Background(), "seller-1", "Camiseta", "Algodón", "ropa", 12,
		productDomain.Price{Amount: 100, DiscountPrice: &discount, Currency: "INR"})
	assert.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	assert.Len(t, repo.Outbox, 1)
	evt := repo.Outbox[0]
	assert.Equal(t, sharedEvents.ProductCreated, evt.EventType)
	assert.Equal(t, "product", evt.AggregateType)
	assert.Equal(t, p.ID, evt.AggregateID)

	// El payload es el documento completo.
	snap, ok := evt.Payload.(sharedEvents.ProductSnapshot)
	assert.True(t, ok)
	assert.Equal(t, 12, snap.Stock)
	assert.Equal(t, 100.0, snap.Price.Amount)
}

func TestUpdateProduct_PublishesFullDocument(t *testing.T) {
	repo := mocks.NewInMemoryProductRepo()
	service := NewProductService(repo, zap.NewNop())

	p, _ := service.CreateProduct(context.Background(), "seller-1", "Taza", "", "hogar", 5,
		productDomain.Price{Amount: 10, Currency: "INR"})

	p.Stock = 8
	assert.NoError(t, service.UpdateProduct(context.Background(), p))

	assert.Len(t, repo.Outbox, 2)
	assert.Equal(t, sharedEvents.ProductUpdated, repo.Outbox[1].EventType)
}

func TestDeleteProduct_PublishesDeletion(t *testing.T) {
	repo := mocks.NewInMemoryProductRepo()
	service := NewProductService(repo, zap.NewNop())

	p, _ := service.CreateProduct(context.Background(), "seller-1", "Taza", "", "hogar", 5,
		productDomain.Price{Amount: 10, Currency: "INR"})

	assert.NoError(t, service.DeleteProduct(context.Background(), p.ID))

	_, err := service.GetProduct(context.Background(), p.ID)
	assert.ErrorIs(t, err, productDomain.ErrProductNotFound)

	assert.Equal(t, sharedEvents.ProductDeleted, repo.Outbox[1].EventType)
	snap, ok := repo.Outbox[1].Payload.(sharedEvents.ProductDeletedSnapshot)
	assert.True(t, ok)
	assert.Equal(t, p.ID, snap.ID)
}

func TestApplyOrderPlaced_DecrementsAndPublishes(t *testing.T) {
	repo := mocks.NewInMemoryProductRepo()
	service := NewProductService(repo, zap.NewNop())

	p1, _ := service.CreateProduct(context.Background(), "seller-1", "Taza", "", "hogar", 5,
		productDomain.Price{Amount: 10, Currency: "INR"})
	p2, _ := service.CreateProduct(context.Background(), "seller-1", "Camiseta", "", "ropa", 3,
		productDomain.Price{Amount: 25, Currency: "INR"})

	err := service.ApplyOrderPlaced(context.Background(), sharedEvents.OrderPlacedSnapshot{
		OrderID: "order-1",
		Items: []sharedEvents.OrderStockLine{
			{ProductID: p1.ID, Quantity: 2},
			{ProductID: p2.ID, Quantity: 1},
		},
	})
	assert.NoError(t, err)

	got1, _ := service.GetProduct(context.Background(), p1.ID)
	got2, _ := service.GetProduct(context.Background(), p2.ID)
	assert.Equal(t, 3, got1.Stock)
	assert.Equal(t, 2, got2.Stock)

	// 2 creaciones + 2 actualizaciones de stock.
	assert.Len(t, repo.Outbox, 4)
	assert.Equal(t, sharedEvents.DecreaseStocks, repo.Outbox[2].EventType)
	snap, ok := repo.Outbox[2].Payload.(sharedEvents.StockSnapshot)
	assert.True(t, ok)
	assert.Equal(t, 3, snap.Stock)
}

func TestApplyOrderPlaced_MissingProductIgnored(t *testing.T) {
	repo := mocks.NewInMemoryProductRepo()
	service := NewProductService(repo, zap.NewNop())

	p1, _ := service.CreateProduct(context.Background(), "seller-1", "Taza", "", "hogar", 5,
		productDomain.Price{Amount: 10, Currency: "INR"})

	// El pedido referencia un producto ya borrado: la línea se ignora y el
	// resto se aplica igualmente.
	err := service.ApplyOrderPlaced(context.Background(), sharedEvents.OrderPlacedSnapshot{
		OrderID: "order-1",
		Items: []sharedEvents.OrderStockLine{
			{ProductID: "ghost", Quantity: 1},
			{ProductID: p1.ID, Quantity: 2},
		},
	})
	assert.NoError(t, err)

	got, _ := service.GetProduct(context.Background(), p1.ID)
	assert.Equal(t, 3, got.Stock)
}
