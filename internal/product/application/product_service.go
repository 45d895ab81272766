package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	productDomain "github.com/davicafu/tiendalab/internal/product/domain"
	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
)

// ProductService contiene la lógica de negocio del catálogo. Cada escritura
// publica el documento completo del producto vía outbox.
type ProductService struct {
	repo productDomain.ProductRepository
	log  *zap.Logger
}

func NewProductService(repo productDomain.ProductRepository, log *zap.Logger) *ProductService {
	return &ProductService{repo: repo, log: log}
}

// CreateProduct crea un producto y publica su snapshot completo.
func (s *ProductService) CreateProduct(ctx context.Context, sellerID, name, description, category string, stock int, price productDomain.Price) (*productDomain.Product, error) {
	now := time.Now().UTC()
	p := &productDomain.Product{
		ID:          uuid.NewString(),
		SellerID:    sellerID,
		Name:        name,
		Description: description,
		Category:    category,
		Stock:       stock,
		Price:       price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p, productDomain.NewProductCreatedEvents(p)); err != nil {
		s.log.Error("Failed to create product", zap.String("product_id", p.ID), zap.Error(err))
		return nil, err
	}

	s.log.Info("📦 Producto creado", zap.String("product_id", p.ID), zap.String("seller_id", sellerID))
	return p, nil
}

// GetProduct obtiene un producto por id.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*productDomain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// ListBySeller devuelve los productos de un vendedor.
func (s *ProductService) ListBySeller(ctx context.Context, sellerID string) ([]*productDomain.Product, error) {
	return s.repo.ListBySeller(ctx, sellerID)
}

// UpdateProduct persiste el producto modificado y publica de nuevo el
// documento completo: la actualización de proyecciones es un merge por id.
func (s *ProductService) UpdateProduct(ctx context.Context, p *productDomain.Product) error {
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, p, productDomain.NewProductUpdatedEvents(p)); err != nil {
		s.log.Error("Failed to update product", zap.String("product_id", p.ID), zap.Error(err))
		return err
	}
	return nil
}

// DeleteProduct elimina el producto y publica el aviso de borrado.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id, productDomain.NewProductDeletedEvents(id)); err != nil {
		return err
	}
	s.log.Info("🗑️ Producto eliminado", zap.String("product_id", id))
	return nil
}

// ApplyOrderPlaced descuenta el stock de cada línea de un pedido y publica
// la actualización parcial resultante. Las líneas de productos ya borrados
// se ignoran: el pedido se validó contra un snapshot anterior.
func (s *ProductService) ApplyOrderPlaced(ctx context.Context, evt sharedEvents.OrderPlacedSnapshot) error {
	for _, line := range evt.Items {
		p, err := s.repo.DecrementStock(ctx, line.ProductID, line.Quantity, productDomain.NewStockDecreasedEvents)
		if err != nil {
			if errors.Is(err, productDomain.ErrProductNotFound) {
				s.log.Warn("Stock decrement for missing product ignored",
					zap.String("order_id", evt.OrderID),
					zap.String("product_id", line.ProductID),
				)
				continue
			}
			return err
		}

		s.log.Info("📉 Stock descontado",
			zap.String("order_id", evt.OrderID),
			zap.String("product_id", p.ID),
			zap.Int("stock", p.Stock),
		)
	}
	return nil
}
