package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	dashDomain "github.com/davicafu/tiendalab/internal/dashboard/domain"
	sharedCache "github.com/davicafu/tiendalab/internal/shared/platform/cache"
	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
)

// ProjectionService aplica los snapshots recibidos sobre las copias locales
// del dashboard. Cada aplicación invalida la entrada de caché afectada.
type ProjectionService struct {
	repo  dashDomain.ProjectionRepository
	cache sharedCache.Cache
	log   *zap.Logger
}

func NewProjectionService(repo dashDomain.ProjectionRepository, cache sharedCache.Cache, log *zap.Logger) *ProjectionService {
	return &ProjectionService{repo: repo, cache: cache, log: log}
}

func productCacheKey(id string) string { return "dashboard:product:" + id }
func orderCacheKey(id string) string   { return "dashboard:order:" + id }

func toProductProjection(evt sharedEvents.ProductSnapshot) dashDomain.ProductProjection {
	return dashDomain.ProductProjection{
		ID:            evt.ID,
		SellerID:      evt.SellerID,
		Name:          evt.Name,
		Description:   evt.Description,
		Category:      evt.Category,
		Stock:         evt.Stock,
		PriceAmount:   evt.Price.Amount,
		DiscountPrice: evt.Price.DiscountPrice,
		Currency:      evt.Price.Currency,
		UpdatedAt:     time.Now().UTC(),
	}
}

// ApplyProductCreated inserta la copia local. Si el id ya existe el error
// sube tal cual: un PRODUCT_CREATED duplicado no se absorbe en silencio.
func (s *ProjectionService) ApplyProductCreated(ctx context.Context, evt sharedEvents.ProductSnapshot) error {
	if err := s.repo.InsertProduct(ctx, toProductProjection(evt)); err != nil {
		return err
	}
	sharedCache.AsyncCacheDelete(ctx, s.cache, productCacheKey(evt.ID), s.log)
	return nil
}

// ApplyProductUpdated hace merge por id: si la copia no existía todavía
// (entrega fuera de orden) se crea con el snapshot completo.
func (s *ProjectionService) ApplyProductUpdated(ctx context.Context, evt sharedEvents.ProductSnapshot) error {
	if err := s.repo.MergeProduct(ctx, toProductProjection(evt)); err != nil {
		return err
	}
	sharedCache.AsyncCacheDelete(ctx, s.cache, productCacheKey(evt.ID), s.log)
	return nil
}

// ApplyProductDeleted borra la copia local; borrar lo ya borrado no es error.
func (s *ProjectionService) ApplyProductDeleted(ctx context.Context, evt sharedEvents.ProductDeletedSnapshot) error {
	if err := s.repo.DeleteProduct(ctx, evt.ID); err != nil {
		return err
	}
	sharedCache.AsyncCacheDelete(ctx, s.cache, productCacheKey(evt.ID), s.log)
	return nil
}

// ApplyStockDecreased aplica la actualización parcial de stock.
func (s *ProjectionService) ApplyStockDecreased(ctx context.Context, evt sharedEvents.StockSnapshot) error {
	if err := s.repo.UpdateProductStock(ctx, evt.ID, evt.Stock); err != nil {
		return err
	}
	sharedCache.AsyncCacheDelete(ctx, s.cache, productCacheKey(evt.ID), s.log)
	return nil
}

func toOrderProjection(evt sharedEvents.OrderSnapshot) dashDomain.OrderProjection {
	count := 0
	for _, item := range evt.Items {
		count += item.Quantity
	}
	return dashDomain.OrderProjection{
		ID:          evt.ID,
		UserID:      evt.UserID,
		ItemCount:   count,
		TotalAmount: evt.TotalPrice.Amount,
		Currency:    evt.TotalPrice.Currency,
		Status:      evt.Status,
		CreatedAt:   evt.CreatedAt,
		UpdatedAt:   time.Now().UTC(),
	}
}

// ApplyOrderCreated inserta la copia local del pedido (insert-only).
func (s *ProjectionService) ApplyOrderCreated(ctx context.Context, evt sharedEvents.OrderSnapshot) error {
	if err := s.repo.InsertOrder(ctx, toOrderProjection(evt)); err != nil {
		return err
	}
	sharedCache.AsyncCacheDelete(ctx, s.cache, orderCacheKey(evt.ID), s.log)
	return nil
}

// ApplyOrderStatus aplica la actualización parcial de estado del pedido.
// Vale tanto para ORDER_STATUS_UPDATED como para ORDER_CANCELLED: ambos
// viajan como {_id, status}.
func (s *ProjectionService) ApplyOrderStatus(ctx context.Context, evt sharedEvents.OrderStatusSnapshot) error {
	if err := s.repo.UpdateOrderStatus(ctx, evt.ID, evt.Status); err != nil {
		return err
	}
	sharedCache.AsyncCacheDelete(ctx, s.cache, orderCacheKey(evt.ID), s.log)
	return nil
}

func toPaymentProjection(evt sharedEvents.PaymentSnapshot) dashDomain.PaymentProjection {
	return dashDomain.PaymentProjection{
		ID:        evt.ID,
		OrderID:   evt.OrderID,
		UserID:    evt.UserID,
		Amount:    evt.Amount,
		Currency:  evt.Currency,
		Status:    evt.Status,
		UpdatedAt: time.Now().UTC(),
	}
}

// ApplyPaymentInitiated inserta la copia local del pago (insert-only).
func (s *ProjectionService) ApplyPaymentInitiated(ctx context.Context, evt sharedEvents.PaymentSnapshot) error {
	return s.repo.InsertPayment(ctx, toPaymentProjection(evt))
}

// ApplyPaymentSuccessful hace merge por id con el snapshot confirmado.
func (s *ProjectionService) ApplyPaymentSuccessful(ctx context.Context, evt sharedEvents.PaymentSnapshot) error {
	return s.repo.MergePayment(ctx, toPaymentProjection(evt))
}
