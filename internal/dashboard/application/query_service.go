package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	dashDomain "github.com/davicafu/tiendalab/internal/dashboard/domain"
	sharedCache "github.com/davicafu/tiendalab/internal/shared/platform/cache"
)

// QueryService sirve las lecturas del dashboard con cache-aside: primero la
// caché, después el repositorio, y la caché se repobla en background.
type QueryService struct {
	repo      dashDomain.ProjectionRepository
	cache     sharedCache.Cache
	analytics dashDomain.EventLogger // opcional
	cacheTTL  int                    // segundos
	log       *zap.Logger
}

func NewQueryService(repo dashDomain.ProjectionRepository, cache sharedCache.Cache, analytics dashDomain.EventLogger, cacheTTLSecs int, log *zap.Logger) *QueryService {
	return &QueryService{repo: repo, cache: cache, analytics: analytics, cacheTTL: cacheTTLSecs, log: log}
}

// GetProduct lee la copia local del producto.
func (s *QueryService) GetProduct(ctx context.Context, id string) (*dashDomain.ProductProjection, error) {
	key := productCacheKey(id)

	if s.cache != nil {
		var cached dashDomain.ProductProjection
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		} else if err != nil {
			s.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheSet(ctx, s.cache, key, p, s.cacheTTL, s.log)
	return p, nil
}

// ListProductsBySeller lista el catálogo proyectado de un vendedor.
func (s *QueryService) ListProductsBySeller(ctx context.Context, sellerID string) ([]dashDomain.ProductProjection, error) {
	return s.repo.ListProductsBySeller(ctx, sellerID)
}

// GetOrder lee la copia local del pedido.
func (s *QueryService) GetOrder(ctx context.Context, id string) (*dashDomain.OrderProjection, error) {
	key := orderCacheKey(id)

	if s.cache != nil {
		var cached dashDomain.OrderProjection
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return &cached, nil
		} else if err != nil {
			s.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheSet(ctx, s.cache, key, o, s.cacheTTL, s.log)
	return o, nil
}

// ListOrders lista los últimos pedidos proyectados.
func (s *QueryService) ListOrders(ctx context.Context, limit int) ([]dashDomain.OrderProjection, error) {
	return s.repo.ListOrders(ctx, limit)
}

// ListPayments lista los últimos pagos proyectados.
func (s *QueryService) ListPayments(ctx context.Context, limit int) ([]dashDomain.PaymentProjection, error) {
	return s.repo.ListPayments(ctx, limit)
}

// GetDailyVolume devuelve el volumen diario de eventos por cola de los
// últimos `days` días.
func (s *QueryService) GetDailyVolume(ctx context.Context, days int) ([]dashDomain.QueueVolume, error) {
	if s.analytics == nil {
		return nil, dashDomain.ErrAnalyticsUnavailable
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)
	return s.analytics.GetDailyVolume(ctx, start, end)
}
