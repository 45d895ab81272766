package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	orderDomain "github.com/davicafu/tiendalab/internal/order/domain"
	sharedEvents "github.com/davicafu/tiendalab/internal/shared/events"
)

// OrderService es el orquestador síncrono de creación de pedidos: lee el
// carrito, trae los productos en paralelo, valida stock, calcula totales y
// persiste el pedido PENDING junto a sus eventos de outbox.
type OrderService struct {
	repo            orderDomain.OrderRepository
	carts           orderDomain.CartClient
	products        orderDomain.ProductClient
	defaultCurrency string
	log             *zap.Logger
}

func NewOrderService(
	repo orderDomain.OrderRepository,
	carts orderDomain.CartClient,
	products orderDomain.ProductClient,
	defaultCurrency string,
	log *zap.Logger,
) *OrderService {
	return &OrderService{
		repo:            repo,
		carts:           carts,
		products:        products,
		defaultCurrency: defaultCurrency,
		log:             log,
	}
}

// CreateOrder ejecuta el flujo completo. Cualquier violación de negocio
// (carrito vacío, producto ausente, stock insuficiente) aborta la operación
// entera antes de escribir o publicar nada.
func (s *OrderService) CreateOrder(ctx context.Context, userID, token, currency string, customer orderDomain.Customer, addr orderDomain.Address) (*orderDomain.Order, error) {
	cart, err := s.carts.GetCart(ctx, userID, token)
	if err != nil {
		s.log.Error("Failed to fetch cart", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, orderDomain.ErrEmptyCart
	}

	snapshots, err := s.fetchProducts(ctx, cart.Items)
	if err != nil {
		return nil, err
	}

	if currency == "" {
		currency = s.defaultCurrency
	}

	items := make([]orderDomain.OrderItem, 0, len(cart.Items))
	var total float64
	for _, line := range cart.Items {
		p, ok := snapshots[line.ProductID]
		if !ok {
			return nil, orderDomain.NewProductNotFound(line.ProductID)
		}
		if line.Quantity > p.Stock {
			return nil, orderDomain.NewInsufficientStock(p.Name, line.Quantity, p.Stock)
		}

		unit := p.Price.Unit() // discountPrice si existe, amount si no
		items = append(items, orderDomain.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  line.Quantity,
			Price:     orderDomain.Money{Amount: unit, Currency: currency},
		})
		total += unit * float64(line.Quantity)
	}

	now := time.Now().UTC()
	order := &orderDomain.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Customer:        customer,
		Items:           items,
		TotalPrice:      orderDomain.Money{Amount: total, Currency: currency},
		ShippingAddress: addr,
		Status:          orderDomain.OrderPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, order, orderDomain.NewOrderCreatedEvents(order)); err != nil {
		s.log.Error("Failed to persist order", zap.String("order_id", order.ID.String()), zap.Error(err))
		return nil, err
	}

	s.log.Info("🛒 Pedido creado",
		zap.String("order_id", order.ID.String()),
		zap.Float64("total", total),
		zap.String("currency", currency),
	)
	return order, nil
}

// fetchProducts trae un snapshot por producto distinto del carrito, en
// paralelo, y espera a todos antes de seguir. Un 404 aguas arriba no es
// error aquí: la línea sin snapshot se detecta después como PRODUCT_NOT_FOUND.
func (s *OrderService) fetchProducts(ctx context.Context, lines []orderDomain.CartItem) (map[string]*sharedEvents.ProductSnapshot, error) {
	distinct := make([]string, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			distinct = append(distinct, line.ProductID)
		}
	}

	type result struct {
		snap *sharedEvents.ProductSnapshot
		err  error
	}
	results := make(chan result, len(distinct))
	for _, id := range distinct {
		go func(productID string) {
			snap, err := s.products.GetProduct(ctx, productID)
			results <- result{snap: snap, err: err}
		}(id)
	}

	snapshots := make(map[string]*sharedEvents.ProductSnapshot, len(distinct))
	var firstErr error
	for range distinct {
		r := <-results
		switch {
		case r.err == nil && r.snap != nil:
			snapshots[r.snap.ID] = r.snap
		case errors.Is(r.err, orderDomain.ErrProductGone):
			// línea huérfana, se resuelve como PRODUCT_NOT_FOUND
		case firstErr == nil:
			firstErr = r.err
		}
	}
	if firstErr != nil {
		s.log.Error("Failed to fetch product snapshots", zap.Error(firstErr))
		return nil, firstErr
	}
	return snapshots, nil
}

// GetOrder obtiene un pedido por id.
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*orderDomain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// ListOrders devuelve los pedidos de un comprador.
func (s *OrderService) ListOrders(ctx context.Context, userID string) ([]*orderDomain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UpdateStatus aplica una transición de la máquina de estados y publica la
// actualización parcial (y la notificación de entrega si procede).
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, next orderDomain.OrderStatus) (*orderDomain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransition(next) {
		return nil, orderDomain.NewInvalidTransition(order.Status, next)
	}

	order.Status = next
	order.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateStatus(ctx, order, orderDomain.NewOrderStatusEvents(order)); err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder cancela un pedido no terminal.
func (s *OrderService) CancelOrder(ctx context.Context, id uuid.UUID) (*orderDomain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransition(orderDomain.OrderCancelled) {
		return nil, orderDomain.NewInvalidTransition(order.Status, orderDomain.OrderCancelled)
	}

	order.Status = orderDomain.OrderCancelled
	order.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateStatus(ctx, order, orderDomain.NewOrderCancelledEvents(order)); err != nil {
		return nil, err
	}
	return order, nil
}
