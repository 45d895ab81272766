package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	paymentDomain "github.com/davicafu/tiendalab/internal/payment/domain"
)

// PaymentService registra los intentos de cobro y publica sus eventos.
// El cobro real ocurre en una pasarela externa; este servicio solo refleja
// sus confirmaciones en el resto del sistema.
type PaymentService struct {
	repo paymentDomain.PaymentRepository
	log  *zap.Logger
}

func NewPaymentService(repo paymentDomain.PaymentRepository, log *zap.Logger) *PaymentService {
	return &PaymentService{repo: repo, log: log}
}

// InitiatePayment crea el pago INITIATED y publica el intento. El contacto
// del pagador se guarda con el pago: la confirmación llega después por
// webhook y aún tiene que poder notificarle.
func (s *PaymentService) InitiatePayment(ctx context.Context, orderID, userID string, customer paymentDomain.Customer, amount float64, currency, provider string) (*paymentDomain.Payment, error) {
	now := time.Now().UTC()
	p := &paymentDomain.Payment{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		UserID:    userID,
		Customer:  customer,
		Amount:    amount,
		Currency:  currency,
		Provider:  provider,
		Status:    paymentDomain.PaymentInitiated,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p, paymentDomain.NewPaymentInitiatedEvents(p)); err != nil {
		s.log.Error("Failed to create payment", zap.String("order_id", orderID), zap.Error(err))
		return nil, err
	}

	s.log.Info("💳 Pago iniciado", zap.String("payment_id", p.ID), zap.String("order_id", orderID))
	return p, nil
}

// ConfirmPayment marca el pago SUCCESSFUL con el id de la pasarela y publica
// la confirmación al dashboard y al comprador.
func (s *PaymentService) ConfirmPayment(ctx context.Context, id, providerPaymentID string) (*paymentDomain.Payment, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == paymentDomain.PaymentSuccessful {
		// Confirmación duplicada de la pasarela: no se vuelve a publicar.
		return p, nil
	}

	p.Status = paymentDomain.PaymentSuccessful
	p.PaymentID = providerPaymentID
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, p, paymentDomain.NewPaymentSuccessfulEvents(p)); err != nil {
		s.log.Error("Failed to confirm payment", zap.String("payment_id", id), zap.Error(err))
		return nil, err
	}

	s.log.Info("✅ Pago confirmado", zap.String("payment_id", p.ID), zap.String("order_id", p.OrderID))
	return p, nil
}

// GetPayment obtiene un pago por id.
func (s *PaymentService) GetPayment(ctx context.Context, id string) (*paymentDomain.Payment, error) {
	return s.repo.GetByID(ctx, id)
}
