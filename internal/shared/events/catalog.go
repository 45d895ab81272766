package events

// Catálogo de colas de integración. Una cola durable por topic, con el
// formato <PRODUCTOR>_<CONSUMIDOR>.<EVENTO>. Solo el servicio dueño de la
// entidad publica eventos sobre ella; los consumidores nunca publican de
// vuelta en el mismo topic.
const (
	// product-service → seller-dashboard
	ProductCreated = "PRODUCT_SELLER_DASHBOARD.PRODUCT_CREATED"
	ProductUpdated = "PRODUCT_SELLER_DASHBOARD.PRODUCT_UPDATED"
	ProductDeleted = "PRODUCT_SELLER_DASHBOARD.PRODUCT_DELETED"
	DecreaseStocks = "PRODUCT_SELLER_DASHBOARD.DECREASE_STOCKS"

	// order-service → seller-dashboard
	OrderCreated       = "ORDER_SELLER_DASHBOARD.ORDER_CREATED"
	OrderCancelled     = "ORDER_SELLER_DASHBOARD.ORDER_CANCELLED"
	OrderStatusUpdated = "ORDER_SELLER_DASHBOARD.ORDER_STATUS_UPDATED"

	// order-service → product-service (coreografía de decremento de stock)
	OrderPlacedForStock = "ORDER_PRODUCT.ORDER_CREATED"

	// payment-service → seller-dashboard
	PaymentInitiated  = "PAYMENT_SELLER_DASHBOARD.PAYMENT_INITIATED"
	PaymentSuccessful = "PAYMENT_SELLER_DASHBOARD.PAYMENT_SUCCESSFUL"

	// auth-service → notification-service
	UserCreatedNotif     = "AUTH_NOTIFICATION.USER_CREATED"
	PasswordChangedNotif = "AUTH_NOTIFICATION.PASSWORD_CHANGED"

	// order-service → notification-service
	OrderCreatedNotif   = "ORDER_NOTIFICATION.ORDER_CREATED"
	OrderCancelledNotif = "ORDER_NOTIFICATION.ORDER_CANCELLED"
	OrderDeliveredNotif = "ORDER_NOTIFICATION.ORDER_DELIVERED"

	// payment-service → notification-service
	PaymentSuccessfulNotif = "PAYMENT_NOTIFICATION.PAYMENT_SUCCESSFUL"
)

// DLQSuffix se añade al nombre de la cola para formar su dead-letter queue.
const DLQSuffix = ".dlq"

// SellerDashboardQueues son las colas que consume el proyector del dashboard.
func SellerDashboardQueues() []string {
	return []string{
		ProductCreated, ProductUpdated, ProductDeleted, DecreaseStocks,
		OrderCreated, OrderCancelled, OrderStatusUpdated,
		PaymentInitiated, PaymentSuccessful,
	}
}

// NotificationQueues son las colas que consume el servicio de notificaciones.
func NotificationQueues() []string {
	return []string{
		UserCreatedNotif, PasswordChangedNotif,
		OrderCreatedNotif, OrderCancelledNotif, OrderDeliveredNotif,
		PaymentSuccessfulNotif,
	}
}
