package domain

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

type OrderPlaced struct {
	OrderID       int64         `json:"orderId"`
	RestaurantID  int64         `json:"restaurantId"`
	UserID        int64         `json:"userId"`
	Method        Method        `json:"method"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
}

type OrderStatusChanged struct {
	OrderID      int64  `json:"orderId"`
	RestaurantID int64  `json:"restaurantId"`
	From         Status `json:"from"`
	To           Status `json:"to"`
}
