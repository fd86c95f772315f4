package domain

import "time"

type OrderStatus string

const (
	StatusCreated    OrderStatus = "S10_CREATED"
	StatusWaiting    OrderStatus = "S20_WAITING"
	StatusPreparing  OrderStatus = "S30_PREPARING"
	StatusReady      OrderStatus = "S40_READY"
	StatusDelivering OrderStatus = "S50_DELIVERING"
	StatusCompleted  OrderStatus = "S60_COMPLETED"
)

type PaymentType string

const (
	PaymentNotChosen  PaymentType = "P10_NOT_CHOSEN"
	PaymentCash       PaymentType = "P20_CASH"
	PaymentCreditCard PaymentType = "P30_CREDIT_CARD"
)

// A single product line of an order. Price is the unit price fixed at
// checkout, in cents.
type OrderLine struct {
	ProductID  int64
	Quantity   int
	PriceCents int64
}

// Represents a customer delivery order as seen by the dispatcher.
// ResponsibleRestaurantID is set when a dispatcher has already chosen the
// restaurant manually; such orders are never ranked.
type Order struct {
	OrderID                 int64
	Address                 string
	FirstName               string
	LastName                string
	Phone                   string
	Comment                 string
	Status                  OrderStatus
	PaymentType             PaymentType
	CreatedAt               time.Time
	CalledAt                *time.Time
	DeliveredAt             *time.Time
	ResponsibleRestaurantID *int64
	Lines                   []OrderLine
}

func (o *Order) ClientName() string {
	if o.FirstName == "" {
		return o.LastName
	}
	if o.LastName == "" {
		return o.FirstName
	}
	return o.LastName + " " + o.FirstName
}

// TotalPriceCents is the sum of price * quantity over all lines.
func (o *Order) TotalPriceCents() int64 {
	var total int64
	for _, l := range o.Lines {
		total += l.PriceCents * int64(l.Quantity)
	}
	return total
}

// Pending reports whether the order still needs dispatching attention.
func (o *Order) Pending() bool { return o.Status != StatusCompleted }
