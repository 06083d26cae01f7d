package model

import "time"

const (
	OrderPending   = "PENDING"
	OrderPaid      = "PAID"
	OrderConfirmed = "CONFIRMED"
	OrderCancelled = "CANCELLED"
	OrderExpired   = "EXPIRED"
)

// orderTransitions là bảng chuyển trạng thái đóng của đơn hàng.
// Mọi chuyển đổi không nằm trong bảng đều bị từ chối.
var orderTransitions = map[string][]string{
	OrderPending:   {OrderPaid, OrderCancelled, OrderExpired},
	OrderPaid:      {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {},
	OrderCancelled: {},
	OrderExpired:   {},
}

func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order là chứng từ tài chính: không bao giờ xóa, chỉ chuyển trạng thái.
type Order struct {
	DTO
	PublicCode string    `gorm:"uniqueIndex;size:20" json:"publicCode"` // ORD-XXXXXXXX
	CustomerID *uint     `json:"customerId,omitempty"`                  // null nếu khách vãng lai
	Customer   *Customer `json:"customer,omitempty"`

	Status         string  `gorm:"not null;default:'PENDING'" json:"status"`
	TotalAmount    float64 `json:"totalAmount"`
	DiscountAmount float64 `json:"discountAmount"`
	FinalAmount    float64 `json:"finalAmount"` // = max(0, total - discount)
	PaymentMethod  string  `json:"paymentMethod"`

	// ExpireAt chỉ có ý nghĩa khi Status = PENDING
	ExpireAt    *time.Time `json:"expireAt,omitempty"`
	PaidAt      *time.Time `json:"paidAt,omitempty"`
	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`

	CustomerName string `json:"customerName"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	CreatedBy    uint   `json:"createdBy"` // account nhân viên nếu bán tại quầy

	Tickets  []OrderTicket  `gorm:"foreignKey:OrderId" json:"tickets,omitempty"`
	Products []OrderProduct `gorm:"foreignKey:OrderId" json:"products,omitempty"`
}

// OrderTicket là một ghế đã giữ trong đơn. Unique (showtime_id, seat_id)
// trên toàn bộ bảng là trọng tài cuối cùng chống bán trùng ghế: hai đơn
// cùng giành một ghế thì insert của đơn đến sau vi phạm index và rollback.
// Hàng bị xóa khi đơn CANCELLED/EXPIRED — đó là cách ghế được trả lại.
type OrderTicket struct {
	DTO
	OrderId    uint    `gorm:"not null;index" json:"orderId"`
	ShowtimeId uint    `gorm:"not null;uniqueIndex:idx_showtime_seat" json:"showtimeId"`
	SeatId     uint    `gorm:"not null;uniqueIndex:idx_showtime_seat" json:"seatId"`
	Price      float64 `gorm:"not null" json:"price"` // giá chốt tại thời điểm giữ ghế

	Order    Order    `gorm:"foreignKey:OrderId" json:"-"`
	Showtime Showtime `gorm:"foreignKey:ShowtimeId" json:"-"`
	Seat     Seat     `gorm:"foreignKey:SeatId" json:"seat"`
}

type TicketRequest struct {
	ShowtimeId uint `json:"showtimeId" validate:"required,gt=0"`
	SeatId     uint `json:"seatId" validate:"required,gt=0"`
}

type ProductRequest struct {
	ProductId uint `json:"productId" validate:"required,gt=0"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderInput struct {
	Tickets  []TicketRequest  `json:"tickets" validate:"required,min=1,dive"`
	Products []ProductRequest `json:"products" validate:"omitempty,dive"`

	VoucherCode    string `json:"voucherCode"`
	PointsToRedeem int64  `json:"pointsToRedeem" validate:"omitempty,gte=0"`

	PaymentMethod string `json:"paymentMethod"`
	CustomerName  string `json:"customerName"`
	Phone         string `json:"phone"`
	Email         string `json:"email" validate:"omitempty,email"`
}

type FilterOrderInput struct {
	Pagination
	Status    string `query:"status" validate:"omitempty,oneof=PENDING PAID CONFIRMED CANCELLED EXPIRED"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
}
