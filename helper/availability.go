package helper

import (
	"cinema_ticketing/model"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const (
	SeatAvailable = "AVAILABLE"
	SeatHolding   = "HOLDING"
	SeatSold      = "SOLD"
)

// SeatAvailability là một ghế trong sơ đồ trả về cho client
type SeatAvailability struct {
	SeatId   uint    `json:"seatId"`
	Label    string  `json:"label"`
	Row      string  `json:"row"`
	Number   int     `json:"number"`
	SeatType string  `json:"seatType"`
	Status   string  `json:"status"`
	Price    float64 `json:"price"`
}

// ResolveShowtimeSeats dựng trạng thái ghế của một suất chiếu.
//
// Trạng thái ghế KHÔNG được lưu trong cột nào cả: nó được suy ra tại thời
// điểm đọc từ order_tickets + trạng thái đơn cha. Ghế thuộc đơn PAID/
// CONFIRMED là SOLD, thuộc đơn PENDING còn hạn là HOLDING, còn lại
// AVAILABLE. Ghi nhận ghế khi đặt do unique index (showtime_id, seat_id)
// quyết định — hai phía đọc/ghi dùng chung một nguồn sự thật.
//
// Đây là thao tác chỉ đọc, suất chiếu đã khóa vẫn xem được sơ đồ.
func ResolveShowtimeSeats(db *gorm.DB, showtimeId uint) (*model.Showtime, []SeatAvailability, error) {
	var showtime model.Showtime
	if err := db.First(&showtime, showtimeId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrShowtimeNotFound
		}
		return nil, nil, err
	}

	var seats []model.Seat
	if err := db.
		Preload("SeatType").
		Where("room_id = ? AND is_active = ?", showtime.RoomId, true).
		Order("row, number").
		Find(&seats).Error; err != nil {
		return nil, nil, err
	}

	var claims []model.OrderTicket
	if err := db.
		Preload("Order").
		Where("showtime_id = ?", showtimeId).
		Find(&claims).Error; err != nil {
		return nil, nil, err
	}

	now := time.Now()
	statusBySeat := make(map[uint]string, len(claims))
	for _, t := range claims {
		statusBySeat[t.SeatId] = classifyClaim(t.Order, now)
	}

	result := make([]SeatAvailability, 0, len(seats))
	for _, seat := range seats {
		status, ok := statusBySeat[seat.ID]
		if !ok {
			status = SeatAvailable
		}

		result = append(result, SeatAvailability{
			SeatId:   seat.ID,
			Label:    fmt.Sprintf("%s%d", seat.Row, seat.Number),
			Row:      seat.Row,
			Number:   seat.Number,
			SeatType: seatTypeCode(seat),
			Status:   status,
			Price:    SeatPrice(&showtime, &seat),
		})
	}

	return &showtime, result, nil
}

func classifyClaim(order model.Order, now time.Time) string {
	switch order.Status {
	case model.OrderPaid, model.OrderConfirmed:
		return SeatSold
	case model.OrderPending:
		// Đơn pending quá hạn coi như không tồn tại; sweep sẽ dọn sau
		if order.ExpireAt != nil && order.ExpireAt.After(now) {
			return SeatHolding
		}
	}
	return SeatAvailable
}

// SeatPrice = giá cơ bản của suất chiếu + phụ thu loại ghế
func SeatPrice(showtime *model.Showtime, seat *model.Seat) float64 {
	price := showtime.Price
	if seat.SeatType != nil {
		price += seat.SeatType.Surcharge
	}
	return price
}

func seatTypeCode(seat model.Seat) string {
	if seat.SeatType != nil {
		return seat.SeatType.Code
	}
	return "NORMAL"
}
