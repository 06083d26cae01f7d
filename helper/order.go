package helper

import (
	"cinema_ticketing/config"
	"cinema_ticketing/constants"
	"cinema_ticketing/model"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HoldWindow là thời gian đơn PENDING được giữ ghế trước khi tự hết hạn.
// Cấu hình qua ORDER_HOLD_MINUTES (open question trong thiết kế gốc —
// chọn tham số cấu hình thay vì hằng số).
func HoldWindow() time.Duration {
	minutes := config.ConfigInt("ORDER_HOLD_MINUTES", constants.DEFAULT_ORDER_HOLD_MINUTES)
	return time.Duration(minutes) * time.Minute
}

// capturedSeat là ghế đã validate xong, kèm giá chốt trước khi mở transaction
type capturedSeat struct {
	ShowtimeId uint
	Seat       model.Seat
	Price      float64
}

// CreateOrder giữ ghế "tất cả hoặc không gì cả".
//
// Validate + chốt giá chạy TRƯỚC khi mở transaction để transaction ngắn
// nhất có thể. Bên trong transaction: tạo đơn PENDING, insert từng
// order_ticket — unique index (showtime_id, seat_id) là trọng tài cuối
// cùng, hai đơn cùng giành một ghế thì đơn đến sau nhận ErrDuplicatedKey
// và toàn bộ transaction rollback, không ghế nào bị giữ lửng. Voucher và
// điểm được trừ trong cùng transaction nên rollback đơn cũng rollback
// luôn sổ điểm.
func CreateOrder(db *gorm.DB, customerId *uint, createdBy uint, input model.CreateOrderInput) (*model.Order, error) {
	if len(input.Tickets) == 0 {
		return nil, ErrEmptyOrder
	}

	seen := make(map[[2]uint]bool, len(input.Tickets))
	for _, t := range input.Tickets {
		key := [2]uint{t.ShowtimeId, t.SeatId}
		if seen[key] {
			return nil, &InvalidSeatError{SeatId: t.SeatId, Reason: "yêu cầu trùng trong cùng đơn"}
		}
		seen[key] = true
	}

	captured, ticketSubtotal, err := captureSeats(db, input.Tickets)
	if err != nil {
		return nil, err
	}

	productLines, productSubtotal, err := captureProducts(db, input.Products)
	if err != nil {
		return nil, err
	}

	total := ticketSubtotal + productSubtotal
	now := time.Now()
	expireAt := now.Add(HoldWindow())

	order := model.Order{
		PublicCode:    "ORD-" + uuid.New().String()[:8],
		CustomerID:    customerId,
		Status:        model.OrderPending,
		PaymentMethod: input.PaymentMethod,
		ExpireAt:      &expireAt,
		CustomerName:  input.CustomerName,
		Phone:         input.Phone,
		Email:         input.Email,
		CreatedBy:     createdBy,
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	// Đơn pending quá hạn còn giữ ghế được yêu cầu → dọn tại chỗ, không
	// chờ sweep. Update có điều kiện nên chạy đua với markPaid vẫn an toàn.
	if err := releaseLapsedHolds(tx, input.Tickets); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	for _, cs := range captured {
		ticket := model.OrderTicket{
			OrderId:    order.ID,
			ShowtimeId: cs.ShowtimeId,
			SeatId:     cs.Seat.ID,
			Price:      cs.Price,
		}
		if err := tx.Create(&ticket).Error; err != nil {
			tx.Rollback()
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, seatConflict(db, input.Tickets)
			}
			return nil, err
		}
	}

	for i := range productLines {
		productLines[i].OrderId = order.ID
	}
	if len(productLines) > 0 {
		if err := tx.Create(&productLines).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	discount, err := applyLoyalty(tx, &order, customerId, input, total)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	final := total - discount
	if final < 0 {
		final = 0
	}

	if err := tx.Model(&order).Updates(map[string]any{
		"total_amount":    total,
		"discount_amount": discount,
		"final_amount":    final,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	order.TotalAmount = total
	order.DiscountAmount = discount
	order.FinalAmount = final
	return &order, nil
}

// captureSeats validate suất chiếu + ghế và chốt giá từng ghế
func captureSeats(db *gorm.DB, requests []model.TicketRequest) ([]capturedSeat, float64, error) {
	showtimes := make(map[uint]*model.Showtime)
	captured := make([]capturedSeat, 0, len(requests))
	subtotal := float64(0)

	for _, req := range requests {
		showtime, ok := showtimes[req.ShowtimeId]
		if !ok {
			var st model.Showtime
			if err := db.First(&st, req.ShowtimeId).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, 0, ErrShowtimeNotFound
				}
				return nil, 0, err
			}
			if !st.IsActive {
				return nil, 0, ErrShowtimeInactive
			}
			showtimes[req.ShowtimeId] = &st
			showtime = &st
		}

		var seat model.Seat
		if err := db.Preload("SeatType").First(&seat, req.SeatId).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, &InvalidSeatError{SeatId: req.SeatId, Reason: "không tồn tại"}
			}
			return nil, 0, err
		}
		if seat.RoomId != showtime.RoomId {
			return nil, 0, &InvalidSeatError{SeatId: req.SeatId, Reason: "không thuộc phòng của suất chiếu"}
		}
		if !seat.IsActive {
			return nil, 0, &InvalidSeatError{SeatId: req.SeatId, Reason: "ghế đã khóa"}
		}

		price := SeatPrice(showtime, &seat)
		subtotal += price
		captured = append(captured, capturedSeat{
			ShowtimeId: req.ShowtimeId,
			Seat:       seat,
			Price:      price,
		})
	}

	return captured, subtotal, nil
}

func captureProducts(db *gorm.DB, requests []model.ProductRequest) ([]model.OrderProduct, float64, error) {
	lines := make([]model.OrderProduct, 0, len(requests))
	subtotal := float64(0)

	for _, req := range requests {
		if req.Quantity <= 0 {
			return nil, 0, ErrProductNotFound
		}
		var product model.Product
		if err := db.Where("id = ? AND is_active = ?", req.ProductId, true).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, 0, ErrProductNotFound
			}
			return nil, 0, err
		}
		subtotal += product.Price * float64(req.Quantity)
		lines = append(lines, model.OrderProduct{
			ProductId: product.ID,
			Quantity:  req.Quantity,
			UnitPrice: product.Price,
		})
	}

	return lines, subtotal, nil
}

// seatConflict tra lại ghế nào đang bị đơn sống giữ để báo lỗi có tên ghế
func seatConflict(db *gorm.DB, requests []model.TicketRequest) error {
	conflict := &SeatUnavailableError{}
	now := time.Now()

	for _, req := range requests {
		var ticket model.OrderTicket
		err := db.
			Preload("Order").
			Preload("Seat").
			Where("showtime_id = ? AND seat_id = ?", req.ShowtimeId, req.SeatId).
			First(&ticket).Error
		if err != nil {
			continue
		}
		if status := classifyClaim(ticket.Order, now); status != SeatAvailable {
			conflict.SeatCodes = append(conflict.SeatCodes, fmt.Sprintf("%s%d", ticket.Seat.Row, ticket.Seat.Number))
		}
	}

	if len(conflict.SeatCodes) == 0 {
		// Không tra được ghế cụ thể (đơn thắng cuộc đua vừa biến mất) —
		// vẫn là xung đột giữ ghế
		return &SeatUnavailableError{SeatCodes: []string{"?"}}
	}
	return conflict
}

// releaseLapsedHolds hết-hạn-hóa tại chỗ các đơn PENDING quá hạn còn giữ
// những ghế đang được yêu cầu
func releaseLapsedHolds(tx *gorm.DB, requests []model.TicketRequest) error {
	now := time.Now()
	orderIds := make(map[uint]bool)

	for _, req := range requests {
		var tickets []model.OrderTicket
		if err := tx.
			Joins("JOIN orders ON orders.id = order_tickets.order_id").
			Where("order_tickets.showtime_id = ? AND order_tickets.seat_id = ?", req.ShowtimeId, req.SeatId).
			Where("orders.status = ? AND orders.expire_at < ?", model.OrderPending, now).
			Find(&tickets).Error; err != nil {
			return err
		}
		for _, t := range tickets {
			orderIds[t.OrderId] = true
		}
	}

	for orderId := range orderIds {
		if _, _, err := expireOrder(tx, orderId, now); err != nil {
			return err
		}
	}
	return nil
}

// expireOrder chuyển một đơn PENDING quá hạn sang EXPIRED, xóa order_tickets
// (trả ghế) và hoàn voucher/điểm. Update có điều kiện: thua cuộc đua với
// markPaid thì không làm gì — mỗi đơn chỉ có đúng một người thắng.
// Trả về danh sách suất chiếu có ghế vừa được trả để phát realtime.
func expireOrder(tx *gorm.DB, orderId uint, now time.Time) (bool, []uint, error) {
	res := tx.Model(&model.Order{}).
		Where("id = ? AND status = ? AND expire_at < ?", orderId, model.OrderPending, now).
		Update("status", model.OrderExpired)
	if res.Error != nil {
		return false, nil, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil, nil
	}

	var showtimeIds []uint
	if err := tx.Model(&model.OrderTicket{}).
		Distinct("showtime_id").
		Where("order_id = ?", orderId).
		Pluck("showtime_id", &showtimeIds).Error; err != nil {
		return false, nil, err
	}

	if err := tx.Where("order_id = ?", orderId).Delete(&model.OrderTicket{}).Error; err != nil {
		return false, nil, err
	}
	if err := releaseLoyalty(tx, orderId); err != nil {
		return false, nil, err
	}
	return true, showtimeIds, nil
}

// ExpireOrdersSweep quét toàn bộ đơn PENDING quá hạn. Idempotent: chạy hai
// lần liên tiếp thì lần hai không đổi gì. Chạy song song nhiều sweeper vẫn
// an toàn vì mỗi đơn được chốt bằng update có điều kiện.
// Kết quả thứ hai là các suất chiếu vừa có ghế được trả.
func ExpireOrdersSweep(db *gorm.DB) (int64, []uint, error) {
	now := time.Now()

	var lapsed []model.Order
	if err := db.
		Select("id").
		Where("status = ? AND expire_at < ?", model.OrderPending, now).
		Find(&lapsed).Error; err != nil {
		return 0, nil, err
	}

	var expired int64
	affected := make(map[uint]bool)
	for _, order := range lapsed {
		err := db.Transaction(func(tx *gorm.DB) error {
			won, showtimeIds, err := expireOrder(tx, order.ID, now)
			if won {
				expired++
				for _, id := range showtimeIds {
					affected[id] = true
				}
			}
			return err
		})
		if err != nil {
			// lỗi một đơn không chặn các đơn còn lại; tick sau thử lại
			log.Printf("Lỗi expire đơn %d: %v", order.ID, err)
		}
	}

	showtimeIds := make([]uint, 0, len(affected))
	for id := range affected {
		showtimeIds = append(showtimeIds, id)
	}

	return expired, showtimeIds, nil
}

// MarkOrderPaid: PENDING còn hạn → PAID. Update có điều kiện ngay trên
// expire_at để cuộc đua với sweep có đúng một người thắng; đơn quá hạn
// không được "hồi sinh" mà trả ErrOrderExpired để client đặt lại.
func MarkOrderPaid(db *gorm.DB, orderId uint) (*model.Order, error) {
	now := time.Now()
	res := db.Model(&model.Order{}).
		Where("id = ? AND status = ? AND expire_at > ?", orderId, model.OrderPending, now).
		Updates(map[string]any{
			"status":  model.OrderPaid,
			"paid_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}

	var order model.Order
	if err := db.First(&order, orderId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if res.RowsAffected == 0 {
		if order.Status == model.OrderPending {
			return nil, ErrOrderExpired
		}
		return nil, &InvalidTransitionError{From: order.Status, To: model.OrderPaid}
	}

	return &order, nil
}

// ConfirmOrder: PAID → CONFIRMED và phát hành vé điện tử trong CÙNG
// transaction — đơn CONFIRMED thì chắc chắn đã có vé.
func ConfirmOrder(db *gorm.DB, orderId uint) (*model.Order, []model.ETicket, error) {
	var confirmed model.Order
	var issued []model.ETicket

	err := db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&model.Order{}).
			Where("id = ? AND status = ?", orderId, model.OrderPaid).
			Updates(map[string]any{
				"status":       model.OrderConfirmed,
				"confirmed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var order model.Order
			if err := tx.First(&order, orderId).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrOrderNotFound
				}
				return err
			}
			return &InvalidTransitionError{From: order.Status, To: model.OrderConfirmed}
		}

		tickets, err := IssueTickets(tx, orderId)
		if err != nil {
			return err
		}
		issued = tickets

		// Preload đủ sâu cho email vé: tên phim + giờ chiếu
		return tx.
			Preload("Tickets").
			Preload("Tickets.Seat").
			Preload("Tickets.Showtime").
			Preload("Tickets.Showtime.Movie").
			First(&confirmed, orderId).Error
	})
	if err != nil {
		return nil, nil, err
	}

	return &confirmed, issued, nil
}

// CancelOrder: PENDING/PAID → CANCELLED. Xóa order_tickets nên ghế khả
// dụng lại ngay lập tức (resolver chỉ đếm đơn sống); hoàn voucher/điểm.
// Hoàn tiền thanh toán là nghiệp vụ bên ngoài, không xử lý ở đây.
func CancelOrder(db *gorm.DB, orderId uint) (*model.Order, error) {
	var cancelled model.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&model.Order{}).
			Where("id = ? AND status IN ?", orderId, []string{model.OrderPending, model.OrderPaid}).
			Updates(map[string]any{
				"status":       model.OrderCancelled,
				"cancelled_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var order model.Order
			if err := tx.First(&order, orderId).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrOrderNotFound
				}
				return err
			}
			return &InvalidTransitionError{From: order.Status, To: model.OrderCancelled}
		}

		if err := tx.Where("order_id = ?", orderId).Delete(&model.OrderTicket{}).Error; err != nil {
			return err
		}
		if err := releaseLoyalty(tx, orderId); err != nil {
			return err
		}

		return tx.First(&cancelled, orderId).Error
	})
	if err != nil {
		return nil, err
	}

	return &cancelled, nil
}

// FindOrderByCode tra đơn theo mã công khai ORD-XXXXXXXX
func FindOrderByCode(db *gorm.DB, publicCode string) (*model.Order, error) {
	var order model.Order
	err := db.
		Preload("Tickets").
		Preload("Tickets.Seat").
		Preload("Tickets.Showtime").
		Preload("Tickets.Showtime.Movie").
		Preload("Products").
		Preload("Products.Product").
		Where("public_code = ?", publicCode).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}
