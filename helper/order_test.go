package helper

import (
	"cinema_ticketing/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderPricing(t *testing.T) {
	f := newFixture(t)

	order, err := CreateOrder(f.db, nil, 0, model.CreateOrderInput{
		Tickets: []model.TicketRequest{f.ticket(f.seatA1), f.ticket(f.seatB1)},
	})
	require.NoError(t, err)

	// 75000 (thường) + 75000 + 20000 (VIP) = 170000
	assert.Equal(t, float64(170000), order.TotalAmount)
	assert.Equal(t, float64(170000), order.FinalAmount)
	assert.Equal(t, model.OrderPending, order.Status)
	assert.Contains(t, order.PublicCode, "ORD-")

	require.NotNil(t, order.ExpireAt)
	assert.WithinDuration(t, time.Now().Add(HoldWindow()), *order.ExpireAt, 5*time.Second)

	assert.Equal(t, int64(2), f.countTickets(t))
	assert.Equal(t, SeatHolding, f.seatStatus(t, f.seatA1.ID))
	assert.Equal(t, SeatHolding, f.seatStatus(t, f.seatB1.ID))
}

func TestCreateOrderEmpty(t *testing.T) {
	f := newFixture(t)

	_, err := CreateOrder(f.db, nil, 0, model.CreateOrderInput{})
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestCreateOrderDuplicateSeatInRequest(t *testing.T) {
	f := newFixture(t)

	_, err := CreateOrder(f.db, nil, 0, model.CreateOrderInput{
		Tickets: []model.TicketRequest{f.ticket(f.seatA1), f.ticket(f.seatA1)},
	})

	var invalidSeat *InvalidSeatError
	require.ErrorAs(t, err, &invalidSeat)
	assert.Equal(t, f.seatA1.ID, invalidSeat.SeatId)
}

func TestCreateOrderSeatConflict(t *testing.T) {
	f := newFixture(t)

	_, err := CreateOrder(f.db, nil, 0, model.CreateOrderInput{
		Tickets: []model.TicketRequest{f.ticket(f.seatA1)},
	})
	require.NoError(t, err)

	// Đơn thứ hai giành A1 + A2: phải fail toàn bộ, A2 không bị giữ lửng
	_, err = CreateOrder(f.db, nil, 0, model.CreateOrderInput{
		Tickets: []model.TicketRequest{f.ticket(f.seatA1), f.ticket(f.seatA2)},
	})

	var conflict *SeatUnavailableError
	require.ErrorAs(t, err, &conflict)
	assert.Contains(t, conflict.SeatCodes, "A1")

	assert.Equal(t, int64(1), f.countTickets(t))
	assert.Equal(t, SeatAvailable, f.seatStatus(t, f.seatA2.ID))

	// Đơn fail không để lại chứng từ
	var orders int64
	f.db.Model(&model.Order{}).Count(&orders)
	assert.Equal(t, int64(1), orders)
}

func TestCreateOrderRollbackOnInvalidVoucher(t *testing.T) {
	f := newFixture(t)

	_, err := CreateOrder(f.db, &f.customer.ID, 0, model.CreateOrderInput{
		Tickets:     []model.TicketRequest{f.ticket(f.seatA1)},
		VoucherCode: "KHONG-TON-TAI",
	})
	assert.ErrorIs(t, err, ErrInvalidVoucher)

	// Rollback sạch: không ghế nào bị giữ, không đơn nào được tạo
	assert.Equal(t, int64(0), f.countTickets(t))
	assert.Equal(t, SeatAvailable, f.seatStatus(t, f.seatA1.ID))

	var orders int64
	f.db.Model(&model.Order{}).Count(&orders)
	assert.Equal(t, int64(0), orders)
}

func TestCreateOrderWithVoucherAndPoints(t *testing.T) {
	f := newFixture(t)

	order, err := CreateOrder(f.db, &f.customer.ID, 0, model.CreateOrderInput{
		Tickets:        []model.TicketRequest{f.ticket(f.seatA1), f.ticket(f.seatB1)},
		VoucherCode:    "WELCOME10",
		PointsToRedeem: 20,
	})
	require.NoError(t, err)

	// subtotal 170000, voucher 10% = 17000, 20 điểm = 20000
	assert.Equal(t, float64(170000), order.TotalAmount)
	assert.Equal(t, float64(37000), order.DiscountAmount)
	assert.Equal(t, float64(133000), order.FinalAmount)

	assert.Equal(t, int64(80), f.pointBalance(t))

	// Voucher đã bị khóa, dùng lại phải fail
	_, err = CreateOrder(f.db, &f.customer.ID, 0, model.CreateOrderInput{
		Tickets:     []model.TicketRequest{f.ticket(f.seatA2)},
		VoucherCode: "WELCOME10",
	})
	assert.ErrorIs(t, err, ErrInvalidVoucher)
}

func TestCreateOrderInsufficientPoints(t *testing.T) {
	f := newFixture(t)

	_, err := CreateOrder(f.db, &f.customer.ID, 0, model.CreateOrderInput{
		Tickets:        []model.TicketRequest{f.ticket(f.seatA1)},
		PointsToRedeem: 500,
	})
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	// Số dư không đổi, không đơn nào được tạo
	assert.Equal(t, int64(100), f.pointBalance(t))
	assert.Equal(t, int64(0), f.countTickets(t))
}

func TestCreateOrderGuestCannotUseVoucher(t *testing.T) {
	f := newFixture(t)

	_, err := CreateOrder(f.db, nil, 0, model.CreateOrderInput{
		Tickets:     []model.TicketRequest{f.ticket(f.seatA1)},
		VoucherCode: "WELCOME10",
	})
	assert.ErrorIs(t, err, ErrInvalidVoucher)
}

func TestFinalAmountNeverNegative(t *testing.T) {
	f := newFixture(t)

	big := model.Voucher{
		Code:          "MEGA",
		DiscountType:  "fixed",
		DiscountValue: 999999,
		StartDate:     time.Now().AddDate(0, -1, 0),
		EndDate:       time.Now().AddDate(0, 1, 0),
		Status:        "active",
	}
	require.NoError(t, f.db.Create(&big).Error)
	require.NoError(t, f.db.Create(&model.UserVoucher{CustomerId: f.customer.ID, VoucherId: big.ID}).Error)

	order, err := CreateOrder(f.db, &f.customer.ID, 0, model.CreateOrderInput{
		Tickets:     []model.TicketRequest{f.ticket(f.seatA1)},
		VoucherCode: "MEGA",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(0), order.FinalAmount)
}

func TestExpireOrdersSweep(t *testing.T) {
	f := newFixture(t)

	order, err := CreateOrder(f.db, &f.customer.ID, 0, model.CreateOrderInput{
		Tickets:        []model.TicketRequest{f.ticket(f.seatA1)},
		PointsToRedeem: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(90), f.pointBalance(t))

	f.lapse(t, order.ID)

	expired, showtimeIds, err := ExpireOrdersSweep(f.db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)
	assert.Contains(t, showtimeIds, f.showtime.ID)

	var reloaded model.Order
	require.NoError(t, f.db.First(&reloaded, order.ID).Error)
	assert.Equal(t, model.OrderExpired, reloaded.Status)

	// Ghế được trả, điểm được hoàn
	assert.Equal(t, int64(0), f.countTickets(t))
	assert.Equal(t, SeatAvailable, f.seatStatus(t, f.seatA1.ID))
	assert.Equal(t, int64(100), f.pointBalance(t))

	// Idempotent: quét lần hai không đổi gì
	expired, _, err = ExpireOrdersSweep(f.db)
	require.NoError(t, err)
	assert.Equal(t, int64(0), expired)
}

func TestSweepIgnoresLiveOrders(t *testing.T) {
	f := newFixture(t)

	order, err := CreateOrder(f.db, nil, 0, model.CreateOrderInput{
		Tickets: []model.TicketRequest{f.ticket(f.seatA1)},
	})
	require.NoError(t, err)

	expired, _, err := ExpireOrdersSweep(f.db)
	require.NoError(t, err)
	assert.Equal(t, int64(0), expired)

	var reloaded model.Order
	require.NoError(t, f.db.First(&reloaded, order.ID).Error)
	assert.Equal(t, model.OrderPending, reloaded.Status)
}

func TestCreateOrderReclaimsLapsedHold(t *testing.T) {
	f := newFixture(t)

	first, err := CreateOrder(f.db, nil, 0, model.CreateOrderInput{
		Tickets: []model.TicketRequest{f.ticket(f.seatA1)},
	})
	require.NoError(t, err)
	f.lapse(t, first.ID)

	// Đơn quá hạn chưa kịp sweep: đơn mới vẫn giành được ghế ngay
	second, err := CreateOrder(f.db, nil, 0, model.CreateOrderInput{
		Tickets: []model.TicketRequest{f.ticket(f.seatA1)},
	})
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, second.Status)

	var reloaded model.Order
	require.NoError(t, f.db.First(&reloaded, first.ID).Error)
	assert.Equal(t, model.OrderExpired, reloaded.Status)
	assert.Equal(t, int64(1), f.countTickets(t))
}

func TestMarkOrderPaid(t *testing.T) {
	f := newFixture(t)

	order, err := CreateOrder(f.db, nil, 0, model.CreateOrderInput{
		Tickets: []model.TicketRequest{f.ticket(f.seatA1)},
	})
	require.NoError(t, err)

	paid, err := MarkOrderPaid(f.db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)
	assert.Equal(t, SeatSold, f.seatStatus(t, f.seatA1.ID))

	// Thanh toán lần hai: PAID không quay lại PAID được
	_, err = MarkOrderPaid(f.db, order.ID)
	var invalidTransition *InvalidTransitionError
	assert.ErrorAs(t, err, &invalidTransition)
}

func TestMarkOrderPaidAfterLapse(t *testing.T) {
	f := newFixture(t)

	order, err := CreateOrder(f.db, nil, 0, model.CreateOrderInput{
		Tickets: []model.TicketRequest{f.ticket(f.seatA1)},
	})
	require.NoError(t, err)
	f.lapse(t, order.ID)

	// Đơn quá hạn không được "hồi sinh" bằng thanh toán muộn
	_, err = MarkOrderPaid(f.db, order.ID)
	assert.ErrorIs(t, err, ErrOrderExpired)

	// Sweep sau đó vẫn dọn được
	expired, _, err := ExpireOrdersSweep(f.db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)
	assert.Equal(t, SeatAvailable, f.seatStatus(t, f.seatA1.ID))
}

func TestConfirmOrderIssuesTickets(t *testing.T) {
	f := newFixture(t)

	order, err := CreateOrder(f.db, nil, 0, model.CreateOrderInput{
		Tickets: []model.TicketRequest{f.ticket(f.seatA1), f.ticket(f.seatB1)},
	})
	require.NoError(t, err)

	// Chưa thanh toán thì không confirm được
	_, _, err = ConfirmOrder(f.db, order.ID)
	var invalidTransition *InvalidTransitionError
	require.ErrorAs(t, err, &invalidTransition)
	assert.Equal(t, model.OrderPending, invalidTransition.From)

	_, err = MarkOrderPaid(f.db, order.ID)
	require.NoError(t, err)

	confirmed, etickets, err := ConfirmOrder(f.db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderConfirmed, confirmed.Status)
	require.Len(t, etickets, 2)
	assert.NotEqual(t, etickets[0].TicketCode, etickets[1].TicketCode)
	for _, et := range etickets {
		assert.Contains(t, et.TicketCode, "TKT-")
		assert.False(t, et.IsUsed)
	}

	// Confirm lần hai bị từ chối, không nhân đôi vé
	_, _, err = ConfirmOrder(f.db, order.ID)
	assert.ErrorAs(t, err, &invalidTransition)

	var count int64
	f.db.Model(&model.ETicket{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestCancelOrderReleasesEverything(t *testing.T) {
	f := newFixture(t)

	order, err := CreateOrder(f.db, &f.customer.ID, 0, model.CreateOrderInput{
		Tickets:        []model.TicketRequest{f.ticket(f.seatA1)},
		VoucherCode:    "WELCOME10",
		PointsToRedeem: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(70), f.pointBalance(t))

	cancelled, err := CancelOrder(f.db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.CancelledAt)

	// Ghế trả ngay, điểm hoàn đủ, voucher dùng lại được
	assert.Equal(t, SeatAvailable, f.seatStatus(t, f.seatA1.ID))
	assert.Equal(t, int64(100), f.pointBalance(t))

	var userVoucher model.UserVoucher
	require.NoError(t, f.db.Where("customer_id = ?", f.customer.ID).First(&userVoucher).Error)
	assert.Nil(t, userVoucher.UsedAt)
	assert.Nil(t, userVoucher.OrderId)

	// Lịch sử điểm có cả REDEEM lẫn REFUND
	var history []model.PointHistory
	require.NoError(t, f.db.Where("customer_id = ?", f.customer.ID).Order("id").Find(&history).Error)
	require.Len(t, history, 2)
	assert.Equal(t, int64(-30), history[0].Delta)
	assert.Equal(t, int64(30), history[1].Delta)
}

func TestCancelPaidOrder(t *testing.T) {
	f := newFixture(t)

	order, err := CreateOrder(f.db, nil, 0, model.CreateOrderInput{
		Tickets: []model.TicketRequest{f.ticket(f.seatA1)},
	})
	require.NoError(t, err)
	_, err = MarkOrderPaid(f.db, order.ID)
	require.NoError(t, err)

	cancelled, err := CancelOrder(f.db, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, cancelled.Status)
	assert.Equal(t, SeatAvailable, f.seatStatus(t, f.seatA1.ID))

	// CANCELLED là trạng thái cuối
	_, err = CancelOrder(f.db, order.ID)
	var invalidTransition *InvalidTransitionError
	assert.ErrorAs(t, err, &invalidTransition)
}

func TestCreateOrderWithProducts(t *testing.T) {
	f := newFixture(t)

	popcorn := model.Product{Name: "Bắp rang", Price: 55000, IsActive: true}
	require.NoError(t, f.db.Create(&popcorn).Error)

	order, err := CreateOrder(f.db, nil, 0, model.CreateOrderInput{
		Tickets:  []model.TicketRequest{f.ticket(f.seatA1)},
		Products: []model.ProductRequest{{ProductId: popcorn.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	// 75000 + 2×55000
	assert.Equal(t, float64(185000), order.TotalAmount)

	var line model.OrderProduct
	require.NoError(t, f.db.Where("order_id = ?", order.ID).First(&line).Error)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, float64(55000), line.UnitPrice)
}

func TestCreateOrderInactiveShowtime(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.db.Model(&model.Showtime{}).
		Where("id = ?", f.showtime.ID).
		Update("is_active", false).Error)

	_, err := CreateOrder(f.db, nil, 0, model.CreateOrderInput{
		Tickets: []model.TicketRequest{f.ticket(f.seatA1)},
	})
	assert.ErrorIs(t, err, ErrShowtimeInactive)
}

func TestCreateOrderRetiredSeat(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.db.Model(&model.Seat{}).
		Where("id = ?", f.seatA1.ID).
		Update("is_active", false).Error)

	_, err := CreateOrder(f.db, nil, 0, model.CreateOrderInput{
		Tickets: []model.TicketRequest{f.ticket(f.seatA1)},
	})

	var invalidSeat *InvalidSeatError
	assert.ErrorAs(t, err, &invalidSeat)
}
