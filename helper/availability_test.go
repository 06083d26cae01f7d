package helper

import (
	"cinema_ticketing/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveShowtimeSeats(t *testing.T) {
	f := newFixture(t)

	holding, err := CreateOrder(f.db, nil, 0, model.CreateOrderInput{
		Tickets: []model.TicketRequest{f.ticket(f.seatA1)},
	})
	require.NoError(t, err)

	sold, err := CreateOrder(f.db, nil, 0, model.CreateOrderInput{
		Tickets: []model.TicketRequest{f.ticket(f.seatB1)},
	})
	require.NoError(t, err)
	_, err = MarkOrderPaid(f.db, sold.ID)
	require.NoError(t, err)

	showtime, seats, err := ResolveShowtimeSeats(f.db, f.showtime.ID)
	require.NoError(t, err)
	assert.Equal(t, f.showtime.ID, showtime.ID)
	require.Len(t, seats, 3)

	byLabel := make(map[string]SeatAvailability)
	for _, s := range seats {
		byLabel[s.Label] = s
	}

	assert.Equal(t, SeatHolding, byLabel["A1"].Status)
	assert.Equal(t, SeatAvailable, byLabel["A2"].Status)
	assert.Equal(t, SeatSold, byLabel["B1"].Status)

	// Giá hiển thị = giá suất + phụ thu loại ghế
	assert.Equal(t, float64(75000), byLabel["A2"].Price)
	assert.Equal(t, float64(95000), byLabel["B1"].Price)
	assert.Equal(t, "VIP", byLabel["B1"].SeatType)
	assert.Equal(t, "NORMAL", byLabel["A2"].SeatType)

	// Đơn giữ quá hạn: ghế hiện AVAILABLE ngay cả khi sweep chưa chạy
	f.lapse(t, holding.ID)
	_, seats, err = ResolveShowtimeSeats(f.db, f.showtime.ID)
	require.NoError(t, err)
	for _, s := range seats {
		if s.Label == "A1" {
			assert.Equal(t, SeatAvailable, s.Status)
		}
	}
}

func TestResolveExcludesRetiredSeats(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.db.Model(&model.Seat{}).
		Where("id = ?", f.seatA2.ID).
		Update("is_active", false).Error)

	_, seats, err := ResolveShowtimeSeats(f.db, f.showtime.ID)
	require.NoError(t, err)
	assert.Len(t, seats, 2)
	for _, s := range seats {
		assert.NotEqual(t, f.seatA2.ID, s.SeatId)
	}
}

func TestResolveUnknownShowtime(t *testing.T) {
	f := newFixture(t)

	_, _, err := ResolveShowtimeSeats(f.db, 9999)
	assert.ErrorIs(t, err, ErrShowtimeNotFound)
}

func TestClassifyClaim(t *testing.T) {
	now := time.Now()
	future := now.Add(5 * time.Minute)
	past := now.Add(-5 * time.Minute)

	tests := []struct {
		name  string
		order model.Order
		want  string
	}{
		{"pending còn hạn", model.Order{Status: model.OrderPending, ExpireAt: &future}, SeatHolding},
		{"pending quá hạn", model.Order{Status: model.OrderPending, ExpireAt: &past}, SeatAvailable},
		{"pending không có hạn", model.Order{Status: model.OrderPending}, SeatAvailable},
		{"đã thanh toán", model.Order{Status: model.OrderPaid}, SeatSold},
		{"đã xác nhận", model.Order{Status: model.OrderConfirmed}, SeatSold},
		{"đã hủy", model.Order{Status: model.OrderCancelled}, SeatAvailable},
		{"đã hết hạn", model.Order{Status: model.OrderExpired}, SeatAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyClaim(tt.order, now))
		})
	}
}
