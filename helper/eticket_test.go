package helper

import (
	"cinema_ticketing/model"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// confirmedOrder dựng nhanh một đơn CONFIRMED hai ghế đã có vé
func confirmedOrder(t *testing.T, f *fixture) (*model.Order, []model.ETicket) {
	t.Helper()

	order, err := CreateOrder(f.db, nil, 0, model.CreateOrderInput{
		Tickets: []model.TicketRequest{f.ticket(f.seatA1), f.ticket(f.seatB1)},
	})
	require.NoError(t, err)
	_, err = MarkOrderPaid(f.db, order.ID)
	require.NoError(t, err)

	confirmed, etickets, err := ConfirmOrder(f.db, order.ID)
	require.NoError(t, err)
	return confirmed, etickets
}

func TestIssueTicketsIdempotent(t *testing.T) {
	f := newFixture(t)
	order, first := confirmedOrder(t, f)

	// Gọi lại cho đơn đã phát hành: trả đúng vé cũ, không tạo thêm
	again, err := IssueTickets(f.db, order.ID)
	require.NoError(t, err)
	require.Len(t, again, len(first))

	codes := make(map[string]bool)
	for _, et := range first {
		codes[et.TicketCode] = true
	}
	for _, et := range again {
		assert.True(t, codes[et.TicketCode])
	}

	var count int64
	f.db.Model(&model.ETicket{}).Count(&count)
	assert.Equal(t, int64(len(first)), count)
}

func TestETicketQRPayload(t *testing.T) {
	f := newFixture(t)
	_, etickets := confirmedOrder(t, f)

	for _, et := range etickets {
		assert.Equal(t, fmt.Sprintf("ETK|%s|%d", et.TicketCode, et.OrderTicketId), et.QRPayload)
	}
}

func TestRedeemTicket(t *testing.T) {
	f := newFixture(t)
	_, etickets := confirmedOrder(t, f)

	redeemed, err := RedeemTicket(f.db, etickets[0].TicketCode, 7)
	require.NoError(t, err)
	assert.True(t, redeemed.IsUsed)
	assert.NotNil(t, redeemed.UsedAt)
	assert.Equal(t, uint(7), redeemed.CheckedInBy)

	// Quét lần hai: compare-and-set fail
	_, err = RedeemTicket(f.db, etickets[0].TicketCode, 7)
	assert.ErrorIs(t, err, ErrTicketAlreadyUsed)

	// Vé còn lại không bị ảnh hưởng
	var other model.ETicket
	require.NoError(t, f.db.Where("ticket_code = ?", etickets[1].TicketCode).First(&other).Error)
	assert.False(t, other.IsUsed)
}

func TestRedeemUnknownTicket(t *testing.T) {
	f := newFixture(t)

	_, err := RedeemTicket(f.db, "TKT-khongcoma", 1)
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestRedeemOrderTickets(t *testing.T) {
	f := newFixture(t)
	order, etickets := confirmedOrder(t, f)

	redeemed, err := RedeemOrderTickets(f.db, order.ID, 7)
	require.NoError(t, err)
	require.Len(t, redeemed, len(etickets))
	for _, et := range redeemed {
		assert.True(t, et.IsUsed)
	}
}

func TestRedeemOrderTicketsRejectsPartialUse(t *testing.T) {
	f := newFixture(t)
	order, etickets := confirmedOrder(t, f)

	_, err := RedeemTicket(f.db, etickets[0].TicketCode, 7)
	require.NoError(t, err)

	// Một vé đã quét lẻ: check-in cả đơn bị từ chối, vé chưa quét giữ nguyên
	_, err = RedeemOrderTickets(f.db, order.ID, 7)
	assert.ErrorIs(t, err, ErrTicketAlreadyUsed)

	var other model.ETicket
	require.NoError(t, f.db.Where("ticket_code = ?", etickets[1].TicketCode).First(&other).Error)
	assert.False(t, other.IsUsed)
}

func TestRedeemOrderWithoutTickets(t *testing.T) {
	f := newFixture(t)

	order, err := CreateOrder(f.db, nil, 0, model.CreateOrderInput{
		Tickets: []model.TicketRequest{f.ticket(f.seatA1)},
	})
	require.NoError(t, err)

	// Đơn PENDING chưa phát hành vé
	_, err = RedeemOrderTickets(f.db, order.ID, 7)
	assert.ErrorIs(t, err, ErrTicketNotFound)
}
