package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionOrder(t *testing.T) {
	allowed := [][2]string{
		{OrderPending, OrderPaid},
		{OrderPending, OrderCancelled},
		{OrderPending, OrderExpired},
		{OrderPaid, OrderConfirmed},
		{OrderPaid, OrderCancelled},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransitionOrder(tr[0], tr[1]), "%s -> %s phải được phép", tr[0], tr[1])
	}

	denied := [][2]string{
		{OrderPending, OrderConfirmed}, // phải qua PAID
		{OrderPaid, OrderExpired},      // đơn đã trả tiền không hết hạn
		{OrderPaid, OrderPending},
		{OrderConfirmed, OrderCancelled}, // CONFIRMED là trạng thái cuối
		{OrderCancelled, OrderPending},
		{OrderExpired, OrderPaid}, // không hồi sinh đơn hết hạn
		{"", OrderPaid},
		{OrderPending, "UNKNOWN"},
	}
	for _, tr := range denied {
		assert.False(t, CanTransitionOrder(tr[0], tr[1]), "%s -> %s phải bị từ chối", tr[0], tr[1])
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, terminal := range []string{OrderConfirmed, OrderCancelled, OrderExpired} {
		for _, to := range []string{OrderPending, OrderPaid, OrderConfirmed, OrderCancelled, OrderExpired} {
			assert.False(t, CanTransitionOrder(terminal, to))
		}
	}
}
