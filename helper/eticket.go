package helper

import (
	"cinema_ticketing/model"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const ticketCodeAttempts = 5

// IssueTickets phát hành vé điện tử cho mọi order_ticket của đơn chưa có
// vé. Idempotent: gọi lại cho đơn đã phát hành thì bỏ qua toàn bộ —
// confirm() được phép retry sau lỗi tạm thời mà không nhân đôi vé.
// Mã vé unique toàn hệ thống nhờ unique index trên ticket_code; đụng mã
// thì sinh mã khác và thử lại.
func IssueTickets(tx *gorm.DB, orderId uint) ([]model.ETicket, error) {
	var orderTickets []model.OrderTicket
	if err := tx.
		Preload("Seat").
		Where("order_id = ?", orderId).
		Find(&orderTickets).Error; err != nil {
		return nil, err
	}

	issued := make([]model.ETicket, 0, len(orderTickets))
	for _, ot := range orderTickets {
		var existing model.ETicket
		err := tx.Where("order_ticket_id = ?", ot.ID).First(&existing).Error
		if err == nil {
			issued = append(issued, existing)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		eticket, err := insertETicket(tx, ot.ID)
		if err != nil {
			return nil, err
		}
		issued = append(issued, *eticket)
	}

	return issued, nil
}

func insertETicket(tx *gorm.DB, orderTicketId uint) (*model.ETicket, error) {
	for attempt := 0; attempt < ticketCodeAttempts; attempt++ {
		code := "TKT-" + uuid.New().String()[:10]
		eticket := model.ETicket{
			OrderTicketId: orderTicketId,
			TicketCode:    code,
			QRPayload:     fmt.Sprintf("ETK|%s|%d", code, orderTicketId),
		}

		err := tx.Create(&eticket).Error
		if err == nil {
			return &eticket, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}

		// Đụng unique: nếu là order_ticket_id thì vé đã có (phát hành
		// song song) → trả vé sẵn có; nếu là ticket_code thì sinh mã mới
		var existing model.ETicket
		if findErr := tx.Where("order_ticket_id = ?", orderTicketId).First(&existing).Error; findErr == nil {
			return &existing, nil
		}
	}

	return nil, fmt.Errorf("không sinh được mã vé unique sau %d lần thử", ticketCodeAttempts)
}

// RedeemTicket check-in một vé theo mã. Compare-and-set trên is_used để
// hai quầy cùng quét một vé thì chỉ một bên thành công.
func RedeemTicket(db *gorm.DB, ticketCode string, checkedInBy uint) (*model.ETicket, error) {
	var eticket model.ETicket
	if err := db.Where("ticket_code = ?", ticketCode).First(&eticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}

	now := time.Now()
	res := db.Model(&model.ETicket{}).
		Where("ticket_code = ? AND is_used = ?", ticketCode, false).
		Updates(map[string]any{
			"is_used":       true,
			"used_at":       now,
			"checked_in_by": checkedInBy,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrTicketAlreadyUsed
	}

	eticket.IsUsed = true
	eticket.UsedAt = &now
	eticket.CheckedInBy = checkedInBy
	return &eticket, nil
}

// RedeemOrderTickets check-in toàn bộ vé của một đơn (quét QR đơn hàng).
// Một vé đã dùng thì từ chối cả đơn để tránh check-in nửa vời.
func RedeemOrderTickets(db *gorm.DB, orderId uint, checkedInBy uint) ([]model.ETicket, error) {
	var etickets []model.ETicket
	if err := db.
		Joins("JOIN order_tickets ON order_tickets.id = e_tickets.order_ticket_id").
		Where("order_tickets.order_id = ?", orderId).
		Find(&etickets).Error; err != nil {
		return nil, err
	}
	if len(etickets) == 0 {
		return nil, ErrTicketNotFound
	}

	for _, et := range etickets {
		if et.IsUsed {
			return nil, ErrTicketAlreadyUsed
		}
	}

	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		for i := range etickets {
			res := tx.Model(&model.ETicket{}).
				Where("id = ? AND is_used = ?", etickets[i].ID, false).
				Updates(map[string]any{
					"is_used":       true,
					"used_at":       now,
					"checked_in_by": checkedInBy,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrTicketAlreadyUsed
			}
			etickets[i].IsUsed = true
			etickets[i].UsedAt = &now
			etickets[i].CheckedInBy = checkedInBy
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return etickets, nil
}
