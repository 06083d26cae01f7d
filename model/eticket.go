package model

import "time"

// ETicket là vé điện tử phát hành khi đơn được xác nhận: một vé cho mỗi
// OrderTicket, mã vé unique toàn hệ thống và không bao giờ dùng lại.
type ETicket struct {
	DTO
	OrderTicketId uint   `gorm:"not null;uniqueIndex" json:"orderTicketId"`
	TicketCode    string `gorm:"size:20;not null;uniqueIndex" json:"ticketCode"` // TKT-XXXXXXXXXX
	QRPayload     string `gorm:"size:255;not null" json:"qrPayload"`

	IsUsed      bool       `gorm:"not null;default:false" json:"isUsed"`
	UsedAt      *time.Time `json:"usedAt,omitempty"`
	CheckedInBy uint       `json:"checkedInBy"`

	OrderTicket OrderTicket `gorm:"foreignKey:OrderTicketId" json:"-"`
}

type CheckinInput struct {
	TicketCode string `json:"ticketCode" validate:"required"`
}
