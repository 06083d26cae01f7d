package model

import "time"

type Voucher struct {
	DTO
	Code          string    `gorm:"unique;not null" json:"code"`
	Name          string    `json:"name"`
	DiscountType  string    `gorm:"not null" json:"discountType"` // percentage, fixed
	DiscountValue float64   `gorm:"type:decimal(10,2);not null" json:"discountValue"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	Status        string    `gorm:"default:'active';not null" json:"status"` // active, inactive, expired
}

// UserVoucher là voucher đã phát cho khách. UsedAt/OrderId được ghi trong
// cùng transaction với đơn hàng và được gỡ khi đơn hủy/hết hạn.
type UserVoucher struct {
	DTO
	CustomerId uint       `gorm:"not null;index" json:"customerId"`
	VoucherId  uint       `gorm:"not null" json:"voucherId"`
	OrderId    *uint      `json:"orderId,omitempty"`
	UsedAt     *time.Time `json:"usedAt,omitempty"`

	Voucher  Voucher  `gorm:"foreignKey:VoucherId" json:"voucher"`
	Customer Customer `gorm:"foreignKey:CustomerId" json:"-"`
}

type MemberPoints struct {
	DTO
	CustomerId uint  `gorm:"not null;uniqueIndex" json:"customerId"`
	Balance    int64 `gorm:"not null;default:0" json:"balance"`

	Customer Customer `gorm:"foreignKey:CustomerId" json:"-"`
}

type PointHistory struct {
	DTO
	CustomerId uint   `gorm:"not null;index" json:"customerId"`
	OrderId    *uint  `json:"orderId,omitempty"`
	Delta      int64  `gorm:"not null" json:"delta"` // âm khi đổi điểm, dương khi hoàn
	Reason     string `gorm:"size:50" json:"reason"` // REDEEM, REFUND, EARN
}
