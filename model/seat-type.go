package model

type SeatType struct {
	DTO
	Code      string  `gorm:"uniqueIndex;size:20;not null" validate:"required" json:"code"` // NORMAL VIP COUPLE
	Name      string  `json:"name"`
	Surcharge float64 `gorm:"not null;default:0" json:"surcharge"` // cộng thêm vào giá suất chiếu
}
