package model

// Product là hàng bắp nước bán kèm — không phải tài nguyên khan hiếm,
// không có ràng buộc tranh chấp như ghế.
type Product struct {
	DTO
	Name     string  `gorm:"not null" validate:"required" json:"name"`
	Price    float64 `gorm:"not null" validate:"required,gt=0" json:"price"`
	IsActive bool    `gorm:"default:true" json:"isActive"`
}

type OrderProduct struct {
	DTO
	OrderId   uint    `gorm:"not null;index" json:"orderId"`
	ProductId uint    `gorm:"not null" json:"productId"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	UnitPrice float64 `gorm:"not null" json:"unitPrice"` // giá chốt tại thời điểm đặt

	Product Product `gorm:"foreignKey:ProductId" json:"product"`
}
