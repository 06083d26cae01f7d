package model

type Seat struct {
	DTO
	Row      string `gorm:"not null" validate:"required" json:"row"`          // "A", "B"...
	Number   int    `gorm:"not null" validate:"required,min=1" json:"number"` // 1, 2...
	SeatCode string `gorm:"size:10;not null;uniqueIndex:idx_room_seat_code" json:"seatCode"`
	RoomId   uint   `gorm:"uniqueIndex:idx_room_seat_code" json:"roomId"`
	Room     Room   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`

	// Ghế không gán loại → tính như NORMAL, không phụ thu
	SeatTypeId *uint     `json:"seatTypeId"`
	SeatType   *SeatType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"seatType,omitempty"`

	// Ghế đã bán vé chỉ được khóa, không bao giờ xóa
	IsActive bool `gorm:"default:true" json:"isActive"`
}

type CreateSeatInput struct {
	RoomId     uint   `json:"roomId" validate:"required,gt=0"`
	Row        string `json:"row" validate:"required"`
	Number     int    `json:"number" validate:"required,min=1"`
	SeatTypeId *uint  `json:"seatTypeId"`
}

// GenerateSeatMapInput sinh sơ đồ ghế hàng loạt cho một phòng chiếu
type GenerateSeatMapInput struct {
	Rows        []string        `json:"rows" validate:"required,min=1,dive,required"`
	SeatsPerRow int             `json:"seatsPerRow" validate:"required,min=1,max=50"`
	RowSeatType map[string]uint `json:"rowSeatType"` // hàng → seatTypeId, bỏ trống = NORMAL
}
