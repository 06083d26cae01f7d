package model

import "time"

type Showtime struct {
	DTO
	PublicCode string    `gorm:"size:16;uniqueIndex" json:"publicCode"`
	StartTime  time.Time `validate:"required" json:"startTime"`
	EndTime    time.Time `validate:"required" json:"endTime"` // = StartTime + thời lượng phim
	Price      float64   `json:"price"`                       // giá cơ bản, chưa cộng phụ thu ghế
	IsActive   bool      `gorm:"default:true" json:"isActive"`

	MovieId uint  `json:"movieId"`
	RoomId  uint  `json:"roomId"`
	Movie   Movie `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;foreignKey:MovieId" json:"movie"`
	Room    Room  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;foreignKey:RoomId" json:"room"`

	Tickets []OrderTicket `gorm:"foreignKey:ShowtimeId" json:"-"`
}

type CreateShowtimeInput struct {
	MovieId   uint      `json:"movieId" validate:"required,gt=0"`
	RoomId    uint      `json:"roomId" validate:"required,gt=0"`
	StartTime time.Time `json:"startTime" validate:"required"`
	Price     float64   `json:"price" validate:"required,gt=0"`
}

type FilterShowtimeInput struct {
	Pagination
	MovieId   uint   `query:"movieId" validate:"omitempty,gt=0"`
	RoomId    uint   `query:"roomId" validate:"omitempty,gt=0"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
}
