package model

type Room struct {
	DTO
	Name     string `gorm:"not null" validate:"required" json:"name"`
	CinemaId uint   `json:"cinemaId"`
	Cinema   Cinema `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	IsActive bool   `gorm:"default:true" json:"isActive"`

	Seats []Seat `gorm:"foreignKey:RoomId" json:"seats,omitempty"`
}
