package model

type Cinema struct {
	DTO
	Name     string `gorm:"not null" validate:"required" json:"name"`
	Slug     string `gorm:"uniqueIndex" json:"slug"`
	Address  string `json:"address"`
	IsActive bool   `gorm:"default:true" json:"isActive"`

	Rooms []Room `gorm:"foreignKey:CinemaId" json:"rooms,omitempty"`
}
