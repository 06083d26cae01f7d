package model

import "time"

// Movie chỉ giữ phần metadata mà hệ thống vé cần (thời lượng để tính giờ kết thúc)
type Movie struct {
	DTO
	Title       string     `gorm:"not null" validate:"required" json:"title"`
	Slug        string     `gorm:"uniqueIndex" json:"slug"`
	Duration    int        `gorm:"not null" validate:"required,gt=0" json:"duration"` // phút
	StatusMovie string     `gorm:"default:'NOW_SHOWING'" json:"statusMovie"`          // COMING_SOON, NOW_SHOWING, ENDED
	DateRelease *time.Time `json:"dateRelease"`
}
