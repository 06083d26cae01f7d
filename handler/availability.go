package handler

import (
	"cinema_ticketing/database"
	"cinema_ticketing/helper"
	"cinema_ticketing/model"
	"cinema_ticketing/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetSeatsByShowtime trả sơ đồ ghế của suất chiếu theo public code:
// mỗi ghế kèm trạng thái (AVAILABLE/HOLDING/SOLD) và giá đã cộng phụ thu.
// Suất đã khóa vẫn xem được — chỉ bước giữ ghế mới từ chối.
func GetSeatsByShowtime(c *fiber.Ctx) error {
	code := c.Params("code")

	var showtime model.Showtime
	if err := database.DB.Where("public_code = ?", code).First(&showtime).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, 404, "Suất chiếu không tồn tại", err)
		}
		return utils.ErrorResponse(c, 500, "Lỗi truy vấn suất chiếu", err)
	}

	_, seats, err := helper.ResolveShowtimeSeats(database.DB, showtime.ID)
	if err != nil {
		return utils.ErrorResponse(c, 500, "Lỗi dựng sơ đồ ghế", err)
	}

	return utils.SuccessResponse(c, 200, fiber.Map{
		"showtime": fiber.Map{
			"publicCode": showtime.PublicCode,
			"startTime":  showtime.StartTime,
			"endTime":    showtime.EndTime,
			"basePrice":  showtime.Price,
			"isActive":   showtime.IsActive,
		},
		"seats": groupSeatsByRow(seats),
	})
}
