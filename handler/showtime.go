package handler

import (
	"cinema_ticketing/database"
	"cinema_ticketing/helper"
	"cinema_ticketing/model"
	"cinema_ticketing/utils"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateShowtime tạo suất chiếu mới (admin/manager). Giờ kết thúc tự
// tính theo thời lượng phim, trùng khung giờ cùng phòng trả 409.
func CreateShowtime(c *fiber.Ctx) error {
	_, isAdmin, _ := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Không có quyền tạo suất chiếu", nil)
	}

	input := c.Locals("input").(model.CreateShowtimeInput)

	showtime, err := helper.BuildShowtime(database.DB, input)
	if err != nil {
		if errors.Is(err, helper.ErrShowtimeOverlap) {
			return utils.ErrorResponse(c, fiber.StatusConflict, err.Error(), err)
		}
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, showtime)
}

// GetShowtimes lọc suất chiếu theo phim / phòng / khoảng ngày, có phân trang
func GetShowtimes(c *fiber.Ctx) error {
	var filter model.FilterShowtimeInput
	if err := c.QueryParser(&filter); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Tham số lọc không hợp lệ", err)
	}

	query := database.DB.Model(&model.Showtime{}).
		Preload("Movie").
		Preload("Room").
		Where("is_active = ?", true)

	if filter.MovieId > 0 {
		query = query.Where("movie_id = ?", filter.MovieId)
	}
	if filter.RoomId > 0 {
		query = query.Where("room_id = ?", filter.RoomId)
	}
	if filter.StartDate != "" {
		if start, err := time.Parse("2006-01-02", filter.StartDate); err == nil {
			query = query.Where("start_time >= ?", start)
		}
	}
	if filter.EndDate != "" {
		if end, err := time.Parse("2006-01-02", filter.EndDate); err == nil {
			query = query.Where("start_time < ?", end.AddDate(0, 0, 1))
		}
	}

	var total int64
	query.Count(&total)

	var showtimes []model.Showtime
	if err := utils.ApplyPagination(query, filter.Limit, filter.Page).
		Order("start_time asc").
		Find(&showtimes).Error; err != nil {
		return utils.ErrorResponse(c, 500, "Lỗi tải suất chiếu", err)
	}

	return utils.SuccessResponse(c, 200, fiber.Map{
		"total": total,
		"items": showtimes,
	})
}

// GetShowtimeByCode trả chi tiết một suất chiếu theo public code
func GetShowtimeByCode(c *fiber.Ctx) error {
	code := c.Params("code")

	var showtime model.Showtime
	if err := database.DB.
		Preload("Movie").
		Preload("Room").
		Preload("Room.Cinema").
		Where("public_code = ?", code).
		First(&showtime).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, 404, "Suất chiếu không tồn tại", err)
		}
		return utils.ErrorResponse(c, 500, "Lỗi truy vấn suất chiếu", err)
	}

	return utils.SuccessResponse(c, 200, showtime)
}

// DeactivateShowtime khóa bán vé một suất chiếu. Suất đã có đơn vẫn giữ
// nguyên dữ liệu — chỉ chặn giữ ghế mới.
func DeactivateShowtime(c *fiber.Ctx) error {
	_, isAdmin, _ := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Không có quyền khóa suất chiếu", nil)
	}

	code := c.Params("code")

	result := database.DB.Model(&model.Showtime{}).
		Where("public_code = ?", code).
		Update("is_active", false)
	if result.Error != nil {
		return utils.ErrorResponse(c, 500, "Lỗi khóa suất chiếu", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, 404, "Suất chiếu không tồn tại", nil)
	}

	return utils.SuccessResponse(c, 200, fiber.Map{"message": "Đã khóa suất chiếu"})
}
