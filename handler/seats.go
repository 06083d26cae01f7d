package handler

import (
	"cinema_ticketing/database"
	"cinema_ticketing/helper"
	"cinema_ticketing/model"
	"cinema_ticketing/utils"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetSeatsByRoom trả toàn bộ ghế của phòng (kể cả ghế đã khóa) cho màn quản trị
func GetSeatsByRoom(c *fiber.Ctx) error {
	roomId, err := c.ParamsInt("roomId")
	if err != nil || roomId <= 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "roomId không hợp lệ", err)
	}

	var seats []model.Seat
	if err := database.DB.
		Preload("SeatType").
		Where("room_id = ?", roomId).
		Order("row asc, number asc").
		Find(&seats).Error; err != nil {
		return utils.ErrorResponse(c, 500, "Lỗi tải danh sách ghế", err)
	}

	return utils.SuccessResponse(c, 200, seats)
}

// CreateSeat thêm một ghế lẻ vào phòng. Trùng mã ghế trong phòng trả 409.
func CreateSeat(c *fiber.Ctx) error {
	_, isAdmin, _ := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Không có quyền quản lý ghế", nil)
	}

	input := c.Locals("input").(model.CreateSeatInput)

	if input.SeatTypeId != nil {
		var seatType model.SeatType
		if err := database.DB.First(&seatType, *input.SeatTypeId).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Loại ghế không tồn tại", err)
		}
	}

	seat := model.Seat{
		Row:        input.Row,
		Number:     input.Number,
		SeatCode:   fmt.Sprintf("%s%d", input.Row, input.Number),
		RoomId:     input.RoomId,
		SeatTypeId: input.SeatTypeId,
		IsActive:   true,
	}

	if err := database.DB.Create(&seat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.ErrorResponse(c, fiber.StatusConflict, "Ghế đã tồn tại trong phòng", err)
		}
		return utils.ErrorResponse(c, 500, "Lỗi tạo ghế", err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, seat)
}

// GenerateSeatMap sinh sơ đồ ghế hàng loạt cho phòng chưa có ghế.
// Phòng đã có ghế thì từ chối — tránh sinh đè làm lệch mã ghế.
func GenerateSeatMap(c *fiber.Ctx) error {
	_, isAdmin, _ := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Không có quyền quản lý ghế", nil)
	}

	roomId, err := c.ParamsInt("roomId")
	if err != nil || roomId <= 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "roomId không hợp lệ", err)
	}

	input := c.Locals("input").(model.GenerateSeatMapInput)

	var room model.Room
	if err := database.DB.First(&room, roomId).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Phòng chiếu không tồn tại", err)
	}

	var existing int64
	database.DB.Model(&model.Seat{}).Where("room_id = ?", roomId).Count(&existing)
	if existing > 0 {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Phòng đã có sơ đồ ghế", nil)
	}

	var seats []model.Seat
	for _, row := range input.Rows {
		var seatTypeId *uint
		if id, ok := input.RowSeatType[row]; ok {
			seatTypeId = &id
		}
		for number := 1; number <= input.SeatsPerRow; number++ {
			seats = append(seats, model.Seat{
				Row:        row,
				Number:     number,
				SeatCode:   fmt.Sprintf("%s%d", row, number),
				RoomId:     uint(roomId),
				SeatTypeId: seatTypeId,
				IsActive:   true,
			})
		}
	}

	if err := database.DB.Create(&seats).Error; err != nil {
		return utils.ErrorResponse(c, 500, "Lỗi sinh sơ đồ ghế", err)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{
		"roomId":    roomId,
		"seatCount": len(seats),
	})
}

// RetireSeat khóa ghế thay vì xóa: vé đã bán vẫn tham chiếu được ghế cũ,
// các suất sau không bán ghế này nữa.
func RetireSeat(c *fiber.Ctx) error {
	_, isAdmin, _ := helper.GetInfoAccountFromToken(c)
	if !isAdmin {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Không có quyền quản lý ghế", nil)
	}

	seatId, err := c.ParamsInt("id")
	if err != nil || seatId <= 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "id không hợp lệ", err)
	}

	result := database.DB.Model(&model.Seat{}).
		Where("id = ?", seatId).
		Update("is_active", false)
	if result.Error != nil {
		return utils.ErrorResponse(c, 500, "Lỗi khóa ghế", result.Error)
	}
	if result.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Ghế không tồn tại", nil)
	}

	return utils.SuccessResponse(c, 200, fiber.Map{"message": "Đã khóa ghế"})
}

// GetSeatTypes liệt kê loại ghế + phụ thu cho màn chọn ghế
func GetSeatTypes(c *fiber.Ctx) error {
	var seatTypes []model.SeatType
	if err := database.DB.Order("surcharge asc").Find(&seatTypes).Error; err != nil {
		return utils.ErrorResponse(c, 500, "Lỗi tải loại ghế", err)
	}
	return utils.SuccessResponse(c, 200, seatTypes)
}
