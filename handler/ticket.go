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

// CheckinTicket soát một vé lẻ theo mã TKT. Quét trùng trả 409 —
// vé chỉ dùng được đúng một lần.
func CheckinTicket(c *fiber.Ctx) error {
	staffClaim, _, isSeller := helper.GetInfoAccountFromToken(c)
	if !isSeller {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Không có quyền soát vé", nil)
	}

	var input model.CheckinInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ", err)
	}
	if input.TicketCode == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Thiếu mã vé", nil)
	}

	eticket, err := helper.RedeemTicket(database.DB, input.TicketCode, staffClaim.AccountId)
	if err != nil {
		return respondLedgerError(c, err)
	}

	return utils.SuccessResponse(c, 200, fiber.Map{
		"ticketCode": eticket.TicketCode,
		"usedAt":     eticket.UsedAt,
		"message":    "Check-in thành công",
	})
}

// CheckinOrder soát cả đơn bằng QR đơn hàng: mọi vé của đơn phải còn
// chưa dùng, một vé đã quét thì từ chối cả cụm.
func CheckinOrder(c *fiber.Ctx) error {
	staffClaim, _, isSeller := helper.GetInfoAccountFromToken(c)
	if !isSeller {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Không có quyền soát vé", nil)
	}

	orderCode := c.Params("orderCode")

	order, err := helper.FindOrderByCode(database.DB, orderCode)
	if err != nil {
		return respondLedgerError(c, err)
	}

	etickets, err := helper.RedeemOrderTickets(database.DB, order.ID, staffClaim.AccountId)
	if err != nil {
		return respondLedgerError(c, err)
	}

	codes := make([]string, 0, len(etickets))
	for _, et := range etickets {
		codes = append(codes, et.TicketCode)
	}

	return utils.SuccessResponse(c, 200, fiber.Map{
		"orderCode":   order.PublicCode,
		"ticketCodes": codes,
		"message":     fmt.Sprintf("Check-in %d vé thành công", len(codes)),
	})
}

// GetTicketByCode tra cứu vé trước khi soát: nhân viên thấy ghế, suất
// chiếu và trạng thái vé để đối chiếu với khách.
func GetTicketByCode(c *fiber.Ctx) error {
	_, _, isSeller := helper.GetInfoAccountFromToken(c)
	if !isSeller {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Không có quyền tra cứu vé", nil)
	}

	ticketCode := c.Params("ticketCode")

	var eticket model.ETicket
	if err := database.DB.Where("ticket_code = ?", ticketCode).First(&eticket).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return respondLedgerError(c, helper.ErrTicketNotFound)
		}
		return utils.ErrorResponse(c, 500, "Lỗi tra cứu vé", err)
	}

	var orderTicket model.OrderTicket
	if err := database.DB.
		Preload("Seat").
		Preload("Showtime").
		Preload("Showtime.Movie").
		Preload("Showtime.Room").
		First(&orderTicket, eticket.OrderTicketId).Error; err != nil {
		return utils.ErrorResponse(c, 500, "Lỗi tra cứu vé", err)
	}

	return utils.SuccessResponse(c, 200, fiber.Map{
		"ticketCode": eticket.TicketCode,
		"isUsed":     eticket.IsUsed,
		"usedAt":     eticket.UsedAt,
		"seat":       fmt.Sprintf("%s%d", orderTicket.Seat.Row, orderTicket.Seat.Number),
		"room":       orderTicket.Showtime.Room.Name,
		"movie":      orderTicket.Showtime.Movie.Title,
		"startTime":  orderTicket.Showtime.StartTime,
		"price":      orderTicket.Price,
	})
}
