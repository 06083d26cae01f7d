package validate

import (
	"cinema_ticketing/model"
	"cinema_ticketing/utils"

	"github.com/gofiber/fiber/v2"
)

// CreateOrderValidate kiểm tra đơn đặt vé trước khi vào ledger:
// phải có ít nhất một ghế, số lượng hợp lệ, ghế không lặp trong request.
func CreateOrderValidate(c *fiber.Ctx) error {
	var input model.CreateOrderInput
	if err := parseAndValidate(c, &input); err != nil {
		return err
	}

	if len(input.Tickets) == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Đơn hàng phải có ít nhất một ghế", nil)
	}

	seen := make(map[[2]uint]bool)
	for _, t := range input.Tickets {
		key := [2]uint{t.ShowtimeId, t.SeatId}
		if seen[key] {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Ghế bị lặp trong đơn hàng", nil)
		}
		seen[key] = true
	}

	for _, p := range input.Products {
		if p.Quantity <= 0 {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Số lượng sản phẩm phải lớn hơn 0", nil)
		}
	}

	if input.PointsToRedeem < 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Số điểm quy đổi không hợp lệ", nil)
	}

	c.Locals("input", input)
	return c.Next()
}
