package validate

import (
	"cinema_ticketing/model"
	"cinema_ticketing/utils"
	"time"

	"github.com/gofiber/fiber/v2"
)

func CreateShowtimeValidate(c *fiber.Ctx) error {
	var input model.CreateShowtimeInput
	if err := parseAndValidate(c, &input); err != nil {
		return err
	}

	if input.StartTime.Before(time.Now()) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Giờ chiếu phải ở tương lai", nil)
	}

	c.Locals("input", input)
	return c.Next()
}
