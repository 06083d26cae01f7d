package validate

import (
	"cinema_ticketing/model"

	"github.com/gofiber/fiber/v2"
)

func CreateSeatValidate(c *fiber.Ctx) error {
	var input model.CreateSeatInput
	if err := parseAndValidate(c, &input); err != nil {
		return err
	}

	c.Locals("input", input)
	return c.Next()
}

func GenerateSeatMapValidate(c *fiber.Ctx) error {
	var input model.GenerateSeatMapInput
	if err := parseAndValidate(c, &input); err != nil {
		return err
	}

	c.Locals("input", input)
	return c.Next()
}
