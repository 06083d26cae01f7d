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

// Login cho nhân viên (admin / quản lý / bán vé)
func Login(c *fiber.Ctx) error {
	var input model.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ", err)
	}

	var account model.Account
	if err := database.DB.Where("username = ? AND active = ?", input.Username, true).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Sai tài khoản hoặc mật khẩu", nil)
		}
		return utils.ErrorResponse(c, 500, "Lỗi đăng nhập", err)
	}

	if !helper.CheckPasswordHash(input.Password, account.Password) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Sai tài khoản hoặc mật khẩu", nil)
	}

	token, err := helper.GenerateAccessToken(model.TokenClaim{
		AccountId: account.ID,
		Username:  account.Username,
		Role:      account.Role,
	})
	if err != nil {
		return utils.ErrorResponse(c, 500, "Lỗi tạo token", err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Expires:  time.Now().Add(60 * time.Minute),
		HTTPOnly: true,
	})

	return utils.SuccessResponse(c, 200, fiber.Map{
		"accessToken": token,
		"username":    account.Username,
		"role":        account.Role,
	})
}

// LoginCustomer cho khách đặt vé online (đăng nhập bằng email)
func LoginCustomer(c *fiber.Ctx) error {
	var input struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Dữ liệu không hợp lệ", err)
	}

	var customer model.Customer
	if err := database.DB.Where("email = ? AND is_active = ?", input.Email, true).First(&customer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Sai email hoặc mật khẩu", nil)
		}
		return utils.ErrorResponse(c, 500, "Lỗi đăng nhập", err)
	}

	if !helper.CheckPasswordHash(input.Password, customer.Password) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Sai email hoặc mật khẩu", nil)
	}

	token, err := helper.GenerateAccessToken(model.TokenClaim{
		CustomerId: customer.ID,
		Username:   customer.UserName,
	})
	if err != nil {
		return utils.ErrorResponse(c, 500, "Lỗi tạo token", err)
	}

	return utils.SuccessResponse(c, 200, fiber.Map{
		"accessToken": token,
		"username":    customer.UserName,
		"email":       customer.Email,
	})
}

func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return utils.SuccessResponse(c, 200, fiber.Map{"message": "Đăng xuất thành công"})
}
