package handler

import (
	"cinema_ticketing/database"
	"cinema_ticketing/helper"
	"cinema_ticketing/model"
	"cinema_ticketing/utils"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
)

func appURL() string {
	if u := os.Getenv("APP_URL"); u != "" {
		return u
	}
	return "http://localhost:3000"
}

func paymentSecret() []byte {
	return []byte(os.Getenv("PAYMENT_SECRET"))
}

// signPayment ký tham số callback bằng HMAC-SHA256 để webhook xác thực
// được nguồn gọi. Cổng thanh toán thật thay thế hàm này bằng chữ ký
// riêng của họ.
func signPayment(orderCode string, amount float64) string {
	mac := hmac.New(sha256.New, paymentSecret())
	fmt.Fprintf(mac, "%s|%.0f", orderCode, amount)
	return hex.EncodeToString(mac.Sum(nil))
}

// InitiatePayment tạo link thanh toán cho đơn PENDING còn hạn giữ ghế.
// Số tiền lấy từ final_amount đã chốt lúc tạo đơn — không nhận từ client.
func InitiatePayment(c *fiber.Ctx) error {
	orderCode := c.Params("orderCode")

	order, err := helper.FindOrderByCode(database.DB, orderCode)
	if err != nil {
		return respondLedgerError(c, err)
	}

	if order.Status != model.OrderPending {
		return utils.ErrorResponse(c, fiber.StatusConflict, "Đơn hàng không ở trạng thái chờ thanh toán", nil)
	}
	if order.ExpireAt == nil || !order.ExpireAt.After(time.Now()) {
		return respondLedgerError(c, helper.ErrOrderExpired)
	}

	gateway := os.Getenv("PAYMENT_GATEWAY_URL")
	if gateway == "" {
		gateway = appURL() + "/thanh-toan/gia-lap"
	}

	params := url.Values{}
	params.Set("orderCode", order.PublicCode)
	params.Set("amount", fmt.Sprintf("%.0f", order.FinalAmount))
	params.Set("returnUrl", fmt.Sprintf("%s/don-hang/%s", appURL(), order.PublicCode))
	params.Set("signature", signPayment(order.PublicCode, order.FinalAmount))

	return utils.SuccessResponse(c, 200, fiber.Map{
		"paymentUrl": gateway + "?" + params.Encode(),
		"amount":     order.FinalAmount,
		"expireAt":   order.ExpireAt,
	})
}

type paymentWebhookInput struct {
	OrderCode string  `json:"orderCode"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
	Signature string  `json:"signature"`
}

// PaymentWebhook nhận callback từ cổng thanh toán. Chỉ đánh dấu PAID khi
// chữ ký hợp lệ và số tiền khớp final_amount; đơn đã quá hạn giữ ghế thì
// trả 410 để cổng chủ động hoàn tiền.
func PaymentWebhook(c *fiber.Ctx) error {
	var input paymentWebhookInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Payload không hợp lệ", err)
	}

	expected := signPayment(input.OrderCode, input.Amount)
	if !hmac.Equal([]byte(expected), []byte(input.Signature)) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Chữ ký không hợp lệ", nil)
	}

	order, err := helper.FindOrderByCode(database.DB, input.OrderCode)
	if err != nil {
		return respondLedgerError(c, err)
	}

	if input.Status != "success" {
		return utils.SuccessResponse(c, 200, fiber.Map{
			"orderCode": order.PublicCode,
			"status":    order.Status,
			"message":   "Thanh toán không thành công, đơn vẫn chờ",
		})
	}

	if input.Amount != order.FinalAmount {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Số tiền thanh toán không khớp đơn hàng", nil)
	}

	paid, err := helper.MarkOrderPaid(database.DB, order.ID)
	if err != nil {
		return respondLedgerError(c, err)
	}

	for _, t := range order.Tickets {
		go PublishSeatUpdate(t.ShowtimeId)
	}

	return utils.SuccessResponse(c, 200, fiber.Map{
		"orderCode": paid.PublicCode,
		"status":    paid.Status,
	})
}

// MarkOrderPaidPOS: nhân viên quầy thu tiền mặt rồi đánh dấu đã thanh toán
func MarkOrderPaidPOS(c *fiber.Ctx) error {
	_, _, isSeller := helper.GetInfoAccountFromToken(c)
	if !isSeller {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Không có quyền thu tiền tại quầy", nil)
	}

	orderCode := c.Params("orderCode")

	order, err := helper.FindOrderByCode(database.DB, orderCode)
	if err != nil {
		return respondLedgerError(c, err)
	}

	paid, err := helper.MarkOrderPaid(database.DB, order.ID)
	if err != nil {
		return respondLedgerError(c, err)
	}

	for _, t := range order.Tickets {
		go PublishSeatUpdate(t.ShowtimeId)
	}

	return utils.SuccessResponse(c, 200, fiber.Map{
		"orderCode": paid.PublicCode,
		"status":    paid.Status,
	})
}
