package handler

import (
	"cinema_ticketing/database"
	"cinema_ticketing/helper"
	"cinema_ticketing/model"
	"cinema_ticketing/utils"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

// respondLedgerError ánh xạ lỗi nghiệp vụ của ledger sang mã HTTP.
// Xung đột ghế trả 409 để client tải lại sơ đồ rồi thử lại; đơn hết hạn
// trả 410 để client đặt lại từ bước chọn ghế.
func respondLedgerError(c *fiber.Ctx, err error) error {
	var seatConflict *helper.SeatUnavailableError
	var invalidSeat *helper.InvalidSeatError
	var invalidTransition *helper.InvalidTransitionError

	switch {
	case errors.As(err, &seatConflict):
		return utils.ErrorResponse(c, fiber.StatusConflict, "Ghế đã được giữ hoặc bán, vui lòng tải lại sơ đồ ghế", err)
	case errors.As(err, &invalidSeat):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Ghế không hợp lệ", err)
	case errors.As(err, &invalidTransition):
		return utils.ErrorResponse(c, fiber.StatusConflict, "Trạng thái đơn không cho phép thao tác này", err)
	case errors.Is(err, helper.ErrShowtimeNotFound), errors.Is(err, helper.ErrOrderNotFound), errors.Is(err, helper.ErrTicketNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Không tìm thấy dữ liệu", err)
	case errors.Is(err, helper.ErrOrderExpired):
		return utils.ErrorResponse(c, fiber.StatusGone, "Đơn hàng đã hết hạn giữ ghế, vui lòng đặt lại", err)
	case errors.Is(err, helper.ErrEmptyOrder),
		errors.Is(err, helper.ErrShowtimeInactive),
		errors.Is(err, helper.ErrInvalidVoucher),
		errors.Is(err, helper.ErrInsufficientPoints),
		errors.Is(err, helper.ErrProductNotFound):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), err)
	case errors.Is(err, helper.ErrTicketAlreadyUsed):
		return utils.ErrorResponse(c, fiber.StatusConflict, err.Error(), err)
	default:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi hệ thống", err)
	}
}

// CreateOrder giữ ghế + tạo đơn PENDING. Input đã được validate middleware
// parse sẵn vào Locals.
func CreateOrder(c *fiber.Ctx) error {
	input := c.Locals("input").(model.CreateOrderInput)

	var customerId *uint
	customer, _ := c.Locals("customer").(*model.Customer)
	if customer != nil {
		customerId = &customer.ID
		if input.Email == "" {
			input.Email = customer.Email
		}
	}

	// Nhân viên quầy tạo đơn hộ khách thì ghi nhận người tạo
	staffClaim, _, _ := helper.GetInfoAccountFromToken(c)

	order, err := helper.CreateOrder(database.DB, customerId, staffClaim.AccountId, input)
	if err != nil {
		return respondLedgerError(c, err)
	}

	// Báo realtime cho các client đang xem sơ đồ ghế
	for _, showtimeId := range distinctShowtimes(input.Tickets) {
		go PublishSeatUpdate(showtimeId)
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, fiber.Map{
		"orderCode":      order.PublicCode,
		"status":         order.Status,
		"totalAmount":    order.TotalAmount,
		"discountAmount": order.DiscountAmount,
		"finalAmount":    order.FinalAmount,
		"expireAt":       order.ExpireAt,
	})
}

// ConfirmOrder: đơn PAID → CONFIRMED + phát hành vé điện tử, gửi email
// vé (async) nếu có địa chỉ.
func ConfirmOrder(c *fiber.Ctx) error {
	orderCode := c.Params("orderCode")

	order, err := helper.FindOrderByCode(database.DB, orderCode)
	if err != nil {
		return respondLedgerError(c, err)
	}

	confirmed, etickets, err := helper.ConfirmOrder(database.DB, order.ID)
	if err != nil {
		return respondLedgerError(c, err)
	}

	if confirmed.Email != "" {
		go sendETicketEmail(confirmed, etickets)
	}

	codes := make([]string, 0, len(etickets))
	for _, et := range etickets {
		codes = append(codes, et.TicketCode)
	}

	return utils.SuccessResponse(c, 200, fiber.Map{
		"orderCode":   confirmed.PublicCode,
		"status":      confirmed.Status,
		"ticketCodes": codes,
	})
}

// CancelOrder hủy đơn PENDING/PAID: ghế khả dụng lại ngay, voucher/điểm
// được hoàn. Hoàn tiền thanh toán xử lý ở hệ thống ngoài.
func CancelOrder(c *fiber.Ctx) error {
	orderCode := c.Params("orderCode")

	order, err := helper.FindOrderByCode(database.DB, orderCode)
	if err != nil {
		return respondLedgerError(c, err)
	}

	affected := make(map[uint]bool)
	for _, t := range order.Tickets {
		affected[t.ShowtimeId] = true
	}

	cancelled, err := helper.CancelOrder(database.DB, order.ID)
	if err != nil {
		return respondLedgerError(c, err)
	}

	for showtimeId := range affected {
		go PublishSeatUpdate(showtimeId)
	}

	return utils.SuccessResponse(c, 200, fiber.Map{
		"orderCode": cancelled.PublicCode,
		"status":    cancelled.Status,
		"message":   "Hủy đơn hàng thành công",
	})
}

type orderTicketDTO struct {
	SeatLabel  string  `json:"seatLabel"`
	Price      float64 `json:"price"`
	TicketCode string  `json:"ticketCode,omitempty"`
	IsUsed     bool    `json:"isUsed"`
}

type orderDetailDTO struct {
	OrderCode      string           `json:"orderCode"`
	Status         string           `json:"status"`
	TotalAmount    float64          `json:"totalAmount"`
	DiscountAmount float64          `json:"discountAmount"`
	FinalAmount    float64          `json:"finalAmount"`
	PaymentMethod  string           `json:"paymentMethod"`
	CustomerName   string           `json:"customerName"`
	Phone          string           `json:"phone"`
	Email          string           `json:"email"`
	Tickets        []orderTicketDTO `json:"tickets"`
	QRCode         string           `json:"qrCode,omitempty"`
}

// GetOrderDetail trả chi tiết đơn theo mã công khai, kèm QR check-in
// (base64 PNG) khi đơn đã xác nhận.
func GetOrderDetail(c *fiber.Ctx) error {
	orderCode := c.Params("orderCode")

	order, err := helper.FindOrderByCode(database.DB, orderCode)
	if err != nil {
		return respondLedgerError(c, err)
	}

	var detail orderDetailDTO
	copier.Copy(&detail, order)
	detail.OrderCode = order.PublicCode
	// copier đã map Tickets theo tên trường — dựng lại thủ công kèm mã vé
	detail.Tickets = nil

	etickets := loadOrderETickets(order.ID)
	for _, t := range order.Tickets {
		dto := orderTicketDTO{
			SeatLabel: fmt.Sprintf("%s%d", t.Seat.Row, t.Seat.Number),
			Price:     t.Price,
		}
		if et, ok := etickets[t.ID]; ok {
			dto.TicketCode = et.TicketCode
			dto.IsUsed = et.IsUsed
		}
		detail.Tickets = append(detail.Tickets, dto)
	}

	if order.Status == model.OrderConfirmed {
		qrBytes, err := utils.GenerateQRCode(order.PublicCode, 400)
		if err != nil {
			log.Printf("Lỗi tạo QR cho đơn %s: %v", order.PublicCode, err)
		} else {
			detail.QRCode = "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrBytes)
		}
	}

	return utils.SuccessResponse(c, 200, detail)
}

// GetMyOrders trả đơn của khách đang đăng nhập
func GetMyOrders(c *fiber.Ctx) error {
	customer, ok := c.Locals("customer").(*model.Customer)
	if !ok || customer == nil {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Vui lòng đăng nhập", nil)
	}

	var orders []model.Order
	if err := database.DB.
		Preload("Tickets").
		Preload("Tickets.Seat").
		Preload("Tickets.Showtime").
		Preload("Tickets.Showtime.Movie").
		Where("customer_id = ?", customer.ID).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Lỗi tải đơn hàng", err)
	}

	response := []fiber.Map{}
	for _, order := range orders {
		seats := []string{}
		movieTitle := ""
		for _, t := range order.Tickets {
			seats = append(seats, fmt.Sprintf("%s%d", t.Seat.Row, t.Seat.Number))
			movieTitle = t.Showtime.Movie.Title
		}
		response = append(response, fiber.Map{
			"orderCode":   order.PublicCode,
			"status":      order.Status,
			"movieTitle":  movieTitle,
			"seats":       seats,
			"finalAmount": order.FinalAmount,
			"createdAt":   order.CreatedAt,
		})
	}

	return utils.SuccessResponse(c, fiber.StatusOK, response)
}

// GetOrders liệt kê đơn cho nhân viên, lọc theo trạng thái / khoảng ngày
func GetOrders(c *fiber.Ctx) error {
	_, _, isSeller := helper.GetInfoAccountFromToken(c)
	if !isSeller {
		return utils.ErrorResponse(c, fiber.StatusForbidden, "Không có quyền xem danh sách đơn", nil)
	}

	var filter model.FilterOrderInput
	if err := c.QueryParser(&filter); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Tham số lọc không hợp lệ", err)
	}

	query := database.DB.Model(&model.Order{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartDate != "" {
		if start, err := time.Parse("2006-01-02", filter.StartDate); err == nil {
			query = query.Where("created_at >= ?", start)
		}
	}
	if filter.EndDate != "" {
		if end, err := time.Parse("2006-01-02", filter.EndDate); err == nil {
			query = query.Where("created_at < ?", end.AddDate(0, 0, 1))
		}
	}

	var total int64
	query.Count(&total)

	var orders []model.Order
	if err := utils.ApplyPagination(query, filter.Limit, filter.Page).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return utils.ErrorResponse(c, 500, "Lỗi tải danh sách đơn", err)
	}

	return utils.SuccessResponse(c, 200, model.ResponseCustom{
		Rows:       orders,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: total,
	})
}

func distinctShowtimes(tickets []model.TicketRequest) []uint {
	seen := make(map[uint]bool)
	var ids []uint
	for _, t := range tickets {
		if !seen[t.ShowtimeId] {
			seen[t.ShowtimeId] = true
			ids = append(ids, t.ShowtimeId)
		}
	}
	return ids
}

func loadOrderETickets(orderId uint) map[uint]model.ETicket {
	var etickets []model.ETicket
	database.DB.
		Joins("JOIN order_tickets ON order_tickets.id = e_tickets.order_ticket_id").
		Where("order_tickets.order_id = ?", orderId).
		Find(&etickets)

	result := make(map[uint]model.ETicket, len(etickets))
	for _, et := range etickets {
		result[et.OrderTicketId] = et
	}
	return result
}

func sendETicketEmail(order *model.Order, etickets []model.ETicket) {
	seats := make([]string, 0, len(order.Tickets))
	movieTitle := ""
	showtimeLabel := ""
	for _, t := range order.Tickets {
		seats = append(seats, fmt.Sprintf("%s%d", t.Seat.Row, t.Seat.Number))
	}
	if len(order.Tickets) > 0 {
		st := order.Tickets[0].Showtime
		movieTitle = st.Movie.Title
		showtimeLabel = st.StartTime.Format("15:04 - 02/01/2006")
	}

	codes := make([]string, 0, len(etickets))
	for _, et := range etickets {
		codes = append(codes, et.TicketCode)
	}

	utils.SendETicketEmail(order.Email, utils.ETicketEmailData{
		OrderCode:     order.PublicCode,
		MovieName:     movieTitle,
		Showtime:      showtimeLabel,
		Seats:         strings.Join(seats, ", "),
		TicketCodes:   codes,
		TotalAmount:   order.TotalAmount,
		FinalAmount:   order.FinalAmount,
		PaymentMethod: order.PaymentMethod,
		DetailLink:    fmt.Sprintf("%s/don-hang/%s", appURL(), order.PublicCode),
	})
}
