package router

import (
	"cinema_ticketing/handler"
	"cinema_ticketing/middleware"
	"cinema_ticketing/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Đăng nhập
	auth := api.Group("/auth")
	auth.Post("/login", handler.Login)
	auth.Post("/customer/login", handler.LoginCustomer)
	auth.Post("/logout", handler.Logout)

	// Suất chiếu + sơ đồ ghế (public)
	showtimes := api.Group("/showtimes")
	showtimes.Get("/", handler.GetShowtimes)
	showtimes.Get("/:code", handler.GetShowtimeByCode)
	showtimes.Get("/:code/seats", handler.GetSeatsByShowtime)
	showtimes.Post("/", middleware.Protected(), validate.CreateShowtimeValidate, handler.CreateShowtime)
	showtimes.Delete("/:code", middleware.Protected(), handler.DeactivateShowtime)

	api.Get("/seat-types", handler.GetSeatTypes)

	// Đơn hàng: khách vãng lai cũng đặt được, có token thì gắn vào tài khoản
	orders := api.Group("/orders")
	orders.Get("/", middleware.Protected(), handler.GetOrders)
	orders.Post("/", middleware.OptionalJWT(), middleware.OptionalAuth(), validate.CreateOrderValidate, handler.CreateOrder)
	orders.Get("/:orderCode", handler.GetOrderDetail)
	orders.Post("/:orderCode/confirm", handler.ConfirmOrder)
	orders.Post("/:orderCode/cancel", handler.CancelOrder)
	orders.Post("/:orderCode/payment", handler.InitiatePayment)
	orders.Post("/:orderCode/paid", middleware.Protected(), handler.MarkOrderPaidPOS)

	api.Post("/payment/webhook", handler.PaymentWebhook)

	api.Get("/my/orders", middleware.OptionalJWT(), middleware.OptionalAuth(), handler.GetMyOrders)

	// Soát vé tại rạp (nhân viên)
	checkin := api.Group("/checkin", middleware.Protected())
	checkin.Post("/ticket", handler.CheckinTicket)
	checkin.Post("/order/:orderCode", handler.CheckinOrder)

	api.Get("/tickets/:ticketCode", middleware.Protected(), handler.GetTicketByCode)

	// Quản lý ghế (admin)
	api.Get("/rooms/:roomId/seats", middleware.Protected(), handler.GetSeatsByRoom)
	api.Post("/rooms/:roomId/seats/generate", middleware.Protected(), validate.GenerateSeatMapValidate, handler.GenerateSeatMap)
	api.Post("/seats", middleware.Protected(), validate.CreateSeatValidate, handler.CreateSeat)
	api.Delete("/seats/:id", middleware.Protected(), handler.RetireSeat)

	// Websocket sơ đồ ghế realtime
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/seats/:showtimeId", websocket.New(handler.SeatWebsocket))
}
