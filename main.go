package main

import (
	"cinema_ticketing/database"
	"cinema_ticketing/handler"
	"cinema_ticketing/helper"
	"cinema_ticketing/router"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	app := fiber.New()

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	database.ConnectDB()

	// Worker nền: hết hạn đơn giữ ghế + khóa suất đã chiếu xong
	handler.StartExpireOrderWorker()
	helper.StartShowtimeStatusScheduler()

	router.SetupRoutes(app)

	// Tắt êm: dừng worker trước khi đóng server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		handler.StopExpireOrderWorker()
		helper.StopShowtimeStatusScheduler()
		_ = app.Shutdown()
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8002"
	}

	log.Fatal(app.Listen(":" + port))
}
