package handler

import (
	"cinema_ticketing/database"
	"cinema_ticketing/helper"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/redis/go-redis/v9"
)

var (
	redisClient = redis.NewClient(&redis.Options{Addr: redisAddr()})

	seatClients = make(map[uint]map[*websocket.Conn]bool)
	seatMu      sync.Mutex
)

func redisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return "localhost:6379"
}

// SeatWebsocket đẩy sơ đồ ghế realtime cho một suất chiếu. Client nhận
// ngay projection hiện tại khi connect, sau đó nhận lại projection mới
// mỗi khi có đơn giữ/trả ghế (fan-out qua Redis pub/sub để nhiều instance
// cùng phát). Luôn phát trạng thái DẪN XUẤT từ DB — không cache trạng
// thái ghế ở đâu cả.
func SeatWebsocket(c *websocket.Conn) {
	showtimeIdStr := c.Params("showtimeId")
	id64, err := strconv.ParseUint(showtimeIdStr, 10, 64)
	if err != nil {
		log.Printf("Invalid showtimeId: %s", showtimeIdStr)
		c.Close()
		return
	}
	showtimeId := uint(id64)

	seatMu.Lock()
	if seatClients[showtimeId] == nil {
		seatClients[showtimeId] = make(map[*websocket.Conn]bool)
	}
	seatClients[showtimeId][c] = true
	seatMu.Unlock()

	defer func() {
		seatMu.Lock()
		delete(seatClients[showtimeId], c)
		if len(seatClients[showtimeId]) == 0 {
			delete(seatClients, showtimeId)
		}
		seatMu.Unlock()
		c.Close()
	}()

	// Gửi ngay sơ đồ hiện tại cho client mới connect
	if _, seats, err := helper.ResolveShowtimeSeats(database.DB, showtimeId); err == nil {
		c.WriteJSON(groupSeatsByRow(seats))
	}

	pubsub := redisClient.Subscribe(
		context.Background(),
		fmt.Sprintf("showtime:%d", showtimeId),
	)
	defer pubsub.Close()

	channel := pubsub.Channel()
	for msg := range channel {
		payload := []byte(msg.Payload)

		seatMu.Lock()
		for conn := range seatClients[showtimeId] {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				conn.Close()
				delete(seatClients[showtimeId], conn)
			}
		}
		seatMu.Unlock()
	}
}

// PublishSeatUpdate dựng lại projection ghế của suất chiếu và phát lên
// kênh Redis tương ứng. Gọi sau mỗi thao tác làm thay đổi claim ghế.
func PublishSeatUpdate(showtimeId uint) {
	_, seats, err := helper.ResolveShowtimeSeats(database.DB, showtimeId)
	if err != nil {
		log.Printf("Lỗi dựng sơ đồ ghế để broadcast (showtime %d): %v", showtimeId, err)
		return
	}

	payload, err := json.Marshal(groupSeatsByRow(seats))
	if err != nil {
		return
	}

	if err := redisClient.Publish(
		context.Background(),
		fmt.Sprintf("showtime:%d", showtimeId),
		payload,
	).Err(); err != nil {
		log.Printf("Lỗi publish seat update (showtime %d): %v", showtimeId, err)
	}
}

func groupSeatsByRow(seats []helper.SeatAvailability) map[string][]helper.SeatAvailability {
	result := make(map[string][]helper.SeatAvailability)
	for _, s := range seats {
		result[s.Row] = append(result[s.Row], s)
	}
	return result
}
