package helper

import (
	"cinema_ticketing/database"
	"cinema_ticketing/model"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB mở sqlite in-memory với cùng cấu hình TranslateError như
// production — logic giữ ghế dựa vào gorm.ErrDuplicatedKey nên test phải
// đi qua đúng con đường dịch lỗi đó.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

// fixture dựng một rạp tối thiểu: phòng 2 ghế thường (A1, A2) + 1 ghế
// VIP (B1, phụ thu 20000), một suất chiếu giá cơ bản 75000 và một khách
// có 100 điểm + voucher WELCOME10 chưa dùng.
type fixture struct {
	db       *gorm.DB
	showtime model.Showtime
	seatA1   model.Seat
	seatA2   model.Seat
	seatB1   model.Seat
	customer model.Customer
	voucher  model.Voucher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	vip := model.SeatType{Code: "VIP", Name: "Ghế VIP", Surcharge: 20000}
	require.NoError(t, db.Create(&vip).Error)

	cinema := model.Cinema{Name: "Rạp Test", Slug: "rap-test", IsActive: true}
	require.NoError(t, db.Create(&cinema).Error)

	room := model.Room{Name: "Phòng 1", CinemaId: cinema.ID, IsActive: true}
	require.NoError(t, db.Create(&room).Error)

	seatA1 := model.Seat{Row: "A", Number: 1, SeatCode: "A1", RoomId: room.ID, IsActive: true}
	seatA2 := model.Seat{Row: "A", Number: 2, SeatCode: "A2", RoomId: room.ID, IsActive: true}
	seatB1 := model.Seat{Row: "B", Number: 1, SeatCode: "B1", RoomId: room.ID, SeatTypeId: &vip.ID, IsActive: true}
	require.NoError(t, db.Create(&seatA1).Error)
	require.NoError(t, db.Create(&seatA2).Error)
	require.NoError(t, db.Create(&seatB1).Error)

	movie := model.Movie{Title: "Phim Test", Slug: "phim-test", Duration: 120}
	require.NoError(t, db.Create(&movie).Error)

	now := time.Now()
	showtime := model.Showtime{
		PublicCode: "SHW-test0001",
		StartTime:  now.Add(2 * time.Hour),
		EndTime:    now.Add(4 * time.Hour),
		Price:      75000,
		IsActive:   true,
		MovieId:    movie.ID,
		RoomId:     room.ID,
	}
	require.NoError(t, db.Create(&showtime).Error)

	customer := model.Customer{Email: "test@example.com", Phone: "0900000000", Password: "x", UserName: "test", IsActive: true}
	require.NoError(t, db.Create(&customer).Error)

	voucher := model.Voucher{
		Code:          "WELCOME10",
		DiscountType:  "percentage",
		DiscountValue: 10,
		StartDate:     now.AddDate(0, -1, 0),
		EndDate:       now.AddDate(0, 1, 0),
		Status:        "active",
	}
	require.NoError(t, db.Create(&voucher).Error)
	require.NoError(t, db.Create(&model.UserVoucher{CustomerId: customer.ID, VoucherId: voucher.ID}).Error)
	require.NoError(t, db.Create(&model.MemberPoints{CustomerId: customer.ID, Balance: 100}).Error)

	return &fixture{
		db:       db,
		showtime: showtime,
		seatA1:   seatA1,
		seatA2:   seatA2,
		seatB1:   seatB1,
		customer: customer,
		voucher:  voucher,
	}
}

func (f *fixture) ticket(seat model.Seat) model.TicketRequest {
	return model.TicketRequest{ShowtimeId: f.showtime.ID, SeatId: seat.ID}
}

// lapse ép đơn quá hạn giữ ghế mà không chờ đồng hồ thật
func (f *fixture) lapse(t *testing.T, orderId uint) {
	t.Helper()
	past := time.Now().Add(-time.Minute)
	require.NoError(t, f.db.Model(&model.Order{}).
		Where("id = ?", orderId).
		Update("expire_at", past).Error)
}

func (f *fixture) seatStatus(t *testing.T, seatId uint) string {
	t.Helper()
	_, seats, err := ResolveShowtimeSeats(f.db, f.showtime.ID)
	require.NoError(t, err)
	for _, s := range seats {
		if s.SeatId == seatId {
			return s.Status
		}
	}
	t.Fatalf("ghế %d không có trong sơ đồ", seatId)
	return ""
}

func (f *fixture) countTickets(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&model.OrderTicket{}).Count(&count).Error)
	return count
}

func (f *fixture) pointBalance(t *testing.T) int64 {
	t.Helper()
	var points model.MemberPoints
	require.NoError(t, f.db.Where("customer_id = ?", f.customer.ID).First(&points).Error)
	return points.Balance
}
