package database

import (
	"cinema_ticketing/config"
	"cinema_ticketing/model"
	"fmt"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	var err error
	p := config.Config("DB_PORT")
	port, err := strconv.ParseUint(p, 10, 32)

	if err != nil {
		panic("failed to parse database port")
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", config.Config("DB_HOST"), port, config.Config("DB_USER"), config.Config("DB_PASSWORD"), config.Config("DB_NAME"))
	// TranslateError để vi phạm unique index trả về gorm.ErrDuplicatedKey —
	// logic giữ ghế dựa vào lỗi này làm trọng tài chống bán trùng
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})

	if err != nil {
		panic("failed to connect database")
	}

	fmt.Println("Connection Opened to Database")
	if err := Migrate(DB); err != nil {
		panic(err)
	}
	fmt.Println("Database Migrated")

	// khởi tạo dữ liệu
	SeedData(DB)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Account{},
		&model.Customer{},
		&model.Cinema{},
		&model.Room{},
		&model.Movie{},
		&model.SeatType{},
		&model.Seat{},
		&model.Showtime{},
		&model.Order{},
		&model.OrderTicket{},
		&model.ETicket{},
		&model.Product{},
		&model.OrderProduct{},
		&model.Voucher{},
		&model.UserVoucher{},
		&model.MemberPoints{},
		&model.PointHistory{},
	)
}
