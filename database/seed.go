package database

import (
	"cinema_ticketing/constants"
	"cinema_ticketing/model"
	"fmt"
	"log"
	"time"

	"github.com/gosimple/slug"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedData khởi tạo dữ liệu demo cho môi trường mới. Đã có loại ghế thì
// coi như DB đã seed, bỏ qua toàn bộ.
func SeedData(db *gorm.DB) {
	var count int64
	db.Model(&model.SeatType{}).Count(&count)
	if count > 0 {
		return
	}

	seatTypes := []model.SeatType{
		{Code: "NORMAL", Name: "Ghế thường", Surcharge: 0},
		{Code: "VIP", Name: "Ghế VIP", Surcharge: 20000},
		{Code: "COUPLE", Name: "Ghế đôi", Surcharge: 40000},
	}
	if err := db.Create(&seatTypes).Error; err != nil {
		log.Printf("Lỗi seed loại ghế: %v", err)
		return
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
	admin := model.Account{
		Username: "admin",
		Password: string(hashed),
		Role:     constants.ROLE_ADMIN,
		Active:   true,
	}
	db.Create(&admin)

	cinemaName := "Rạp Trung Tâm"
	cinema := model.Cinema{
		Name:     cinemaName,
		Slug:     slug.Make(cinemaName),
		Address:  "123 Lê Lợi, Quận 1, TP.HCM",
		IsActive: true,
	}
	db.Create(&cinema)

	room := model.Room{Name: "Phòng 1", CinemaId: cinema.ID, IsActive: true}
	db.Create(&room)

	// Sơ đồ ghế mẫu: A-C thường, D VIP, E đôi
	vipId := seatTypes[1].ID
	coupleId := seatTypes[2].ID
	rowTypes := map[string]*uint{
		"A": nil, "B": nil, "C": nil,
		"D": &vipId,
		"E": &coupleId,
	}
	var seats []model.Seat
	for _, row := range []string{"A", "B", "C", "D", "E"} {
		for number := 1; number <= 10; number++ {
			seats = append(seats, model.Seat{
				Row:        row,
				Number:     number,
				SeatCode:   fmt.Sprintf("%s%d", row, number),
				RoomId:     room.ID,
				SeatTypeId: rowTypes[row],
				IsActive:   true,
			})
		}
	}
	db.Create(&seats)

	movieTitle := "Mắt Biếc"
	movie := model.Movie{
		Title:       movieTitle,
		Slug:        slug.Make(movieTitle),
		Duration:    117,
		StatusMovie: "NOW_SHOWING",
	}
	db.Create(&movie)

	products := []model.Product{
		{Name: "Bắp rang bơ (lớn)", Price: 55000, IsActive: true},
		{Name: "Nước ngọt (vừa)", Price: 30000, IsActive: true},
		{Name: "Combo bắp nước", Price: 75000, IsActive: true},
	}
	db.Create(&products)

	now := time.Now()
	voucher := model.Voucher{
		Code:          "WELCOME10",
		Name:          "Giảm 10% cho khách mới",
		DiscountType:  "percentage",
		DiscountValue: 10,
		StartDate:     now.AddDate(0, -1, 0),
		EndDate:       now.AddDate(0, 6, 0),
		Status:        "active",
	}
	db.Create(&voucher)

	customerHashed, _ := bcrypt.GenerateFromPassword([]byte("khach123"), 10)
	customer := model.Customer{
		Email:    "khach@example.com",
		Phone:    "0901234567",
		Password: string(customerHashed),
		UserName: "khachdemo",
		IsActive: true,
	}
	db.Create(&customer)
	db.Create(&model.UserVoucher{CustomerId: customer.ID, VoucherId: voucher.ID})
	db.Create(&model.MemberPoints{CustomerId: customer.ID, Balance: 100})
	db.Create(&model.PointHistory{CustomerId: customer.ID, Delta: 100, Reason: "EARN"})

	log.Println("Đã seed dữ liệu demo")
}
