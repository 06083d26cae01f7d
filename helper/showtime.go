package helper

import (
	"cinema_ticketing/database"
	"cinema_ticketing/model"
	"errors"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrShowtimeOverlap = errors.New("phòng đã có suất chiếu trùng khung giờ")

// BuildShowtime dựng suất chiếu mới: giờ kết thúc = giờ bắt đầu + thời
// lượng phim. Trùng khung giờ với suất đang hoạt động của cùng phòng thì
// từ chối ở tầng ứng dụng — schema không có ràng buộc chống chồng lấn
// (giữ nguyên hành vi dễ dãi của thiết kế gốc, chỉ siết ở handler).
func BuildShowtime(db *gorm.DB, input model.CreateShowtimeInput) (*model.Showtime, error) {
	var movie model.Movie
	if err := db.First(&movie, input.MovieId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("phim không tồn tại")
		}
		return nil, err
	}

	var room model.Room
	if err := db.Where("id = ? AND is_active = ?", input.RoomId, true).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("phòng chiếu không tồn tại hoặc đã khóa")
		}
		return nil, err
	}

	endTime := input.StartTime.Add(time.Duration(movie.Duration) * time.Minute)
	if !endTime.After(input.StartTime) {
		return nil, errors.New("thời lượng phim không hợp lệ")
	}

	var overlapping int64
	if err := db.Model(&model.Showtime{}).
		Where("room_id = ? AND is_active = ?", input.RoomId, true).
		Where("start_time < ? AND end_time > ?", endTime, input.StartTime).
		Count(&overlapping).Error; err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, ErrShowtimeOverlap
	}

	showtime := model.Showtime{
		PublicCode: "SHW-" + uuid.New().String()[:8],
		StartTime:  input.StartTime,
		EndTime:    endTime,
		Price:      input.Price,
		IsActive:   true,
		MovieId:    input.MovieId,
		RoomId:     input.RoomId,
	}
	if err := db.Create(&showtime).Error; err != nil {
		return nil, err
	}

	return &showtime, nil
}

var showtimeScheduler gocron.Scheduler

// DeactivateEndedShowtimes khóa bán vé các suất đã chiếu xong
func DeactivateEndedShowtimes() {
	now := time.Now()
	result := database.DB.Model(&model.Showtime{}).
		Where("is_active = ? AND end_time < ?", true, now).
		Update("is_active", false)

	if result.Error != nil {
		log.Printf("Lỗi khóa suất chiếu đã kết thúc: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Đã khóa %d suất chiếu đã kết thúc", result.RowsAffected)
	}
}

func StartShowtimeStatusScheduler() {
	s, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal(err)
	}

	showtimeScheduler = s

	_, err = s.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(DeactivateEndedShowtimes),
	)
	if err != nil {
		log.Fatal(err)
	}

	s.Start()
	log.Println("Scheduler trạng thái suất chiếu đã khởi động (mỗi 5 phút)")
}

func StopShowtimeStatusScheduler() {
	if showtimeScheduler != nil {
		_ = showtimeScheduler.Shutdown()
		log.Println("Scheduler trạng thái suất chiếu đã dừng")
	}
}
