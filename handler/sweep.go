package handler

import (
	"cinema_ticketing/database"
	"cinema_ticketing/helper"
	"log"

	"github.com/robfig/cron/v3"
)

var expireCron *cron.Cron

// StartExpireOrderWorker chạy quét đơn PENDING quá hạn mỗi phút.
// SkipIfStillRunning: lượt quét trước chưa xong thì bỏ qua lượt sau,
// không chồng hai lượt quét lên nhau.
func StartExpireOrderWorker() {
	expireCron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	_, err := expireCron.AddFunc("* * * * *", func() {
		expired, showtimeIds, err := helper.ExpireOrdersSweep(database.DB)
		if err != nil {
			log.Printf("Lỗi quét đơn hết hạn: %v", err)
			return
		}
		if expired > 0 {
			log.Printf("Đã hết hạn %d đơn giữ ghế", expired)
			for _, showtimeId := range showtimeIds {
				PublishSeatUpdate(showtimeId)
			}
		}
	})
	if err != nil {
		log.Fatal(err)
	}

	expireCron.Start()
	log.Println("Worker hết hạn đơn giữ ghế đã khởi động (mỗi phút)")
}

func StopExpireOrderWorker() {
	if expireCron != nil {
		expireCron.Stop()
		log.Println("Worker hết hạn đơn giữ ghế đã dừng")
	}
}
