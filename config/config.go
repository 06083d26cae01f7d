package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config đọc biến môi trường từ .env (nếu có) hoặc từ env hệ thống
func Config(key string) string {
	if err := godotenv.Load(".env"); err != nil {
		// chạy trong container thường không có .env → dùng env hệ thống
	}
	return os.Getenv(key)
}

func ConfigInt(key string, fallback int) int {
	v := Config(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Giá trị %s=%q không hợp lệ, dùng mặc định %d", key, v, fallback)
		return fallback
	}
	return n
}
