package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// ETicketEmailData dữ liệu cho template email vé điện tử
type ETicketEmailData struct {
	OrderCode     string
	MovieName     string
	Showtime      string
	Seats         string
	TicketCodes   []string
	TotalAmount   float64
	FinalAmount   float64
	PaymentMethod string
	DetailLink    string
}

var eticketTmpl = template.Must(template.New("eticket").Parse(`
<h2>Vé của bạn đã được xác nhận!</h2>
<p>Mã đơn: <b>{{.OrderCode}}</b></p>
<p>Phim: {{.MovieName}} — Suất: {{.Showtime}}</p>
<p>Ghế: {{.Seats}}</p>
<p>Mã vé: {{range .TicketCodes}}<code>{{.}}</code> {{end}}</p>
<p>Thanh toán: {{.PaymentMethod}} — Tổng: {{.FinalAmount}}đ</p>
<p>Vui lòng đưa mã QR dưới đây tại quầy soát vé:</p>
<img src="cid:qr_checkin_code" alt="QR check-in" />
<p><a href="{{.DetailLink}}">Xem chi tiết đơn hàng</a></p>
`))

// SendETicketEmail gửi email vé điện tử kèm QR check-in (gọi async từ handler)
func SendETicketEmail(to string, data ETicketEmailData) {
	var htmlBody bytes.Buffer
	if err := eticketTmpl.Execute(&htmlBody, data); err != nil {
		log.Printf("Lỗi render template email vé: %v", err)
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_FROM"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Vé xem phim - Mã đơn: %s", data.OrderCode))
	m.SetBody("text/html", htmlBody.String())

	// Nhúng QR của đơn hàng inline với CID
	qrBytes, err := GenerateQRCode(data.OrderCode, 400)
	if err != nil {
		log.Printf("Lỗi tạo QR cho đơn %s: %v", data.OrderCode, err)
	} else {
		m.Embed("qr_checkin.png",
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(qrBytes)
				return err
			}),
			gomail.SetHeader(map[string][]string{
				"Content-Type":        {"image/png"},
				"Content-ID":          {"<qr_checkin_code>"},
				"Content-Disposition": {"inline"},
			}),
		)
	}

	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	d := gomail.NewDialer(os.Getenv("SMTP_HOST"), port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
	if err := d.DialAndSend(m); err != nil {
		log.Printf("Lỗi gửi email vé cho %s: %v", to, err)
	} else {
		log.Printf("Email vé + QR đã gửi đến %s", to)
	}
}
