package helper

import (
	"errors"
	"fmt"
	"strings"
)

// Lỗi nghiệp vụ của luồng đặt vé. Handler ánh xạ sang mã HTTP:
// xung đột ghế / chuyển trạng thái sai → 409, lỗi dữ liệu khách → 400,
// hết hạn → 410, không tìm thấy → 404.
var (
	ErrEmptyOrder         = errors.New("đơn hàng không có ghế nào")
	ErrShowtimeNotFound   = errors.New("suất chiếu không tồn tại")
	ErrOrderNotFound      = errors.New("đơn hàng không tồn tại")
	ErrOrderExpired       = errors.New("đơn hàng đã hết hạn giữ ghế")
	ErrInvalidVoucher     = errors.New("voucher không hợp lệ hoặc đã dùng")
	ErrInsufficientPoints = errors.New("số dư điểm không đủ")
	ErrTicketNotFound     = errors.New("mã vé không tồn tại")
	ErrTicketAlreadyUsed  = errors.New("vé đã được check-in trước đó")
	ErrShowtimeInactive   = errors.New("suất chiếu đã khóa bán vé")
	ErrProductNotFound    = errors.New("sản phẩm không tồn tại hoặc ngừng bán")
)

// SeatUnavailableError: ghế đã bị đơn khác giữ hoặc bán.
// Client nên tải lại sơ đồ ghế rồi thử lại.
type SeatUnavailableError struct {
	SeatCodes []string
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("ghế %s đã được giữ hoặc bán", strings.Join(e.SeatCodes, ", "))
}

// InvalidSeatError: ghế không thuộc phòng của suất chiếu, đã khóa,
// hoặc bị yêu cầu trùng trong cùng một đơn.
type InvalidSeatError struct {
	SeatId uint
	Reason string
}

func (e *InvalidSeatError) Error() string {
	return fmt.Sprintf("ghế %d không hợp lệ: %s", e.SeatId, e.Reason)
}

// InvalidTransitionError: chuyển trạng thái đơn không có trong bảng chuyển.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("không thể chuyển đơn từ %s sang %s", e.From, e.To)
}
