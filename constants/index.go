package constants

const (
	ROLE_ADMIN   = "ADMIN"
	ROLE_MANAGER = "MANAGER"
	ROLE_SELLER  = "SELLER"
)

const (
	DATA_INPUT_IS_NOT_NUMBER = "Dữ liệu đầu vào không phải là số"
	RECORD_NOT_FOUND         = "Không tìm thấy dữ liệu"
)

// Mặc định giữ ghế 10 phút khi chưa cấu hình ORDER_HOLD_MINUTES
const DEFAULT_ORDER_HOLD_MINUTES = 10

// 1 điểm thành viên quy đổi 1000đ khi thanh toán
const POINT_VALUE_VND = 1000
