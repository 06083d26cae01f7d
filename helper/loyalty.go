package helper

import (
	"cinema_ticketing/constants"
	"cinema_ticketing/model"
	"errors"
	"time"

	"gorm.io/gorm"
)

// applyLoyalty trừ voucher + điểm cho đơn trong CÙNG transaction với việc
// giữ ghế: transaction rollback thì sổ voucher/điểm cũng rollback theo,
// không bao giờ mất điểm cho một đơn không tồn tại. Hai khoản giảm độc
// lập và giao hoán, cộng dồn vào discount.
func applyLoyalty(tx *gorm.DB, order *model.Order, customerId *uint, input model.CreateOrderInput, subtotal float64) (float64, error) {
	discount := float64(0)

	if input.VoucherCode != "" {
		amount, err := redeemVoucher(tx, order, customerId, input.VoucherCode, subtotal)
		if err != nil {
			return 0, err
		}
		discount += amount
	}

	if input.PointsToRedeem > 0 {
		amount, err := redeemPoints(tx, order, customerId, input.PointsToRedeem)
		if err != nil {
			return 0, err
		}
		discount += amount
	}

	return discount, nil
}

func redeemVoucher(tx *gorm.DB, order *model.Order, customerId *uint, code string, subtotal float64) (float64, error) {
	// Khách vãng lai không có ví voucher
	if customerId == nil {
		return 0, ErrInvalidVoucher
	}

	now := time.Now()
	var voucher model.Voucher
	err := tx.
		Where("code = ? AND status = ? AND start_date <= ? AND end_date >= ?", code, "active", now, now).
		First(&voucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrInvalidVoucher
		}
		return 0, err
	}

	var userVoucher model.UserVoucher
	err = tx.
		Where("customer_id = ? AND voucher_id = ? AND used_at IS NULL", *customerId, voucher.ID).
		First(&userVoucher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrInvalidVoucher
		}
		return 0, err
	}

	// Update có điều kiện: hai đơn cùng tiêu một voucher thì chỉ một thắng
	res := tx.Model(&model.UserVoucher{}).
		Where("id = ? AND used_at IS NULL", userVoucher.ID).
		Updates(map[string]any{
			"used_at":  now,
			"order_id": order.ID,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrInvalidVoucher
	}

	switch voucher.DiscountType {
	case "percentage":
		return subtotal * voucher.DiscountValue / 100, nil
	default: // fixed
		return voucher.DiscountValue, nil
	}
}

func redeemPoints(tx *gorm.DB, order *model.Order, customerId *uint, points int64) (float64, error) {
	if customerId == nil {
		return 0, ErrInsufficientPoints
	}

	// Trừ số dư bằng update có điều kiện thay vì đọc-rồi-ghi
	res := tx.Model(&model.MemberPoints{}).
		Where("customer_id = ? AND balance >= ?", *customerId, points).
		Update("balance", gorm.Expr("balance - ?", points))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrInsufficientPoints
	}

	history := model.PointHistory{
		CustomerId: *customerId,
		OrderId:    &order.ID,
		Delta:      -points,
		Reason:     "REDEEM",
	}
	if err := tx.Create(&history).Error; err != nil {
		return 0, err
	}

	return float64(points) * constants.POINT_VALUE_VND, nil
}

// releaseLoyalty hoàn voucher + điểm khi đơn bị hủy hoặc hết hạn
func releaseLoyalty(tx *gorm.DB, orderId uint) error {
	if err := tx.Model(&model.UserVoucher{}).
		Where("order_id = ?", orderId).
		Updates(map[string]any{
			"used_at":  nil,
			"order_id": nil,
		}).Error; err != nil {
		return err
	}

	var redeems []model.PointHistory
	if err := tx.
		Where("order_id = ? AND reason = ?", orderId, "REDEEM").
		Find(&redeems).Error; err != nil {
		return err
	}

	for _, redeem := range redeems {
		refund := -redeem.Delta
		if refund <= 0 {
			continue
		}
		if err := tx.Model(&model.MemberPoints{}).
			Where("customer_id = ?", redeem.CustomerId).
			Update("balance", gorm.Expr("balance + ?", refund)).Error; err != nil {
			return err
		}
		history := model.PointHistory{
			CustomerId: redeem.CustomerId,
			OrderId:    &orderId,
			Delta:      refund,
			Reason:     "REFUND",
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}
	}

	return nil
}
