package reconcile

import (
	"fmt"
	"strconv"
)

// Metadata is the transaction context attached to a checkout session and echoed
// back on completion. It is captured once at session creation and trusted
// verbatim afterwards; course prices may have changed in between.
type Metadata struct {
	CourseID       uint
	UserID         uint
	CouponID       uint // zero when no coupon was applied
	DiscountAmount float64
	OriginalPrice  float64
}

// Encode renders the metadata for the gateway's string map.
func (m Metadata) Encode() map[string]string {
	md := map[string]string{
		"course_id":       fmt.Sprint(m.CourseID),
		"user_id":         fmt.Sprint(m.UserID),
		"discount_amount": strconv.FormatFloat(m.DiscountAmount, 'f', -1, 64),
		"original_price":  strconv.FormatFloat(m.OriginalPrice, 'f', -1, 64),
	}
	if m.CouponID != 0 {
		md["coupon_id"] = fmt.Sprint(m.CouponID)
	}
	return md
}

// ParseMetadata reads the session metadata back. course_id and user_id are
// required; the rest default to zero.
func ParseMetadata(md map[string]string) (Metadata, error) {
	var m Metadata

	courseID, err := strconv.ParseUint(md["course_id"], 10, 64)
	if err != nil {
		return Metadata{}, fmt.Errorf("metadata missing or invalid course_id: %w", err)
	}
	userID, err := strconv.ParseUint(md["user_id"], 10, 64)
	if err != nil {
		return Metadata{}, fmt.Errorf("metadata missing or invalid user_id: %w", err)
	}
	m.CourseID = uint(courseID)
	m.UserID = uint(userID)

	if raw := md["coupon_id"]; raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Metadata{}, fmt.Errorf("invalid coupon_id %q: %w", raw, err)
		}
		m.CouponID = uint(id)
	}
	if raw := md["discount_amount"]; raw != "" {
		m.DiscountAmount, _ = strconv.ParseFloat(raw, 64)
	}
	if raw := md["original_price"]; raw != "" {
		m.OriginalPrice, _ = strconv.ParseFloat(raw, 64)
	}
	return m, nil
}
