// Package cache holds short-lived request-scoped state in Redis. Its only
// client today is the applied-coupon selection that bridges the apply-coupon
// call and checkout-session creation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("key not found in cache")

var client *redis.Client

// Init connects the package-level client. Call once at startup.
func Init(redisURL string) error {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return err
	}
	c := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		return err
	}

	client = c
	return nil
}

// AppliedCoupon is the transient coupon selection for one (user, course) pair.
type AppliedCoupon struct {
	CouponID       uint    `json:"coupon_id"`
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discount_amount"`
	NewPrice       float64 `json:"new_price"`
}

const selectionTTL = 2 * time.Hour

func selectionKey(userID, courseID uint) string {
	return fmt.Sprintf("coupon:selection:%d:%d", userID, courseID)
}

func SetAppliedCoupon(ctx context.Context, userID, courseID uint, sel AppliedCoupon) error {
	if client == nil {
		return errors.New("cache not initialized")
	}
	raw, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	return client.Set(ctx, selectionKey(userID, courseID), raw, selectionTTL).Err()
}

func GetAppliedCoupon(ctx context.Context, userID, courseID uint) (AppliedCoupon, error) {
	var sel AppliedCoupon
	if client == nil {
		return sel, ErrNotFound
	}
	raw, err := client.Get(ctx, selectionKey(userID, courseID)).Result()
	if errors.Is(err, redis.Nil) {
		return sel, ErrNotFound
	}
	if err != nil {
		return sel, err
	}
	if err := json.Unmarshal([]byte(raw), &sel); err != nil {
		return sel, err
	}
	return sel, nil
}

// ClearAppliedCoupon drops the selection once it is consumed or dismissed.
func ClearAppliedCoupon(ctx context.Context, userID, courseID uint) {
	if client == nil {
		return
	}
	client.Del(ctx, selectionKey(userID, courseID))
}
