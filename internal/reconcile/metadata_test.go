package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetadata(t *testing.T) {
	m := Metadata{CourseID: 7, UserID: 42, CouponID: 3, DiscountAmount: 12.5, OriginalPrice: 89.99}

	got, err := ParseMetadata(m.Encode())
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestParseMetadataWithoutCoupon(t *testing.T) {
	m := Metadata{CourseID: 7, UserID: 42, OriginalPrice: 20}
	encoded := m.Encode()
	assert.NotContains(t, encoded, "coupon_id")

	got, err := ParseMetadata(encoded)
	require.NoError(t, err)
	assert.Zero(t, got.CouponID)
}

func TestParseMetadataRejectsMissingIdentity(t *testing.T) {
	_, err := ParseMetadata(map[string]string{"user_id": "42"})
	assert.Error(t, err)

	_, err = ParseMetadata(map[string]string{"course_id": "7"})
	assert.Error(t, err)

	_, err = ParseMetadata(map[string]string{"course_id": "abc", "user_id": "42"})
	assert.Error(t, err)
}
