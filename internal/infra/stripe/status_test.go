package stripe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDisputeStatus(t *testing.T) {
	assert.Equal(t, "won", NormalizeDisputeStatus("won"))
	assert.Equal(t, "won", NormalizeDisputeStatus("warning_closed"))
	assert.Equal(t, "lost", NormalizeDisputeStatus("lost"))
	assert.Equal(t, "lost", NormalizeDisputeStatus("charge_refunded"))
	assert.Equal(t, "won", NormalizeDisputeStatus(" won "))
	assert.Equal(t, "needs_response", NormalizeDisputeStatus("needs_response"))
}
