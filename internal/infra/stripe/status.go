package stripe

import "strings"

// Stripe-ish normalization for charge.dispute.closed statuses.
func NormalizeDisputeStatus(s string) string {
	switch strings.TrimSpace(s) {
	case "won", "warning_closed":
		return "won"
	case "lost", "charge_refunded":
		return "lost"
	default:
		return strings.TrimSpace(s)
	}
}
