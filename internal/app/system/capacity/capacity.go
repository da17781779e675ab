// internal/app/system/capacity/capacity.go

// Package capacity buckets stock levels against assumed storage capacity
// into the three-level status shown on the inventory dashboards.
package capacity

// Status is the display bucket for a stock-to-capacity ratio.
type Status string

const (
	Healthy  Status = "healthy"
	Warning  Status = "warning"
	Critical Status = "critical"
)

// Fixed thresholds: above 50% is healthy, 20% through 50% is warning,
// below 20% is critical. Both written bounds land in the warning bucket.
const (
	healthyAbove  = 0.5
	criticalBelow = 0.2
)

// Bucket classifies a stock/capacity ratio.
func Bucket(ratio float64) Status {
	switch {
	case ratio > healthyAbove:
		return Healthy
	case ratio < criticalBelow:
		return Critical
	default:
		return Warning
	}
}

// BucketQty classifies a raw quantity against a capacity. A zero or
// negative capacity cannot be ratioed and reports critical.
func BucketQty(qty, cap float64) Status {
	if cap <= 0 {
		return Critical
	}
	return Bucket(qty / cap)
}
