package money

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"₹2,800/quintal", 2800},
		{"100", 100},
		{"Rs. 45 per kg", 45},
		{"₹40-60/kg", 40},
		{"12.50", 12.5},
		{"₹1,23,456", 123456},
		{"free", 0},
		{"", 0},
		{"N/A", 0},
		{"price: 0", 0},
	}
	for _, tt := range tests {
		if got := ParseAmount(tt.in); got != tt.want {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSum(t *testing.T) {
	prices := []string{"₹2,800/quintal", "100", "garbage"}
	if got, want := Sum(prices), 2900.0; got != want {
		t.Errorf("Sum = %v, want %v", got, want)
	}
	if got := Sum(nil); got != 0 {
		t.Errorf("Sum(nil) = %v, want 0", got)
	}
}
