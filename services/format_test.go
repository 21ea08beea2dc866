package services

import "testing"

func TestFormatAED_Values(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect string
	}{
		{"zero", 0, "AED 0.00"},
		{"small integer", 5, "AED 5.00"},
		{"with decimals", 42.50, "AED 42.50"},
		{"hundreds", 999.99, "AED 999.99"},
		{"thousands", 1234.56, "AED 1,234.56"},
		{"ten thousands", 12345.00, "AED 12,345.00"},
		{"hundred thousands", 123456.78, "AED 123,456.78"},
		{"millions", 1234567.89, "AED 1,234,567.89"},
		{"tens of millions", 12345678.90, "AED 12,345,678.90"},
		{"negative small", -100.00, "-AED 100.00"},
		{"negative millions", -2500000.50, "-AED 2,500,000.50"},
		{"one dirham", 1, "AED 1.00"},
		{"exact thousands boundary", 1000, "AED 1,000.00"},
		{"exact millions boundary", 1000000, "AED 1,000,000.00"},
		{"rounding up", 99.999, "AED 100.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatAED(tt.input)
			if got != tt.expect {
				t.Errorf("FormatAED(%v) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestApplyThousandsGrouping(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"single digit", "5", "5"},
		{"three digits", "999", "999"},
		{"four digits", "1234", "1,234"},
		{"six digits", "123456", "123,456"},
		{"seven digits", "1234567", "1,234,567"},
		{"ten digits", "1234567890", "1,234,567,890"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyThousandsGrouping(tt.input)
			if got != tt.expect {
				t.Errorf("applyThousandsGrouping(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}
