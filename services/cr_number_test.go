package services

import (
	"regexp"
	"testing"
	"time"
)

func TestGenerateCRNumber_Format(t *testing.T) {
	now := time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)
	got := GenerateCRNumber(now)

	pattern := regexp.MustCompile(`^CR-202608-[0-9A-F]{8}$`)
	if !pattern.MatchString(got) {
		t.Errorf("GenerateCRNumber = %q, want match for %s", got, pattern)
	}
}

func TestGenerateCRNumber_Unique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		num := GenerateCRNumber(now)
		if seen[num] {
			t.Fatalf("duplicate CR number generated: %s", num)
		}
		seen[num] = true
	}
}
