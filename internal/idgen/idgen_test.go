package idgen

import (
	"strings"
	"testing"
)

func TestNew_PrefixAndUniqueness(t *testing.T) {
	a := New("market")
	b := New("market")

	if !strings.HasPrefix(a, "market_") {
		t.Errorf("expected market_ prefix, got %q", a)
	}
	if a == b {
		t.Error("expected distinct identifiers per call")
	}
}

func TestHelpers_Prefixes(t *testing.T) {
	tests := []struct {
		id     string
		prefix string
	}{
		{Market(), "market"},
		{Product(), "prod"},
		{Listing(), "listing"},
	}
	for _, tc := range tests {
		if !IsGenerated(tc.id, tc.prefix) {
			t.Errorf("expected %q to carry prefix %q", tc.id, tc.prefix)
		}
	}
}

func TestStallNumber_Format(t *testing.T) {
	tests := []struct {
		seq  int64
		want string
	}{
		{1, "S-001"},
		{42, "S-042"},
		{999, "S-999"},
		{1000, "S-1000"},
	}
	for _, tc := range tests {
		if got := StallNumber(tc.seq); got != tc.want {
			t.Errorf("StallNumber(%d) = %q, want %q", tc.seq, got, tc.want)
		}
	}
}

func TestIsGenerated_Negative(t *testing.T) {
	if IsGenerated("market-1", "market") {
		t.Error("dash-separated id must not count as generated")
	}
	if IsGenerated("prod_1", "market") {
		t.Error("wrong prefix must not count as generated")
	}
}
