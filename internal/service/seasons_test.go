package service

import "testing"

func TestSeasonString(t *testing.T) {
	tests := []struct {
		year int
		want string
	}{
		{1976, "1976-77"},
		{1999, "1999-00"},
		{2009, "2009-10"},
		{2023, "2023-24"},
	}

	for _, tt := range tests {
		if got := seasonString(tt.year); got != tt.want {
			t.Errorf("seasonString(%d) = %q, want %q", tt.year, got, tt.want)
		}
	}
}

func TestSeasonStartYear(t *testing.T) {
	tests := []struct {
		season string
		want   int
	}{
		{"2023-24", 2023},
		{"1976-77", 1976},
		{"garbage", 0},
	}

	for _, tt := range tests {
		if got := seasonStartYear(tt.season); got != tt.want {
			t.Errorf("seasonStartYear(%q) = %d, want %d", tt.season, got, tt.want)
		}
	}
}
