package analytics

import "testing"

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"1:05:30", 3930},
		{"2:30", 150},
		{"0:00", 0},
		{"10:00", 600},
		{"", 0},
		{"garbage", 0},
		{"1:2:3:4", 0},
		{"-1:30", 0},
	}
	for _, tt := range tests {
		if got := ParseTime(tt.in); got != tt.want {
			t.Errorf("ParseTime(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{3930, "1:05:30"},
		{150, "2:30"},
		{0, "0:00"},
		{59, "0:59"},
		{3600, "1:00:00"},
		{-5, "0:00"},
	}
	for _, tt := range tests {
		if got := FormatTime(tt.in); got != tt.want {
			t.Errorf("FormatTime(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTimeRoundTrip(t *testing.T) {
	for _, s := range []string{"1:05:30", "2:30", "0:07", "12:00:00"} {
		if got := FormatTime(ParseTime(s)); got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
}
