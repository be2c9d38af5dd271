package util

import (
	"testing"
	"time"
)

func TestParseBoolEnv(t *testing.T) {
	cases := []struct {
		value string
		def   bool
		want  bool
	}{
		{"true", false, true},
		{"1", false, true},
		{"yes", false, true},
		{"ON", false, true},
		{"false", true, false},
		{"0", true, false},
		{"off", true, false},
		{"", true, true},
		{"garbage", false, false},
		{"garbage", true, true},
	}
	for _, tc := range cases {
		t.Setenv("CAREROUTE_TEST_BOOL", tc.value)
		if got := ParseBoolEnv("CAREROUTE_TEST_BOOL", tc.def); got != tc.want {
			t.Errorf("ParseBoolEnv(%q, %v) = %v, want %v", tc.value, tc.def, got, tc.want)
		}
	}
}

func TestParseDurationEnv(t *testing.T) {
	t.Setenv("CAREROUTE_TEST_DURATION", "45m")
	if got := ParseDurationEnv("CAREROUTE_TEST_DURATION", time.Minute); got != 45*time.Minute {
		t.Errorf("expected 45m, got %v", got)
	}

	t.Setenv("CAREROUTE_TEST_DURATION", "not-a-duration")
	if got := ParseDurationEnv("CAREROUTE_TEST_DURATION", 30*time.Minute); got != 30*time.Minute {
		t.Errorf("expected default 30m on invalid value, got %v", got)
	}

	t.Setenv("CAREROUTE_TEST_DURATION", "")
	if got := ParseDurationEnv("CAREROUTE_TEST_DURATION", time.Hour); got != time.Hour {
		t.Errorf("expected default 1h on empty value, got %v", got)
	}
}

func TestParseIntEnv(t *testing.T) {
	t.Setenv("CAREROUTE_TEST_INT", "250")
	if got := ParseIntEnv("CAREROUTE_TEST_INT", 10); got != 250 {
		t.Errorf("expected 250, got %d", got)
	}

	t.Setenv("CAREROUTE_TEST_INT", "12.5")
	if got := ParseIntEnv("CAREROUTE_TEST_INT", 10); got != 10 {
		t.Errorf("expected default 10 on invalid value, got %d", got)
	}
}
