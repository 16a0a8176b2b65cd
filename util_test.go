package main

import (
	"os"
	"testing"
	"time"
)

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	if !dirExists(dir) {
		t.Errorf("Expected dirExists to return true for existing dir")
	}
	if dirExists(dir + "-notfound") {
		t.Errorf("Expected dirExists to return false for non-existent dir")
	}
}

func TestFormatUptime(t *testing.T) {
	cases := []struct {
		dur      time.Duration
		expected string
	}{
		{time.Second * 5, "5 seconds"},
		{time.Second * 65, "1 minute, 5 seconds"},
		{time.Second * 3665, "1 hour, 1 minute, 5 seconds"},
		{time.Second * 3600, "1 hour, 0 minutes, 0 seconds"},
		{time.Second * 60, "1 minute, 0 seconds"},
		{time.Second * 1, "1 second"},
	}
	for _, c := range cases {
		got := formatUptime(c.dur)
		if got != c.expected {
			t.Errorf("formatUptime(%v) = %q, want %q", c.dur, got, c.expected)
		}
	}
}

func TestPlural(t *testing.T) {
	if plural(1) != "" {
		t.Errorf("plural(1) = %q, want \"\"", plural(1))
	}
	if plural(2) != "s" {
		t.Errorf("plural(2) = %q, want \"s\"", plural(2))
	}
	if plural(0) != "s" {
		t.Errorf("plural(0) = %q, want \"s\"", plural(0))
	}
}

func TestGetEnvDuration(t *testing.T) {
	const key = "VICLUDO_TEST_DURATION"
	os.Unsetenv(key)
	if got := getEnvDuration(key, time.Minute); got != time.Minute {
		t.Errorf("unset key: got %v, want fallback", got)
	}
	t.Setenv(key, "90s")
	if got := getEnvDuration(key, time.Minute); got != 90*time.Second {
		t.Errorf("set key: got %v, want 90s", got)
	}
	t.Setenv(key, "not-a-duration")
	if got := getEnvDuration(key, time.Minute); got != time.Minute {
		t.Errorf("invalid value: got %v, want fallback", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	const key = "VICLUDO_TEST_INT"
	os.Unsetenv(key)
	if got := getEnvInt(key, 7); got != 7 {
		t.Errorf("unset key: got %d, want fallback", got)
	}
	t.Setenv(key, "42")
	if got := getEnvInt(key, 7); got != 42 {
		t.Errorf("set key: got %d, want 42", got)
	}
	t.Setenv(key, "forty-two")
	if got := getEnvInt(key, 7); got != 7 {
		t.Errorf("invalid value: got %d, want fallback", got)
	}
}

func TestGetEnvString(t *testing.T) {
	const key = "VICLUDO_TEST_STRING"
	os.Unsetenv(key)
	if got := getEnvString(key, "fallback"); got != "fallback" {
		t.Errorf("unset key: got %q, want fallback", got)
	}
	t.Setenv(key, "value")
	if got := getEnvString(key, "fallback"); got != "value" {
		t.Errorf("set key: got %q, want value", got)
	}
}
