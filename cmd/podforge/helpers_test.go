package main

import "testing"

func TestParseProjectID(t *testing.T) {
	if id, err := parseProjectID(" 42 "); err != nil || id != 42 {
		t.Fatalf("parseProjectID(42) = %d, %v", id, err)
	}
	for _, bad := range []string{"", "0", "-5", "abc"} {
		if _, err := parseProjectID(bad); err == nil {
			t.Errorf("parseProjectID(%q) accepted", bad)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		size int64
		want string
	}{
		{512, "512 B"},
		{4 << 20, "4.0 MiB"},
		{3 << 30, "3.0 GiB"},
	}
	for _, tc := range cases {
		if got := formatBytes(tc.size); got != tc.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tc.size, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 40); got != "short" {
		t.Fatalf("truncate(short) = %q", got)
	}
	if got := truncate("a very long project display name", 10); got != "a very ..." {
		t.Fatalf("truncate long = %q", got)
	}
}
