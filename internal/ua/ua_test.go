package ua

import (
	"testing"

	surfer "github.com/avct/uasurfer"
)

func TestParse(t *testing.T) {
	cases := []struct {
		name, raw, device string
		bot               bool
	}{
		{"desktop chrome",
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36",
			"Desktop", false},
		{"iphone safari",
			"Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
			"Mobile", false},
		{"googlebot",
			"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
			"", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.raw)
			if tc.device != "" && got.Device != tc.device {
				t.Errorf("Device = %q, want %q", got.Device, tc.device)
			}
			if got.IsBot != tc.bot {
				t.Errorf("IsBot = %v, want %v", got.IsBot, tc.bot)
			}
			if got.Raw != tc.raw {
				t.Errorf("Raw not preserved")
			}
		})
	}
}

func TestVersionToString(t *testing.T) {
	cases := []struct {
		v    surfer.Version
		want string
	}{
		{surfer.Version{Major: 17}, "17"},
		{surfer.Version{Major: 17, Minor: 3}, "17.3"},
		{surfer.Version{Major: 17, Minor: 3, Patch: 1}, "17.3.1"},
		{surfer.Version{}, ""},
	}
	for _, tc := range cases {
		if got := versionToString(tc.v); got != tc.want {
			t.Errorf("versionToString(%+v) = %q, want %q", tc.v, got, tc.want)
		}
	}
}

func TestInfoString(t *testing.T) {
	i := Info{Browser: "Chrome", Version: "125", OS: "Mac OS X", Device: "Desktop"}
	if got := i.String(); got != "Chrome 125 on Mac OS X (Desktop)" {
		t.Fatalf("String() = %q", got)
	}
	if got := (Info{}).String(); got != "unknown" {
		t.Fatalf("zero String() = %q", got)
	}
}
