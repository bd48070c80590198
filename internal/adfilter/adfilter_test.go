package adfilter

import "testing"

func TestPasses(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"* does a thing", true},
		{"   *Bob waves", true},
		{" RandomName: hello there", true},
		{"RandomName: hello there", true},
		{"Check out my stream http://example.com", false},
		{"", false},
		{"   ", false},
		{"Name:no space after", false},
		{"Name:  two spaces", true},
		{" :leading colon", false},
		{"Some very long display name: hi", false},
		{"                    ab: x", false}, // colon at index 22
		{"                   ab: x", true},   // colon at index 21
		{"Ünï: accented prefix", false},
		{"Ann_: underscore", false},
		{"R2D2: beep", true},
		{"name:", false},
	}
	for _, tc := range tests {
		if got := Passes(tc.in); got != tc.want {
			t.Errorf("Passes(%q) = %v; want %v", tc.in, got, tc.want)
		}
		if IsAd(tc.in) == tc.want {
			t.Errorf("IsAd(%q) = %v; want %v", tc.in, !tc.want, !tc.want)
		}
	}
}
