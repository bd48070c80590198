package util

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseNames(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Carol", []string{"Carol"}},
		{"Carol, Dave Smith", []string{"Carol", "Dave Smith"}},
		{"Carol,\n Dave \r\n,,Eve", []string{"Carol", "Dave", "Eve"}},
		{"Carol, carol", []string{"Carol", "carol"}}, // duplicates kept
		{" , \n ", nil},
		{"", nil},
	}
	for _, tc := range tests {
		if diff := cmp.Diff(tc.want, ParseNames(tc.in)); diff != "" {
			t.Errorf("ParseNames(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestFormatNamesRoundTrip(t *testing.T) {
	names := []string{"Carol", "Dave Smith"}
	if got := FormatNames(names); got != "Carol, Dave Smith" {
		t.Errorf("FormatNames = %q", got)
	}
	if diff := cmp.Diff(names, ParseNames(FormatNames(names))); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCanonSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Monster's Lair", "monsters-lair"},
		{"Ferals / Bestiality", "ferals-bestiality"},
		{"  Frontpage  ", "frontpage"},
		{"Monster’s Lair", "monsters-lair"},
		{"--", ""},
	}
	for _, tc := range tests {
		if got := CanonSlug(tc.in); got != tc.want {
			t.Errorf("CanonSlug(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestCountIcons(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"hi", 0},
		{"[icon]a[/icon]", 1},
		{"[ICON]a[/icon] [eicon]b[/eicon] [EIcon]c[/eicon]", 3},
		{"[/icon] [iconx]", 0},
	}
	for _, tc := range tests {
		if got := CountIcons(tc.in); got != tc.want {
			t.Errorf("CountIcons(%q) = %d; want %d", tc.in, got, tc.want)
		}
	}
}
