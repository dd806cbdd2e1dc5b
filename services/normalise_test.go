package services

import "testing"

func TestNormaliseText(t *testing.T) {
	cases := map[string]string{
		"  $0.03 ":        "$0.03",
		"Sold\n\t for $1": "Sold for $1",
		"":                "",
		"  12   ":         "12",
	}
	for in, want := range cases {
		if got := NormaliseText(in); got != want {
			t.Errorf("NormaliseText(%q): got %q, want %q", in, got, want)
		}
	}
}
