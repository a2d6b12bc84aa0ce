package util

import "testing"

func TestIsBlank(t *testing.T) {
	for _, s := range []string{"", " ", "\t\n "} {
		if !IsBlank(s) {
			t.Fatalf("expected %q to be blank", s)
		}
	}
	if IsBlank(" stETH ") {
		t.Fatalf("expected non-blank")
	}
}
