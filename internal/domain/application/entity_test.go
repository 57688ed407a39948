package application

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusApplied, StatusShortlisted, true},
		{StatusApplied, StatusRejected, true},
		{StatusApplied, StatusOffered, false},
		{StatusShortlisted, StatusOffered, true},
		{StatusShortlisted, StatusRejected, true},
		{StatusShortlisted, StatusApplied, false},
		{StatusOffered, StatusRejected, false},
		{StatusRejected, StatusShortlisted, false},
		{StatusWithdrawn, StatusShortlisted, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.ok {
			t.Fatalf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.ok, got)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if st, ok := ParseStatus(" Shortlisted "); !ok || st != StatusShortlisted {
		t.Fatalf("unexpected parse: %q %v", st, ok)
	}
	if _, ok := ParseStatus("hired"); ok {
		t.Fatalf("expected unknown status to be rejected")
	}
	for _, st := range []Status{StatusRejected, StatusOffered, StatusWithdrawn} {
		if !st.Terminal() {
			t.Fatalf("expected %s terminal", st)
		}
	}
	if StatusApplied.Terminal() {
		t.Fatalf("applied is not terminal")
	}
}
