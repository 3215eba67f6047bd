package reply

import "testing"

func TestJoinOptions(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want string
	}{
		{"empty", nil, ""},
		{"single", []string{"hours"}, "hours"},
		{"pair", []string{"hours", "menu"}, "hours or menu"},
		{"triple", []string{"hours", "menu", "reservations"}, "hours, menu, or reservations"},
		{"quad", []string{"a", "b", "c", "d"}, "a, b, c, or d"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := JoinOptions(tc.in); got != tc.want {
				t.Fatalf("JoinOptions(%v) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
