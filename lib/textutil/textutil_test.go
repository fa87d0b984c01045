package textutil

import "testing"

func TestDelimited(t *testing.T) {
	testCases := []struct {
		in       string
		lDelim   string
		rDelim   string
		expected string
		fails    bool
	}{
		{in: "[test]", lDelim: "[", rDelim: "]", expected: "test"},
		{
			in:       `before Messenger.error("This discount code already exists."); after`,
			lDelim:   `Messenger.error("`,
			rDelim:   `");`,
			expected: "This discount code already exists.",
		},
		{in: "<strong>x</strong> tail</td>", lDelim: "</strong>", rDelim: "</td>", expected: " tail"},
		{in: "no delimiters here", lDelim: "[", rDelim: "]", fails: true},
		{in: "[unclosed", lDelim: "[", rDelim: "]", fails: true},
		{in: "closed] only", lDelim: "[", rDelim: "]", fails: true},
	}

	for _, c := range testCases {
		got, err := Delimited(c.in, c.lDelim, c.rDelim)
		if c.fails {
			if err == nil {
				t.Fatalf("expected error for %q, got %q", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatal(err)
		}
		if got != c.expected {
			t.Fatalf("expected %q, got %q", c.expected, got)
		}
	}
}
