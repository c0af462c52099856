package handlers

import "testing"

func TestByPiece(t *testing.T) {
	testCases := []struct {
		input string
		sep   string
		array []string
	}{
		{"a b c", " ", []string{"a", "b", "c"}},
		{"foo\nbar\nbaz\n\nbazz", "\n", []string{"foo", "bar", "baz", "", "bazz"}},
	}
	for _, test := range testCases {
		for i, p := range byPiece(test.input, test.sep) {
			if i < 0 || i >= len(test.array) {
				t.Errorf("byPiece returned an invalid index: %d", i)
			}
			if p != test.array[i] {
				t.Errorf("byPiece returned an incorrect piece: have %s, want %s",
					p, test.array[i])
			}
		}
	}
}

func TestSplitLines(t *testing.T) {
	testCases := []struct {
		input string
		lines []string
	}{
		{"o 1 2", []string{"o 1 2"}},
		{"o 1 2\nf 0 0\n", []string{"o 1 2", "f 0 0"}},
		{"  o 1 2 \n\n  r\n", []string{"o 1 2", "r"}},
		{"\n\n", nil},
	}
	for _, test := range testCases {
		got := splitLines(test.input)
		if len(got) != len(test.lines) {
			t.Errorf("splitLines(%q) = %v, want %v", test.input, got, test.lines)
			continue
		}
		for i := range got {
			if got[i] != test.lines[i] {
				t.Errorf("splitLines(%q)[%d] = %q, want %q", test.input, i, got[i], test.lines[i])
			}
		}
	}
}
