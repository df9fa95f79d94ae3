package strconvx

import "testing"

func TestAtoi(t *testing.T) {
	cases := []struct {
		in   string
		want int
		err  bool
	}{
		{"0", 0, false},
		{"42", 42, false},
		{"-17", -17, false},
		{"+8", 8, false},
		{"", 0, true},
		{"-", 0, true},
		{"12a", 0, true},
	}
	for _, c := range cases {
		got, err := Atoi(c.in)
		if (err != nil) != c.err {
			t.Errorf("Atoi(%q) err=%v, want err=%v", c.in, err, c.err)
			continue
		}
		if !c.err && got != c.want {
			t.Errorf("Atoi(%q)=%d, want %d", c.in, got, c.want)
		}
	}
}

func TestFormatFixed(t *testing.T) {
	cases := []struct {
		v    float64
		prec int
		want string
	}{
		{0, 3, "0.000"},
		{1, 3, "1.000"},
		{-45, 2, "-45.00"},
		{0.5, 2, "0.50"},
		{-0.125, 3, "-0.125"},
		{1.0 / 3.0, 3, "0.333"},
		{2.5, 0, "3"},
		{0.0049, 3, "0.005"},
		{1.2345, 2, "1.23"},
	}
	for _, c := range cases {
		if got := FormatFixed(c.v, c.prec); got != c.want {
			t.Errorf("FormatFixed(%v,%d)=%q, want %q", c.v, c.prec, got, c.want)
		}
	}
}

func TestAppendIntUint(t *testing.T) {
	if got := string(AppendInt(nil, -9007)); got != "-9007" {
		t.Errorf("AppendInt: %q", got)
	}
	if got := Utoa(4294967295); got != "4294967295" {
		t.Errorf("Utoa: %q", got)
	}
	if got := Itoa(0); got != "0" {
		t.Errorf("Itoa: %q", got)
	}
}
