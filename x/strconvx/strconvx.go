// Package strconvx holds the small number conversions the firmware needs,
// written without strconv/fmt so MCU builds stay lean and allocation-aware.
package strconvx

type parseError struct{}

func (parseError) Error() string { return "invalid syntax" }

// Itoa formats a signed integer in base 10.
func Itoa(i int) string { return string(AppendInt(nil, int64(i))) }

// Utoa formats an unsigned integer in base 10.
func Utoa(u uint32) string { return string(AppendUint(nil, uint64(u))) }

// Atoi parses a base-10 integer with optional sign.
func Atoi(s string) (int, error) {
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if len(s) == 0 {
		return 0, parseError{}
	}
	v := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, parseError{}
		}
		v = v*10 + int(c-'0')
	}
	if neg {
		v = -v
	}
	return v, nil
}

// AppendUint appends the base-10 form of u to dst.
func AppendUint(dst []byte, u uint64) []byte {
	var buf [20]byte
	i := len(buf)
	for {
		i--
		buf[i] = byte('0' + u%10)
		u /= 10
		if u == 0 {
			break
		}
	}
	return append(dst, buf[i:]...)
}

// AppendInt appends the base-10 form of i to dst.
func AppendInt(dst []byte, i int64) []byte {
	u := uint64(i)
	if i < 0 {
		dst = append(dst, '-')
		u = uint64(-i)
	}
	return AppendUint(dst, u)
}

var pow10 = [...]uint64{1, 10, 100, 1000, 10000, 100000, 1000000}

// AppendFixed appends v with exactly prec decimal places (prec 0..6),
// rounded half away from zero. Matches printf "%.<prec>f" for the value
// ranges this firmware emits.
func AppendFixed(dst []byte, v float64, prec int) []byte {
	if prec < 0 {
		prec = 0
	}
	if prec > 6 {
		prec = 6
	}
	if v < 0 {
		dst = append(dst, '-')
		v = -v
	}
	scale := pow10[prec]
	n := uint64(v*float64(scale) + 0.5)
	dst = AppendUint(dst, n/scale)
	if prec == 0 {
		return dst
	}
	dst = append(dst, '.')
	frac := n % scale
	for p := prec - 1; p > 0; p-- {
		if frac < pow10[p] {
			dst = append(dst, '0')
		}
	}
	if frac > 0 {
		dst = AppendUint(dst, frac)
	} else {
		dst = append(dst, '0')
	}
	return dst
}

// FormatFixed is AppendFixed into a fresh string.
func FormatFixed(v float64, prec int) string {
	return string(AppendFixed(nil, v, prec))
}
