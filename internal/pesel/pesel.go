// Package pesel validates Polish national identification numbers.
package pesel

import (
	"time"
)

var weights = [10]int{1, 3, 7, 9, 1, 3, 7, 9, 1, 3}

// Valid reports whether value is an 11-digit PESEL with a correct check
// digit and an encoded birth date that exists in the calendar.
func Valid(value string) bool {
	if len(value) != 11 {
		return false
	}

	var digits [11]int
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c < '0' || c > '9' {
			return false
		}
		digits[i] = int(c - '0')
	}

	sum := 0
	for i, w := range weights {
		sum += digits[i] * w
	}
	if (10-sum%10)%10 != digits[10] {
		return false
	}

	_, ok := BirthDate(value)
	return ok
}

// BirthDate decodes the birth date carried in the first six digits.
// The month field is offset by the century: +80 for the 1800s, +0 for the
// 1900s, +20, +40 and +60 for the 2000s, 2100s and 2200s.
func BirthDate(value string) (time.Time, bool) {
	if len(value) < 6 {
		return time.Time{}, false
	}
	for i := 0; i < 6; i++ {
		if value[i] < '0' || value[i] > '9' {
			return time.Time{}, false
		}
	}

	yy := int(value[0]-'0')*10 + int(value[1]-'0')
	mm := int(value[2]-'0')*10 + int(value[3]-'0')
	dd := int(value[4]-'0')*10 + int(value[5]-'0')

	var century int
	switch {
	case mm >= 81 && mm <= 92:
		century, mm = 1800, mm-80
	case mm >= 1 && mm <= 12:
		century = 1900
	case mm >= 21 && mm <= 32:
		century, mm = 2000, mm-20
	case mm >= 41 && mm <= 52:
		century, mm = 2100, mm-40
	case mm >= 61 && mm <= 72:
		century, mm = 2200, mm-60
	default:
		return time.Time{}, false
	}

	date := time.Date(century+yy, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 -> Mar 2), so compare back.
	if date.Day() != dd || int(date.Month()) != mm {
		return time.Time{}, false
	}
	return date, true
}
