// Package schedtoken encodes and decodes the compact schedule tokens stored
// in the doctor_schedule table: a concatenated weekday token such as
// "MTWThFStSn" and an hour-range token such as "8-17".
//
// The weekday codes are variable length and some one-character codes are
// prefixes of two-character codes (T of Th, S of St/Sn), so the decoder
// matches the longer codes first. Tokens that leave an unmatched residue
// ("Tx", "Sth") are rejected rather than partially decoded.
package schedtoken

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Day is a weekday code as stored in a schedule token.
type Day string

const (
	Monday    Day = "M"
	Tuesday   Day = "T"
	Wednesday Day = "W"
	Thursday  Day = "Th"
	Friday    Day = "F"
	Saturday  Day = "St"
	Sunday    Day = "Sn"
)

// canonicalDays is the fixed encoding order. Decode tries two-character
// codes before one-character codes, so Th never parses as T + "h".
var canonicalDays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var twoCharCodes = []Day{Thursday, Saturday, Sunday}
var oneCharCodes = []Day{Monday, Tuesday, Wednesday, Friday}

// Weekday maps a day code to the time.Weekday it represents.
func (d Day) Weekday() time.Weekday {
	switch d {
	case Monday:
		return time.Monday
	case Tuesday:
		return time.Tuesday
	case Wednesday:
		return time.Wednesday
	case Thursday:
		return time.Thursday
	case Friday:
		return time.Friday
	case Saturday:
		return time.Saturday
	default:
		return time.Sunday
	}
}

// FromWeekday returns the day code for a time.Weekday.
func FromWeekday(w time.Weekday) Day {
	switch w {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// EncodeDays concatenates the selected day codes in canonical order
// (M, T, W, Th, F, St, Sn). Days not in the selection are skipped and
// duplicates collapse to a single code.
func EncodeDays(days []Day) string {
	selected := make(map[Day]bool, len(days))
	for _, d := range days {
		selected[d] = true
	}
	var b strings.Builder
	for _, d := range canonicalDays {
		if selected[d] {
			b.WriteString(string(d))
		}
	}
	return b.String()
}

// DecodeDays parses a concatenated day token. At each position the
// two-character codes (Th, St, Sn) are tried before the one-character
// codes, otherwise "ThF" would misparse as T + h + F. A token with an
// unmatched residue or a repeated code is rejected.
func DecodeDays(token string) ([]Day, error) {
	var days []Day
	seen := make(map[Day]bool)
	rest := token
	for len(rest) > 0 {
		matched := Day("")
		for _, d := range twoCharCodes {
			if strings.HasPrefix(rest, string(d)) {
				matched = d
				break
			}
		}
		if matched == "" {
			for _, d := range oneCharCodes {
				if strings.HasPrefix(rest, string(d)) {
					matched = d
					break
				}
			}
		}
		if matched == "" {
			return nil, fmt.Errorf("invalid day code at %q in token %q", rest, token)
		}
		if seen[matched] {
			return nil, fmt.Errorf("duplicate day code %q in token %q", matched, token)
		}
		seen[matched] = true
		days = append(days, matched)
		rest = rest[len(matched):]
	}
	return days, nil
}

// ContainsWeekday reports whether the day token includes the given weekday.
func ContainsWeekday(token string, w time.Weekday) (bool, error) {
	days, err := DecodeDays(token)
	if err != nil {
		return false, err
	}
	for _, d := range days {
		if d.Weekday() == w {
			return true, nil
		}
	}
	return false, nil
}

// EncodeTimeRange renders an hour range as "<start>-<end>" with plain
// 24-hour integers and no leading zeros.
func EncodeTimeRange(startHour, endHour int) string {
	return strconv.Itoa(startHour) + "-" + strconv.Itoa(endHour)
}

// DecodeTimeRange parses an hour-range token. The token must be two
// integers separated by "-", both in [0,24], with start strictly before
// end.
func DecodeTimeRange(token string) (startHour, endHour int, err error) {
	parts := strings.Split(token, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("time range %q must be two hours separated by '-'", token)
	}
	startHour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start hour in %q", token)
	}
	endHour, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end hour in %q", token)
	}
	if startHour < 0 || startHour > 24 || endHour < 0 || endHour > 24 {
		return 0, 0, fmt.Errorf("hours in %q must be within [0,24]", token)
	}
	if startHour >= endHour {
		return 0, 0, fmt.Errorf("start hour must be before end hour in %q", token)
	}
	return startHour, endHour, nil
}
