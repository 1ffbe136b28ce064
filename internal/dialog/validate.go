package dialog

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	strictEmailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9\-]+(?:\.[a-zA-Z0-9\-]+)+$`)
	strictPhoneRE = regexp.MustCompile(`^\+?\d{10,15}$`)
	strictTimeRE  = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// Corrective messages shown when a loose field match fails strict
// validation. Date names both the format and the validity window.
const (
	MsgInvalidEmail = "That email doesn't look right. Please send it as name@example.com."
	MsgInvalidPhone = "That phone number doesn't look right. Please send 10 to 15 digits, optionally starting with +."
	MsgInvalidTime  = "That time doesn't look right. Please send it as HH:MM in 24-hour format, e.g. 14:30."
	MsgInvalidDate  = "That date doesn't work. Please send it as YYYY-MM-DD, today or later, and no more than 2 years ahead."
	MsgNeedFullName = "Could you give me your full name? First and last name, please."
)

// maxDateHorizon bounds how far ahead a booking date may be.
const maxDateHorizonYears = 2

// Validator holds the per-field acceptance rules. The clock is injectable
// so the date window can be tested against a fixed "today".
type Validator struct {
	Now func() time.Time
}

// NewValidator returns a validator using the wall clock.
func NewValidator() *Validator {
	return &Validator{Now: time.Now}
}

func (v *Validator) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// Validate applies the strict rule for the given field. It returns the
// normalized value on success, or the corrective message on rejection.
// Name, email and service values are accepted as provided; a field is
// either fully valid or not written at all.
func (v *Validator) Validate(f Field, value string) (string, string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", correctiveFor(f)
	}
	switch f {
	case FieldEmail:
		return v.email(value)
	case FieldPhone:
		return v.phone(value)
	case FieldDate:
		return v.date(value)
	case FieldTime:
		return v.time(value)
	case FieldName:
		if len(strings.Fields(value)) < 2 {
			return "", MsgNeedFullName
		}
		return value, ""
	case FieldBookingType:
		// Free-form label, accepted as-is.
		return strings.ToLower(value), ""
	default:
		return "", correctiveFor(f)
	}
}

func (v *Validator) email(value string) (string, string) {
	if !strictEmailRE.MatchString(value) {
		return "", MsgInvalidEmail
	}
	return strings.ToLower(value), ""
}

func (v *Validator) phone(value string) (string, string) {
	if !strictPhoneRE.MatchString(value) {
		return "", MsgInvalidPhone
	}
	return value, ""
}

func (v *Validator) date(value string) (string, string) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return "", MsgInvalidDate
	}
	y, m, d := v.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if parsed.Before(today) {
		return "", MsgInvalidDate
	}
	horizon := today.AddDate(maxDateHorizonYears, 0, 0)
	if parsed.After(horizon) {
		return "", MsgInvalidDate
	}
	return parsed.Format("2006-01-02"), ""
}

func (v *Validator) time(value string) (string, string) {
	m := strictTimeRE.FindStringSubmatch(value)
	if m == nil {
		return "", MsgInvalidTime
	}
	hour := atoi(m[1])
	minute := atoi(m[2])
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", MsgInvalidTime
	}
	return fmt.Sprintf("%02d:%s", hour, m[2]), ""
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return -1
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// correctiveFor maps a field to its rejection message.
func correctiveFor(f Field) string {
	switch f {
	case FieldEmail:
		return MsgInvalidEmail
	case FieldPhone:
		return MsgInvalidPhone
	case FieldDate:
		return MsgInvalidDate
	case FieldTime:
		return MsgInvalidTime
	case FieldName:
		return MsgNeedFullName
	default:
		return "I couldn't read that value. Could you try again?"
	}
}
