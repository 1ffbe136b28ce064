package dialog

import (
	"testing"
	"time"
)

func fixedValidator(t *testing.T) *Validator {
	t.Helper()
	now, err := time.Parse(time.RFC3339, "2026-08-30T12:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	return &Validator{Now: func() time.Time { return now }}
}

func TestValidateEmail(t *testing.T) {
	v := fixedValidator(t)
	tests := []struct {
		in      string
		want    string
		invalid bool
	}{
		{in: "Anna.Smith@Example.COM", want: "anna.smith@example.com"},
		{in: "a@b.co", want: "a@b.co"},
		{in: "user@domain", invalid: true},
		{in: "not-an-email", invalid: true},
		{in: "@host.com", invalid: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, corrective := v.Validate(FieldEmail, tt.in)
			if tt.invalid {
				if corrective != MsgInvalidEmail {
					t.Errorf("corrective = %q, want invalid email message", corrective)
				}
				return
			}
			if corrective != "" || got != tt.want {
				t.Errorf("got (%q, %q), want (%q, ok)", got, corrective, tt.want)
			}
		})
	}
}

func TestValidatePhone(t *testing.T) {
	v := fixedValidator(t)
	tests := []struct {
		in      string
		invalid bool
	}{
		{in: "5551234567"},         // 10 digits
		{in: "+155512345678901"},   // 15 digits with +
		{in: "555123456", invalid: true},       // 9 digits
		{in: "5551234567890123", invalid: true}, // 16 digits
		{in: "555-123-4567", invalid: true},     // separators must be stripped by the caller
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, corrective := v.Validate(FieldPhone, tt.in)
			if tt.invalid && corrective != MsgInvalidPhone {
				t.Errorf("corrective = %q, want invalid phone message", corrective)
			}
			if !tt.invalid && (corrective != "" || got != tt.in) {
				t.Errorf("got (%q, %q)", got, corrective)
			}
		})
	}
}

func TestValidateDateWindow(t *testing.T) {
	v := fixedValidator(t) // today is 2026-08-30
	tests := []struct {
		name    string
		in      string
		invalid bool
	}{
		{name: "today is accepted", in: "2026-08-30"},
		{name: "yesterday is rejected", in: "2026-08-29", invalid: true},
		{name: "two years ahead exactly", in: "2028-08-30"},
		{name: "beyond two years", in: "2028-08-31", invalid: true},
		{name: "malformed", in: "30/08/2026", invalid: true},
		{name: "impossible day", in: "2026-02-30", invalid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, corrective := v.Validate(FieldDate, tt.in)
			if tt.invalid {
				if corrective != MsgInvalidDate {
					t.Errorf("corrective = %q, want invalid date message", corrective)
				}
				return
			}
			if corrective != "" || got != tt.in {
				t.Errorf("got (%q, %q), want (%q, ok)", got, corrective, tt.in)
			}
		})
	}
}

func TestValidateTime(t *testing.T) {
	v := fixedValidator(t)
	tests := []struct {
		in      string
		want    string
		invalid bool
	}{
		{in: "09:05", want: "09:05"},
		{in: "9:05", want: "09:05"},
		{in: "23:59", want: "23:59"},
		{in: "0:00", want: "00:00"},
		{in: "24:00", invalid: true},
		{in: "12:60", invalid: true},
		{in: "9:5", invalid: true}, // minutes need two digits
		{in: "noonish", invalid: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, corrective := v.Validate(FieldTime, tt.in)
			if tt.invalid {
				if corrective != MsgInvalidTime {
					t.Errorf("corrective = %q, want invalid time message", corrective)
				}
				return
			}
			if corrective != "" || got != tt.want {
				t.Errorf("got (%q, %q), want (%q, ok)", got, corrective, tt.want)
			}
		})
	}
}

func TestValidateNameAndBookingType(t *testing.T) {
	v := fixedValidator(t)

	if _, corrective := v.Validate(FieldName, "Anna"); corrective != MsgNeedFullName {
		t.Errorf("single-token name corrective = %q", corrective)
	}
	if got, corrective := v.Validate(FieldName, "Anna Smith"); corrective != "" || got != "Anna Smith" {
		t.Errorf("full name got (%q, %q)", got, corrective)
	}
	if got, corrective := v.Validate(FieldBookingType, "Hotel"); corrective != "" || got != "hotel" {
		t.Errorf("booking type got (%q, %q)", got, corrective)
	}
}
