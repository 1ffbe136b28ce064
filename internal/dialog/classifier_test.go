package dialog

import "testing"

func TestClassifyIntents(t *testing.T) {
	tests := []struct {
		name string
		text string
		want func(t *testing.T, d Detection)
	}{
		{
			name: "greeting word anywhere",
			text: "oh hello there",
			want: func(t *testing.T, d Detection) {
				if !d.Greeting {
					t.Error("expected greeting")
				}
			},
		},
		{
			name: "cancel whole message only",
			text: "cancel",
			want: func(t *testing.T, d Detection) {
				if !d.Cancel {
					t.Error("expected cancel")
				}
			},
		},
		{
			name: "no as cancel",
			text: "No",
			want: func(t *testing.T, d Detection) {
				if !d.Cancel {
					t.Error("expected cancel")
				}
			},
		},
		{
			name: "cancel inside sentence is not cancel",
			text: "what is your cancellation policy",
			want: func(t *testing.T, d Detection) {
				if d.Cancel {
					t.Error("did not expect cancel")
				}
				if !d.Knowledge {
					t.Error("expected knowledge intent from policy keyword")
				}
			},
		},
		{
			name: "confirm whole message",
			text: "yes",
			want: func(t *testing.T, d Detection) {
				if !d.Confirm {
					t.Error("expected confirm")
				}
			},
		},
		{
			name: "booking intent with service keyword",
			text: "I want to book a hotel room",
			want: func(t *testing.T, d Detection) {
				if !d.BookingIntent {
					t.Error("expected booking intent")
				}
				if d.ServiceType != "hotel" {
					t.Errorf("service = %q, want hotel", d.ServiceType)
				}
			},
		},
		{
			name: "service keyword without booking verb",
			text: "massage please",
			want: func(t *testing.T, d Detection) {
				if d.ServiceType != "spa" {
					t.Errorf("service = %q, want spa", d.ServiceType)
				}
			},
		},
		{
			name: "knowledge keywords",
			text: "what are your prices",
			want: func(t *testing.T, d Detection) {
				if !d.Knowledge {
					t.Error("expected knowledge intent")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want(t, Classify(tt.text))
		})
	}
}

func TestClassifyFieldCandidates(t *testing.T) {
	d := Classify("I'm reachable at anna.smith@Example.COM or +1 (555) 123-4567, date 2026-09-15 at 14:30")

	if got := d.Candidates[FieldEmail]; got != "anna.smith@Example.COM" {
		t.Errorf("email candidate = %q", got)
	}
	if got := d.Candidates[FieldPhone]; got != "+15551234567" {
		t.Errorf("phone candidate = %q", got)
	}
	if got := d.Candidates[FieldDate]; got != "2026-09-15" {
		t.Errorf("date candidate = %q", got)
	}
	if got := d.Candidates[FieldTime]; got != "14:30" {
		t.Errorf("time candidate = %q", got)
	}
}

// A date's digits must not double as a phone number once the date span is
// claimed.
func TestClassifyDateDigitsDoNotAliasPhone(t *testing.T) {
	d := Classify("2026-09-15")
	if _, ok := d.Candidates[FieldPhone]; ok {
		t.Fatal("date digits were misread as a phone number")
	}
	if got := d.Candidates[FieldDate]; got != "2026-09-15" {
		t.Errorf("date candidate = %q", got)
	}
}

func TestClassifyEmailCleanup(t *testing.T) {
	d := Classify("email: <mailto:bob@site.io>.")
	if got := d.Candidates[FieldEmail]; got != "bob@site.io" {
		t.Errorf("email candidate = %q", got)
	}
}

func TestClassifyName(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantName string
		tooShort bool
	}{
		{"bare full name", "Anna Smith", "Anna Smith", false},
		{"my name is phrase", "my name is Priya Sharma", "Priya Sharma", false},
		{"i am phrase", "I am John Ronald Doe", "John Ronald Doe", false},
		{"single token is too short", "Hansraj", "", true},
		{"unicode name", "José García", "José García", false},
		{"sentence is not a name", "the weather is nice today isn't it really", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Classify(tt.text)
			if d.Name != tt.wantName {
				t.Errorf("name = %q, want %q", d.Name, tt.wantName)
			}
			if d.NameTooShort != tt.tooShort {
				t.Errorf("tooShort = %v, want %v", d.NameTooShort, tt.tooShort)
			}
		})
	}
}

// Messages already claimed by another intent never become name candidates.
func TestClassifyNameExclusions(t *testing.T) {
	for _, text := range []string{"hello there", "book hotel", "spa massage", "jane@doe.com"} {
		d := Classify(text)
		if d.Name != "" || d.NameTooShort {
			t.Errorf("%q produced a name candidate", text)
		}
	}
}
