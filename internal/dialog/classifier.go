package dialog

import (
	"regexp"
	"strings"
	"unicode"
)

// ---------- package-level compiled regexes ----------

var (
	greetingRE   = regexp.MustCompile(`(?i)\b(hi|hello|hey|start|help)\b`)
	bookingRE    = regexp.MustCompile(`(?i)\b(book|reserve|schedule|appointment)\b`)
	knowledgeRE  = regexp.MustCompile(`(?i)\b(prices?|costs?|availab(?:le|ility)|services?|polic(?:y|ies)|rooms?|appointments?|hours|locations?|contact)\b`)
	looseEmailRE = regexp.MustCompile(`\S+@\S+`)
	looseDateRE  = regexp.MustCompile(`\b\d{4}-\d{1,2}-\d{1,2}\b`)
	looseTimeRE  = regexp.MustCompile(`\b\d{1,2}:\d{1,2}\b`)
	loosePhoneRE = regexp.MustCompile(`\+?\d[\d\-\s().]{5,}\d`)
	digitsOnlyRE = regexp.MustCompile(`\D`)
)

var emailCleaner = strings.NewReplacer("[", "", "]", "", "<", "", ">", "", "mailto:", "")

// nameWordPattern matches a single name token including unicode letters,
// apostrophes and hyphens.
const nameWordPattern = `[\p{L}][\p{L}\p{M}'-]*`

var namePhraseREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)my name is\s+(` + nameWordPattern + `(?:\s+` + nameWordPattern + `){1,2})`),
	regexp.MustCompile(`(?i)i'?m\s+(` + nameWordPattern + `(?:\s+` + nameWordPattern + `){1,2})(?:\s|,|\.|!|$)`),
	regexp.MustCompile(`(?i)i am\s+(` + nameWordPattern + `(?:\s+` + nameWordPattern + `){1,2})(?:\s|,|\.|!|$)`),
	regexp.MustCompile(`(?i)this is\s+(` + nameWordPattern + `(?:\s+` + nameWordPattern + `){1,2})`),
	regexp.MustCompile(`(?i)call me\s+(` + nameWordPattern + `(?:\s+` + nameWordPattern + `){1,2})`),
}

// cancelWords and confirmWords match the whole message only.
var cancelWords = map[string]struct{}{"cancel": {}, "no": {}}
var confirmWords = map[string]struct{}{"yes": {}, "confirm": {}}

// serviceKeywords maps a service label to the words that imply it.
// Ordered map semantics matter less here than the original table; labels
// are free-form and never canonicalized further.
var serviceKeywords = []struct {
	label    string
	keywords []string
}{
	{"hotel", []string{"hotel", "room", "stay", "accommodation"}},
	{"doctor", []string{"doctor", "consultation", "medical"}},
	{"restaurant", []string{"dinner", "restaurant", "table", "meal"}},
	{"spa", []string{"spa", "massage", "facial", "wellness"}},
	{"salon", []string{"salon", "haircut", "beauty"}},
	{"event", []string{"event", "party", "meeting"}},
	{"class", []string{"class", "training", "course", "lesson"}},
}

// Detection is the deterministic read of a single message: intent flags
// plus loose candidate values for the shaped fields. Candidates still have
// to pass the Validator before they may enter the record.
type Detection struct {
	Greeting      bool
	Cancel        bool
	Confirm       bool
	BookingIntent bool
	Knowledge     bool
	ServiceType   string

	// Candidates holds loose-matched substrings for email/phone/date/time.
	Candidates map[Field]string

	// Name is a full-name candidate (two or three tokens). NameTooShort is
	// set when the message looks like a bare single-token name attempt.
	Name         string
	NameTooShort bool
}

// Classify scans the whole message for intents and field-shaped tokens.
func Classify(text string) Detection {
	d := Detection{Candidates: make(map[Field]string)}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return d
	}
	lower := strings.ToLower(trimmed)

	if _, ok := cancelWords[lower]; ok {
		d.Cancel = true
		return d
	}
	if _, ok := confirmWords[lower]; ok {
		d.Confirm = true
		return d
	}

	d.Greeting = greetingRE.MatchString(trimmed)
	d.BookingIntent = bookingRE.MatchString(trimmed)
	d.Knowledge = knowledgeRE.MatchString(trimmed)
	d.ServiceType = matchService(lower)

	// Field-shaped tokens. Each successful loose match is blanked out of the
	// working copy so its digits cannot alias a later pattern (a date is not
	// a phone number).
	working := trimmed

	if m := looseEmailRE.FindString(working); m != "" {
		d.Candidates[FieldEmail] = strings.TrimRight(emailCleaner.Replace(m), ".,;:!?")
		working = strings.Replace(working, m, " ", 1)
	}
	if m := looseDateRE.FindString(working); m != "" {
		d.Candidates[FieldDate] = m
		working = strings.Replace(working, m, " ", 1)
	}
	if m := looseTimeRE.FindString(working); m != "" {
		d.Candidates[FieldTime] = m
		working = strings.Replace(working, m, " ", 1)
	}
	if m := loosePhoneRE.FindString(working); m != "" {
		if candidate := normalizePhone(m); candidate != "" {
			d.Candidates[FieldPhone] = candidate
		}
	}

	// Name candidacy only applies when nothing else claimed the text.
	if len(d.Candidates) == 0 && !d.BookingIntent && !d.Greeting && !d.Knowledge && d.ServiceType == "" {
		d.Name, d.NameTooShort = findName(trimmed)
	}

	return d
}

// matchService returns the service label implied by the message, or "".
func matchService(lower string) string {
	for _, svc := range serviceKeywords {
		for _, kw := range svc.keywords {
			if containsWord(lower, kw) {
				return svc.label
			}
		}
	}
	return ""
}

func containsWord(lower, word string) bool {
	idx := strings.Index(lower, word)
	for idx >= 0 {
		before := idx == 0 || !isWordRune(rune(lower[idx-1]))
		afterIdx := idx + len(word)
		after := afterIdx >= len(lower) || !isWordRune(rune(lower[afterIdx]))
		if before && after {
			return true
		}
		next := strings.Index(lower[idx+1:], word)
		if next < 0 {
			return false
		}
		idx += 1 + next
	}
	return false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// normalizePhone reduces a loose phone match to +?digits. Returns "" when
// the match carries fewer than 7 digits and is not worth treating as a
// phone attempt at all.
func normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	plus := strings.HasPrefix(raw, "+")
	digits := digitsOnlyRE.ReplaceAllString(raw, "")
	if len(digits) < 7 {
		return ""
	}
	if plus {
		return "+" + digits
	}
	return digits
}

// findName extracts a full-name candidate from the message. It tries the
// explicit name phrases first ("my name is ..."), then falls back to
// treating the whole message as a name reply. A full name needs at least
// two alphabetic tokens.
func findName(text string) (name string, tooShort bool) {
	for _, re := range namePhraseREs {
		if m := re.FindStringSubmatch(text); len(m) >= 2 {
			return strings.Join(strings.Fields(m[1]), " "), false
		}
	}

	tokens := strings.Fields(text)
	alpha := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		cleaned := strings.Trim(tok, ".,!?")
		if cleaned == "" || !isAlphabetic(cleaned) {
			return "", false
		}
		alpha = append(alpha, cleaned)
	}
	if len(alpha) >= 2 && len(alpha) <= 4 {
		return strings.Join(alpha, " "), false
	}
	if len(alpha) == 1 {
		return "", true
	}
	return "", false
}

func isAlphabetic(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && r != '\'' && r != '-' {
			return false
		}
	}
	return true
}
