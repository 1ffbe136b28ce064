package dialog

// Field identifies one of the required booking fields.
type Field string

const (
	FieldName        Field = "name"
	FieldEmail       Field = "email"
	FieldPhone       Field = "phone"
	FieldBookingType Field = "booking_type"
	FieldDate        Field = "date"
	FieldTime        Field = "time"
)

// RequiredFields lists every field a booking needs, in the order the
// assistant asks for them.
var RequiredFields = []Field{
	FieldName,
	FieldEmail,
	FieldPhone,
	FieldBookingType,
	FieldDate,
	FieldTime,
}

// State tags where the dialogue currently is. Committed and cancelled
// conversations fold back to StateFresh within the same turn, so only
// three states are observable between turns.
type State int

const (
	StateFresh State = iota
	StateCollecting
	StateReview
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateCollecting:
		return "collecting"
	case StateReview:
		return "review"
	default:
		return "unknown"
	}
}

// Record holds the in-progress booking for one conversation. An empty
// string means the field has not been collected yet.
type Record struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	BookingType string `json:"booking_type"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Greeted     bool   `json:"greeted"`
}

// Get returns the current value for a field.
func (r *Record) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldEmail:
		return r.Email
	case FieldPhone:
		return r.Phone
	case FieldBookingType:
		return r.BookingType
	case FieldDate:
		return r.Date
	case FieldTime:
		return r.Time
	default:
		return ""
	}
}

// Set writes a field value. Empty values are ignored so a validated field
// is never downgraded back to unset.
func (r *Record) Set(f Field, value string) {
	if value == "" {
		return
	}
	switch f {
	case FieldName:
		r.Name = value
	case FieldEmail:
		r.Email = value
	case FieldPhone:
		r.Phone = value
	case FieldBookingType:
		r.BookingType = value
	case FieldDate:
		r.Date = value
	case FieldTime:
		r.Time = value
	}
}

// Missing returns the required fields that are still unset, in ask order.
func (r *Record) Missing() []Field {
	var missing []Field
	for _, f := range RequiredFields {
		if r.Get(f) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Complete reports whether every required field has a value.
func (r *Record) Complete() bool {
	return len(r.Missing()) == 0
}

// Reset clears all fields. Greeted is forced true: both cancel and commit
// leave the conversation past its welcome message.
func (r *Record) Reset() {
	*r = Record{Greeted: true}
}

// Session is the per-conversation unit held by a SessionStore.
type Session struct {
	ID     string `json:"id"`
	State  State  `json:"state"`
	Record Record `json:"record"`
}

// NewSession creates an empty session in the fresh state.
func NewSession(id string) *Session {
	return &Session{ID: id, State: StateFresh}
}
