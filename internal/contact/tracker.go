package contact

// FieldState is where one field sits in the form's lifecycle.
type FieldState string

const (
	Untouched FieldState = "untouched"
	Invalid   FieldState = "invalid"
	Valid     FieldState = "valid"
)

// Tracker follows a form being filled in: which fields were edited, and
// which errors are currently on screen.
type Tracker struct {
	form    Form
	touched map[Field]bool
	shown   Errors
}

func NewTracker() *Tracker {
	return &Tracker{touched: map[Field]bool{}, shown: Errors{}}
}

// Change records a keystroke and hides that field's error until the next
// Blur or Submit.
func (t *Tracker) Change(field Field, value string) {
	t.form.set(field, value)
	t.touched[field] = true
	delete(t.shown, field)
}

// Blur validates the whole form and shows every error.
func (t *Tracker) Blur() Errors {
	t.shown = Validate(t.form)
	return t.shown
}

func (t *Tracker) State(field Field) FieldState {
	if !t.touched[field] {
		return Untouched
	}
	if checkField(t.form, field) != "" {
		return Invalid
	}
	return Valid
}

// Valid is true only when all three fields are valid.
func (t *Tracker) Valid() bool {
	for _, f := range Fields {
		if t.State(f) != Valid {
			return false
		}
	}
	return true
}

func (t *Tracker) CanSubmit() bool { return CanSubmit(t.form) }

// Error is the message shown under field, if any.
func (t *Tracker) Error(field Field) string { return t.shown[field] }

func (t *Tracker) Form() Form { return t.form }

// Reset clears the form after a successful submit.
func (t *Tracker) Reset() {
	t.form = Form{}
	t.touched = map[Field]bool{}
	t.shown = Errors{}
}
