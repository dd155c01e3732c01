// Package contact validates and stores messages left through the contact form.
package contact

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

// Fields in form order.
var Fields = []Field{FieldName, FieldEmail, FieldMessage}

const (
	MinNameLength    = 3
	MinMessageLength = 10
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Form struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
}

func (f Form) Value(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldMessage:
		return f.Message
	}
	return ""
}

func (f *Form) set(field Field, value string) {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldMessage:
		f.Message = value
	}
}

// Trimmed returns f with surrounding whitespace removed from every field.
func (f Form) Trimmed() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
}

// Errors maps a field to the message shown under it.
type Errors map[Field]string

func (e Errors) Valid() bool { return len(e) == 0 }

// Validate checks every field.
func Validate(f Form) Errors {
	errs := Errors{}
	for _, field := range Fields {
		if msg := checkField(f, field); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}

// CanSubmit is the cheap check that enables the submit button.
func CanSubmit(f Form) bool {
	return utf8.RuneCountInString(strings.TrimSpace(f.Name)) >= MinNameLength &&
		strings.TrimSpace(f.Email) != "" &&
		emailPattern.MatchString(f.Email) &&
		utf8.RuneCountInString(strings.TrimSpace(f.Message)) >= MinMessageLength
}

// ValidEmail reports whether s looks like local@domain.tld.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

func checkField(f Form, field Field) string {
	switch field {
	case FieldName:
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return "Name is required"
		}
		if utf8.RuneCountInString(name) < MinNameLength {
			return "Name must be at least 3 characters"
		}
	case FieldEmail:
		if strings.TrimSpace(f.Email) == "" {
			return "Email is required"
		}
		if !emailPattern.MatchString(f.Email) {
			return "Invalid email format"
		}
	case FieldMessage:
		msg := strings.TrimSpace(f.Message)
		if msg == "" {
			return "Message is required"
		}
		if utf8.RuneCountInString(msg) < MinMessageLength {
			return "Message must be at least 10 characters"
		}
	}
	return ""
}
