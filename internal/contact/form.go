// Package contact implements the contact form: field validation, the
// submission lifecycle, and the outbound request.
package contact

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Field names a form input.
type Field string

// Form fields, in display order.
const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldSubject Field = "subject"
	FieldMessage Field = "message"
)

// Fields lists every form field in display order.
var Fields = []Field{FieldName, FieldEmail, FieldSubject, FieldMessage}

// MinMessageLength is the shortest accepted message, in characters.
const MinMessageLength = 10

// Validation messages.
const (
	MsgNameRequired    = "Name is required"
	MsgEmailRequired   = "Email is required"
	MsgEmailInvalid    = "Email is invalid"
	MsgSubjectRequired = "Subject is required"
	MsgMessageRequired = "Message is required"
	MsgMessageTooShort = "Message is too short"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// FormData is the body of a contact submission.
type FormData struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Get returns the value of field.
func (d FormData) Get(f Field) string {
	switch f {
	case FieldName:
		return d.Name
	case FieldEmail:
		return d.Email
	case FieldSubject:
		return d.Subject
	case FieldMessage:
		return d.Message
	}
	return ""
}

// With returns a copy of d with field set to value. Unknown fields are ignored.
func (d FormData) With(f Field, value string) FormData {
	switch f {
	case FieldName:
		d.Name = value
	case FieldEmail:
		d.Email = value
	case FieldSubject:
		d.Subject = value
	case FieldMessage:
		d.Message = value
	}
	return d
}

// IsEmpty reports whether every field is empty.
func (d FormData) IsEmpty() bool {
	return d == FormData{}
}

// Errors maps a field to its human-readable validation error.
type Errors map[Field]string

// Has reports whether f has an error.
func (e Errors) Has(f Field) bool {
	return e[f] != ""
}

// Clone returns an independent copy.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Validate checks every field and returns the errors found. An empty map
// means the form can be submitted.
func Validate(d FormData) Errors {
	errs := Errors{}

	if strings.TrimSpace(d.Name) == "" {
		errs[FieldName] = MsgNameRequired
	}

	if strings.TrimSpace(d.Email) == "" {
		errs[FieldEmail] = MsgEmailRequired
	} else if !emailPattern.MatchString(d.Email) {
		errs[FieldEmail] = MsgEmailInvalid
	}

	if strings.TrimSpace(d.Subject) == "" {
		errs[FieldSubject] = MsgSubjectRequired
	}

	if strings.TrimSpace(d.Message) == "" {
		errs[FieldMessage] = MsgMessageRequired
	} else if utf8.RuneCountInString(d.Message) < MinMessageLength {
		errs[FieldMessage] = MsgMessageTooShort
	}

	return errs
}

// ValidationError is returned when a submission fails client-side checks.
type ValidationError struct {
	Fields Errors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid contact form: %s", strings.Join(names, ", "))
}
