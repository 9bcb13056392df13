package resume

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`(\+?1?[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})`)
	namePart     = regexp.MustCompile(`^[A-Za-z]+$`)
)

// Field names contact details in the order they are asked for.
type Field string

const (
	FieldName  Field = "name"
	FieldEmail Field = "email"
	FieldPhone Field = "phone"
)

// ExtractContact pulls the first email, the first phone number and the first
// line that looks like a name out of text. Text is kept as is.
func ExtractContact(text string) Data {
	return Data{
		Name:  findName(text),
		Email: emailPattern.FindString(text),
		Phone: strings.TrimSpace(phonePattern.FindString(text)),
		Text:  text,
	}
}

// Missing lists the empty contact fields in name, email, phone order.
func (d Data) Missing() []Field {
	var missing []Field
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, FieldName)
	}
	if strings.TrimSpace(d.Email) == "" {
		missing = append(missing, FieldEmail)
	}
	if strings.TrimSpace(d.Phone) == "" {
		missing = append(missing, FieldPhone)
	}
	return missing
}

// Set fills a contact field.
func (d *Data) Set(field Field, value string) {
	switch field {
	case FieldName:
		d.Name = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	}
}

// findName returns the first line of two or three purely alphabetic words.
func findName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < 2 || strings.Contains(line, "@") {
			continue
		}
		if r := []rune(line)[0]; unicode.IsDigit(r) {
			continue
		}

		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 3 {
			continue
		}

		ok := true
		for _, w := range words {
			if !namePart.MatchString(w) {
				ok = false
				break
			}
		}
		if ok {
			return line
		}
	}
	return ""
}
