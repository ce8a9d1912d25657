package resume

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
)

// Contact holds the candidate fields derivable from resume text.
// Any of them may be empty.
type Contact struct {
	Name  string
	Email string
	Phone string
}

// ExtractContact heuristically derives the candidate's contact fields from
// extracted resume text: the first email-looking and phone-looking
// substrings, and the first non-empty line as the name. A line that is
// itself the extracted email or phone is not mistaken for a name. No
// validation beyond that; callers must treat every field as possibly empty.
func ExtractContact(text string) Contact {
	contact := Contact{
		Email: emailPattern.FindString(text),
		Phone: phonePattern.FindString(text),
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed == contact.Email || trimmed == contact.Phone {
			continue
		}
		contact.Name = trimmed
		break
	}

	return contact
}
