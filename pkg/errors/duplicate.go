package errors

import "strings"

// duplicateKeywords maps a payload field to the words a backend uses for it in
// uniqueness-violation messages. Order matters: the first hit wins.
var duplicateKeywords = []struct {
	field    string
	keywords []string
	hint     string
}{
	{"email", []string{"email", "e-mail"}, "An account with this email already exists"},
	{"pan_number", []string{"pan"}, "This PAN is already registered"},
	{"aadhar_number", []string{"aadhar", "aadhaar"}, "This Aadhar number is already registered"},
	{"rera_id", []string{"rera"}, "This RERA ID is already registered"},
	{"phone", []string{"phone", "mobile"}, "This phone number is already registered"},
}

// DuplicateField guesses which field a server "already exists" message refers to.
// It is a best-effort heuristic over the wording of the message; ok is false when the
// text does not look like a uniqueness violation or names no known field.
func DuplicateField(detail string) (field, hint string, ok bool) {
	lower := strings.ToLower(detail)
	if !strings.Contains(lower, "already exist") && !strings.Contains(lower, "duplicate") &&
		!strings.Contains(lower, "already registered") && !strings.Contains(lower, "already in use") {
		return "", "", false
	}
	for _, d := range duplicateKeywords {
		for _, kw := range d.keywords {
			if containsWord(lower, kw) {
				return d.field, d.hint, true
			}
		}
	}
	return "", "", false
}

// containsWord reports whether kw appears in s not glued to other letters, so that
// "pan" does not match "company".
func containsWord(s, kw string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], kw)
		if j < 0 {
			return false
		}
		start := i + j
		end := start + len(kw)
		if (start == 0 || !isLetter(s[start-1])) && (end == len(s) || !isLetter(s[end])) {
			return true
		}
		i = start + 1
	}
}

func isLetter(b byte) bool { return b >= 'a' && b <= 'z' }
