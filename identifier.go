package prettyrfc

import (
	"regexp"
	"strconv"
	"strings"
)

// DocumentID is the canonical identifier of a document, e.g. "RFC793".
// Construct one with ParseDocumentID; all other forms are derived from it.
type DocumentID string

var digitRun = regexp.MustCompile(`[0-9]+`)

// ParseDocumentID normalizes loosely formatted input such as "rfc 793",
// "RFC0793" or "793" into a DocumentID. The first run of digits becomes the
// document number. Returns EINVALID if the input has no digits or the number
// is zero.
func ParseDocumentID(s string) (DocumentID, error) {
	digits := digitRun.FindString(s)
	if digits == "" {
		return "", Errorf(EINVALID, "invalid document identifier %q", s)
	}

	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		return "", Errorf(EINVALID, "invalid document identifier %q", s)
	}

	// Reject numbers that don't fit an int rather than truncating them.
	if _, err := strconv.Atoi(digits); err != nil {
		return "", Errorf(EINVALID, "invalid document identifier %q", s)
	}

	return DocumentID("RFC" + digits), nil
}

// Number returns the numeric part of the identifier, or 0 if it is malformed.
func (id DocumentID) Number() int {
	n, err := strconv.Atoi(strings.TrimPrefix(string(id), "RFC"))
	if err != nil {
		return 0
	}
	return n
}

// DisplayName returns the human-readable title form, e.g. "RFC 793".
func (id DocumentID) DisplayName() string {
	return "RFC " + strings.TrimPrefix(string(id), "RFC")
}

// Path returns the canonical request path, e.g. "/rfc793".
func (id DocumentID) Path() string {
	return "/" + strings.ToLower(string(id))
}

// String implements fmt.Stringer.
func (id DocumentID) String() string {
	return string(id)
}
