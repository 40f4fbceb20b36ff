package intake

import (
	"regexp"
	"strings"

	"intake/pkg/types"
)

var (
	emailReg    = regexp.MustCompile("^[a-z0-9!#$%&'*+/=?^_`{|}~-]+(\\.[a-z0-9!#$%&'*+/=?^_`{|}~-]+)*@(?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\\.)+[a-z0-9](?:[a-z0-9-]*[a-z0-9])?$")
	leadTypeReg = regexp.MustCompile(`^(candidate|employer|other)$`)
)

// Rules carries the configurable validation limits. The zero value is not
// usable; build one with RulesFromConfig.
type Rules struct {
	MaxFieldLen       int
	MaxFileSize       int64
	AllowedExtensions []string
}

func RulesFromConfig(c *types.Config) Rules {
	return Rules{
		MaxFieldLen:       c.MaxFieldLen,
		MaxFileSize:       c.MaxFileSize,
		AllowedExtensions: c.AllowedExtensions,
	}
}

// ValidEmail matches the literal string against the address grammar.
// No normalization happens here; callers lower-case upstream if they
// want case-insensitive acceptance.
func ValidEmail(email string) bool {
	return emailReg.MatchString(email)
}

func ValidLeadType(leadType string) bool {
	return leadTypeReg.MatchString(leadType)
}

// ValidExtension checks the file name's suffix against the allow-list,
// case-sensitively. List entries are compared verbatim, so an entry
// missing its leading dot can never match.
func (r Rules) ValidExtension(fileName string) bool {
	ext := FileExtension(fileName)
	for _, allowed := range r.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func (r Rules) ValidFileSize(size int64) bool {
	return 0 < size && size < r.MaxFileSize
}

// HasAttachment reports whether the submission carries a usable file.
// Absent, empty, and oversized attachments all count as "no file".
func (r Rules) HasAttachment(sub *types.Submission) bool {
	return sub.Attachment != nil && r.ValidFileSize(sub.Attachment.SizeBytes)
}

// Valid reports whether the submission passes every field rule. Pure:
// no I/O, no mutation of the submission.
func (r Rules) Valid(sub *types.Submission) bool {
	if !ValidEmail(sub.Email) {
		return false
	}
	if !ValidLeadType(sub.LeadType) {
		return false
	}
	if !r.validLen(sub.FirstName, 1) || !r.validLen(sub.LastName, 1) || !r.validLen(sub.Email, 1) {
		return false
	}
	if !r.validLen(sub.Phone, 0) {
		return false
	}
	if r.HasAttachment(sub) && !r.ValidExtension(sub.Attachment.OriginalName) {
		return false
	}
	return true
}

func (r Rules) validLen(value string, min int) bool {
	n := len(strings.TrimSpace(value))
	return min <= n && n <= r.MaxFieldLen
}
