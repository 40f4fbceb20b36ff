package intake

import (
	"testing"

	"intake/pkg/types"

	"github.com/stretchr/testify/assert"
)

func testRules() Rules {
	return Rules{
		MaxFieldLen:       50,
		MaxFileSize:       1000000,
		AllowedExtensions: []string{".pdf", ".doc", ".docx", "txt"},
	}
}

func validSubmission() *types.Submission {
	return &types.Submission{
		ID:        "subid",
		LeadType:  "candidate",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Phone:     "",
		Email:     "ada@example.com",
	}
}

func TestValidEmail(t *testing.T) {
	cases := []struct {
		email string
		want  bool
	}{
		{"ada@example.com", true},
		{"first.last@sub.example.co", true},
		{"o'brien+tag@example.com", true},
		{"not-an-email", false},
		{"", false},
		{"@example.com", false},
		{"ada@", false},
		{"ada@example", false},
		// no normalization: upper case is the caller's problem
		{"Ada@example.com", false},
		{"ada@Example.com", false},
		{"ada @example.com", false},
	}

	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidEmail(tc.email))
		})
	}
}

func TestValidLeadType(t *testing.T) {
	for _, lt := range []string{"candidate", "employer", "other"} {
		assert.True(t, ValidLeadType(lt), lt)
	}
	for _, lt := range []string{"", "Candidate", "candidates", "unknown", "candidate "} {
		assert.False(t, ValidLeadType(lt), lt)
	}
}

func TestValidExtension(t *testing.T) {
	r := testRules()

	assert.True(t, r.ValidExtension("resume.pdf"))
	assert.True(t, r.ValidExtension("resume.docx"))

	// matching is case-sensitive against the literal suffix
	assert.False(t, r.ValidExtension("resume.PDF"))
	assert.False(t, r.ValidExtension("resume"))
	assert.False(t, r.ValidExtension("resume.exe"))
}

func TestBareTxtEntryNeverMatches(t *testing.T) {
	// The allow-list ships with "txt" (no leading dot). A real file's
	// suffix always carries the dot, so .txt uploads are effectively
	// disabled. Pinned deliberately; change the list, not this test.
	r := testRules()

	assert.False(t, r.ValidExtension("notes.txt"))
	assert.False(t, r.ValidExtension("txt"))
}

func TestValidFileSize(t *testing.T) {
	r := testRules()

	assert.False(t, r.ValidFileSize(-1))
	assert.False(t, r.ValidFileSize(0))
	assert.True(t, r.ValidFileSize(1))
	assert.True(t, r.ValidFileSize(999999))
	assert.False(t, r.ValidFileSize(1000000))
	assert.False(t, r.ValidFileSize(5000000))
}

func TestValidSubmission(t *testing.T) {
	r := testRules()

	t.Run("no attachment is valid", func(t *testing.T) {
		assert.True(t, r.Valid(validSubmission()))
	})

	t.Run("good attachment is valid", func(t *testing.T) {
		sub := validSubmission()
		sub.Attachment = &types.Attachment{OriginalName: "cv.pdf", SizeBytes: 2048}
		assert.True(t, r.Valid(sub))
	})

	t.Run("oversized attachment counts as no file", func(t *testing.T) {
		sub := validSubmission()
		sub.Attachment = &types.Attachment{OriginalName: "cv.exe", SizeBytes: 2000000}
		assert.True(t, r.Valid(sub))
		assert.False(t, r.HasAttachment(sub))
	})

	t.Run("present attachment with bad extension is invalid", func(t *testing.T) {
		sub := validSubmission()
		sub.Attachment = &types.Attachment{OriginalName: "cv.exe", SizeBytes: 2048}
		assert.False(t, r.Valid(sub))
	})

	t.Run("bad email", func(t *testing.T) {
		sub := validSubmission()
		sub.Email = "not-an-email"
		assert.False(t, r.Valid(sub))
	})

	t.Run("bad lead type", func(t *testing.T) {
		sub := validSubmission()
		sub.LeadType = "recruiter"
		assert.False(t, r.Valid(sub))
	})

	t.Run("empty first name", func(t *testing.T) {
		sub := validSubmission()
		sub.FirstName = "   "
		assert.False(t, r.Valid(sub))
	})

	t.Run("over-long last name", func(t *testing.T) {
		sub := validSubmission()
		for len(sub.LastName) <= 50 {
			sub.LastName += "x"
		}
		assert.False(t, r.Valid(sub))
	})

	t.Run("empty phone allowed", func(t *testing.T) {
		sub := validSubmission()
		sub.Phone = ""
		assert.True(t, r.Valid(sub))
	})
}
