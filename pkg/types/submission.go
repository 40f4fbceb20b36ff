package types

// Attachment is the file portion of a submission. A nil Attachment means
// the form carried no usable file.
type Attachment struct {
	OriginalName string
	ContentType  string
	SizeBytes    int64
	Content      []byte
}

// Submission is one contact-form entry. ID is assigned at creation and
// never regenerated; it doubles as the storage key prefix and the
// database primary key.
type Submission struct {
	ID         string
	LeadType   string
	FirstName  string
	LastName   string
	Phone      string
	Email      string
	Attachment *Attachment
}

// UploadRow is the persisted trace of an accepted submission. The email
// lands in the token column; that is the live table's column name.
type UploadRow struct {
	ID          string `db:"id"`
	Token       string `db:"token"`
	FileName    string `db:"file_name"`
	ContentType string `db:"content_type"`
	FileSize    int64  `db:"file_size"`
}
