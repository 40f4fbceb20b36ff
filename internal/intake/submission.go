package intake

import (
	"fmt"
	"path"
	"strings"

	"intake/pkg/types"
)

// FileExtension returns the suffix of a file name including the dot,
// preserving its case ("photo.PDF" -> ".PDF").
func FileExtension(fileName string) string {
	return path.Ext(fileName)
}

// RemoteFileName derives the storage key for an attachment: the
// submission ID plus the original file's suffix, verbatim.
func RemoteFileName(id, fileName string) string {
	return id + FileExtension(fileName)
}

// RemoteFileURL joins the public base URL and the storage key.
func RemoteFileURL(baseURL, remoteName string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + remoteName
}

// Summary renders the submission's field dump. The shape (including the
// missing space after the email) is the wire format callers scrape, so
// it stays byte-for-byte stable.
func Summary(sub *types.Submission) string {
	fileName, contentType := "", ""
	fileSize := int64(-1)
	if sub.Attachment != nil {
		fileName = sub.Attachment.OriginalName
		fileSize = sub.Attachment.SizeBytes
		contentType = sub.Attachment.ContentType
	}

	return fmt.Sprintf("%s, %s, %s, %s, %s,%s, %d, %s",
		sub.LeadType, sub.FirstName, sub.LastName, sub.Phone, sub.Email,
		fileName, fileSize, contentType)
}
