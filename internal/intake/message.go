package intake

// MessageHTML builds the HTML fragment shared by the CRM note and the
// notification email. fileURL is empty when the submission has no
// usable attachment; node identifies the host that took the submission.
func MessageHTML(fileURL, node string) string {
	html := "<p>Contact form submission</p>"
	if fileURL != "" {
		html += "<p>File: " + fileURL + "</p>"
	} else {
		html += "<p>File: no file attachment</p>"
	}
	html += "<p>Node: " + node + "</p>"
	return html
}
