package intake

import (
	"context"
	"errors"
	"net/http"

	"intake/pkg/types"

	"github.com/sirupsen/logrus"
)

// ErrNoContactID marks the note step when the CRM upsert yielded no
// contact to attach the note to.
var ErrNoContactID = errors.New("no crm contact id to attach note to")

// FileStore persists attachments in the object store.
type FileStore interface {
	Store(ctx context.Context, key string, content []byte, contentType string) error
}

// SubmissionStore records one row per accepted submission.
type SubmissionStore interface {
	Insert(ctx context.Context, row types.UploadRow) error
}

// CRM upserts a contact by email and attaches notes to it. UpsertContact
// may return ("", nil) when a create races an existing contact; callers
// must tolerate the missing id.
type CRM interface {
	UpsertContact(ctx context.Context, email, firstName, lastName, phone, leadType string) (string, error)
	AttachNote(ctx context.Context, contactID, htmlBody string) error
}

// Notifier sends the submission summary email.
type Notifier interface {
	Send(ctx context.Context, subject, htmlBody string) error
}

// Step names as they appear in Result.Steps and in logs.
const (
	StepFileStore  = "file_store"
	StepDBInsert   = "db_insert"
	StepCRMContact = "crm_contact"
	StepCRMNote    = "crm_note"
	StepEmail      = "email"
)

type StepResult struct {
	Name string
	Err  error
}

// Result is the outcome of one submission. Steps records every
// side-effecting step that was attempted (or deliberately skipped with
// an error), in order. A rejected submission has no steps.
type Result struct {
	Status  int
	Summary string
	Steps   []StepResult
}

func (r Result) Accepted() bool {
	return r.Status == http.StatusOK
}

// Failed returns the steps that ended in an error.
func (r Result) Failed() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

// Pipeline owns one submission's lifecycle: validate, then run the
// best-effort side-effect sequence. Downstream failures are logged and
// recorded, never propagated; a single collaborator outage must not
// prevent the remaining steps from being attempted.
type Pipeline struct {
	rules        Rules
	fileBaseURL  string
	node         string
	emailEnabled bool

	files  FileStore
	db     SubmissionStore
	crm    CRM
	mailer Notifier

	logger *logrus.Logger
}

func NewPipeline(
	config *types.Config,
	node string,
	files FileStore,
	db SubmissionStore,
	crm CRM,
	mailer Notifier,
	logger *logrus.Logger,
) *Pipeline {
	return &Pipeline{
		rules:        RulesFromConfig(config),
		fileBaseURL:  config.FileBaseURL,
		node:         node,
		emailEnabled: config.MailerEnabled,
		files:        files,
		db:           db,
		crm:          crm,
		mailer:       mailer,
		logger:       logger,
	}
}

// Process runs one submission through the pipeline and returns its
// result. Rejection is terminal and side-effect free. After acceptance
// every step runs in sequence regardless of earlier step failures.
func (p *Pipeline) Process(ctx context.Context, sub *types.Submission) Result {
	if !p.rules.Valid(sub) {
		return Result{
			Status:  http.StatusUnprocessableEntity,
			Summary: Summary(sub) + "|invalid",
		}
	}

	result := Result{
		Status:  http.StatusOK,
		Summary: Summary(sub) + "|valid",
	}

	row := types.UploadRow{ID: sub.ID, Token: sub.Email, FileSize: -1}

	var fileURL string
	if p.rules.HasAttachment(sub) {
		remoteName := RemoteFileName(sub.ID, sub.Attachment.OriginalName)
		fileURL = RemoteFileURL(p.fileBaseURL, remoteName)

		row.FileName = remoteName
		row.ContentType = sub.Attachment.ContentType
		row.FileSize = sub.Attachment.SizeBytes

		p.record(sub, &result, StepFileStore,
			p.files.Store(ctx, remoteName, sub.Attachment.Content, sub.Attachment.ContentType))
	}

	p.record(sub, &result, StepDBInsert, p.db.Insert(ctx, row))

	html := MessageHTML(fileURL, p.node)

	contactID, err := p.crm.UpsertContact(ctx, sub.Email, sub.FirstName, sub.LastName, sub.Phone, sub.LeadType)
	p.record(sub, &result, StepCRMContact, err)

	if contactID == "" {
		// Without a contact there is nothing to hang the note off;
		// skip the call and record the miss.
		p.record(sub, &result, StepCRMNote, ErrNoContactID)
	} else {
		p.record(sub, &result, StepCRMNote, p.crm.AttachNote(ctx, contactID, html))
	}

	if p.emailEnabled {
		p.record(sub, &result, StepEmail, p.mailer.Send(ctx, "Form submission", html))
	}

	return result
}

func (p *Pipeline) record(sub *types.Submission, result *Result, step string, err error) {
	result.Steps = append(result.Steps, StepResult{Name: step, Err: err})
	if err != nil {
		p.logger.WithError(err).WithFields(logrus.Fields{
			"submission_id": sub.ID,
			"step":          step,
		}).Error("submission step failed")
	}
}
