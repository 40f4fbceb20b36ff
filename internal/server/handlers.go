package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"intake/internal/intake"
	"intake/internal/storage"
	"intake/internal/utils"
	"intake/pkg/types"

	"github.com/alexedwards/flow"
)

type rootResponse struct {
	Node          string `json:"node"`
	EmailsEnabled bool   `json:"emailsEnabled"`
	TestContactID string `json:"testContactId"`
	RowCount      int64  `json:"rowCount"`
}

// handleRoot is the liveness/diagnostic surface: which node answered,
// whether outbound mail is on, whether the CRM and database respond.
func (s *Service) handleRoot(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp := rootResponse{
		Node:          s.node,
		EmailsEnabled: s.config.MailerEnabled,
		RowCount:      -1,
	}

	count, err := s.submissions.Count(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to count submissions")
	} else {
		resp.RowCount = count
	}

	if s.config.TestContactEmail != "" {
		contactID, err := s.crm.ContactByEmail(ctx, s.config.TestContactEmail)
		if err != nil {
			s.logger.WithError(err).Error("failed to look up test contact")
		} else {
			resp.TestContactID = contactID
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// handleFile streams a stored attachment back with its stored content
// type and an attachment disposition. Missing or empty objects are 404s.
func (s *Service) handleFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := flow.Param(ctx, "name")

	info, err := s.files.Metadata(ctx, name)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.WithError(err).WithField("key", name).Error("failed to fetch object metadata")
		}
		http.NotFound(w, r)
		return
	}

	if info.SizeBytes <= 0 {
		http.NotFound(w, r)
		return
	}

	body, _, err := s.files.Retrieve(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.WithError(err).WithField("key", name).Error("failed to retrieve object")
		s.internalServerError(w)
		return
	}
	defer body.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(info.SizeBytes, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	if _, err := io.Copy(w, body); err != nil {
		s.logger.WithError(err).WithField("key", name).Error("failed to stream object")
	}
}

// maxRequestBytes caps the whole request body: the attachment limit
// plus headroom for the text fields and multipart framing.
func (s *Service) maxRequestBytes() int64 {
	return s.config.MaxFileSize + (1 << 20)
}

// handleCreateFile takes the multipart contact-form post.
func (s *Service) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestBytes())

	if err := r.ParseMultipartForm(s.maxRequestBytes()); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	sub := &types.Submission{
		ID:        utils.NanoID(),
		LeadType:  r.FormValue("lead_type"),
		FirstName: r.FormValue("first_name"),
		LastName:  r.FormValue("last_name"),
		Phone:     r.FormValue("phone"),
		Email:     r.FormValue("email"),
	}
	sub.Attachment = s.attachmentFromRequest(r)

	s.finishSubmission(w, r, sub)
}

type submitForm struct {
	Email     string `form:"email"`
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	LeadType  string `form:"lead_type"`
	Phone     string `form:"phone"`
}

// handleSubmit is the generic form-decoding path: same semantics as
// /files, accepting either urlencoded or multipart posts.
func (s *Service) handleSubmit(w http.ResponseWriter, r *http.Request) {
	multipart := strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
	r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestBytes())

	if multipart {
		if err := r.ParseMultipartForm(s.maxRequestBytes()); err != nil {
			http.Error(w, "invalid multipart form", http.StatusBadRequest)
			return
		}
	} else if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	var f submitForm
	if err := decoder.Decode(&f, r.Form); err != nil {
		s.logger.WithError(err).Error("failed to decode submission form")
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}

	sub := &types.Submission{
		ID:        utils.NanoID(),
		LeadType:  f.LeadType,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Phone:     f.Phone,
		Email:     f.Email,
	}
	if multipart {
		sub.Attachment = s.attachmentFromRequest(r)
	}

	s.finishSubmission(w, r, sub)
}

// attachmentFromRequest reads the optional file part. Any read problem
// is treated as "no file"; the validator decides everything else.
func (s *Service) attachmentFromRequest(r *http.Request) *types.Attachment {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil
	}
	defer file.Close()

	att := &types.Attachment{
		OriginalName: header.Filename,
		SizeBytes:    header.Size,
		ContentType:  header.Header.Get("Content-Type"),
	}

	// Empty and oversized uploads are treated as attachment-less
	// downstream; their content is never buffered.
	if header.Size <= 0 || header.Size >= s.config.MaxFileSize {
		return att
	}

	content, err := io.ReadAll(file)
	if err != nil {
		s.logger.WithError(err).Error("failed to read uploaded file")
		return nil
	}
	att.Content = content

	return att
}

func (s *Service) finishSubmission(w http.ResponseWriter, r *http.Request, sub *types.Submission) {
	result := s.pipeline.Process(r.Context(), sub)

	if !result.Accepted() {
		s.writeValidationError(w, result)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(result.Summary))
}

type validationError struct {
	Type  string   `json:"type"`
	Loc   []string `json:"loc"`
	Msg   string   `json:"msg"`
	Input string   `json:"input"`
	URL   string   `json:"url"`
}

type validationErrorResponse struct {
	Detail []validationError `json:"detail"`
}

func (s *Service) writeValidationError(w http.ResponseWriter, result intake.Result) {
	s.writeJSON(w, http.StatusUnprocessableEntity, validationErrorResponse{
		Detail: []validationError{{
			Type:  "value_error",
			Loc:   []string{"body", "file"},
			Msg:   "submission failed validation",
			Input: strings.TrimSuffix(result.Summary, "|invalid"),
			URL:   "",
		}},
	})
}

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode json response")
	}
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
