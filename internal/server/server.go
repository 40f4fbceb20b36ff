package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"intake/internal/intake"
	"intake/internal/storage"
	"intake/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

// FileGateway is the read side of the object store used by the file
// serving route.
type FileGateway interface {
	Metadata(ctx context.Context, key string) (*storage.ObjectInfo, error)
	Retrieve(ctx context.Context, key string) (io.ReadCloser, *storage.ObjectInfo, error)
}

// SubmissionCounter backs the row-count diagnostic.
type SubmissionCounter interface {
	Count(ctx context.Context) (int64, error)
}

// ContactFinder backs the CRM reachability diagnostic.
type ContactFinder interface {
	ContactByEmail(ctx context.Context, email string) (string, error)
}

type Service struct {
	logger   *logrus.Logger
	config   *types.Config
	pipeline *intake.Pipeline

	files       FileGateway
	submissions SubmissionCounter
	crm         ContactFinder
	node        string

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	pipeline *intake.Pipeline,
	files FileGateway,
	submissions SubmissionCounter,
	crm ContactFinder,
	node string,
) *Service {
	mux := flow.New()

	s := &Service{
		logger:   logger,
		config:   config,
		pipeline: pipeline,

		files:       files,
		submissions: submissions,
		crm:         crm,
		node:        node,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/", s.handleRoot, http.MethodGet)
	r.HandleFunc("/file/:name", s.handleFile, http.MethodGet)
	r.HandleFunc("/files", s.handleCreateFile, http.MethodPost)
	r.HandleFunc("/submit", s.handleSubmit, http.MethodPost)
}
