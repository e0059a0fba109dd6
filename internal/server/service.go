// Package server exposes the extraction pipeline and client history
// over HTTP.
package server

import (
	"context"
	"log/slog"

	"github.com/comfythings/visaflow/internal/async"
	"github.com/comfythings/visaflow/internal/common"
	"github.com/comfythings/visaflow/internal/entity"
	"github.com/comfythings/visaflow/internal/pipeline"
	"github.com/comfythings/visaflow/internal/repository"
)

// Extractor runs the document pipeline for one staged file.
type Extractor interface {
	Process(ctx context.Context, path string) (pipeline.Result, error)
}

// Service glues the pipeline to the history store. Both the
// synchronous extract handler and the async worker go through it.
type Service struct {
	extractor Extractor
	clients   repository.ClientRepository
	logger    *slog.Logger
}

func NewService(extractor Extractor, clients repository.ClientRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{extractor: extractor, clients: clients, logger: logger}
}

// ExtractAndStore runs the pipeline on path and appends the assembled
// record to the client history.
func (s *Service) ExtractAndStore(ctx context.Context, path string) (pipeline.Result, *entity.Client, error) {
	res, err := s.extractor.Process(ctx, path)
	if err != nil {
		return pipeline.Result{}, nil, err
	}

	client := &entity.Client{
		FullName:       res.Record.FullName,
		Email:          res.Record.Email,
		PassportNumber: res.Record.PassportNumber,
		VisaNumber:     res.Record.VisaNumber,
		BirthDate:      res.Record.BirthDate,
		DocumentType:   string(res.DocumentType),
		Photo:          res.Record.Photo,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return pipeline.Result{}, nil, err
	}

	attrs := []any{
		"client_id", client.ID,
		"document_type", client.DocumentType,
	}
	if jobID := common.JobIDFromContext(ctx); jobID != "" {
		attrs = append(attrs, "job_id", jobID)
	}
	s.logger.Info("client record stored", attrs...)
	return res, client, nil
}

// JobHandler adapts the service for the async queue. The staged file
// is removed once the job settles.
func (s *Service) JobHandler(cleanup func(path string)) async.Handler {
	return func(ctx context.Context, job async.Job, path string) (async.Outcome, error) {
		if cleanup != nil {
			defer cleanup(path)
		}
		res, client, err := s.ExtractAndStore(ctx, path)
		if err != nil {
			return async.Outcome{}, err
		}
		return async.Outcome{
			Record:       &res.Record,
			DocumentType: string(res.DocumentType),
			ClientID:     &client.ID,
		}, nil
	}
}
