package server

import (
	"errors"
	"net/http"

	"github.com/comfythings/visaflow/internal/common"
	"github.com/comfythings/visaflow/internal/entity"
)

type extractResponse struct {
	Client       *entity.Client          `json:"client"`
	Record       *entity.ExtractedRecord `json:"record"`
	DocumentType string                  `json:"document_type"`
	SourceHash   string                  `json:"source_hash"`
	DurationMS   int64                   `json:"duration_ms"`
}

type extractQueuedResponse struct {
	JobID      string `json:"job_id"`
	Status     string `json:"status"`
	SourceHash string `json:"source_hash"`
}

// handleExtract accepts a multipart upload under the "file" field and
// runs the extraction pipeline. With ?async=1 the work is queued and a
// job ID returned instead.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(int64(s.cfg.MaxUploadMB) << 20); err != nil {
		s.writeErrorMessage(w, http.StatusBadRequest, "expected a multipart upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeErrorMessage(w, http.StatusBadRequest, `missing "file" field`)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			s.logger.Warn("failed to close upload", "error", err)
		}
	}()

	staged, err := s.stager.Stage(header.Filename, file)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if r.URL.Query().Get("async") == "1" {
		job, err := s.queue.Enqueue(staged.Name, staged.Path)
		if err != nil {
			s.stager.Remove(staged)
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, http.StatusAccepted, extractQueuedResponse{
			JobID:      job.ID.String(),
			Status:     string(job.Status),
			SourceHash: staged.HashHex,
		})
		return
	}

	defer s.stager.Remove(staged)

	res, client, err := s.service.ExtractAndStore(r.Context(), staged.Path)
	if err != nil {
		if errors.Is(err, common.ErrConversion) || errors.Is(err, common.ErrRecognition) {
			s.logger.Error("extraction failed", "source", staged.Name, "error", err)
			s.writeJSON(w, common.HTTPStatus(err), errorBody{
				Error: "failed to extract data from the document",
				Code:  appErrorCode(err),
			})
			return
		}
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, extractResponse{
		Client:       client,
		Record:       &res.Record,
		DocumentType: string(res.DocumentType),
		SourceHash:   staged.HashHex,
		DurationMS:   res.Duration.Milliseconds(),
	})
}

func appErrorCode(err error) string {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
