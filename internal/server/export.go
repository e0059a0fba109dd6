package server

import (
	"fmt"
	"net/http"
	"time"
)

func (s *Server) handleExportClients(w http.ResponseWriter, r *http.Request) {
	data, err := s.exporter.ClientsXLSX(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	filename := fmt.Sprintf("clients-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("failed to write export", "error", err)
	}
}
