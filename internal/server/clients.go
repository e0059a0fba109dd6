package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/comfythings/visaflow/constants"
	"github.com/comfythings/visaflow/internal/entity"
)

// clientEditSchema constrains staff edits: every field optional, but
// nothing outside the editable set, and shapes enforced where the
// extractors guarantee one. The document_type enum comes from the
// constants package so the two never drift apart.
var clientEditSchema = fmt.Sprintf(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"full_name":       {"type": "string", "maxLength": 200},
		"email":           {"type": "string", "maxLength": 254},
		"passport_number": {"type": "string", "pattern": "^$|^[A-Z]{1,2}[0-9]{7,9}$"},
		"visa_number":     {"type": "string", "pattern": "^$|^[0-9]{10,12}$"},
		"birth_date":      {"type": "string", "pattern": "^$|^[0-9]{2}/[0-9]{2}/[0-9]{4}$"},
		"document_type":   {"type": "string", "enum": %s},
		"photo":           {"type": "string"}
	},
	"additionalProperties": false
}`, mustJSON(constants.DocumentTypes()))

var editSchema = jsonschema.MustCompileString("client-edit.json", clientEditSchema)

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

type clientEdit struct {
	FullName       *string `json:"full_name"`
	Email          *string `json:"email"`
	PassportNumber *string `json:"passport_number"`
	VisaNumber     *string `json:"visa_number"`
	BirthDate      *string `json:"birth_date"`
	DocumentType   *string `json:"document_type"`
	Photo          *string `json:"photo"`
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.clients.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if clients == nil {
		clients = []*entity.Client{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"clients": clients})
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	client, err := s.clients.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, client)
}

// handleUpdateClient applies a staff edit. The payload is validated
// against the edit schema before anything touches the store.
func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 16<<20))
	if err != nil {
		s.writeErrorMessage(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		s.writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := editSchema.Validate(payload); err != nil {
		s.writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	var edit clientEdit
	if err := json.NewDecoder(bytes.NewReader(body)).Decode(&edit); err != nil {
		s.writeErrorMessage(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	client, err := s.clients.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	applyEdit(client, edit)

	if err := s.clients.Update(r.Context(), client); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, client)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.clients.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.writeErrorMessage(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func applyEdit(c *entity.Client, edit clientEdit) {
	if edit.FullName != nil {
		c.FullName = *edit.FullName
	}
	if edit.Email != nil {
		c.Email = *edit.Email
	}
	if edit.PassportNumber != nil {
		c.PassportNumber = *edit.PassportNumber
	}
	if edit.VisaNumber != nil {
		c.VisaNumber = *edit.VisaNumber
	}
	if edit.BirthDate != nil {
		c.BirthDate = *edit.BirthDate
	}
	if edit.DocumentType != nil {
		c.DocumentType = *edit.DocumentType
	}
	if edit.Photo != nil {
		c.Photo = *edit.Photo
	}
}
