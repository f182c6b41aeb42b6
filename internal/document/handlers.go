package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/docvault/docvault/internal/extraction"
)

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// errorStatus maps the service's sentinel errors onto HTTP status codes
func errorStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrOwnerNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNormalization):
		return http.StatusUnprocessableEntity
	case errors.Is(err, extraction.ErrService):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes a structured error response with CORS headers set
func writeError(w http.ResponseWriter, err error) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errorStatus(err))
	json.NewEncoder(w).Encode(map[string]string{
		"error": err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleCreateUser registers a new owning user
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		setCORSHeaders(w)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	user, err := s.service.CreateUser(req.Name)
	if err != nil {
		slog.Error("Error creating user", "error", err)
		if errors.Is(err, ErrStorage) {
			writeError(w, err)
			return
		}
		setCORSHeaders(w)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// handleUploadDocument ingests an uploaded document image
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	// 50MB covers high-resolution phone photos
	maxFormSize := int64(50 << 20)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		setCORSHeaders(w)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "error parsing form"})
		return
	}

	ownerID := r.FormValue("owner_id")
	if ownerID == "" {
		setCORSHeaders(w)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "owner_id is required"})
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		setCORSHeaders(w)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no file provided"})
		return
	}
	defer f.Close()

	if header.Size > maxFormSize {
		setCORSHeaders(w)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file is too large, maximum size is 50MB"})
		return
	}

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		setCORSHeaders(w)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "error reading file"})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = contentTypeFromExtension(header.Filename)
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))

	doc, err := s.service.Ingest(r.Context(), header.Filename, data, contentType, ownerID)
	if err != nil {
		slog.Error("Error ingesting document", "filename", header.Filename, "owner_id", ownerID, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

// contentTypeFromExtension guesses a content type when the upload omits one
func contentTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".heic":
		return "image/heic"
	case ".heif":
		return "image/heif"
	default:
		return "application/octet-stream"
	}
}

// handleListDocuments returns all documents for the requesting owner
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		setCORSHeaders(w)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "owner_id is required"})
		return
	}

	docs, err := s.service.ListDocuments(ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, docs)
}

// handleGetDocument returns a single document
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ownerID := r.URL.Query().Get("owner_id")
	if id == "" || ownerID == "" {
		setCORSHeaders(w)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id and owner_id are required"})
		return
	}

	doc, err := s.service.GetDocument(id, ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// handleGetDocumentFile returns the original image for a document
func (s *Server) handleGetDocumentFile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ownerID := r.URL.Query().Get("owner_id")
	if id == "" || ownerID == "" {
		setCORSHeaders(w)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id and owner_id are required"})
		return
	}

	data, contentType, err := s.service.GetDocumentFile(id, ownerID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}

// handleExportPDF streams a PDF of all the owner's documents
func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	ownerID := r.PathValue("id")
	if ownerID == "" {
		setCORSHeaders(w)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "owner id is required"})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=documents-%s.pdf", ownerID))

	if err := s.service.ExportPDF(ownerID, w); err != nil {
		slog.Error("Error exporting documents", "owner_id", ownerID, "error", err)
		// headers may already be written; report via status when possible
		w.Header().Del("Content-Disposition")
		writeError(w, err)
		return
	}
}

// handleDeleteDocuments removes a batch of documents and their images
func (s *Server) handleDeleteDocuments(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		setCORSHeaders(w)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	count, err := s.service.DeleteDocuments(req.IDs)
	if err != nil {
		slog.Error("Error deleting documents", "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"deleted_count": count})
}
