package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/docvault/docvault/internal/extraction"
)

// IDGenerator generates unique IDs for documents and users
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type uuidGenerator struct{}

func (g *uuidGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service sequences extraction, normalization and persistence, and owns the
// document lifecycle operations
type Service struct {
	db          DB
	extractor   extraction.Extractor
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, extractor extraction.Extractor, storage Storage) *Service {
	return &Service{
		db:          db,
		extractor:   extractor,
		storage:     storage,
		idGenerator: &uuidGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, extractor extraction.Extractor, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		extractor:   extractor,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var filenameJunk = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)

// storedName builds a collision-resistant name for an uploaded blob:
// timestamp, random suffix, original extension
func (s *Service) storedName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	ext = filenameJunk.ReplaceAllString(strings.TrimPrefix(ext, "."), "")
	if ext != "" {
		ext = "." + ext
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s%s", s.timeSource.Now().UnixMilli(), suffix, ext)
}

// Ingest stores an uploaded document image, extracts structured fields from
// it, and persists the result as a record owned by ownerID.
//
// The operation is all-or-nothing from the caller's perspective: any failure
// aborts it, no record is persisted, and the just-stored blob is removed
// best-effort.
func (s *Service) Ingest(ctx context.Context, filename string, data []byte, contentType string, ownerID string) (*Document, error) {
	if _, err := s.db.GetUser(ownerID); err != nil {
		return nil, err
	}

	name, err := s.storage.Save(s.storedName(filename), data)
	if err != nil {
		return nil, fmt.Errorf("%w: saving image: %v", ErrStorage, err)
	}

	rawText, err := s.extractor.Extract(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to extract document",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		s.removeBlob(name)
		return nil, fmt.Errorf("extracting document: %w", err)
	}

	fields, err := NormalizeFields(rawText)
	if err != nil {
		s.removeBlob(name)
		return nil, err
	}

	doc := &Document{
		ID:              s.idGenerator.Generate(),
		OwnerID:         ownerID,
		SourceImageName: name,
		ContentType:     contentType,
		Fields:          fields,
		CreatedAt:       s.timeSource.Now(),
	}

	if err := s.db.SaveDocument(doc); err != nil {
		s.removeBlob(name)
		return nil, fmt.Errorf("%w: saving document: %v", ErrStorage, err)
	}

	return doc, nil
}

// removeBlob is the compensating action for a failed ingest
func (s *Service) removeBlob(name string) {
	if err := s.storage.Delete(name); err != nil {
		slog.Warn("Failed to clean up stored image", "filename", name, "error", err)
	}
}

// ListDocuments returns all documents belonging to the given owner. An owner
// with no documents gets an empty slice; an unknown owner gets an error.
func (s *Service) ListDocuments(ownerID string) ([]*Document, error) {
	if _, err := s.db.GetUser(ownerID); err != nil {
		return nil, err
	}
	docs, err := s.db.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: listing documents: %v", ErrStorage, err)
	}
	return docs, nil
}

// GetDocument retrieves a document by ID for the given owner. An ownership
// mismatch is indistinguishable from a missing document.
func (s *Service) GetDocument(id string, ownerID string) (*Document, error) {
	doc, err := s.db.GetDocument(id)
	if err != nil {
		return nil, err
	}
	if doc.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: document %s", ErrNotFound, id)
	}
	return doc, nil
}

// GetDocumentFile retrieves the original image for a document, with the same
// ownership gate as GetDocument
func (s *Service) GetDocumentFile(id string, ownerID string) ([]byte, string, error) {
	doc, err := s.GetDocument(id, ownerID)
	if err != nil {
		return nil, "", err
	}

	data, err := s.storage.Get(doc.SourceImageName)
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading image: %v", ErrStorage, err)
	}

	return data, doc.ContentType, nil
}

// DeleteDocuments removes documents and their stored images, returning the
// number of documents actually removed. Missing ids and missing blobs are
// skipped, never errors.
func (s *Service) DeleteDocuments(ids []string) (int, error) {
	for _, id := range ids {
		doc, err := s.db.GetDocument(id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return 0, fmt.Errorf("%w: loading document %s: %v", ErrStorage, id, err)
		}
		if doc.SourceImageName == "" || !s.storage.Exists(doc.SourceImageName) {
			continue
		}
		if err := s.storage.Delete(doc.SourceImageName); err != nil {
			slog.Warn("Failed to delete stored image", "filename", doc.SourceImageName, "error", err)
		}
	}

	count, err := s.db.DeleteDocuments(ids)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return count, nil
}

// CreateUser registers a new owning user
func (s *Service) CreateUser(name string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("user name is required")
	}

	user := &User{
		ID:        s.idGenerator.Generate(),
		Name:      name,
		CreatedAt: s.timeSource.Now(),
	}
	if err := s.db.SaveUser(user); err != nil {
		return nil, fmt.Errorf("%w: saving user: %v", ErrStorage, err)
	}
	return user, nil
}

// GetUser retrieves a user by ID
func (s *Service) GetUser(id string) (*User, error) {
	return s.db.GetUser(id)
}
