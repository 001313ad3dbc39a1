package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

const (
	maxTitleLen    = 255
	initialVersion = "1.0"
)

// CreateDocumentInput carries the document creation form. Tags may arrive as
// an array of names, a comma-separated string, or both; the two are merged.
type CreateDocumentInput struct {
	Title       string
	Description string
	ExpiredAt   *time.Time
	Tags        []string
	TagsString  string
	File        io.Reader
	Filename    string
	ContentType string
	Size        int64
	ActorID     string
}

// UpdateDocumentInput carries the metadata/tags edit form. The primary file
// is never replaced here; that is a separate version upload.
type UpdateDocumentInput struct {
	ID          string
	Title       string
	Description string
	ExpiredAt   *time.Time
	Tags        []string
	TagsString  string
	ActorID     string
}

// UploadVersionInput carries a new file version for an existing document.
type UploadVersionInput struct {
	DocumentID  string
	Version     string
	File        io.Reader
	Filename    string
	ContentType string
	Size        int64
	ActorID     string
}

// DocumentListResult is the listing page payload: all documents plus the
// tags currently in use (for filtering).
type DocumentListResult struct {
	Documents []model.Document `json:"documents"`
	Tags      []model.Tag      `json:"tags"`
}

// DocumentFormData backs the create form (all known tags for suggestions).
type DocumentFormData struct {
	Tags []model.Tag `json:"tags"`
}

// DocumentEditData backs the edit form.
type DocumentEditData struct {
	Document *model.Document `json:"document"`
	Tags     []model.Tag     `json:"tags"`
}

// DocumentService defines the use cases for handling documents, their tags
// and their version history.
type DocumentService interface {
	// Create stores the uploaded blob, then atomically inserts the document,
	// syncs its tag set and records version "1.0". The blob is deleted again
	// if the database transaction fails.
	Create(ctx context.Context, in CreateDocumentInput) (*model.Document, error)

	// Update overwrites metadata and replaces the tag association set with
	// the submitted one. Omitted tags are detached.
	Update(ctx context.Context, in UpdateDocumentInput) (*model.Document, error)

	// UploadVersion stores the new blob, appends a version row and repoints
	// the document's current file at it.
	UploadVersion(ctx context.Context, in UploadVersionInput) (*model.DocumentVersion, error)

	// List returns all documents (newest first, associations attached) and
	// the tags in use.
	List(ctx context.Context) (*DocumentListResult, error)

	// Get returns a single document with associations.
	Get(ctx context.Context, id string) (*model.Document, error)

	// Delete removes the document row; versions and tag links cascade.
	// Blobs are retained in object storage.
	Delete(ctx context.Context, id string) error

	// CreateFormData returns the payload backing the create form.
	CreateFormData(ctx context.Context) (*DocumentFormData, error)

	// EditFormData returns the payload backing the edit form.
	EditFormData(ctx context.Context, id string) (*DocumentEditData, error)

	// Download streams the document's current blob.
	Download(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store       storage.Storage
	repo        repository.DocumentRepository
	tags        repository.TagRepository
	maxFileSize int64
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, tags repository.TagRepository, maxFileSize int64) DocumentService {
	return &documentService{store: store, repo: repo, tags: tags, maxFileSize: maxFileSize}
}

func (s *documentService) Create(ctx context.Context, in CreateDocumentInput) (*model.Document, error) {
	ve := newValidationError()
	validateTitle(ve, in.Title)
	s.validateFile(ve, in.File, in.Size)
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	key, err := s.putBlob(ctx, in.File, in.Filename, in.ContentType, in.Size)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	actor := actorPtr(in.ActorID)
	doc := &model.Document{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		FilePath:    key,
		ExpiredAt:   in.ExpiredAt,
		CreatedBy:   actor,
		UpdatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	stored, err := s.repo.CreateWithTags(ctx, doc, parseTagNames(in.Tags, in.TagsString), initialVersion)
	if err != nil {
		// Roll back the blob so a failed transaction does not leave an
		// orphaned object behind.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *documentService) Update(ctx context.Context, in UpdateDocumentInput) (*model.Document, error) {
	if in.ID == "" {
		return nil, ErrIDRequired
	}
	ve := newValidationError()
	validateTitle(ve, in.Title)
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	doc := &model.Document{
		ID:          in.ID,
		Title:       in.Title,
		Description: in.Description,
		ExpiredAt:   in.ExpiredAt,
		UpdatedBy:   actorPtr(in.ActorID),
		UpdatedAt:   time.Now().UTC(),
	}

	stored, err := s.repo.UpdateWithTags(ctx, doc, parseTagNames(in.Tags, in.TagsString))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return stored, nil
}

func (s *documentService) UploadVersion(ctx context.Context, in UploadVersionInput) (*model.DocumentVersion, error) {
	if in.DocumentID == "" {
		return nil, ErrIDRequired
	}
	ve := newValidationError()
	if strings.TrimSpace(in.Version) == "" {
		ve.add("version", "The version field is required.")
	}
	s.validateFile(ve, in.File, in.Size)
	if err := ve.orNil(); err != nil {
		return nil, err
	}

	key, err := s.putBlob(ctx, in.File, in.Filename, in.ContentType, in.Size)
	if err != nil {
		return nil, err
	}

	ver := &model.DocumentVersion{
		ID:         uuid.New().String(),
		DocumentID: in.DocumentID,
		FilePath:   key,
		Version:    in.Version,
		CreatedBy:  actorPtr(in.ActorID),
		CreatedAt:  time.Now().UTC(),
	}

	stored, err := s.repo.AddVersion(ctx, ver)
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	return stored, nil
}

func (s *documentService) List(ctx context.Context) (*DocumentListResult, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := s.tags.ListInUse(ctx)
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Documents: docs, Tags: tags}, nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Delete removes the document row. Tag links and version rows go via
// cascade; blobs stay in storage so old versions remain recoverable.
func (s *documentService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *documentService) CreateFormData(ctx context.Context) (*DocumentFormData, error) {
	tags, err := s.tags.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &DocumentFormData{Tags: tags}, nil
}

func (s *documentService) EditFormData(ctx context.Context, id string) (*DocumentEditData, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	tags, err := s.tags.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return &DocumentEditData{Document: doc, Tags: tags}, nil
}

func (s *documentService) Download(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	return s.store.Get(ctx, doc.FilePath)
}

// putBlob stores the file under documents/<uuid><ext> and returns the key.
func (s *documentService) putBlob(ctx context.Context, r io.Reader, originalFilename, contentType string, size int64) (string, error) {
	ext := filepath.Ext(originalFilename)
	key := filepath.ToSlash(filepath.Join("documents", uuid.New().String()+ext))

	_, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return "", fmt.Errorf("upload to storage: %w", err)
	}
	return key, nil
}

func (s *documentService) validateFile(ve *ValidationError, r io.Reader, size int64) {
	if r == nil {
		ve.add("file", "The file field is required.")
		return
	}
	if size > s.maxFileSize {
		ve.add("file", fmt.Sprintf("The file may not be greater than %d bytes.", s.maxFileSize))
	}
}

func validateTitle(ve *ValidationError, title string) {
	if strings.TrimSpace(title) == "" {
		ve.add("title", "The title field is required.")
	} else if len(title) > maxTitleLen {
		ve.add("title", "The title may not be greater than 255 characters.")
	}
}

// parseTagNames merges the tag array with the comma-separated string,
// trimming whitespace, dropping empties and deduplicating while preserving
// first-seen order. Matching is case-sensitive.
func parseTagNames(tags []string, tagsString string) []string {
	raw := make([]string, 0, len(tags)+4)
	raw = append(raw, tags...)
	if tagsString != "" {
		raw = append(raw, strings.Split(tagsString, ",")...)
	}

	seen := make(map[string]struct{}, len(raw))
	names := make([]string, 0, len(raw))
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

func actorPtr(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
