package uploads

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/madebuy/madebuy-backend/internal/personalization"
	"github.com/madebuy/madebuy-backend/pkg/db/models"
	"github.com/madebuy/madebuy-backend/pkg/enums"
	pkgerrors "github.com/madebuy/madebuy-backend/pkg/errors"
	"github.com/madebuy/madebuy-backend/pkg/logger"
	"github.com/madebuy/madebuy-backend/pkg/metrics"
	"github.com/madebuy/madebuy-backend/pkg/types"
)

const sniffLen = 512

type objectStore interface {
	Upload(ctx context.Context, bucket, object, contentType string, body io.Reader) error
	ObjectURL(bucket, object string, expires time.Duration) (string, error)
	DefaultBucket() string
}

type fieldSource interface {
	ConfigField(ctx context.Context, pieceID uuid.UUID, fieldID string) (*types.PersonalizationField, error)
	SessionField(sessionID uuid.UUID, fieldID string) (*types.PersonalizationField, error)
	BeginUpload(ctx context.Context, sessionID uuid.UUID, fieldID string) error
	CompleteUpload(ctx context.Context, sessionID uuid.UUID, fieldID, url, fileName, mimeType string, sizeBytes int64) error
	FailUpload(ctx context.Context, sessionID uuid.UUID, fieldID, message string) error
}

// Service stores personalization files and reports their stored URL.
type Service interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
}

// UploadInput models one multipart upload request.
type UploadInput struct {
	TenantID  uuid.UUID
	PieceID   uuid.UUID
	FieldID   string
	SessionID *uuid.UUID
	FileName  string
	MimeType  string
	SizeBytes int64
	Body      io.Reader
}

// UploadOutput is the response contract: the stored file's URL and its
// canonical file name.
type UploadOutput struct {
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}

type service struct {
	repo        MediaRepository
	store       objectStore
	fields      fieldSource
	logg        *logger.Logger
	metrics     *metrics.UploadMetrics
	maxBytes    int64
	urlExpiry   time.Duration
}

// NewService constructs an upload service instance.
func NewService(repo MediaRepository, store objectStore, fields fieldSource, logg *logger.Logger, uploadMetrics *metrics.UploadMetrics, maxUploadMB int, urlExpiry time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	if fields == nil {
		return nil, fmt.Errorf("field source required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if maxUploadMB <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	if urlExpiry <= 0 {
		urlExpiry = 24 * time.Hour
	}
	return &service{
		repo:      repo,
		store:     store,
		fields:    fields,
		logg:      logg,
		metrics:   uploadMetrics,
		maxBytes:  int64(maxUploadMB) * 1024 * 1024,
		urlExpiry: urlExpiry,
	}, nil
}

func (s *service) Upload(ctx context.Context, input UploadInput) (*UploadOutput, error) {
	start := time.Now()
	group := mimeGroup(input.MimeType)

	output, err := s.upload(ctx, input)
	if err != nil {
		s.metrics.IncFailure(group)
		return nil, err
	}

	s.metrics.IncSuccess(group)
	s.metrics.ObserveDuration(group, time.Since(start))
	s.metrics.ObserveSize(group, input.SizeBytes)
	return output, nil
}

func (s *service) upload(ctx context.Context, input UploadInput) (*UploadOutput, error) {
	fileName := sanitizeFileName(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file name is required")
	}
	if input.Body == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required")
	}
	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file must not be empty")
	}
	if input.SizeBytes > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file exceeds the %dMB upload limit", s.maxBytes/(1024*1024)))
	}

	field, err := s.resolveField(ctx, input)
	if err != nil {
		return nil, err
	}
	if field.Type != enums.FieldTypeFile {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "field does not accept file uploads")
	}

	body := bufio.NewReaderSize(input.Body, sniffLen)
	mimeType, err := effectiveMimeType(body, input.MimeType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading file")
	}

	candidate := &personalization.FileInput{
		URL:       "pending",
		Name:      fileName,
		MimeType:  mimeType,
		SizeBytes: input.SizeBytes,
	}
	if errs := personalization.ValidateFieldValue(*field, nil, candidate); len(errs) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file rejected").
			WithDetails(map[string]any{"fields": map[string][]string{field.ID: errs}})
	}

	if input.SessionID != nil {
		if err := s.fields.BeginUpload(ctx, *input.SessionID, field.ID); err != nil {
			return nil, err
		}
	}

	mediaID := uuid.New()
	gcsKey := buildGCSKey(input.PieceID, field.ID, mediaID, fileName)
	row := &models.Media{
		ID:        mediaID,
		TenantID:  input.TenantID,
		PieceID:   input.PieceID,
		FieldID:   field.ID,
		Status:    enums.MediaStatusPending,
		GCSKey:    gcsKey,
		FileName:  fileName,
		MimeType:  mimeType,
		SizeBytes: input.SizeBytes,
	}
	if _, err := s.repo.Create(ctx, row); err != nil {
		return nil, s.fail(ctx, input, field.ID, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting media row"))
	}

	limited := io.LimitReader(body, s.maxBytes+1)
	if err := s.store.Upload(ctx, s.store.DefaultBucket(), gcsKey, mimeType, limited); err != nil {
		_ = s.repo.MarkFailed(ctx, mediaID)
		return nil, s.fail(ctx, input, field.ID, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing file"))
	}

	url, err := s.store.ObjectURL(s.store.DefaultBucket(), gcsKey, s.urlExpiry)
	if err != nil {
		_ = s.repo.MarkFailed(ctx, mediaID)
		return nil, s.fail(ctx, input, field.ID, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolving file url"))
	}
	if err := s.repo.MarkStored(ctx, mediaID, url); err != nil {
		return nil, s.fail(ctx, input, field.ID, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marking media stored"))
	}

	if input.SessionID != nil {
		if err := s.fields.CompleteUpload(ctx, *input.SessionID, field.ID, url, fileName, mimeType, input.SizeBytes); err != nil {
			return nil, err
		}
	}

	ctx = s.logg.WithPieceID(ctx, input.PieceID.String())
	s.logg.Info(s.logg.WithField(ctx, "gcs_key", gcsKey), "personalization file stored")
	return &UploadOutput{URL: url, FileName: fileName}, nil
}

// fail records the failure on the session (if any) so the field ends up with
// an error and no file_url, then returns the original error.
func (s *service) fail(ctx context.Context, input UploadInput, fieldID string, err error) error {
	if input.SessionID != nil {
		_ = s.fields.FailUpload(ctx, *input.SessionID, fieldID, "Failed to upload file")
	}
	s.logg.Error(ctx, "personalization upload failed", err)
	return err
}

func (s *service) resolveField(ctx context.Context, input UploadInput) (*types.PersonalizationField, error) {
	if input.FieldID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fieldId is required")
	}
	if input.SessionID != nil {
		return s.fields.SessionField(*input.SessionID, input.FieldID)
	}
	if input.PieceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pieceId is required")
	}
	return s.fields.ConfigField(ctx, input.PieceID, input.FieldID)
}

// effectiveMimeType sniffs the leading bytes and falls back to the declared
// type when sniffing is inconclusive. A declared type that contradicts the
// sniffed one loses.
func effectiveMimeType(body *bufio.Reader, declared string) (string, error) {
	head, err := body.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return "", err
	}
	sniffed := http.DetectContentType(head)
	sniffed = strings.TrimSpace(strings.SplitN(sniffed, ";", 2)[0])

	declared = strings.TrimSpace(strings.ToLower(declared))
	if sniffed == "application/octet-stream" || sniffed == "text/plain" {
		if declared != "" {
			return declared, nil
		}
	}
	return sniffed, nil
}

func mimeGroup(mimeType string) string {
	group, _, found := strings.Cut(mimeType, "/")
	if !found || group == "" {
		return "unknown"
	}
	return strings.ToLower(group)
}

func buildGCSKey(pieceID uuid.UUID, fieldID string, mediaID uuid.UUID, fileName string) string {
	cleanName := sanitizeFileName(fileName)
	if cleanName == "" {
		cleanName = mediaID.String()
	}
	return fmt.Sprintf("personalization/%s/%s/%s/%s", pieceID, fieldID, mediaID, cleanName)
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" || clean == "." || clean == "/" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
