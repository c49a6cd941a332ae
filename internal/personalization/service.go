package personalization

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/madebuy/madebuy-backend/pkg/db/models"
	pkgerrors "github.com/madebuy/madebuy-backend/pkg/errors"
	"github.com/madebuy/madebuy-backend/pkg/logger"
	"github.com/madebuy/madebuy-backend/pkg/types"
)

// Service exposes personalization config management and form session flows.
type Service interface {
	GetConfig(ctx context.Context, tenantID, pieceID uuid.UUID) (*ConfigDTO, error)
	UpsertConfig(ctx context.Context, tenantID, pieceID uuid.UUID, input UpsertConfigInput) (*ConfigDTO, error)
	SetEnabled(ctx context.Context, tenantID, pieceID uuid.UUID, enabled bool) (*ConfigDTO, error)

	OpenSession(ctx context.Context, tenantID, pieceID uuid.UUID) (*SessionDTO, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*SessionDTO, error)
	SetFieldValue(ctx context.Context, sessionID uuid.UUID, fieldID string, value any) (*SessionDTO, error)
	BlurField(ctx context.Context, sessionID uuid.UUID, fieldID string) (*SessionDTO, error)
	RemoveFile(ctx context.Context, sessionID uuid.UUID, fieldID string) (*SessionDTO, error)
	BeginUpload(ctx context.Context, sessionID uuid.UUID, fieldID string) error
	CompleteUpload(ctx context.Context, sessionID uuid.UUID, fieldID, url, fileName, mimeType string, sizeBytes int64) error
	FailUpload(ctx context.Context, sessionID uuid.UUID, fieldID, message string) error

	ResolveSession(ctx context.Context, sessionID uuid.UUID) (*Submission, error)
	ResolveValues(ctx context.Context, pieceID uuid.UUID, values map[string]any, files map[string]*FileInput) (*Submission, error)
	CloseSession(ctx context.Context, sessionID uuid.UUID)

	SessionField(sessionID uuid.UUID, fieldID string) (*types.PersonalizationField, error)
	ConfigField(ctx context.Context, pieceID uuid.UUID, fieldID string) (*types.PersonalizationField, error)
}

type pieceLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Piece, error)
}

// service implements the personalization service.
type service struct {
	repo     ConfigRepository
	pieces   pieceLoader
	sessions *SessionStore
	logg     *logger.Logger
}

// NewService constructs a personalization service instance.
func NewService(repo ConfigRepository, pieces pieceLoader, sessions *SessionStore, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("config repository required")
	}
	if pieces == nil {
		return nil, fmt.Errorf("piece repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, pieces: pieces, sessions: sessions, logg: logg}, nil
}

func (s *service) GetConfig(ctx context.Context, tenantID, pieceID uuid.UUID) (*ConfigDTO, error) {
	if _, err := s.loadOwnedPiece(ctx, tenantID, pieceID); err != nil {
		return nil, err
	}
	config, err := s.repo.FindByPieceID(ctx, pieceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading personalization config")
	}
	if config == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "personalization config not found")
	}
	return toConfigDTO(config), nil
}

func (s *service) UpsertConfig(ctx context.Context, tenantID, pieceID uuid.UUID, input UpsertConfigInput) (*ConfigDTO, error) {
	if _, err := s.loadOwnedPiece(ctx, tenantID, pieceID); err != nil {
		return nil, err
	}

	if problems := ValidateConfig(input.Fields); len(problems) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid personalization config").
			WithDetails(map[string]any{"fields": problems})
	}

	config := &models.PersonalizationConfig{
		PieceID:        pieceID,
		Enabled:        input.Enabled,
		Instructions:   input.Instructions,
		ProcessingDays: input.ProcessingDays,
		Fields:         input.Fields.SortedByDisplayOrder(),
	}
	saved, err := s.repo.Upsert(ctx, config)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving personalization config")
	}

	ctx = s.logg.WithPieceID(ctx, pieceID.String())
	s.logg.Info(ctx, "personalization config saved")
	return toConfigDTO(saved), nil
}

func (s *service) SetEnabled(ctx context.Context, tenantID, pieceID uuid.UUID, enabled bool) (*ConfigDTO, error) {
	if _, err := s.loadOwnedPiece(ctx, tenantID, pieceID); err != nil {
		return nil, err
	}
	if err := s.repo.SetEnabled(ctx, pieceID, enabled); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "personalization config not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "toggling personalization config")
	}
	config, err := s.repo.FindByPieceID(ctx, pieceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading personalization config")
	}
	return toConfigDTO(config), nil
}

func (s *service) OpenSession(ctx context.Context, tenantID, pieceID uuid.UUID) (*SessionDTO, error) {
	piece, err := s.loadOwnedPiece(ctx, tenantID, pieceID)
	if err != nil {
		return nil, err
	}
	config, err := s.repo.FindByPieceID(ctx, pieceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading personalization config")
	}
	if config == nil || !config.Enabled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "personalization is not enabled for this piece")
	}

	fields := config.Fields.SortedByDisplayOrder()
	session := &FormSession{
		ID:             uuid.New(),
		TenantID:       tenantID,
		PieceID:        pieceID,
		BasePriceCents: piece.PriceCents,
		Fields:         fields,
	}
	session.Form = NewForm(fields, piece.PriceCents, nil)
	s.sessions.Put(session)

	ctx = s.logg.WithFormSessionID(s.logg.WithPieceID(ctx, pieceID.String()), session.ID.String())
	s.logg.Info(ctx, "form session opened")
	return toSessionDTO(session), nil
}

func (s *service) GetSession(ctx context.Context, sessionID uuid.UUID) (*SessionDTO, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return toSessionDTO(session), nil
}

func (s *service) SetFieldValue(ctx context.Context, sessionID uuid.UUID, fieldID string, value any) (*SessionDTO, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Form.SetValue(fieldID, value); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "setting field value")
	}
	return toSessionDTO(session), nil
}

func (s *service) BlurField(ctx context.Context, sessionID uuid.UUID, fieldID string) (*SessionDTO, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Form.Blur(fieldID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "marking field touched")
	}
	return toSessionDTO(session), nil
}

func (s *service) RemoveFile(ctx context.Context, sessionID uuid.UUID, fieldID string) (*SessionDTO, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Form.RemoveFile(fieldID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "removing file")
	}
	return toSessionDTO(session), nil
}

func (s *service) BeginUpload(ctx context.Context, sessionID uuid.UUID, fieldID string) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	if err := session.Form.BeginUpload(fieldID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "starting upload")
	}
	return nil
}

func (s *service) CompleteUpload(ctx context.Context, sessionID uuid.UUID, fieldID, url, fileName, mimeType string, sizeBytes int64) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	if err := session.Form.CompleteUpload(fieldID, url, fileName, mimeType, sizeBytes); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "completing upload")
	}
	return nil
}

func (s *service) FailUpload(ctx context.Context, sessionID uuid.UUID, fieldID, message string) error {
	session, err := s.session(sessionID)
	if err != nil {
		return err
	}
	if err := session.Form.FailUpload(fieldID, message); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "recording upload failure")
	}
	return nil
}

// ResolveSession turns a valid form session into a cart-ready submission.
func (s *service) ResolveSession(ctx context.Context, sessionID uuid.UUID) (*Submission, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	snapshot := session.Form.Snapshot()
	if !snapshot.Valid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "personalization form is incomplete").
			WithDetails(fieldErrorDetails(session.Fields, session.Form))
	}

	return &Submission{
		Values:               snapshot.Values,
		TotalAdjustmentCents: snapshot.TotalAdjustmentCents,
		ExtraProcessingDays:  s.processingDays(ctx, session.PieceID),
	}, nil
}

// ResolveValues validates a raw value map against the piece's config and
// returns a submission. Used when the storefront submits a whole form at once
// rather than driving a server session.
func (s *service) ResolveValues(ctx context.Context, pieceID uuid.UUID, values map[string]any, files map[string]*FileInput) (*Submission, error) {
	piece, err := s.pieces.FindByID(ctx, pieceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading piece")
	}
	if piece == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "piece not found")
	}
	config, err := s.repo.FindByPieceID(ctx, pieceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading personalization config")
	}
	if config == nil || !config.Enabled {
		if len(values) > 0 || len(files) > 0 {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "personalization is not enabled for this piece")
		}
		return &Submission{}, nil
	}

	fields := config.Fields.SortedByDisplayOrder()
	problems := map[string][]string{}
	resolved := make(types.PersonalizationValues, 0, len(fields))

	for _, field := range fields {
		value := values[field.ID]
		file := files[field.ID]
		if errs := ValidateFieldValue(field, value, file); len(errs) > 0 {
			problems[field.ID] = errs
			continue
		}
		if isEmptyValue(field.Type, value, file) {
			continue
		}
		entry := types.PersonalizationValue{
			FieldID:              field.ID,
			FieldName:            field.Name,
			Value:                value,
			PriceAdjustmentCents: FieldContribution(field, piece.PriceCents),
		}
		if file != nil {
			url := file.URL
			name := file.Name
			entry.FileURL = &url
			entry.FileName = &name
			if entry.Value == nil {
				entry.Value = name
			}
		}
		resolved = append(resolved, entry)
	}

	if len(problems) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "personalization form is incomplete").
			WithDetails(map[string]any{"fields": problems})
	}

	extra := 0
	if config.ProcessingDays != nil {
		extra = *config.ProcessingDays
	}
	return &Submission{
		Values:               resolved,
		TotalAdjustmentCents: resolved.TotalAdjustmentCents(),
		ExtraProcessingDays:  extra,
	}, nil
}

// CloseSession drops a session, typically after its values landed in a cart.
func (s *service) CloseSession(ctx context.Context, sessionID uuid.UUID) {
	s.sessions.Delete(sessionID)
}

// SessionField returns the config field backing a session's field id. Used by
// the upload flow to enforce file constraints before storing.
func (s *service) SessionField(sessionID uuid.UUID, fieldID string) (*types.PersonalizationField, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	field := session.Fields.ByID(fieldID)
	if field == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "field not found")
	}
	return field, nil
}

// ConfigField loads a field straight from the piece's stored config. Used by
// the upload flow when the storefront has no server session open.
func (s *service) ConfigField(ctx context.Context, pieceID uuid.UUID, fieldID string) (*types.PersonalizationField, error) {
	config, err := s.repo.FindByPieceID(ctx, pieceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading personalization config")
	}
	if config == nil || !config.Enabled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "personalization is not enabled for this piece")
	}
	field := config.Fields.ByID(fieldID)
	if field == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "field not found")
	}
	return field, nil
}

func (s *service) session(sessionID uuid.UUID) (*FormSession, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "form session not found")
	}
	return session, nil
}

func (s *service) loadOwnedPiece(ctx context.Context, tenantID, pieceID uuid.UUID) (*models.Piece, error) {
	piece, err := s.pieces.FindByID(ctx, pieceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading piece")
	}
	if piece == nil || piece.TenantID != tenantID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "piece not found")
	}
	return piece, nil
}

func (s *service) processingDays(ctx context.Context, pieceID uuid.UUID) int {
	config, err := s.repo.FindByPieceID(ctx, pieceID)
	if err != nil || config == nil || config.ProcessingDays == nil {
		return 0
	}
	return *config.ProcessingDays
}

func fieldErrorDetails(fields types.PersonalizationFields, form *Form) map[string]any {
	problems := map[string][]string{}
	for _, field := range fields {
		state, ok := form.State(field.ID)
		if !ok {
			continue
		}
		errs := state.Errors
		if len(errs) == 0 && field.Required {
			if check := ValidateFieldValue(field, state.Value, fileInputFromState(state)); len(check) > 0 {
				errs = check
			}
		}
		if len(errs) > 0 {
			problems[field.ID] = errs
		}
	}
	return map[string]any{"fields": problems}
}

func fileInputFromState(state FieldState) *FileInput {
	if state.FileURL == nil {
		return nil
	}
	input := &FileInput{URL: *state.FileURL}
	if state.FileName != nil {
		input.Name = *state.FileName
	}
	if state.FileMimeType != nil {
		input.MimeType = *state.FileMimeType
	}
	if state.FileSizeBytes != nil {
		input.SizeBytes = *state.FileSizeBytes
	}
	return input
}
