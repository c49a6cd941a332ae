package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/madebuy/madebuy-backend/internal/personalization"
	"github.com/madebuy/madebuy-backend/pkg/db/models"
	"github.com/madebuy/madebuy-backend/pkg/enums"
	pkgerrors "github.com/madebuy/madebuy-backend/pkg/errors"
	"github.com/madebuy/madebuy-backend/pkg/logger"
	"github.com/madebuy/madebuy-backend/pkg/metrics"
)

const (
	rejectReasonIncomplete = "incomplete_personalization"
	rejectReasonNotFound   = "piece_not_found"
	rejectReasonInactive   = "piece_inactive"
)

type pieceLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Piece, error)
}

type personalizer interface {
	ResolveSession(ctx context.Context, sessionID uuid.UUID) (*personalization.Submission, error)
	ResolveValues(ctx context.Context, pieceID uuid.UUID, values map[string]any, files map[string]*personalization.FileInput) (*personalization.Submission, error)
	CloseSession(ctx context.Context, sessionID uuid.UUID)
}

// Service exposes buyer cart operations.
type Service interface {
	AddItem(ctx context.Context, tenantID uuid.UUID, input AddItemInput) (*CartDTO, error)
	GetCart(ctx context.Context, tenantID uuid.UUID, buyerRef string) (*CartDTO, error)
	RemoveItem(ctx context.Context, tenantID uuid.UUID, buyerRef string, itemID uuid.UUID) (*CartDTO, error)
}

// service implements the cart service.
type service struct {
	repo    CartRepository
	pieces  pieceLoader
	persona personalizer
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// NewService constructs a cart service instance.
func NewService(repo CartRepository, pieces pieceLoader, persona personalizer, logg *logger.Logger, cartMetrics *metrics.CartMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if pieces == nil {
		return nil, fmt.Errorf("piece repository required")
	}
	if persona == nil {
		return nil, fmt.Errorf("personalization service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, pieces: pieces, persona: persona, logg: logg, metrics: cartMetrics}, nil
}

// AddItem validates the piece and its personalization, then appends a line to
// the buyer's active cart. The personalization snapshot and computed totals
// are frozen on the line; later config edits never touch it.
func (s *service) AddItem(ctx context.Context, tenantID uuid.UUID, input AddItemInput) (*CartDTO, error) {
	buyerRef := strings.TrimSpace(input.BuyerRef)
	if buyerRef == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer reference is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	piece, err := s.pieces.FindByID(ctx, input.PieceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading piece")
	}
	if piece == nil || piece.TenantID != tenantID {
		s.metrics.IncRejected(rejectReasonNotFound)
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "piece not found")
	}
	if !piece.IsActive {
		s.metrics.IncRejected(rejectReasonInactive)
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "piece is not for sale")
	}

	submission, err := s.resolveSubmission(ctx, input)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeStateConflict {
			s.metrics.IncRejected(rejectReasonIncomplete)
		}
		return nil, err
	}

	record, err := s.activeCart(ctx, tenantID, buyerRef, piece)
	if err != nil {
		return nil, err
	}

	unitPrice := piece.PriceCents + submission.TotalAdjustmentCents
	item := &models.CartItem{
		CartID:                    record.ID,
		PieceID:                   piece.ID,
		Quantity:                  input.Quantity,
		BasePriceCents:            piece.PriceCents,
		Personalization:           submission.Values,
		PersonalizationTotalCents: submission.TotalAdjustmentCents,
		UnitPriceCents:            unitPrice,
		LineSubtotalCents:         unitPrice * int64(input.Quantity),
		ExtraProcessingDays:       submission.ExtraProcessingDays,
	}
	if _, err := s.repo.AddItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding cart item")
	}

	if input.SessionID != nil {
		s.persona.CloseSession(ctx, *input.SessionID)
	}

	personalized := len(submission.Values) > 0
	s.metrics.IncAdded(personalized)
	if personalized {
		s.metrics.ObserveTotal(true, submission.TotalAdjustmentCents)
	}

	ctx = s.logg.WithPieceID(s.logg.WithTenantID(ctx, tenantID.String()), piece.ID.String())
	s.logg.Info(ctx, "cart item added")

	return s.GetCart(ctx, tenantID, buyerRef)
}

func (s *service) GetCart(ctx context.Context, tenantID uuid.UUID, buyerRef string) (*CartDTO, error) {
	record, err := s.repo.FindActiveByBuyer(ctx, tenantID, buyerRef)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}
	return toCartDTO(record), nil
}

func (s *service) RemoveItem(ctx context.Context, tenantID uuid.UUID, buyerRef string, itemID uuid.UUID) (*CartDTO, error) {
	record, err := s.repo.FindActiveByBuyer(ctx, tenantID, buyerRef)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
	}

	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart item")
	}
	if item == nil || item.CartID != record.ID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
	}
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart item")
	}
	return s.GetCart(ctx, tenantID, buyerRef)
}

// resolveSubmission runs the full server-side re-validation: either the open
// form session resolves, or the raw values are checked field by field.
func (s *service) resolveSubmission(ctx context.Context, input AddItemInput) (*personalization.Submission, error) {
	if input.SessionID != nil {
		return s.persona.ResolveSession(ctx, *input.SessionID)
	}
	return s.persona.ResolveValues(ctx, input.PieceID, input.Values, input.Files)
}

func (s *service) activeCart(ctx context.Context, tenantID uuid.UUID, buyerRef string, piece *models.Piece) (*models.CartRecord, error) {
	record, err := s.repo.FindActiveByBuyer(ctx, tenantID, buyerRef)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if record != nil {
		return record, nil
	}

	record = &models.CartRecord{
		TenantID: tenantID,
		BuyerRef: buyerRef,
		Status:   enums.CartStatusActive,
	}
	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating cart")
	}
	return created, nil
}
