package pieces

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/madebuy/madebuy-backend/pkg/db"
	"github.com/madebuy/madebuy-backend/pkg/db/models"
	pkgerrors "github.com/madebuy/madebuy-backend/pkg/errors"
	"github.com/madebuy/madebuy-backend/pkg/logger"
	"github.com/madebuy/madebuy-backend/pkg/pagination"
)

// Service exposes tenant piece management operations.
type Service interface {
	CreatePiece(ctx context.Context, tenantID uuid.UUID, input CreatePieceInput) (*PieceDTO, error)
	UpdatePiece(ctx context.Context, tenantID, pieceID uuid.UUID, input UpdatePieceInput) (*PieceDTO, error)
	GetPiece(ctx context.Context, tenantID, pieceID uuid.UUID) (*PieceDTO, error)
	ListPieces(ctx context.Context, tenantID uuid.UUID, params pagination.Params) (*PieceListResult, error)
	DeletePiece(ctx context.Context, tenantID, pieceID uuid.UUID) error
}

// skuConstraint is the unique index postgres derives from UNIQUE (tenant_id, sku).
const skuConstraint = "pieces_tenant_id_sku_key"

// service implements the piece service.
type service struct {
	repo PieceRepository
	logg *logger.Logger
}

// NewService constructs a piece service instance.
func NewService(repo PieceRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("piece repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) CreatePiece(ctx context.Context, tenantID uuid.UUID, input CreatePieceInput) (*PieceDTO, error) {
	sku := strings.TrimSpace(input.SKU)
	title := strings.TrimSpace(input.Title)
	if sku == "" || title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku and title are required")
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	piece := &models.Piece{
		TenantID:    tenantID,
		SKU:         sku,
		Title:       title,
		Description: input.Description,
		PriceCents:  input.PriceCents,
		IsActive:    input.IsActive,
		Tags:        pq.StringArray(input.Tags),
	}
	created, err := s.repo.Create(ctx, piece)
	if err != nil {
		if db.IsUniqueViolation(err, skuConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a piece with this sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating piece")
	}

	ctx = s.logg.WithPieceID(ctx, created.ID.String())
	s.logg.Info(ctx, "piece created")
	return toPieceDTO(created), nil
}

func (s *service) UpdatePiece(ctx context.Context, tenantID, pieceID uuid.UUID, input UpdatePieceInput) (*PieceDTO, error) {
	piece, err := s.ownedPiece(ctx, tenantID, pieceID)
	if err != nil {
		return nil, err
	}

	if input.SKU != nil {
		sku := strings.TrimSpace(*input.SKU)
		if sku == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku must not be empty")
		}
		piece.SKU = sku
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title must not be empty")
		}
		piece.Title = title
	}
	if input.Description != nil {
		piece.Description = input.Description
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		piece.PriceCents = *input.PriceCents
	}
	if input.IsActive != nil {
		piece.IsActive = *input.IsActive
	}
	if input.Tags != nil {
		piece.Tags = pq.StringArray(*input.Tags)
	}

	updated, err := s.repo.Update(ctx, piece)
	if err != nil {
		if db.IsUniqueViolation(err, skuConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a piece with this sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating piece")
	}
	return toPieceDTO(updated), nil
}

func (s *service) GetPiece(ctx context.Context, tenantID, pieceID uuid.UUID) (*PieceDTO, error) {
	piece, err := s.ownedPiece(ctx, tenantID, pieceID)
	if err != nil {
		return nil, err
	}
	return toPieceDTO(piece), nil
}

func (s *service) ListPieces(ctx context.Context, tenantID uuid.UUID, params pagination.Params) (*PieceListResult, error) {
	rows, err := s.repo.ListByTenant(ctx, tenantID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "listing pieces")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	result := &PieceListResult{Pieces: make([]PieceDTO, 0, len(rows))}

	for i := range rows {
		if i == limit {
			last := rows[limit-1]
			cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
			result.NextCursor = &cursor
			break
		}
		result.Pieces = append(result.Pieces, *toPieceDTO(&rows[i]))
	}
	return result, nil
}

func (s *service) DeletePiece(ctx context.Context, tenantID, pieceID uuid.UUID) error {
	if _, err := s.ownedPiece(ctx, tenantID, pieceID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, pieceID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting piece")
	}
	ctx = s.logg.WithPieceID(ctx, pieceID.String())
	s.logg.Info(ctx, "piece deleted")
	return nil
}

func (s *service) ownedPiece(ctx context.Context, tenantID, pieceID uuid.UUID) (*models.Piece, error) {
	piece, err := s.repo.FindByID(ctx, pieceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading piece")
	}
	if piece == nil || piece.TenantID != tenantID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "piece not found")
	}
	return piece, nil
}
