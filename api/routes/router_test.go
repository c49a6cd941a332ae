package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/madebuy/madebuy-backend/api/controllers"
	"github.com/madebuy/madebuy-backend/internal/cart"
	"github.com/madebuy/madebuy-backend/internal/personalization"
	"github.com/madebuy/madebuy-backend/internal/pieces"
	"github.com/madebuy/madebuy-backend/internal/uploads"
	"github.com/madebuy/madebuy-backend/pkg/config"
	"github.com/madebuy/madebuy-backend/pkg/logger"
	"github.com/madebuy/madebuy-backend/pkg/pagination"
	"github.com/madebuy/madebuy-backend/pkg/types"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubPieceService struct{}

func (stubPieceService) CreatePiece(ctx context.Context, tenantID uuid.UUID, input pieces.CreatePieceInput) (*pieces.PieceDTO, error) {
	return &pieces.PieceDTO{ID: uuid.New(), TenantID: tenantID, SKU: input.SKU, Title: input.Title}, nil
}

func (stubPieceService) UpdatePiece(ctx context.Context, tenantID, pieceID uuid.UUID, input pieces.UpdatePieceInput) (*pieces.PieceDTO, error) {
	panic("unimplemented")
}

func (stubPieceService) GetPiece(ctx context.Context, tenantID, pieceID uuid.UUID) (*pieces.PieceDTO, error) {
	panic("unimplemented")
}

func (stubPieceService) ListPieces(ctx context.Context, tenantID uuid.UUID, params pagination.Params) (*pieces.PieceListResult, error) {
	return &pieces.PieceListResult{Pieces: []pieces.PieceDTO{}}, nil
}

func (stubPieceService) DeletePiece(ctx context.Context, tenantID, pieceID uuid.UUID) error {
	panic("unimplemented")
}

type stubPersonalizationService struct{}

func (stubPersonalizationService) GetConfig(ctx context.Context, tenantID, pieceID uuid.UUID) (*personalization.ConfigDTO, error) {
	return &personalization.ConfigDTO{PieceID: pieceID, Enabled: true}, nil
}

func (stubPersonalizationService) UpsertConfig(ctx context.Context, tenantID, pieceID uuid.UUID, input personalization.UpsertConfigInput) (*personalization.ConfigDTO, error) {
	panic("unimplemented")
}

func (stubPersonalizationService) SetEnabled(ctx context.Context, tenantID, pieceID uuid.UUID, enabled bool) (*personalization.ConfigDTO, error) {
	panic("unimplemented")
}

func (stubPersonalizationService) OpenSession(ctx context.Context, tenantID, pieceID uuid.UUID) (*personalization.SessionDTO, error) {
	panic("unimplemented")
}

func (stubPersonalizationService) GetSession(ctx context.Context, sessionID uuid.UUID) (*personalization.SessionDTO, error) {
	panic("unimplemented")
}

func (stubPersonalizationService) SetFieldValue(ctx context.Context, sessionID uuid.UUID, fieldID string, value any) (*personalization.SessionDTO, error) {
	panic("unimplemented")
}

func (stubPersonalizationService) BlurField(ctx context.Context, sessionID uuid.UUID, fieldID string) (*personalization.SessionDTO, error) {
	panic("unimplemented")
}

func (stubPersonalizationService) RemoveFile(ctx context.Context, sessionID uuid.UUID, fieldID string) (*personalization.SessionDTO, error) {
	panic("unimplemented")
}

func (stubPersonalizationService) BeginUpload(ctx context.Context, sessionID uuid.UUID, fieldID string) error {
	panic("unimplemented")
}

func (stubPersonalizationService) CompleteUpload(ctx context.Context, sessionID uuid.UUID, fieldID, url, fileName, mimeType string, sizeBytes int64) error {
	panic("unimplemented")
}

func (stubPersonalizationService) FailUpload(ctx context.Context, sessionID uuid.UUID, fieldID, message string) error {
	panic("unimplemented")
}

func (stubPersonalizationService) ResolveSession(ctx context.Context, sessionID uuid.UUID) (*personalization.Submission, error) {
	panic("unimplemented")
}

func (stubPersonalizationService) ResolveValues(ctx context.Context, pieceID uuid.UUID, values map[string]any, files map[string]*personalization.FileInput) (*personalization.Submission, error) {
	panic("unimplemented")
}

func (stubPersonalizationService) CloseSession(ctx context.Context, sessionID uuid.UUID) {}

func (stubPersonalizationService) SessionField(sessionID uuid.UUID, fieldID string) (*types.PersonalizationField, error) {
	panic("unimplemented")
}

func (stubPersonalizationService) ConfigField(ctx context.Context, pieceID uuid.UUID, fieldID string) (*types.PersonalizationField, error) {
	panic("unimplemented")
}

type stubUploadService struct{}

func (stubUploadService) Upload(ctx context.Context, input uploads.UploadInput) (*uploads.UploadOutput, error) {
	return &uploads.UploadOutput{URL: "https://cdn/" + input.FileName, FileName: input.FileName}, nil
}

type stubCartService struct{}

func (stubCartService) AddItem(ctx context.Context, tenantID uuid.UUID, input cart.AddItemInput) (*cart.CartDTO, error) {
	return &cart.CartDTO{ID: uuid.New(), TenantID: tenantID, BuyerRef: input.BuyerRef}, nil
}

func (stubCartService) GetCart(ctx context.Context, tenantID uuid.UUID, buyerRef string) (*cart.CartDTO, error) {
	return &cart.CartDTO{ID: uuid.New(), TenantID: tenantID, BuyerRef: buyerRef}, nil
}

func (stubCartService) RemoveItem(ctx context.Context, tenantID uuid.UUID, buyerRef string, itemID uuid.UUID) (*cart.CartDTO, error) {
	panic("unimplemented")
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.Uploads.MaxUploadMB = 5
	cfg.Uploads.RateLimit = 0
	cfg.Uploads.RateLimitWindow = time.Minute

	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})

	return NewRouter(Deps{
		Config:                 cfg,
		Logger:                 logg,
		Registry:               prometheus.NewRegistry(),
		Pingers:                map[string]controllers.Pinger{"database": stubPinger{}},
		PieceService:           stubPieceService{},
		PersonalizationService: stubPersonalizationService{},
		UploadService:          stubUploadService{},
		CartService:            stubCartService{},
	})
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestMetricsRouteExposed(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestTenantScopedRoutesRequireHeader(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without tenant header, got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("X-Tenant-Id", uuid.NewString())
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with tenant header, got %d", resp.Code)
	}
}

func TestCreatePieceRoute(t *testing.T) {
	router := newTestRouter(t)

	body := strings.NewReader(`{"sku":"mug-1","title":"Mug","price_cents":2000}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pieces", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-Id", uuid.NewString())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAddCartItemRoute(t *testing.T) {
	router := newTestRouter(t)

	body := strings.NewReader(`{"piece_id":"` + uuid.NewString() + `","quantity":1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-Id", uuid.NewString())
	req.Header.Set("X-Buyer-Ref", "buyer-1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAddCartItemRequiresBuyerRef(t *testing.T) {
	router := newTestRouter(t)

	body := strings.NewReader(`{"piece_id":"` + uuid.NewString() + `","quantity":1}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-Id", uuid.NewString())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without buyer ref, got %d", resp.Code)
	}
}

func TestPersonalizationUploadRoute(t *testing.T) {
	router := newTestRouter(t)

	// served at both the versioned path and the original storefront path
	for _, path := range []string{"/api/v1/personalization/upload", "/api/personalization/upload"} {
		var buf bytes.Buffer
		form := multipart.NewWriter(&buf)
		_ = form.WriteField("pieceId", uuid.NewString())
		_ = form.WriteField("fieldId", "artwork")
		part, err := form.CreateFormFile("file", "art.png")
		if err != nil {
			t.Fatalf("creating form file: %v", err)
		}
		if _, err := part.Write([]byte("png-bytes")); err != nil {
			t.Fatalf("writing form file: %v", err)
		}
		_ = form.Close()

		req := httptest.NewRequest(http.MethodPost, path, &buf)
		req.Header.Set("Content-Type", form.FormDataContentType())
		req.Header.Set("X-Tenant-Id", uuid.NewString())
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d: %s", path, resp.Code, resp.Body.String())
		}

		var envelope struct {
			Data struct {
				URL      string `json:"url"`
				FileName string `json:"fileName"`
			} `json:"data"`
		}
		if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("%s: decoding body: %v", path, err)
		}
		if envelope.Data.FileName != "art.png" || envelope.Data.URL == "" {
			t.Fatalf("%s: unexpected upload payload %+v", path, envelope.Data)
		}
	}
}
