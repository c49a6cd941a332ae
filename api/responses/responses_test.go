package responses

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/madebuy/madebuy-backend/pkg/errors"
	"github.com/madebuy/madebuy-backend/pkg/types"
)

func TestWriteSuccessWrapsDataEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"hello": "world"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if envelope.Data["hello"] != "world" {
		t.Fatalf("unexpected payload %+v", envelope)
	}
}

func TestWriteErrorUsesCodeMetadata(t *testing.T) {
	tests := []struct {
		code       pkgerrors.Code
		message    string
		wantStatus int
		wantMsg    string
	}{
		{pkgerrors.CodeValidation, "quantity must be positive", http.StatusBadRequest, "quantity must be positive"},
		{pkgerrors.CodeNotFound, "piece not found", http.StatusNotFound, "piece not found"},
		{pkgerrors.CodeStateConflict, "personalization form is incomplete", http.StatusUnprocessableEntity, "personalization form is incomplete"},
		{pkgerrors.CodeRateLimit, "rate limit exceeded", http.StatusTooManyRequests, "rate limit exceeded"},
		// internal details never leak to clients
		{pkgerrors.CodeInternal, "pg constraint exploded", http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		WriteError(context.Background(), nil, rec, pkgerrors.New(tt.code, tt.message))

		if rec.Code != tt.wantStatus {
			t.Fatalf("%s: expected status %d got %d", tt.code, tt.wantStatus, rec.Code)
		}

		var envelope types.ErrorEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("%s: decoding body: %v", tt.code, err)
		}
		if envelope.Error.Code != string(tt.code) {
			t.Fatalf("%s: unexpected code %q", tt.code, envelope.Error.Code)
		}
		if envelope.Error.Message != tt.wantMsg {
			t.Fatalf("%s: expected message %q got %q", tt.code, tt.wantMsg, envelope.Error.Message)
		}
	}
}

func TestWriteErrorWrapsUntypedAsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, fmt.Errorf("boom"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeInternal) {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
}

func TestWriteErrorIncludesDetailsWhenAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
		WithDetails(map[string]any{"fields": map[string][]string{"engraving": {"Engraving is required"}}})
	WriteError(context.Background(), nil, rec, err)

	var envelope types.ErrorEnvelope
	if decodeErr := json.Unmarshal(rec.Body.Bytes(), &envelope); decodeErr != nil {
		t.Fatalf("decoding body: %v", decodeErr)
	}
	if envelope.Error.Details == nil {
		t.Fatal("expected details to be present for validation errors")
	}
}
