package personalization

import (
	"testing"

	"github.com/madebuy/madebuy-backend/pkg/enums"
	"github.com/madebuy/madebuy-backend/pkg/types"
)

func scenarioFields() types.PersonalizationFields {
	return types.PersonalizationFields{
		{ID: "color", Name: "Color", Type: enums.FieldTypeSelect, Required: true, DisplayOrder: 1, Options: []string{"A", "B"}},
		{ID: "count", Name: "Count", Type: enums.FieldTypeNumber, DisplayOrder: 2, PriceAdjustment: floatPtr(100), PriceAdjustmentType: enums.PriceAdjustmentFixed},
	}
}

func TestFormScenarioValidityAndTotal(t *testing.T) {
	form := NewForm(scenarioFields(), 2000, nil)

	if form.Valid() {
		t.Fatal("form with empty required select must start invalid")
	}

	if err := form.SetValue("color", "A"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	snapshot := form.Snapshot()
	if !snapshot.Valid {
		t.Fatalf("expected valid after required select filled, got %+v", snapshot)
	}
	if snapshot.TotalAdjustmentCents != 0 {
		t.Fatalf("empty optional number must contribute 0, got %d", snapshot.TotalAdjustmentCents)
	}

	if err := form.SetValue("color", ""); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if form.Valid() {
		t.Fatal("clearing required select must invalidate the form")
	}
}

func TestFormValuesCarryAdjustments(t *testing.T) {
	form := NewForm(scenarioFields(), 2000, nil)
	if err := form.SetValue("color", "B"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if err := form.SetValue("count", "3"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	snapshot := form.Snapshot()
	if len(snapshot.Values) != 2 {
		t.Fatalf("expected 2 values, got %d", len(snapshot.Values))
	}
	if snapshot.Values[0].FieldID != "color" || snapshot.Values[1].FieldID != "count" {
		t.Fatalf("values out of display order: %+v", snapshot.Values)
	}
	if snapshot.Values[1].PriceAdjustmentCents != 100 {
		t.Fatalf("count adjustment = %d, want 100", snapshot.Values[1].PriceAdjustmentCents)
	}
	if snapshot.TotalAdjustmentCents != 100 {
		t.Fatalf("total = %d, want 100", snapshot.TotalAdjustmentCents)
	}
}

func TestFormTouchedIsOneWayAndGatesErrors(t *testing.T) {
	form := NewForm(scenarioFields(), 2000, nil)

	if errs := form.VisibleErrors("color"); errs != nil {
		t.Fatalf("untouched field must not expose errors, got %v", errs)
	}

	if err := form.Blur("color"); err != nil {
		t.Fatalf("Blur: %v", err)
	}
	if errs := form.VisibleErrors("color"); len(errs) == 0 {
		t.Fatal("touched empty required field must expose required error")
	}

	if err := form.SetValue("color", "A"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	state, ok := form.State("color")
	if !ok || !state.Touched {
		t.Fatal("touched must persist after value change")
	}
	if errs := form.VisibleErrors("color"); len(errs) != 0 {
		t.Fatalf("valid touched field should have no errors, got %v", errs)
	}
}

func TestFormEmitsChangeEvents(t *testing.T) {
	var events []ChangeEvent
	form := NewForm(scenarioFields(), 2000, func(ev ChangeEvent) {
		events = append(events, ev)
	})

	if err := form.SetValue("color", "A"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if err := form.SetValue("count", "2"); err != nil {
		t.Fatalf("SetValue: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("expected 2 change events, got %d", len(events))
	}
	last := events[len(events)-1]
	if !last.Valid || last.TotalAdjustmentCents != 100 {
		t.Fatalf("unexpected final event %+v", last)
	}
}

func TestFormUploadLifecycle(t *testing.T) {
	fields := types.PersonalizationFields{
		{ID: "art", Name: "Artwork", Type: enums.FieldTypeFile, Required: true, AcceptedFileTypes: []string{"image/*"}},
	}
	form := NewForm(fields, 1000, nil)

	if form.Valid() {
		t.Fatal("required file field without upload must be invalid")
	}

	if err := form.BeginUpload("art"); err != nil {
		t.Fatalf("BeginUpload: %v", err)
	}
	state, _ := form.State("art")
	if !state.Uploading {
		t.Fatal("expected uploading flag set")
	}
	if form.Valid() {
		t.Fatal("form must stay invalid while required upload is in flight")
	}

	if err := form.CompleteUpload("art", "https://cdn/x.png", "x.png", "image/png", 2048); err != nil {
		t.Fatalf("CompleteUpload: %v", err)
	}
	state, _ = form.State("art")
	if state.Uploading || state.FileURL == nil || *state.FileURL != "https://cdn/x.png" {
		t.Fatalf("unexpected state after upload: %+v", state)
	}
	if state.FileMimeType == nil || *state.FileMimeType != "image/png" {
		t.Fatalf("completed upload must keep its mime type, got %+v", state)
	}
	if !form.Valid() {
		t.Fatal("form must be valid after required upload completes")
	}

	if err := form.RemoveFile("art"); err != nil {
		t.Fatalf("RemoveFile: %v", err)
	}
	state, _ = form.State("art")
	if state.FileURL != nil || state.FileName != nil || state.Value != nil {
		t.Fatalf("remove must clear file state, got %+v", state)
	}
	if form.Valid() {
		t.Fatal("form must be invalid again after file removal")
	}
}

func TestFormCompletedUploadStaysValidOnBlur(t *testing.T) {
	fields := types.PersonalizationFields{
		{ID: "art", Name: "Artwork", Type: enums.FieldTypeFile, Required: true, AcceptedFileTypes: []string{"image/*"}, MaxFileSizeMB: intPtr(5)},
	}
	form := NewForm(fields, 1000, nil)

	if err := form.BeginUpload("art"); err != nil {
		t.Fatalf("BeginUpload: %v", err)
	}
	if err := form.CompleteUpload("art", "https://cdn/photo.png", "photo.png", "image/png", 1024); err != nil {
		t.Fatalf("CompleteUpload: %v", err)
	}
	if errs := form.VisibleErrors("art"); len(errs) != 0 {
		t.Fatalf("accepted upload must not carry errors, got %v", errs)
	}

	if err := form.Blur("art"); err != nil {
		t.Fatalf("Blur: %v", err)
	}
	if errs := form.VisibleErrors("art"); len(errs) != 0 {
		t.Fatalf("blur after accepted upload must not surface errors, got %v", errs)
	}
	if !form.Valid() {
		t.Fatal("form must remain valid after blur on an accepted upload")
	}
}

func TestFormCompleteUploadRejectsWrongMimeType(t *testing.T) {
	fields := types.PersonalizationFields{
		{ID: "art", Name: "Artwork", Type: enums.FieldTypeFile, Required: true, AcceptedFileTypes: []string{"image/*"}},
	}
	form := NewForm(fields, 1000, nil)

	if err := form.CompleteUpload("art", "https://cdn/doc.pdf", "doc.pdf", "application/pdf", 1024); err != nil {
		t.Fatalf("CompleteUpload: %v", err)
	}
	if errs := form.VisibleErrors("art"); len(errs) == 0 {
		t.Fatal("mismatched mime type must surface an error")
	}
	if form.Valid() {
		t.Fatal("form must be invalid with a rejected file type")
	}
}

func TestFormFailUploadKeepsFieldUnsatisfied(t *testing.T) {
	fields := types.PersonalizationFields{
		{ID: "art", Name: "Artwork", Type: enums.FieldTypeFile, Required: true},
	}
	form := NewForm(fields, 1000, nil)

	if err := form.BeginUpload("art"); err != nil {
		t.Fatalf("BeginUpload: %v", err)
	}
	if err := form.FailUpload("art", ""); err != nil {
		t.Fatalf("FailUpload: %v", err)
	}

	state, _ := form.State("art")
	if state.Uploading {
		t.Fatal("uploading flag must clear on failure")
	}
	if state.FileURL != nil {
		t.Fatal("failed upload must leave no file url")
	}
	if len(state.Errors) == 0 || state.Errors[0] != "Failed to upload file" {
		t.Fatalf("expected default failure message, got %v", state.Errors)
	}
	if form.Valid() {
		t.Fatal("form must be invalid after failed required upload")
	}
}

func TestFormRejectsUnknownFieldAndDirectFileValue(t *testing.T) {
	fields := types.PersonalizationFields{
		{ID: "art", Name: "Artwork", Type: enums.FieldTypeFile},
	}
	form := NewForm(fields, 1000, nil)

	if err := form.SetValue("missing", "x"); err == nil {
		t.Fatal("expected error for unknown field")
	}
	if err := form.SetValue("art", "x"); err == nil {
		t.Fatal("expected error for direct value on file field")
	}
}
