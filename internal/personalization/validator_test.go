package personalization

import (
	"reflect"
	"testing"

	"github.com/madebuy/madebuy-backend/pkg/enums"
	"github.com/madebuy/madebuy-backend/pkg/types"
)

func intPtr(v int) *int          { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string    { return &v }

func TestValidateFieldValueRequired(t *testing.T) {
	field := types.PersonalizationField{
		ID:       "engraving",
		Name:     "Engraving",
		Type:     enums.FieldTypeText,
		Required: true,
	}

	for _, value := range []any{nil, "", "   "} {
		if errs := ValidateFieldValue(field, value, nil); len(errs) != 1 {
			t.Fatalf("expected one required error for %#v, got %v", value, errs)
		}
	}

	if errs := ValidateFieldValue(field, "hello", nil); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidateFieldValueOptionalEmptySkipsConstraints(t *testing.T) {
	field := types.PersonalizationField{
		ID:        "note",
		Name:      "Note",
		Type:      enums.FieldTypeText,
		MaxLength: intPtr(3),
	}
	if errs := ValidateFieldValue(field, "", nil); len(errs) != 0 {
		t.Fatalf("empty optional value should pass, got %v", errs)
	}
}

func TestValidateFieldValueMaxLength(t *testing.T) {
	field := types.PersonalizationField{
		ID:        "engraving",
		Name:      "Engraving",
		Type:      enums.FieldTypeText,
		MaxLength: intPtr(5),
	}
	if errs := ValidateFieldValue(field, "abcdef", nil); len(errs) != 1 {
		t.Fatalf("expected max length error, got %v", errs)
	}
	if errs := ValidateFieldValue(field, "abcde", nil); len(errs) != 0 {
		t.Fatalf("expected pass at limit, got %v", errs)
	}
}

func TestValidateFieldValueNumber(t *testing.T) {
	field := types.PersonalizationField{
		ID:   "qty",
		Name: "Quantity",
		Type: enums.FieldTypeNumber,
		Min:  floatPtr(1),
		Max:  floatPtr(10),
	}

	cases := []struct {
		value   any
		wantErr bool
	}{
		{"5", false},
		{5.0, false},
		{"0", true},
		{"11", true},
		{"abc", true},
		{true, true},
	}
	for _, tc := range cases {
		errs := ValidateFieldValue(field, tc.value, nil)
		if tc.wantErr && len(errs) == 0 {
			t.Fatalf("expected error for %#v", tc.value)
		}
		if !tc.wantErr && len(errs) != 0 {
			t.Fatalf("expected pass for %#v, got %v", tc.value, errs)
		}
	}
}

func TestValidateFieldValueDateWindow(t *testing.T) {
	field := types.PersonalizationField{
		ID:      "delivery",
		Name:    "Delivery date",
		Type:    enums.FieldTypeDate,
		MinDate: strPtr("2026-01-01"),
		MaxDate: strPtr("2026-12-31"),
	}

	if errs := ValidateFieldValue(field, "2026-06-15", nil); len(errs) != 0 {
		t.Fatalf("expected in-window date to pass, got %v", errs)
	}
	if errs := ValidateFieldValue(field, "2025-12-31", nil); len(errs) != 1 {
		t.Fatalf("expected min date error, got %v", errs)
	}
	if errs := ValidateFieldValue(field, "2027-01-01", nil); len(errs) != 1 {
		t.Fatalf("expected max date error, got %v", errs)
	}
	if errs := ValidateFieldValue(field, "not-a-date", nil); len(errs) != 1 {
		t.Fatalf("expected parse error, got %v", errs)
	}
}

func TestValidateFieldValueSelectMembership(t *testing.T) {
	field := types.PersonalizationField{
		ID:      "color",
		Name:    "Color",
		Type:    enums.FieldTypeSelect,
		Options: []string{"A", "B"},
	}
	if errs := ValidateFieldValue(field, "A", nil); len(errs) != 0 {
		t.Fatalf("expected member to pass, got %v", errs)
	}
	if errs := ValidateFieldValue(field, "C", nil); len(errs) != 1 {
		t.Fatalf("expected non-member error, got %v", errs)
	}
}

func TestValidateFieldValueFileMimeAndSize(t *testing.T) {
	field := types.PersonalizationField{
		ID:                "artwork",
		Name:              "Artwork",
		Type:              enums.FieldTypeFile,
		AcceptedFileTypes: []string{"image/*"},
		MaxFileSizeMB:     intPtr(5),
	}

	png := &FileInput{URL: "https://cdn/x.png", MimeType: "image/png", SizeBytes: 4 * 1024 * 1024}
	if errs := ValidateFieldValue(field, nil, png); len(errs) != 0 {
		t.Fatalf("expected image/png against image/* to pass, got %v", errs)
	}

	pdfOnly := field
	pdfOnly.AcceptedFileTypes = []string{"application/pdf"}
	if errs := ValidateFieldValue(pdfOnly, nil, png); len(errs) != 1 {
		t.Fatalf("expected type error for png against pdf-only, got %v", errs)
	}

	big := &FileInput{URL: "https://cdn/x.png", MimeType: "image/png", SizeBytes: 6 * 1024 * 1024}
	if errs := ValidateFieldValue(field, nil, big); len(errs) != 1 {
		t.Fatalf("expected size error for 6MB against 5MB limit, got %v", errs)
	}
}

func TestValidateFieldValueStoredReferenceSkipsUnknownMetadata(t *testing.T) {
	field := types.PersonalizationField{
		ID:                "artwork",
		Name:              "Artwork",
		Type:              enums.FieldTypeFile,
		Required:          true,
		AcceptedFileTypes: []string{"image/*"},
		MaxFileSizeMB:     intPtr(5),
	}

	// A reference to an already-stored file carries only url and name; the
	// mime and size checks ran before the file was stored.
	stored := &FileInput{URL: "https://cdn/photo.png", Name: "photo.png"}
	if errs := ValidateFieldValue(field, nil, stored); len(errs) != 0 {
		t.Fatalf("stored reference without metadata must pass, got %v", errs)
	}
}

func TestValidateFieldValueRequiredFileNeedsURL(t *testing.T) {
	field := types.PersonalizationField{
		ID:       "artwork",
		Name:     "Artwork",
		Type:     enums.FieldTypeFile,
		Required: true,
	}
	if errs := ValidateFieldValue(field, nil, nil); len(errs) != 1 {
		t.Fatalf("expected required error without file, got %v", errs)
	}
	if errs := ValidateFieldValue(field, nil, &FileInput{URL: ""}); len(errs) != 1 {
		t.Fatalf("expected required error without url, got %v", errs)
	}
	if errs := ValidateFieldValue(field, nil, &FileInput{URL: "https://cdn/x"}); len(errs) != 0 {
		t.Fatalf("expected uploaded file to satisfy required, got %v", errs)
	}
}

func TestValidateFieldValueIsPure(t *testing.T) {
	field := types.PersonalizationField{
		ID:        "engraving",
		Name:      "Engraving",
		Type:      enums.FieldTypeText,
		Required:  true,
		MaxLength: intPtr(3),
	}
	first := ValidateFieldValue(field, "toolong", nil)
	second := ValidateFieldValue(field, "toolong", nil)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("validator not idempotent: %v vs %v", first, second)
	}
}

func TestMimeTypeAccepted(t *testing.T) {
	cases := []struct {
		mime     string
		accepted []string
		want     bool
	}{
		{"image/png", []string{"image/*"}, true},
		{"image/png", []string{"application/pdf"}, false},
		{"application/pdf", []string{"application/pdf"}, true},
		{"IMAGE/PNG", []string{"image/*"}, true},
		{"imagepng", []string{"image/*"}, false},
		{"image/png", nil, false},
	}
	for _, tc := range cases {
		if got := MimeTypeAccepted(tc.mime, tc.accepted); got != tc.want {
			t.Fatalf("MimeTypeAccepted(%q, %v) = %v, want %v", tc.mime, tc.accepted, got, tc.want)
		}
	}
}

func TestValidateConfig(t *testing.T) {
	good := types.PersonalizationFields{
		{ID: "a", Name: "A", Type: enums.FieldTypeText},
		{ID: "b", Name: "B", Type: enums.FieldTypeSelect, Options: []string{"x"}},
	}
	if errs := ValidateConfig(good); len(errs) != 0 {
		t.Fatalf("expected valid config, got %v", errs)
	}

	dupes := types.PersonalizationFields{
		{ID: "a", Name: "A", Type: enums.FieldTypeText},
		{ID: "a", Name: "A2", Type: enums.FieldTypeText},
	}
	if errs := ValidateConfig(dupes); len(errs) == 0 {
		t.Fatal("expected duplicate id error")
	}

	emptySelect := types.PersonalizationFields{
		{ID: "s", Name: "S", Type: enums.FieldTypeSelect},
	}
	if errs := ValidateConfig(emptySelect); len(errs) == 0 {
		t.Fatal("expected empty options error")
	}

	badPct := types.PersonalizationFields{
		{ID: "p", Name: "P", Type: enums.FieldTypeCheckbox, PriceAdjustment: floatPtr(2000), PriceAdjustmentType: enums.PriceAdjustmentPercentage},
	}
	if errs := ValidateConfig(badPct); len(errs) == 0 {
		t.Fatal("expected percentage range error")
	}
}
