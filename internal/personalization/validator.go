package personalization

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/madebuy/madebuy-backend/pkg/enums"
	"github.com/madebuy/madebuy-backend/pkg/types"
)

const dateLayout = "2006-01-02"

// FileInput carries the metadata of an uploaded file as it applies to a
// file-typed field. URL is empty until an upload has completed.
type FileInput struct {
	URL       string
	Name      string
	MimeType  string
	SizeBytes int64
}

// ValidateFieldValue checks a candidate value against one field's constraints
// and returns human-readable error strings. An empty slice means valid. The
// function is pure: same inputs, same output.
func ValidateFieldValue(field types.PersonalizationField, value any, file *FileInput) []string {
	var errs []string

	empty := isEmptyValue(field.Type, value, file)
	if field.Required && empty {
		return append(errs, fmt.Sprintf("%s is required", field.Name))
	}
	if empty {
		return errs
	}

	switch field.Type {
	case enums.FieldTypeText, enums.FieldTypeTextarea:
		s := stringValue(value)
		if field.MaxLength != nil && len([]rune(s)) > *field.MaxLength {
			errs = append(errs, fmt.Sprintf("%s must be at most %d characters", field.Name, *field.MaxLength))
		}

	case enums.FieldTypeNumber:
		n, ok := numberValue(value)
		if !ok {
			return append(errs, fmt.Sprintf("%s must be a number", field.Name))
		}
		if field.Min != nil && n < *field.Min {
			errs = append(errs, fmt.Sprintf("%s must be at least %s", field.Name, formatNumber(*field.Min)))
		}
		if field.Max != nil && n > *field.Max {
			errs = append(errs, fmt.Sprintf("%s must be at most %s", field.Name, formatNumber(*field.Max)))
		}

	case enums.FieldTypeDate:
		day, err := time.Parse(dateLayout, stringValue(value))
		if err != nil {
			return append(errs, fmt.Sprintf("%s must be a valid date", field.Name))
		}
		if field.MinDate != nil {
			if min, err := time.Parse(dateLayout, *field.MinDate); err == nil && day.Before(min) {
				errs = append(errs, fmt.Sprintf("%s must be on or after %s", field.Name, *field.MinDate))
			}
		}
		if field.MaxDate != nil {
			if max, err := time.Parse(dateLayout, *field.MaxDate); err == nil && day.After(max) {
				errs = append(errs, fmt.Sprintf("%s must be on or before %s", field.Name, *field.MaxDate))
			}
		}

	case enums.FieldTypeSelect:
		s := stringValue(value)
		found := false
		for _, opt := range field.Options {
			if opt == s {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, fmt.Sprintf("%s must be one of the available options", field.Name))
		}

	case enums.FieldTypeCheckbox:
		// any truthy value is fine; required handled above

	case enums.FieldTypeFile:
		if file == nil {
			return errs
		}
		// A stored reference may arrive without metadata; mime and size were
		// already enforced before the file was stored, so only re-check what
		// the caller actually knows.
		if file.MimeType != "" && len(field.AcceptedFileTypes) > 0 && !MimeTypeAccepted(file.MimeType, field.AcceptedFileTypes) {
			errs = append(errs, fmt.Sprintf("%s file type is not accepted", field.Name))
		}
		if field.MaxFileSizeMB != nil && file.SizeBytes > 0 {
			limit := int64(*field.MaxFileSizeMB) * 1024 * 1024
			if file.SizeBytes > limit {
				errs = append(errs, fmt.Sprintf("%s must be smaller than %dMB", field.Name, *field.MaxFileSizeMB))
			}
		}
	}

	return errs
}

// MimeTypeAccepted reports whether a MIME type matches any accepted entry.
// Entries are exact types ("application/pdf") or wildcard prefixes ("image/*").
func MimeTypeAccepted(mimeType string, accepted []string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	for _, entry := range accepted {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}
		if prefix, ok := strings.CutSuffix(entry, "/*"); ok {
			if strings.HasPrefix(mimeType, prefix+"/") {
				return true
			}
			continue
		}
		if mimeType == entry {
			return true
		}
	}
	return false
}

// ValidateConfig checks a field list for structural problems before it is
// persisted: ids present and unique, names present, known types, select fields
// with at least one option.
func ValidateConfig(fields types.PersonalizationFields) []string {
	var errs []string
	seen := map[string]bool{}

	for i, field := range fields {
		label := field.ID
		if label == "" {
			label = fmt.Sprintf("field %d", i+1)
			errs = append(errs, fmt.Sprintf("%s is missing an id", label))
		}
		if seen[field.ID] && field.ID != "" {
			errs = append(errs, fmt.Sprintf("duplicate field id %q", field.ID))
		}
		seen[field.ID] = true

		if field.Name == "" {
			errs = append(errs, fmt.Sprintf("%s is missing a name", label))
		}
		if !field.Type.IsValid() {
			errs = append(errs, fmt.Sprintf("%s has unknown type %q", label, field.Type))
		}
		if field.Type == enums.FieldTypeSelect && len(field.Options) == 0 {
			errs = append(errs, fmt.Sprintf("%s requires at least one option", label))
		}
		if field.Min != nil && field.Max != nil && *field.Min > *field.Max {
			errs = append(errs, fmt.Sprintf("%s has min greater than max", label))
		}
		if field.PriceAdjustment != nil && !field.PriceAdjustmentType.IsValid() {
			errs = append(errs, fmt.Sprintf("%s has unknown price adjustment type %q", label, field.PriceAdjustmentType))
		}
		if field.PriceAdjustment != nil && field.PriceAdjustmentType == enums.PriceAdjustmentPercentage {
			if *field.PriceAdjustment < -100 || *field.PriceAdjustment > 1000 {
				errs = append(errs, fmt.Sprintf("%s percentage adjustment must be between -100 and 1000", label))
			}
		}
		if field.MaxFileSizeMB != nil && *field.MaxFileSizeMB <= 0 {
			errs = append(errs, fmt.Sprintf("%s has a non-positive file size limit", label))
		}
	}

	return errs
}

// isEmptyValue decides whether a value counts as "not provided". Unchecked
// checkboxes and files without a completed upload are empty.
func isEmptyValue(fieldType enums.FieldType, value any, file *FileInput) bool {
	if fieldType == enums.FieldTypeFile {
		return file == nil || file.URL == ""
	}
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return !v
	default:
		return false
	}
}

func stringValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func numberValue(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
