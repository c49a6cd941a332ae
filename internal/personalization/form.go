package personalization

import (
	"fmt"
	"sync"

	"github.com/madebuy/madebuy-backend/pkg/enums"
	"github.com/madebuy/madebuy-backend/pkg/types"
)

// FieldState is the transient per-field state held while a buyer fills in a
// personalization form. It is never persisted; cart lines snapshot resolved
// values instead.
type FieldState struct {
	Value         any      `json:"value,omitempty"`
	FileURL       *string  `json:"file_url,omitempty"`
	FileName      *string  `json:"file_name,omitempty"`
	FileMimeType  *string  `json:"file_mime_type,omitempty"`
	FileSizeBytes *int64   `json:"file_size_bytes,omitempty"`
	Errors        []string `json:"errors,omitempty"`
	Touched       bool     `json:"touched"`
	Uploading     bool     `json:"uploading"`
}

// ChangeEvent is pushed to the observer after every mutation: the resolved
// values, their computed total, and the derived overall validity.
type ChangeEvent struct {
	Values               types.PersonalizationValues `json:"values"`
	TotalAdjustmentCents int64                       `json:"total_adjustment_cents"`
	Valid                bool                        `json:"valid"`
}

// ChangeFunc observes form mutations. It runs synchronously inside the
// mutating call, after state has settled.
type ChangeFunc func(ChangeEvent)

// Form mediates buyer input for one piece's personalization config. Each
// field's state is independent; mutations are last-write-wins per field.
type Form struct {
	mu             sync.Mutex
	fields         types.PersonalizationFields
	basePriceCents int64
	states         map[string]*FieldState
	onChange       ChangeFunc
}

// NewForm builds a form with one empty, untouched state per configured field.
// Fields are kept in display order so emitted values follow presentation order.
func NewForm(fields types.PersonalizationFields, basePriceCents int64, onChange ChangeFunc) *Form {
	ordered := fields.SortedByDisplayOrder()
	states := make(map[string]*FieldState, len(ordered))
	for _, field := range ordered {
		states[field.ID] = &FieldState{}
	}
	return &Form{
		fields:         ordered,
		basePriceCents: basePriceCents,
		states:         states,
		onChange:       onChange,
	}
}

// SetValue records a new value for a field, marks it touched, and revalidates.
func (f *Form) SetValue(fieldID string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	field, state, err := f.lookup(fieldID)
	if err != nil {
		return err
	}
	if field.Type == enums.FieldTypeFile {
		return fmt.Errorf("field %q takes file uploads, not direct values", fieldID)
	}

	state.Value = value
	state.Touched = true
	state.Errors = ValidateFieldValue(*field, value, nil)
	f.emitLocked()
	return nil
}

// Blur marks a field touched without changing its value, so errors become
// visible after the buyer leaves the input. Touched never transitions back.
func (f *Form) Blur(fieldID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	field, state, err := f.lookup(fieldID)
	if err != nil {
		return err
	}
	state.Touched = true
	state.Errors = ValidateFieldValue(*field, state.Value, f.fileInputLocked(fieldID))
	f.emitLocked()
	return nil
}

// BeginUpload flags a file field as uploading. Other fields stay editable.
func (f *Form) BeginUpload(fieldID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	field, state, err := f.lookup(fieldID)
	if err != nil {
		return err
	}
	if field.Type != enums.FieldTypeFile {
		return fmt.Errorf("field %q is not a file field", fieldID)
	}
	state.Touched = true
	state.Uploading = true
	f.emitLocked()
	return nil
}

// CompleteUpload attaches the stored file reference and clears uploading. The
// mime type and size come from the upload service, which sniffed and measured
// the bytes it stored, so revalidation sees the real metadata.
func (f *Form) CompleteUpload(fieldID, url, fileName, mimeType string, sizeBytes int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	field, state, err := f.lookup(fieldID)
	if err != nil {
		return err
	}
	if field.Type != enums.FieldTypeFile {
		return fmt.Errorf("field %q is not a file field", fieldID)
	}

	state.Uploading = false
	state.FileURL = &url
	state.FileName = &fileName
	state.Value = fileName
	state.FileMimeType = nil
	if mimeType != "" {
		state.FileMimeType = &mimeType
	}
	state.FileSizeBytes = nil
	if sizeBytes > 0 {
		state.FileSizeBytes = &sizeBytes
	}
	state.Errors = ValidateFieldValue(*field, state.Value, f.fileInputLocked(fieldID))
	f.emitLocked()
	return nil
}

// FailUpload records an upload failure. The field keeps no file reference, so
// a required file field remains unsatisfied and the buyer can retry.
func (f *Form) FailUpload(fieldID, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, state, err := f.lookup(fieldID)
	if err != nil {
		return err
	}
	state.Uploading = false
	state.FileURL = nil
	state.FileName = nil
	state.FileMimeType = nil
	state.FileSizeBytes = nil
	if message == "" {
		message = "Failed to upload file"
	}
	state.Errors = []string{message}
	f.emitLocked()
	return nil
}

// RemoveFile clears an uploaded file from a field.
func (f *Form) RemoveFile(fieldID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	field, state, err := f.lookup(fieldID)
	if err != nil {
		return err
	}
	if field.Type != enums.FieldTypeFile {
		return fmt.Errorf("field %q is not a file field", fieldID)
	}
	state.FileURL = nil
	state.FileName = nil
	state.FileMimeType = nil
	state.FileSizeBytes = nil
	state.Value = nil
	state.Errors = ValidateFieldValue(*field, nil, nil)
	f.emitLocked()
	return nil
}

// VisibleErrors returns a field's errors only once the buyer has interacted
// with it, so untouched fields never flash errors.
func (f *Form) VisibleErrors(fieldID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, ok := f.states[fieldID]
	if !ok || !state.Touched {
		return nil
	}
	out := make([]string, len(state.Errors))
	copy(out, state.Errors)
	return out
}

// State returns a copy of one field's state.
func (f *Form) State(fieldID string) (FieldState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, ok := f.states[fieldID]
	if !ok {
		return FieldState{}, false
	}
	return *state, true
}

// States returns a copy of every field's state keyed by field id.
func (f *Form) States() map[string]FieldState {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]FieldState, len(f.states))
	for id, state := range f.states {
		out[id] = *state
	}
	return out
}

// Snapshot derives the current resolved values, total, and validity.
func (f *Form) Snapshot() ChangeEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Valid reports whether every required field is satisfied and no field holds
// validation errors.
func (f *Form) Valid() bool {
	return f.Snapshot().Valid
}

func (f *Form) lookup(fieldID string) (*types.PersonalizationField, *FieldState, error) {
	field := f.fields.ByID(fieldID)
	if field == nil {
		return nil, nil, fmt.Errorf("unknown field %q", fieldID)
	}
	state, ok := f.states[fieldID]
	if !ok {
		return nil, nil, fmt.Errorf("unknown field %q", fieldID)
	}
	return field, state, nil
}

func (f *Form) fileInputLocked(fieldID string) *FileInput {
	state := f.states[fieldID]
	if state == nil || state.FileURL == nil {
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

func (f *Form) emitLocked() {
	if f.onChange == nil {
		return
	}
	f.onChange(f.snapshotLocked())
}

func (f *Form) snapshotLocked() ChangeEvent {
	values := make(types.PersonalizationValues, 0, len(f.fields))
	valid := true

	for _, field := range f.fields {
		state := f.states[field.ID]
		file := f.fileInputLocked(field.ID)
		empty := isEmptyValue(field.Type, state.Value, file)

		if field.Required && (empty || state.Uploading) {
			valid = false
		}
		if len(state.Errors) > 0 {
			valid = false
		}
		if empty {
			continue
		}

		value := types.PersonalizationValue{
			FieldID:              field.ID,
			FieldName:            field.Name,
			Value:                state.Value,
			FileURL:              state.FileURL,
			FileName:             state.FileName,
			PriceAdjustmentCents: FieldContribution(field, f.basePriceCents),
		}
		values = append(values, value)
	}

	return ChangeEvent{
		Values:               values,
		TotalAdjustmentCents: values.TotalAdjustmentCents(),
		Valid:                valid,
	}
}
