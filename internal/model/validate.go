package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaFile is the form schema inside the templates directory.
const SchemaFile = "cv.schema.json"

// ErrValidation marks submissions rejected by the form schema.
var ErrValidation = errors.New("validation failed")

// ValidationError carries one message per schema violation.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %s", strings.Join(e.Details, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validator checks form submissions against the compiled form schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// LoadValidator compiles <tplDir>/cv.schema.json. A missing or broken schema
// is a startup error.
func LoadValidator(tplDir string) (*Validator, error) {
	// Use an absolute file:// path so references resolve on every platform.
	abs, err := filepath.Abs(filepath.Join(tplDir, SchemaFile))
	if err != nil {
		return nil, err
	}
	loader := gojsonschema.NewReferenceLoader("file://" + filepath.ToSlash(abs))
	schema, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, fmt.Errorf("load form schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// ValidateMap validates a generic map and returns a *ValidationError listing
// every violation.
func (v *Validator) ValidateMap(m map[string]interface{}) error {
	res, err := v.schema.Validate(gojsonschema.NewGoLoader(m))
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	verr := &ValidationError{}
	for _, e := range res.Errors() {
		verr.Details = append(verr.Details, e.String())
	}
	return verr
}

// Record validates m and converts it into a ResumeRecord.
func (v *Validator) Record(m map[string]interface{}) (ResumeRecord, error) {
	if err := v.ValidateMap(m); err != nil {
		return ResumeRecord{}, err
	}
	return RecordFromMap(m), nil
}
