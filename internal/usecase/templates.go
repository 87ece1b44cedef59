package usecase

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"path/filepath"

	"smart-cv-generator/internal/model"
)

const (
	FormTemplate = "form.html"
	CVTemplate   = "cv_template.html"
)

// Templates holds the parsed page and CV templates.
type Templates struct {
	form *template.Template
	cv   *template.Template
}

// LoadTemplates parses form.html and cv_template.html from dir.
func LoadTemplates(dir string) (*Templates, error) {
	form, err := template.ParseFiles(filepath.Join(dir, FormTemplate))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", FormTemplate, err)
	}
	cv, err := template.ParseFiles(filepath.Join(dir, CVTemplate))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", CVTemplate, err)
	}
	return &Templates{form: form, cv: cv}, nil
}

// cvData is the data passed to the CV template.
type cvData struct {
	CV   model.ResumeRecord
	Year int
}

// RenderForm writes the form page.
func (t *Templates) RenderForm(w io.Writer, year int) error {
	return t.form.Execute(w, map[string]interface{}{"Year": year})
}

// RenderCV substitutes rec and year into the CV template.
func (t *Templates) RenderCV(rec model.ResumeRecord, year int) (string, error) {
	var buf bytes.Buffer
	if err := t.cv.Execute(&buf, cvData{CV: rec, Year: year}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
