package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"smart-cv-generator/internal/model"
	"smart-cv-generator/internal/usecase"
)

// Renders tools/cv_record.json through the CV template so the layout can be
// checked in a browser without starting Chrome.
func main() {
	in := filepath.Join("tools", "cv_record.json")
	if len(os.Args) > 1 {
		in = os.Args[1]
	}
	b, err := os.ReadFile(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read record: %v\n", err)
		os.Exit(2)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal: %v\n", err)
		os.Exit(2)
	}

	v, err := model.LoadValidator("templates")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load schema: %v\n", err)
		os.Exit(2)
	}
	rec, err := v.Record(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid record: %v\n", err)
		os.Exit(2)
	}

	tpl, err := usecase.LoadTemplates("templates")
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse tpl: %v\n", err)
		os.Exit(2)
	}
	gen := usecase.NewGenerator(tpl, nil, nil)
	html, err := gen.RenderHTML(rec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "execute tpl: %v\n", err)
		os.Exit(2)
	}

	outDir := "resume-data"
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir: %v\n", err)
		os.Exit(2)
	}
	// the template links cv.css relative to the page
	if css, err := os.ReadFile(filepath.Join("static", "cv.css")); err == nil {
		_ = os.WriteFile(filepath.Join(outDir, "cv.css"), css, 0o644)
	}
	outFile := filepath.Join(outDir, "preview.html")
	if err := os.WriteFile(outFile, []byte(html), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write out: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("wrote %s\n", outFile)
}
