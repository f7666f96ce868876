package export

import (
	"archive/zip"
	"errors"
	"os"
	"strings"
	"testing"

	dialog "github.com/Batoli19/cavista/internal/model/dialog"
)

func sampleResearch() *dialog.Research {
	return &dialog.Research{
		Topic:   "Health Claims Automation",
		Summary: "Claims automation reduces manual effort. Error rates drop with validation.",
		KeyPoints: []string{
			"Intake validation catches errors early.",
			"Automated routing cuts turnaround time.",
		},
		DataPoints: []dialog.DataPoint{
			{Label: "Intake", Value: 2},
			{Label: "Routing", Value: 3},
			{Label: "Review", Value: 4},
		},
		Sources: []dialog.Source{
			{Title: "Claims processing", URL: "https://en.wikipedia.org/wiki/Claims_processing", Domain: "wikipedia.org", Note: "overview"},
		},
	}
}

func TestExportDocxCreatesValidPackage(t *testing.T) {
	svc := NewService(t.TempDir())

	meta, err := svc.Export("docx", sampleResearch())
	if err != nil {
		t.Fatalf("Export err: %v", err)
	}
	if meta.Type != "docx" || !strings.HasSuffix(meta.Name, ".docx") {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if meta.Size <= 0 {
		t.Fatalf("empty file: %+v", meta)
	}
	if !strings.HasPrefix(meta.URL, "/download/") {
		t.Fatalf("bad download URL: %q", meta.URL)
	}

	// Must be a readable zip with the document part.
	r, err := zip.OpenReader(meta.Path)
	if err != nil {
		t.Fatalf("not a zip: %v", err)
	}
	defer r.Close()
	found := false
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			found = true
		}
	}
	if !found {
		t.Fatal("word/document.xml missing from package")
	}
}

func TestExportPptxCreatesSlides(t *testing.T) {
	svc := NewService(t.TempDir())

	meta, err := svc.Export("pptx", sampleResearch())
	if err != nil {
		t.Fatalf("Export err: %v", err)
	}

	r, err := zip.OpenReader(meta.Path)
	if err != nil {
		t.Fatalf("not a zip: %v", err)
	}
	defer r.Close()
	slides := 0
	for _, f := range r.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") {
			slides++
		}
	}
	if slides < 2 {
		t.Fatalf("got %d slides, want title + content", slides)
	}
}

func TestExportXlsx(t *testing.T) {
	svc := NewService(t.TempDir())

	meta, err := svc.Export("xlsx", sampleResearch())
	if err != nil {
		t.Fatalf("Export err: %v", err)
	}
	if info, err := os.Stat(meta.Path); err != nil || info.Size() == 0 {
		t.Fatalf("workbook missing: %v", err)
	}
}

func TestKindsListsRegisteredWriters(t *testing.T) {
	svc := NewService(t.TempDir())

	kinds := svc.Kinds()
	if len(kinds) != 3 || kinds[0] != "docx" || kinds[1] != "pptx" || kinds[2] != "xlsx" {
		t.Fatalf("Kinds() = %v, want sorted docx/pptx/xlsx", kinds)
	}
}

func TestExportUnknownKind(t *testing.T) {
	svc := NewService(t.TempDir())

	_, err := svc.Export("pdf", sampleResearch())
	var missing *MissingDependencyError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingDependencyError, got %v", err)
	}
	if missing.Dependency == "" {
		t.Fatal("dependency name must be set")
	}
}

func TestLookup(t *testing.T) {
	svc := NewService(t.TempDir())

	meta, err := svc.Export("docx", sampleResearch())
	if err != nil {
		t.Fatalf("Export err: %v", err)
	}

	got, ok := svc.Lookup(meta.ID)
	if !ok {
		t.Fatal("exported file not registered")
	}
	if got.Path != meta.Path {
		t.Fatalf("path mismatch: %q vs %q", got.Path, meta.Path)
	}
	if _, ok := svc.Lookup("nope"); ok {
		t.Fatal("unknown id must not resolve")
	}
}

func TestFileNameSanitized(t *testing.T) {
	svc := NewService(t.TempDir())
	research := sampleResearch()
	research.Topic = "hips & knees: 2024/2025 outlook!"

	meta, err := svc.Export("docx", research)
	if err != nil {
		t.Fatalf("Export err: %v", err)
	}
	base := meta.Name
	if strings.ContainsAny(base, "/:&! ") {
		t.Fatalf("unsafe characters in file name %q", base)
	}
}
