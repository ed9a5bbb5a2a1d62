package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/0xcro3dile/claimcheck-go/internal/domain/entities"
)

// stubProvider implements ports.PageTextProvider for testing
type stubProvider struct {
	exts []string
	text string
}

func (s *stubProvider) Load(ctx context.Context, path string) ([]entities.PageText, error) {
	return []entities.PageText{entities.NewPageText(1, s.text)}, nil
}

func (s *stubProvider) SupportedExtensions() []string {
	return s.exts
}

func TestTextLoader_LoadTxtFile(t *testing.T) {
	// Create temp file
	dir, _ := os.MkdirTemp("", "loader-test-*")
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "test.txt")
	os.WriteFile(path, []byte("COVERAGE\r\nHospitalisation is covered."), 0644)

	loader := NewTextLoader()
	pages, err := loader.Load(context.Background(), path)

	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if pages[0].PageNumber != 1 || len(pages[0].Lines) != 2 || pages[0].Lines[0] != "COVERAGE" {
		t.Errorf("unexpected page: %+v", pages[0])
	}
}

func TestTextLoader_FormFeedSplitsPages(t *testing.T) {
	dir, _ := os.MkdirTemp("", "loader-test-*")
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "policy.txt")
	os.WriteFile(path, []byte("page one\fpage two\fpage three"), 0644)

	pages, err := NewTextLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	if pages[2].PageNumber != 3 || pages[2].Lines[0] != "page three" {
		t.Errorf("unexpected last page: %+v", pages[2])
	}
}

func TestTextLoader_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.txt")
	os.WriteFile(path, []byte("  \n\n"), 0644)

	pages, err := NewTextLoader().Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("blank file should have no pages, got %d", len(pages))
	}
}

func TestTextLoader_SupportedExtensions(t *testing.T) {
	loader := NewTextLoader()
	exts := loader.SupportedExtensions()

	if len(exts) == 0 {
		t.Error("should support extensions")
	}

	found := false
	for _, e := range exts {
		if e == ".txt" {
			found = true
		}
	}
	if !found {
		t.Error(".txt should be supported")
	}
}

func TestMultiLoader_DispatchByExtension(t *testing.T) {
	dir, _ := os.MkdirTemp("", "loader-test-*")
	defer os.RemoveAll(dir)

	// Create test files
	txtPath := filepath.Join(dir, "test.txt")
	pdfPath := filepath.Join(dir, "test.PDF")
	os.WriteFile(txtPath, []byte("txt content"), 0644)
	os.WriteFile(pdfPath, []byte("%PDF"), 0644)

	loader := NewMultiLoader(NewTextLoader(), &stubProvider{exts: []string{".pdf"}, text: "from pdf"})

	txt, _ := loader.Load(context.Background(), txtPath)
	pdf, _ := loader.Load(context.Background(), pdfPath)

	if txt[0].Lines[0] != "txt content" {
		t.Error("txt not loaded correctly")
	}
	if pdf[0].Lines[0] != "from pdf" {
		t.Error("pdf should go to the pdf provider")
	}
}

func TestMultiLoader_UnsupportedExtension(t *testing.T) {
	loader := NewMultiLoader(NewTextLoader())
	if _, err := loader.Load(context.Background(), "scan.tiff"); err == nil {
		t.Error("should error on unsupported extension")
	}
}

func TestMultiLoader_AllExtensions(t *testing.T) {
	loader := NewMultiLoader(NewTextLoader(), &stubProvider{exts: []string{".pdf"}})
	exts := loader.SupportedExtensions()

	want := []string{".markdown", ".md", ".pdf", ".txt"}
	if len(exts) != len(want) {
		t.Fatalf("expected %v, got %v", want, exts)
	}
	for i := range want {
		if exts[i] != want[i] {
			t.Errorf("expected %v, got %v", want, exts)
		}
	}
}

func TestLoader_NonexistentFile(t *testing.T) {
	loader := NewTextLoader()
	_, err := loader.Load(context.Background(), "/nonexistent/file.txt")

	if err == nil {
		t.Error("should error on nonexistent file")
	}
}
