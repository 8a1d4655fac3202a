package sink

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
)

func TestDir_Save(t *testing.T) {
	root := filepath.Join(t.TempDir(), "reports")
	file := &domain.ReportFile{
		Name:        "report_20240305_140709.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.7"),
		CreatedAt:   time.Now(),
	}

	loc, err := NewDir(root).Save(context.Background(), file)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if filepath.Base(loc) != file.Name || !filepath.IsAbs(loc) {
		t.Fatalf("unexpected location %q", loc)
	}
	data, err := os.ReadFile(loc)
	if err != nil || string(data) != "%PDF-1.7" {
		t.Fatalf("unexpected file contents %q, %v", data, err)
	}
}

func TestDir_SaveStaysInsideRoot(t *testing.T) {
	root := t.TempDir()
	loc, err := NewDir(root).Save(context.Background(), &domain.ReportFile{Name: "../escape.pdf", Data: []byte("x")})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if filepath.Dir(loc) != root {
		t.Fatalf("file written outside root: %q", loc)
	}
}

func TestDir_SaveKeepsEarlierReport(t *testing.T) {
	root := t.TempDir()
	dir := NewDir(root)
	name := "report_20240305_140709.pdf"

	var locs []string
	for _, body := range []string{"first", "second", "third"} {
		loc, err := dir.Save(context.Background(), &domain.ReportFile{Name: name, Data: []byte(body)})
		if err != nil {
			t.Fatalf("Save(%s) returned error: %v", body, err)
		}
		locs = append(locs, loc)
	}

	want := []struct {
		base string
		body string
	}{
		{"report_20240305_140709.pdf", "first"},
		{"report_20240305_140709_1.pdf", "second"},
		{"report_20240305_140709_2.pdf", "third"},
	}
	for i, w := range want {
		if filepath.Base(locs[i]) != w.base {
			t.Fatalf("save %d: expected %s, got %s", i, w.base, filepath.Base(locs[i]))
		}
		data, err := os.ReadFile(locs[i])
		if err != nil || string(data) != w.body {
			t.Fatalf("save %d: expected %q, got %q (%v)", i, w.body, data, err)
		}
	}
}
