// Package sink holds the report sinks that receive downloaded report files:
// a local directory and a Google Cloud Storage bucket. The GridFS archive
// lives with the other MongoDB code.
package sink

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
)

// maxNameAttempts bounds the numbered variants tried for one report name.
const maxNameAttempts = 100

// Dir writes report files into a local directory.
type Dir struct {
	root string
}

func NewDir(root string) ports.ReportSink {
	return &Dir{root: root}
}

// Save writes file under the directory and returns its absolute path.
// Existing files are never replaced: when the name is taken the report is
// written as name_1.pdf, name_2.pdf and so on.
func (d *Dir) Save(_ context.Context, file *domain.ReportFile) (string, error) {
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	name := filepath.Base(file.Name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for n := 0; n < maxNameAttempts; n++ {
		candidate := name
		if n > 0 {
			candidate = fmt.Sprintf("%s_%d%s", stem, n, ext)
		}
		path := filepath.Join(d.root, candidate)

		err := writeNew(path, file.Data)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("write report: %w", err)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return path, nil
		}
		return abs, nil
	}
	return "", fmt.Errorf("write report: no free name for %s in %s", name, d.root)
}

// writeNew creates path exclusively and removes it again if the write fails.
func writeNew(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
	}
	return err
}
