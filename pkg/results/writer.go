// Package results persists the outcome of a propagation run: the score
// tables, the run report and a terminal summary.
package results

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dd0wney/netprop/pkg/algorithms"
	"github.com/dd0wney/netprop/pkg/logging"
)

// Output file names inside the output directory.
const (
	RWRFile     = "rwr_scores.csv"
	DiamondFile = "diamond_ranking.csv"
	ReportFile  = "run_report.yaml"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644
)

// Writer persists run outputs and returns the path written.
type Writer interface {
	WriteRWR(res *algorithms.RWRResult) (string, error)
	WriteDiamond(res *algorithms.DiamondResult) (string, error)
	WriteReport(r *Report) (string, error)
}

// DirWriter writes outputs as files in one directory. Each file is written
// to a temporary name and renamed, so a failed run leaves no partial file.
type DirWriter struct {
	dir    string
	logger logging.Logger
}

// NewDirWriter creates dir if needed.
func NewDirWriter(dir string, logger logging.Logger) (*DirWriter, error) {
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &DirWriter{dir: dir, logger: logging.OrNop(logger)}, nil
}

// Dir returns the output directory.
func (w *DirWriter) Dir() string { return w.dir }

func (w *DirWriter) WriteRWR(res *algorithms.RWRResult) (string, error) {
	return w.write(RWRFile, func(out io.Writer) error {
		return EncodeRWR(out, res.Ranking())
	})
}

func (w *DirWriter) WriteDiamond(res *algorithms.DiamondResult) (string, error) {
	return w.write(DiamondFile, func(out io.Writer) error {
		return EncodeDiamond(out, res.Steps)
	})
}

func (w *DirWriter) WriteReport(r *Report) (string, error) {
	return w.write(ReportFile, func(out io.Writer) error {
		return EncodeReport(out, r)
	})
}

func (w *DirWriter) write(name string, encode func(io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := encode(&buf); err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}

	path := filepath.Join(w.dir, name)
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, buf.Bytes(), filePermissions); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to rename %s: %w", name, err)
	}

	w.logger.Info("output written", logging.Path(path), logging.Int("bytes", buf.Len()))
	return path, nil
}
