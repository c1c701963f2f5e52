package internal

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// ReportHeader is the fixed first row of every report.
var ReportHeader = []string{"Имя файла", "Размер", "Дата создания", "Хэш"}

const (
	reportTimeLayout = time.DateTime
	reportFileLayout = "20060102_150405.000"
)

// WriteReport writes photos as comma-separated lines: one header row, then
// name, size, creation time and hash per photo. Fields are written as is,
// without quoting; file names are expected to be comma-free.
func WriteReport(w io.Writer, photos []*Photo) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(ReportHeader, ",") + "\n")
	for _, p := range photos {
		fmt.Fprintf(bw, "%s,%d,%s,%s\n", p.Name(), p.Size, p.Created.Format(reportTimeLayout), p.Hash)
	}
	return bw.Flush()
}

// Reporter saves reports into Dir under timestamped names.
type Reporter struct {
	Dir  string
	Sink Sink
	Now  func() time.Time
}

// ReportName is the file name for a report of the given kind generated at t.
func ReportName(kind string, t time.Time) string {
	return fmt.Sprintf("%s_report_%s.csv", kind, t.Format(reportFileLayout))
}

// Save writes the report for photos and returns its path. Failures are
// logged as well as returned; callers treat them as non-fatal.
func (r *Reporter) Save(kind string, photos []*Photo) (string, error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, photos); err != nil {
		errorf(r.Sink, "failed to build report: %v", err)
		return "", err
	}

	name := ReportName(kind, now())
	if err := writeFileAtomic(r.Dir, name, buf.Bytes()); err != nil {
		errorf(r.Sink, "failed to save report: %v", err)
		return "", fmt.Errorf("failed to save report %s: %w", name, err)
	}

	path := filepath.Join(r.Dir, name)
	emitf(r.Sink, "report saved: %s", path)
	emitf(r.Sink, "report generated for %d files", len(photos))
	return path, nil
}
