// Package output renders a QA report for the terminal, markdown files,
// machine-readable JSON, and tracker comments.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/crolabs/lpqa/pkg/models"
)

const fileTimeLayout = "20060102_150405"

// Envelope is the machine-readable report document. It round-trips through
// JSON without loss of result counts.
type Envelope struct {
	URL       string               `json:"url"`
	Timestamp time.Time            `json:"timestamp"`
	Summary   models.Summary       `json:"summary"`
	Results   []models.CheckResult `json:"results"`
}

// NewEnvelope wraps a report for serialization, stamped with the given time.
func NewEnvelope(report *models.QAReport, at time.Time) Envelope {
	return Envelope{
		URL:       report.Context.LandingPageURL,
		Timestamp: at,
		Summary:   report.Summary,
		Results:   report.Results,
	}
}

// WriteJSON writes the indented JSON envelope to w.
func WriteJSON(w io.Writer, env Envelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// JSONBytes returns the indented JSON envelope.
func JSONBytes(env Envelope) ([]byte, error) {
	return json.MarshalIndent(env, "", "  ")
}

// SaveJSON writes the envelope to dir with a timestamped filename and
// returns the file path.
func SaveJSON(dir string, env Envelope) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	data, err := JSONBytes(env)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("qa_results_%s.json", env.Timestamp.Format(fileTimeLayout)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// SaveMarkdown renders the report to markdown in dir with a timestamped
// filename and returns the file path.
func SaveMarkdown(dir string, report *models.QAReport, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	var b bytes.Buffer
	WriteMarkdown(&b, report, at)
	path := filepath.Join(dir, fmt.Sprintf("qa_report_%s.md", at.Format(fileTimeLayout)))
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
