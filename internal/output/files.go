package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const (
	textFileName = "report.txt"
	jsonFileName = "report.json"
	lockFileName = ".burstfire.lock"
)

// Paths lists the artifacts written for a session.
type Paths struct {
	Text string
	JSON string
	HTML string
}

func (p Paths) list() []string {
	var out []string
	for _, path := range []string{p.Text, p.JSON, p.HTML} {
		if path != "" {
			out = append(out, path)
		}
	}
	return out
}

// WriteFiles writes report.txt and report.json into dir, creating it if
// needed. An exclusive lock on dir keeps concurrent sessions from
// interleaving their artifacts.
func WriteFiles(dir string, doc Document) (Paths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create output dir: %w", err)
	}

	lock := flock.New(filepath.Join(dir, lockFileName))
	if err := lock.Lock(); err != nil {
		return Paths{}, fmt.Errorf("lock output dir: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	paths := Paths{
		Text: filepath.Join(dir, textFileName),
		JSON: filepath.Join(dir, jsonFileName),
	}
	if err := writeFile(paths.Text, func(w io.Writer) error { return WriteText(w, doc) }); err != nil {
		return Paths{}, fmt.Errorf("write %s: %w", textFileName, err)
	}
	if err := writeFile(paths.JSON, func(w io.Writer) error { return PrintJSONReport(w, doc) }); err != nil {
		return Paths{}, fmt.Errorf("write %s: %w", jsonFileName, err)
	}
	return paths, nil
}

// WriteHTMLFile renders the HTML report to path.
func WriteHTMLFile(path string, doc Document) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create html output dir: %w", err)
		}
	}
	return writeFile(path, func(w io.Writer) error { return GenerateHTMLReport(w, doc) })
}

func writeFile(path string, render func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
