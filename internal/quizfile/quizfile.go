// Package quizfile reads and writes question lists as JSON or YAML. The
// format follows the file extension; anything but .json is YAML.
package quizfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/edugen/edugen/internal/quiz"
)

// Document is a titled question list.
type Document struct {
	Title     string      `json:"title,omitempty" yaml:"title,omitempty"`
	Questions []quiz.Item `json:"questions" yaml:"questions"`
}

// Load reads path and canonicalizes every question in it. Records the
// canonicalizer rejects are dropped and counted.
func Load(path string) (*Document, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read quiz file: %w", err)
	}
	return Parse(data, isJSON(path))
}

// Parse decodes a question list. The top level is either a list of
// question records or an object with "title" and "questions".
func Parse(data []byte, asJSON bool) (*Document, int, error) {
	var raw any
	var err error
	if asJSON {
		raw, err = decodeJSON(data)
	} else {
		raw, err = decodeYAML(data)
	}
	if err != nil {
		return nil, 0, err
	}

	doc := &Document{}
	var list []any
	switch top := raw.(type) {
	case []any:
		list = top
	case map[string]any:
		if t, ok := top["title"].(string); ok {
			doc.Title = strings.TrimSpace(t)
		}
		qs, ok := top["questions"]
		if !ok {
			return nil, 0, errors.New(`quiz file: missing "questions"`)
		}
		if list, ok = qs.([]any); !ok && qs != nil {
			return nil, 0, errors.New(`quiz file: "questions" must be a list`)
		}
	case nil:
	default:
		return nil, 0, fmt.Errorf("quiz file: unexpected top-level %T", raw)
	}

	records := make([]quiz.Record, 0, len(list))
	rejected := 0
	for _, e := range list {
		m, ok := e.(map[string]any)
		if !ok {
			rejected++
			continue
		}
		records = append(records, quiz.RecordOf(m))
	}
	items, dropped := quiz.CanonicalizeAll(records)
	doc.Questions = items
	return doc, rejected + dropped, nil
}

// Save writes doc to path.
func Save(path string, doc *Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create quiz file: %w", err)
	}
	if err := Encode(f, doc, isJSON(path)); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes doc to w.
func Encode(w io.Writer, doc *Document, asJSON bool) error {
	out := *doc
	if out.Questions == nil {
		out.Questions = []quiz.Item{}
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

func decodeJSON(data []byte) (any, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, errors.New("parse json: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return v, nil
}

func decodeYAML(data []byte) (any, error) {
	var v any
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, errors.New("parse yaml: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return v, nil
}
