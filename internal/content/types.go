package content

import "errors"

// NotFoundAnswer is the reply when the text does not contain the answer.
const NotFoundAnswer = "ไม่พบในเนื้อหาที่ให้มา"

var (
	// ErrEmptyInput is returned when the text or question is blank.
	ErrEmptyInput = errors.New("empty input")

	// ErrTooShort is returned when the text has no usable sentences.
	ErrTooShort = errors.New("document too short to summarize")
)

// Summary is a structured digest of a document.
type Summary struct {
	Overview   string      `json:"overview" yaml:"overview"`
	KeyPoints  []string    `json:"key_points" yaml:"key_points"`
	Sections   []Section   `json:"sections" yaml:"sections"`
	DataPoints []DataPoint `json:"data_points" yaml:"data_points"`
}

// Section is one titled part of a summary.
type Section struct {
	Title   string `json:"title" yaml:"title"`
	Summary string `json:"summary" yaml:"summary"`
}

// DataPoint is a figure quoted by the document.
type DataPoint struct {
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
	Unit  string `json:"unit,omitempty" yaml:"unit,omitempty"`
}
