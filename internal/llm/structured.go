package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// compiledSchemas caches compiled schemas by Schema.Name.
var compiledSchemas sync.Map // map[string]*jsonschema.Schema

var (
	codeFence        = regexp.MustCompile("(?s)^```[A-Za-z]*\\s*(.*?)\\s*```$")
	violationPrinter = message.NewPrinter(language.English)
)

// replyContent turns the text of a model reply into Response content.
// Without a schema the text becomes a JSON string. With one, the JSON value
// is cut out of any code fence or surrounding prose and must satisfy the
// schema.
func replyContent(schema *Schema, text string) (json.RawMessage, error) {
	if schema == nil {
		b, err := json.Marshal(strings.TrimSpace(text))
		if err != nil {
			return nil, &ErrInvalidResponse{Err: err}
		}
		return b, nil
	}
	raw := extractJSON(text)
	if err := validateContent(schema, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// extractJSON finds the JSON value in a reply. Models without native
// structured output tend to wrap it in a ```json fence or a sentence of
// preamble.
func extractJSON(text string) json.RawMessage {
	s := strings.TrimSpace(text)
	if m := codeFence.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return json.RawMessage(s)
	}
	start, end := strings.Index(s, "{"), strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return json.RawMessage(s[start : end+1])
	}
	return json.RawMessage(s)
}

// validateContent checks raw against schema. A schema that does not compile
// is an ErrRejected since no reply can satisfy it; content that fails the
// schema is an ErrInvalidResponse naming the first offending location.
func validateContent(schema *Schema, raw json.RawMessage) error {
	compiled, err := compileSchema(schema)
	if err != nil {
		return &ErrRejected{Reason: ReasonBadSchema, Err: err}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return &ErrInvalidResponse{Schema: schema.Name, Content: raw, Err: fmt.Errorf("not JSON: %w", err)}
	}
	if err := compiled.Validate(doc); err != nil {
		return &ErrInvalidResponse{Schema: schema.Name, Content: raw, Err: describeViolation(err)}
	}
	return nil
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	if cached, ok := compiledSchemas.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", schema.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", schema.Name, err)
	}

	url := "mem://edugen/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %q: %w", schema.Name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", schema.Name, err)
	}

	if schema.Name != "" {
		compiledSchemas.Store(schema.Name, compiled)
	}
	return compiled, nil
}

// describeViolation reduces a validation error tree to its first leaf, e.g.
// "/questions/0/answer: value must be one of ...".
func describeViolation(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	msg := "does not match"
	if ve.ErrorKind != nil {
		msg = ve.ErrorKind.LocalizedString(violationPrinter)
	}
	return fmt.Errorf("/%s: %s", strings.Join(ve.InstanceLocation, "/"), msg)
}
