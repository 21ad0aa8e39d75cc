package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/config.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// SchemaError lists the schema violations found in a config file.
type SchemaError struct {
	Path   string
	Issues []Issue
}

// Issue is a single schema violation.
type Issue struct {
	Location string // e.g. "/ignored_paths/0"
	Message  string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid config file %s:", e.Path)
	for _, issue := range e.Issues {
		b.WriteString("\n  ")
		if issue.Location != "" {
			b.WriteString(issue.Location + ": ")
		}
		b.WriteString(issue.Message)
	}
	return b.String()
}

func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("config.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("config.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// validateDocument parses YAML config data, checks it against the embedded
// schema and returns the decoded top-level mapping.
func validateDocument(path string, data []byte) (map[string]any, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading config schema: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	// Round-trip through JSON so the validator sees json.Number values.
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("converting config file %s to JSON: %w", path, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing config file %s for validation: %w", path, err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return doc, nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return nil, fmt.Errorf("validating config file %s: %w", path, err)
	}
	return nil, &SchemaError{Path: path, Issues: collectIssues(validationErr)}
}

// collectIssues flattens the validation error tree into leaf issues.
func collectIssues(ve *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, cause := range e.Causes {
				walk(cause)
			}
			return
		}
		location := ""
		if len(e.InstanceLocation) > 0 {
			location = "/" + strings.Join(e.InstanceLocation, "/")
		}
		msg := e.Error()
		if e.ErrorKind != nil {
			msg = e.ErrorKind.LocalizedString(printer)
		}
		issues = append(issues, Issue{Location: location, Message: msg})
	}
	walk(ve)
	return issues
}
