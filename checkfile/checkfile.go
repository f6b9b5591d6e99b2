// Package checkfile loads declarative endpoint checks from a YAML file, so that the harness
// can verify endpoints beyond its built-in suite without code changes.
package checkfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/breakly/api-smoke-tests/smoketests"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// File is the top-level document.
type File struct {
	Checks []Check `yaml:"checks"`
}

// Check is one request and the expectations for its response.
type Check struct {
	Name    string            `yaml:"name"`
	Method  string            `yaml:"method"`
	Path    string            `yaml:"path"`
	Headers map[string]string `yaml:"headers"`
	JSON    interface{}       `yaml:"json"`
	RawBody *string           `yaml:"raw_body"`
	Expect  Expect            `yaml:"expect"`

	schema *jsonschema.Schema
}

// Expect holds the declarative expectations. Every field that is set must hold.
type Expect struct {
	Status        int      `yaml:"status"`
	StatusAtLeast int      `yaml:"status_at_least"`
	StatusNot     []int    `yaml:"status_not"`
	StatusIn      []int    `yaml:"status_in"`
	ContentType   string   `yaml:"content_type"`
	JSONKeys      []string `yaml:"json_keys"`
	Schema        string   `yaml:"schema"`
}

func (e Expect) isEmpty() bool {
	return e.Status == 0 && e.StatusAtLeast == 0 && len(e.StatusNot) == 0 && len(e.StatusIn) == 0 &&
		e.ContentType == "" && len(e.JSONKeys) == 0 && e.Schema == ""
}

var validMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
}

// Load reads and validates a check file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading check file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates a check file. Unknown keys are rejected, and every schema is
// compiled so that mistakes are reported before any request is made.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing check file: %w", err)
	}

	var errs []error
	seen := make(map[string]bool)
	for i := range f.Checks {
		c := &f.Checks[i]
		if err := c.normalize(); err != nil {
			errs = append(errs, fmt.Errorf("check %d (%q): %w", i+1, c.Name, err))
			continue
		}
		if seen[c.Name] {
			errs = append(errs, fmt.Errorf("check %d: duplicate name %q", i+1, c.Name))
		}
		seen[c.Name] = true
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &f, nil
}

func (c *Check) normalize() error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return errors.New("name is required")
	}
	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	if c.Method == "" {
		c.Method = http.MethodGet
	}
	if !validMethods[c.Method] {
		return fmt.Errorf("unsupported method %q", c.Method)
	}
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("path %q must start with /", c.Path)
	}
	if c.RawBody != nil && c.JSON != nil {
		return errors.New("json and raw_body are mutually exclusive")
	}
	if c.Expect.isEmpty() {
		return errors.New("at least one expectation is required")
	}
	if c.Expect.Schema != "" {
		schema, err := compileSchema(c.Name, c.Expect.Schema)
		if err != nil {
			return err
		}
		c.schema = schema
	}
	return nil
}

func compileSchema(name, text string) (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("schema is not valid JSON: %w", err)
	}
	url := "checkfile://" + strings.ReplaceAll(name, " ", "_") + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// Expectation converts the check into the harness's declarative form.
func (c Check) Expectation() smoketests.EndpointExpectation {
	e := smoketests.EndpointExpectation{
		Method:      c.Method,
		Path:        c.Path,
		Headers:     c.Headers,
		JSON:        normalizeYAML(c.JSON),
		PassMessage: "Response matched expectations",
	}
	if c.RawBody != nil {
		e.RawBody = []byte(*c.RawBody)
	}

	var status []smoketests.StatusPredicate
	if c.Expect.Status != 0 {
		status = append(status, smoketests.StatusEquals(c.Expect.Status))
	}
	if c.Expect.StatusAtLeast != 0 {
		status = append(status, smoketests.StatusAtLeast(c.Expect.StatusAtLeast))
	}
	if len(c.Expect.StatusNot) > 0 {
		status = append(status, smoketests.StatusNot(c.Expect.StatusNot...))
	}
	if len(c.Expect.StatusIn) > 0 {
		status = append(status, smoketests.StatusIn(c.Expect.StatusIn...))
	}
	if len(status) > 0 {
		e.Status = smoketests.AllStatus(status...)
	}

	if c.Expect.ContentType != "" {
		e.Checks = append(e.Checks, smoketests.ContentTypeContains(c.Expect.ContentType))
	}
	for _, key := range c.Expect.JSONKeys {
		e.Checks = append(e.Checks, smoketests.HasJSONKey(key))
	}
	if c.schema != nil {
		e.Checks = append(e.Checks, smoketests.MatchesSchema(c.schema))
	}
	return e
}

// NamedExpectations converts every check, in file order.
func (f *File) NamedExpectations() []smoketests.NamedExpectation {
	ret := make([]smoketests.NamedExpectation, 0, len(f.Checks))
	for _, c := range f.Checks {
		ret = append(ret, smoketests.NamedExpectation{Name: c.Name, Expectation: c.Expectation()})
	}
	return ret
}

// normalizeYAML converts the map[interface{}]interface{} values that YAML may produce for
// nested mappings into map[string]interface{}, which encoding/json can marshal.
func normalizeYAML(v interface{}) interface{} {
	switch x := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(x))
		for k, val := range x {
			m[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return m
	case map[string]interface{}:
		m := make(map[string]interface{}, len(x))
		for k, val := range x {
			m[k] = normalizeYAML(val)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(x))
		for i, val := range x {
			s[i] = normalizeYAML(val)
		}
		return s
	default:
		return v
	}
}
