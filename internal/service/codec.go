package service

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON string

const schemaURL = "todoclist.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString(schemaURL, schemaJSON)
	})
	return schema, schemaErr
}

// Encode serializes the list as indented JSON with a trailing newline.
func Encode(l *List) ([]byte, error) {
	out := *l
	if out.Tasks == nil {
		out.Tasks = []Task{}
	}
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal task list: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a task list. Content that is not JSON or does not match
// the task-list schema yields an error wrapping ErrParse.
func Decode(data []byte) (*List, error) {
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	s, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile task list schema: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var l List
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if l.Tasks == nil {
		l.Tasks = []Task{}
	}

	// Older files stored 0 for tasks that were never completed.
	for i := range l.Tasks {
		if c := l.Tasks[i].Completed; c != nil && *c == 0 {
			l.Tasks[i].Completed = nil
		}
	}
	return &l, nil
}
