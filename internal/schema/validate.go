// Package schema validates emitted verdict documents against the embedded
// JSON schema.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	schemafs "github.com/dzerrenner/verdict/schema"
)

var (
	documentSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

// compileSchema compiles the embedded document schema once.
func compileSchema() error {
	compileOnce.Do(func() {
		data, err := schemafs.FS.ReadFile("verdict.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("read verdict schema: %w", err)
			return
		}

		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal verdict schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("verdict.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("add verdict schema resource: %w", err)
			return
		}

		documentSchema, err = compiler.Compile("verdict.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("compile verdict schema: %w", err)
			return
		}
	})

	return compileErr
}

// ValidateDocument validates JSON data against the verdict document schema.
func ValidateDocument(data []byte) error {
	if err := compileSchema(); err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := documentSchema.Validate(v); err != nil {
		return fmt.Errorf("document validation failed: %w", err)
	}

	return nil
}
