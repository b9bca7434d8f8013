package results

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaSource string

var (
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaDef  cue.Value
	schemaErr  error

	// cue.Context is not safe for concurrent use.
	schemaMu sync.Mutex
)

func resultFileSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(schemaSource, cue.Filename("schema.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("compiling result schema: %w", err)
			return
		}
		schemaDef = v.LookupPath(cue.ParsePath("#ResultFile"))
		if !schemaDef.Exists() {
			schemaErr = fmt.Errorf("result schema has no #ResultFile definition")
		}
	})
	return schemaCtx, schemaDef, schemaErr
}

// Validate checks a result document against the result file schema.
func Validate(data []byte) error {
	ctx, def, err := resultFileSchema()
	if err != nil {
		return err
	}
	schemaMu.Lock()
	defer schemaMu.Unlock()
	doc := ctx.CompileBytes(data, cue.Filename("result.json"))
	if err := doc.Err(); err != nil {
		return &SchemaError{Err: err}
	}
	if err := def.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return &SchemaError{Err: err}
	}
	return nil
}

// SchemaError reports a document that does not match the result file schema.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid result file: %v", e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
