package badgeapi

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/qri-io/jsonschema"
)

// Schema names, one per success payload shape.
const (
	schemaBasic       = "basic"
	schemaLogin       = "login"
	schemaProfile     = "profile"
	schemaBadgeList   = "badge_list"
	schemaBadgeDetail = "badge_detail"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// schemaSet holds the compiled response schemas keyed by name.
type schemaSet struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

var (
	schemasOnce sync.Once
	schemas     *schemaSet
	schemasErr  error
)

func loadSchemas() (*schemaSet, error) {
	schemasOnce.Do(func() {
		s := &schemaSet{cache: make(map[string]*jsonschema.Schema)}
		schemasErr = s.load(schemaFS)
		schemas = s
	})
	return schemas, schemasErr
}

func (s *schemaSet) load(fsys fs.FS) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := fs.ReadDir(fsys, "schemas")
	if err != nil {
		return fmt.Errorf("read schemas: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		b, err := fs.ReadFile(fsys, path.Join("schemas", e.Name()))
		if err != nil {
			return fmt.Errorf("read schema %s: %w", e.Name(), err)
		}

		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(b, rs); err != nil {
			return fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		s.cache[strings.TrimSuffix(e.Name(), ".json")] = rs
	}

	return nil
}

func (s *schemaSet) get(name string) (*jsonschema.Schema, bool) {
	s.mu.RLock()
	rs, ok := s.cache[name]
	s.mu.RUnlock()

	return rs, ok
}

// decodeValidated checks body against the named schema and decodes it into
// out. Any failure is reported as a MalformedResponseError.
func decodeValidated(ctx context.Context, op, name string, body []byte, out any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &MalformedResponseError{Op: op, Reason: "empty body"}
	}

	set, err := loadSchemas()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rs, ok := set.get(name)
	if !ok {
		return fmt.Errorf("%s: no schema named %s", op, name)
	}

	verrs, err := rs.ValidateBytes(ctx, trimmed)
	if err != nil {
		return &MalformedResponseError{Op: op, Reason: "invalid json", Err: err}
	}
	if len(verrs) > 0 {
		var sb strings.Builder
		for i, v := range verrs {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(v.PropertyPath)
			sb.WriteString(": ")
			sb.WriteString(v.Message)
		}
		return &MalformedResponseError{Op: op, Reason: "schema mismatch: " + sb.String()}
	}

	if err := json.Unmarshal(trimmed, out); err != nil {
		return &MalformedResponseError{Op: op, Reason: "decode", Err: err}
	}

	return nil
}
