package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
)

type systemInfo struct {
	OS             string `json:"os"`
	RuntimeVersion string `json:"runtime_version,omitempty"`
	// PythonVersion is accepted from older result files.
	PythonVersion string `json:"python_version,omitempty"`
}

type document struct {
	SystemInfo      systemInfo                              `json:"system_info"`
	ProtocolResults map[string]map[string]map[string]string `json:"protocol_results"`
}

// FileError reports a result file that could not be read or decoded.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func toDocument(rs *ResultSet) document {
	doc := document{
		SystemInfo: systemInfo{
			OS:             rs.identity.Platform,
			RuntimeVersion: rs.identity.RuntimeVersion,
		},
		ProtocolResults: make(map[string]map[string]map[string]string, len(rs.data)),
	}
	for p, cats := range rs.data {
		pc := make(map[string]map[string]string, len(cats))
		for cat, tests := range cats {
			tc := make(map[string]string, len(tests))
			for test, r := range tests {
				tc[test] = r.String()
			}
			pc[cat] = tc
		}
		doc.ProtocolResults[strconv.Itoa(p)] = pc
	}
	return doc
}

// Marshal encodes rs as an indented result document. Map keys are sorted,
// so equal sets always marshal to the same bytes.
func Marshal(rs *ResultSet) ([]byte, error) {
	data, err := json.MarshalIndent(toDocument(rs), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result set: %w", err)
	}
	return append(data, '\n'), nil
}

// Unmarshal validates and decodes a result document.
func Unmarshal(data []byte) (*ResultSet, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding result file: %w", err)
	}

	runtime := doc.SystemInfo.RuntimeVersion
	if runtime == "" {
		runtime = doc.SystemInfo.PythonVersion
	}
	if runtime == "" {
		return nil, errors.New("system_info has neither runtime_version nor python_version")
	}

	b := NewBuilder(SystemIdentity{Platform: doc.SystemInfo.OS, RuntimeVersion: runtime})
	for key, cats := range doc.ProtocolResults {
		p, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("protocol key %q: %w", key, err)
		}
		for cat, tests := range cats {
			for test, s := range tests {
				c := Coordinate{Protocol: p, Category: cat, Test: test}
				if err := b.Add(c, ParseHashResult(s)); err != nil {
					return nil, err
				}
			}
		}
	}
	return b.Freeze(), nil
}

// Save writes rs to path.
func Save(rs *ResultSet, path string) error {
	data, err := Marshal(rs)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}

// Load reads and decodes the result file at path. Every failure is a
// *FileError.
func Load(path string) (*ResultSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	rs, err := Unmarshal(data)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	return rs, nil
}
