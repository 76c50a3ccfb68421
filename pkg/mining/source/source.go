package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"millwright/judgment/pkg/mining"
)

// DefaultMaxFileSize bounds candidate files.
const DefaultMaxFileSize = 10 * 1024 * 1024

// ErrInvalidFormat indicates a candidate file that is neither a list of
// rules nor a document with a rules list.
var ErrInvalidFormat = errors.New("invalid candidate file format")

// CandidateSource proposes candidate rules from labeled feedback. Any
// external miner, such as an LLM-backed one, participates in fusion by
// implementing it.
type CandidateSource interface {
	// Name identifies the source in logs and metrics.
	Name() string

	// Propose returns candidate rules. Returning an error drops this
	// source from the run without failing it.
	Propose(ctx context.Context, records []mining.FeedbackRecord) ([]mining.CandidateRule, error)
}

// Func adapts a function to the CandidateSource interface.
type Func struct {
	name string
	fn   func(ctx context.Context, records []mining.FeedbackRecord) ([]mining.CandidateRule, error)
}

// NewFunc creates a source named name backed by fn.
func NewFunc(name string, fn func(ctx context.Context, records []mining.FeedbackRecord) ([]mining.CandidateRule, error)) *Func {
	return &Func{name: name, fn: fn}
}

// Name returns the source name.
func (f *Func) Name() string { return f.name }

// Propose calls the wrapped function.
func (f *Func) Propose(ctx context.Context, records []mining.FeedbackRecord) ([]mining.CandidateRule, error) {
	return f.fn(ctx, records)
}

// File reads candidate rules from a YAML or JSON file on every call, so
// the output of an offline miner can be dropped in between runs. Rules
// without a method are stamped with the file's method.
//
// The file is either a list of rules or a document with a "rules" key:
//
//	rules:
//	  - expression: "temperature > 85 && vibration < 50"
//	    confidence: 0.88
//	    support_count: 42
//	    total_count: 50
type File struct {
	path        string
	method      mining.Method
	maxFileSize int64
}

// NewFile creates a file source. An empty method defaults to llm.
func NewFile(path string, method mining.Method) *File {
	if method == "" {
		method = mining.MethodLLM
	}
	return &File{
		path:        path,
		method:      method,
		maxFileSize: DefaultMaxFileSize,
	}
}

// WithMaxFileSize sets the maximum file size limit.
func (f *File) WithMaxFileSize(size int64) *File {
	f.maxFileSize = size
	return f
}

// Name returns "file:<base name>".
func (f *File) Name() string {
	return "file:" + filepath.Base(f.path)
}

// Propose loads the candidate rules. The records are not used.
func (f *File) Propose(ctx context.Context, _ []mining.FeedbackRecord) ([]mining.CandidateRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to access candidate file: %w", err)
	}
	if info.Size() > f.maxFileSize {
		return nil, fmt.Errorf("candidate file size %d exceeds maximum %d bytes", info.Size(), f.maxFileSize)
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidate file: %w", err)
	}

	rules, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.path, err)
	}

	for i := range rules {
		rules[i].Expression = strings.TrimSpace(rules[i].Expression)
		if rules[i].Method == "" {
			rules[i].Method = f.method
		}
	}
	return rules, nil
}

// Parse decodes candidate rules from YAML or JSON.
func Parse(data []byte) ([]mining.CandidateRule, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if len(doc.Content) == 0 {
		return []mining.CandidateRule{}, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var rules []mining.CandidateRule
		if err := root.Decode(&rules); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return rules, nil

	case yaml.MappingNode:
		var wrapper struct {
			Rules []mining.CandidateRule `yaml:"rules"`
		}
		if err := root.Decode(&wrapper); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		if wrapper.Rules == nil {
			return nil, fmt.Errorf("%w: missing rules list", ErrInvalidFormat)
		}
		return wrapper.Rules, nil

	default:
		return nil, fmt.Errorf("%w: expected a list or a mapping", ErrInvalidFormat)
	}
}
