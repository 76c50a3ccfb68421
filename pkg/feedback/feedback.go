package feedback

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"millwright/judgment/pkg/mining"
)

// Format is a feedback file encoding.
type Format string

const (
	// FormatJSON is a JSON array of entries.
	FormatJSON Format = "json"
	// FormatJSONL is one JSON entry per line.
	FormatJSONL Format = "jsonl"
	// FormatYAML is a YAML list of entries.
	FormatYAML Format = "yaml"
)

var (
	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = errors.New("unsupported feedback format")

	// ErrInvalidEntry is returned for an entry that cannot become a record.
	ErrInvalidEntry = errors.New("invalid feedback entry")
)

// Options controls how feedback files are read.
type Options struct {
	// PositiveAccuracy is the accuracy at or above which an entry without
	// an explicit is_positive flag counts as positive.
	PositiveAccuracy float64

	// MaxFileSize bounds the file size in bytes.
	MaxFileSize int64
}

// DefaultOptions returns the default load options.
func DefaultOptions() Options {
	return Options{
		PositiveAccuracy: 0.7,
		MaxFileSize:      100 * 1024 * 1024,
	}
}

// entry is one feedback item as stored on disk. Input may be given as an
// object or as pre-serialized JSON text.
type entry struct {
	LabelID    string         `json:"label_id" yaml:"label_id"`
	Input      map[string]any `json:"input" yaml:"input"`
	InputJSON  string         `json:"input_json" yaml:"input_json"`
	IsPositive *bool          `json:"is_positive" yaml:"is_positive"`
	Accuracy   *float64       `json:"accuracy" yaml:"accuracy"`
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads feedback records from path.
func Load(path string, opts Options) ([]mining.FeedbackRecord, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access feedback file: %w", err)
	}
	if opts.MaxFileSize > 0 && info.Size() > opts.MaxFileSize {
		return nil, fmt.Errorf("feedback file size %d exceeds maximum %d bytes", info.Size(), opts.MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feedback file: %w", err)
	}

	records, err := Parse(data, format, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Parse decodes feedback records in the given format.
func Parse(data []byte, format Format, opts Options) ([]mining.FeedbackRecord, error) {
	var entries []entry

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&entries); err != nil {
			return nil, fmt.Errorf("failed to parse JSON feedback: %w", err)
		}

	case FormatJSONL:
		scanner := bufio.NewScanner(bytes.NewReader(data))
		scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
		line := 0
		for scanner.Scan() {
			line++
			text := bytes.TrimSpace(scanner.Bytes())
			if len(text) == 0 {
				continue
			}
			var e entry
			dec := json.NewDecoder(bytes.NewReader(text))
			dec.UseNumber()
			if err := dec.Decode(&e); err != nil {
				return nil, fmt.Errorf("line %d: failed to parse JSON feedback: %w", line, err)
			}
			entries = append(entries, e)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to scan feedback lines: %w", err)
		}

	case FormatYAML:
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("failed to parse YAML feedback: %w", err)
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	records := make([]mining.FeedbackRecord, 0, len(entries))
	for i, e := range entries {
		rec, err := e.record(opts)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (e entry) record(opts Options) (mining.FeedbackRecord, error) {
	rec := mining.FeedbackRecord{LabelID: e.LabelID}

	switch {
	case e.Input != nil && e.InputJSON != "":
		return rec, fmt.Errorf("%w: both input and input_json are set", ErrInvalidEntry)
	case e.Input != nil:
		raw, err := json.Marshal(e.Input)
		if err != nil {
			return rec, fmt.Errorf("%w: input: %v", ErrInvalidEntry, err)
		}
		rec.InputJSON = string(raw)
	case e.InputJSON != "":
		rec.InputJSON = e.InputJSON
	default:
		return rec, fmt.Errorf("%w: missing input", ErrInvalidEntry)
	}

	switch {
	case e.IsPositive != nil:
		rec.IsPositive = *e.IsPositive
	case e.Accuracy != nil:
		if math.IsNaN(*e.Accuracy) {
			return rec, fmt.Errorf("%w: accuracy is NaN", ErrInvalidEntry)
		}
		rec.IsPositive = *e.Accuracy >= opts.PositiveAccuracy
	default:
		return rec, fmt.Errorf("%w: needs is_positive or accuracy", ErrInvalidEntry)
	}

	return rec, nil
}
