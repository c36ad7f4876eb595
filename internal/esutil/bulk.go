package esutil

import (
	"errors"
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrMixedBulkShape is returned when a batch mixes payload shapes.
	ErrMixedBulkShape = errors.New("bulk: batch mixes payload shapes")

	// ErrMalformedOperation is returned for a descriptor that does not name
	// exactly one operation.
	ErrMalformedOperation = errors.New("bulk: malformed operation descriptor")
)

// BulkShape selects how a bulk batch is serialized.
type BulkShape int

const (
	// BulkWithData pairs an action line with an optional document line.
	BulkWithData BulkShape = iota
	// BulkRaw passes already serialized lines through.
	BulkRaw
	// BulkGeneric serializes every value on its own line.
	BulkGeneric
)

func (s BulkShape) String() string {
	switch s {
	case BulkWithData:
		return "with-data"
	case BulkRaw:
		return "raw"
	case BulkGeneric:
		return "generic"
	default:
		return fmt.Sprintf("BulkShape(%d)", int(s))
	}
}

// BulkOperation is one action of a bulk batch, e.g. index, create, update or
// delete. Data holds the document body; it is omitted from the action line.
type BulkOperation struct {
	Action string
	Meta   map[string]any
	Data   any
}

// BulkBody is a bulk batch whose shape is declared by the caller. Only the
// field matching Shape may be populated.
type BulkBody struct {
	Shape      BulkShape
	Operations []BulkOperation
	Lines      []string
	Values     []any
}

// Len reports the number of items in the batch.
func (b BulkBody) Len() int {
	switch b.Shape {
	case BulkWithData:
		return len(b.Operations)
	case BulkRaw:
		return len(b.Lines)
	default:
		return len(b.Values)
	}
}

// Encode serializes the batch into newline-delimited JSON. A non-empty payload
// always ends with a newline; an empty batch encodes to "".
func (b BulkBody) Encode() (string, error) {
	var lines []string
	switch b.Shape {
	case BulkWithData:
		if len(b.Lines) > 0 || len(b.Values) > 0 {
			return "", ErrMixedBulkShape
		}
		out, err := encodeOperations(b.Operations)
		if err != nil {
			return "", err
		}
		lines = out
	case BulkRaw:
		if len(b.Operations) > 0 || len(b.Values) > 0 {
			return "", ErrMixedBulkShape
		}
		lines = append(lines, b.Lines...)
	case BulkGeneric:
		if len(b.Operations) > 0 || len(b.Lines) > 0 {
			return "", ErrMixedBulkShape
		}
		for i, v := range b.Values {
			line, err := json.MarshalToString(v)
			if err != nil {
				return "", fmt.Errorf("bulk: encode item %d: %w", i, err)
			}
			lines = append(lines, line)
		}
	default:
		return "", fmt.Errorf("bulk: unknown shape %s", b.Shape)
	}
	return joinLines(lines), nil
}

func encodeOperations(ops []BulkOperation) ([]string, error) {
	lines := make([]string, 0, 2*len(ops))
	for i, op := range ops {
		if op.Action == "" {
			return nil, fmt.Errorf("%w: item %d has no action", ErrMalformedOperation, i)
		}
		meta := op.Meta
		if meta == nil {
			meta = map[string]any{}
		}
		line, err := json.MarshalToString(map[string]any{op.Action: meta})
		if err != nil {
			return nil, fmt.Errorf("bulk: encode item %d: %w", i, err)
		}
		lines = append(lines, line)
		if op.Data == nil {
			continue
		}
		data, err := json.MarshalToString(op.Data)
		if err != nil {
			return nil, fmt.Errorf("bulk: encode item %d data: %w", i, err)
		}
		lines = append(lines, data)
	}
	return lines, nil
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(append(lines, ""), "\n")
}

// EncodeBulk serializes a loosely typed batch. The shape is detected once over
// the whole batch: descriptors with data if any item is a single-key map whose
// value carries "data", raw lines if every item is a string, otherwise every
// item is serialized as is. A batch that mixes shapes is rejected.
func EncodeBulk(items []any) (string, error) {
	body, err := DetectBulk(items)
	if err != nil {
		return "", err
	}
	return body.Encode()
}

// DetectBulk converts a loosely typed batch into a BulkBody. Caller maps are
// copied, never modified.
func DetectBulk(items []any) (BulkBody, error) {
	switch {
	case anyHasData(items):
		ops := make([]BulkOperation, 0, len(items))
		for i, item := range items {
			op, err := operationFrom(item)
			if err != nil {
				return BulkBody{}, fmt.Errorf("item %d: %w", i, err)
			}
			ops = append(ops, op)
		}
		return BulkBody{Shape: BulkWithData, Operations: ops}, nil

	case allStrings(items):
		lines := make([]string, len(items))
		for i, item := range items {
			lines[i] = item.(string)
		}
		return BulkBody{Shape: BulkRaw, Lines: lines}, nil

	default:
		for i, item := range items {
			if _, ok := item.(string); ok {
				return BulkBody{}, fmt.Errorf("%w: item %d is a raw line in a structured batch", ErrMixedBulkShape, i)
			}
		}
		return BulkBody{Shape: BulkGeneric, Values: items}, nil
	}
}

func anyHasData(items []any) bool {
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for _, v := range m {
			if meta, ok := v.(map[string]any); ok {
				if d, has := meta["data"]; has && d != nil {
					return true
				}
			}
		}
	}
	return false
}

func allStrings(items []any) bool {
	for _, item := range items {
		if _, ok := item.(string); !ok {
			return false
		}
	}
	return true
}

func operationFrom(item any) (BulkOperation, error) {
	m, ok := item.(map[string]any)
	if !ok {
		return BulkOperation{}, fmt.Errorf("%w: %T in a descriptor batch", ErrMixedBulkShape, item)
	}
	if len(m) != 1 {
		return BulkOperation{}, fmt.Errorf("%w: %d top-level keys", ErrMalformedOperation, len(m))
	}
	var op BulkOperation
	for action, v := range m {
		op.Action = action
		meta, ok := v.(map[string]any)
		if !ok {
			return BulkOperation{}, fmt.Errorf("%w: %q metadata is %T", ErrMalformedOperation, action, v)
		}
		op.Meta = make(map[string]any, len(meta))
		for k, mv := range meta {
			if k == "data" {
				op.Data = mv
				continue
			}
			op.Meta[k] = mv
		}
	}
	return op, nil
}
