package vectordb

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidArgument is returned for contract violations: mismatched sequence
// lengths, empty ids, non-positive result counts, or metadata values outside
// the permitted scalar set.
var ErrInvalidArgument = errors.New("invalid argument")

// Metadata is a caller-supplied mapping attached to an indexed entry. Values
// are limited to a closed scalar set (string, bool, integers, floats) for
// portability across storage engines; they are stored and echoed back as
// strings.
type Metadata map[string]any

// Match is one query result: the stored document text, its metadata, and a
// non-negative dissimilarity score where lower means more similar.
type Match struct {
	Document string
	Metadata map[string]string
	Distance float32
}

// flatten converts Metadata to the flat string map the underlying engine
// stores, rejecting values outside the permitted scalar set.
func flatten(m Metadata) (map[string]string, error) {
	if len(m) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		s, err := scalarString(v)
		if err != nil {
			return nil, fmt.Errorf("%w: metadata key %q: %v", ErrInvalidArgument, k, err)
		}
		out[k] = s
	}
	return out, nil
}

func scalarString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}
