package codecx

import (
	"encoding/json"
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Normalize converts decoded values into plain Go values: map[string]any,
// []any, int64, float64, string, bool, time.Time and nil. json.Number becomes
// int64 when integral; BSON documents and arrays become maps and slices.
func Normalize(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case uint64:
		if val <= math.MaxInt64 {
			return int64(val)
		}
		return float64(val)
	case float32:
		return float64(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Normalize(item)
		}
		return out
	case bson.M:
		return Normalize(map[string]any(val))
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = Normalize(item)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(val))
		for _, e := range val {
			out[e.Key] = Normalize(e.Value)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	case bson.A:
		return Normalize([]any(val))
	case primitive.ObjectID:
		return val.Hex()
	case primitive.DateTime:
		return val.Time().UTC()
	case primitive.Decimal128:
		return val.String()
	}
	return v
}

// Decode unmarshals data into a generic value and normalizes it
func Decode(c Codec, data []byte) (any, error) {
	var v any
	if err := c.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return Normalize(v), nil
}

// DecodeRecords decodes one object or a list of objects
func DecodeRecords(c Codec, data []byte) ([]map[string]any, error) {
	v, err := Decode(c, data)
	if err != nil {
		return nil, err
	}

	switch val := v.(type) {
	case map[string]any:
		return []map[string]any{val}, nil
	case []any:
		records := make([]map[string]any, len(val))
		for i, item := range val {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, ErrorRegistry.New(ErrNotObject).
					WithDetail("index", i).
					WithDetail("got", fmt.Sprintf("%T", item))
			}
			records[i] = m
		}
		return records, nil
	}
	return nil, ErrorRegistry.New(ErrNotObject).WithDetail("got", fmt.Sprintf("%T", v))
}
