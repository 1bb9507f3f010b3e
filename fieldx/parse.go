package fieldx

import (
	"reflect"
	"sort"
	"strings"

	"github.com/Conversia-AI/craftable-serialx/serialx"
)

// ParseType converts a type string to a serialx.Type.
// Supports "string", "int", "float", "bool", "uuid", "time", "any", list
// types such as "[string]" and map types such as "map[int]".
func ParseType(typeStr string) (serialx.Type, error) {
	typeStr = strings.TrimSpace(typeStr)

	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elem, err := ParseType(typeStr[1 : len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return ListType{Elem: elem}, nil
	}

	if strings.HasPrefix(typeStr, "map[") && strings.HasSuffix(typeStr, "]") {
		elem, err := ParseType(typeStr[4 : len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return MapType{Elem: elem}, nil
	}

	switch typeStr {
	case "string":
		return StringType{}, nil
	case "int":
		return IntType{}, nil
	case "float":
		return FloatType{}, nil
	case "bool":
		return BoolType{}, nil
	case "uuid":
		return UUIDType{}, nil
	case "time":
		return TimeType{}, nil
	case "any", "":
		return serialx.Any(), nil
	default:
		return nil, ErrorRegistry.New(ErrUnsupportedType).WithDetail("type", typeStr)
	}
}

func sortedKeys(rv reflect.Value) []string {
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return keys
}
