package v1alpha1

import (
	"math"
	"strconv"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/certquest/internal/errors"
)

func field(req *structpb.Struct, name string) *structpb.Value {
	if req == nil {
		return nil
	}
	return req.GetFields()[name]
}

func stringField(req *structpb.Struct, name string) string {
	return strings.TrimSpace(field(req, name).GetStringValue())
}

func requiredSessionID(req *structpb.Struct) (string, error) {
	id := stringField(req, "session_id")
	if id == "" {
		return "", errors.InvalidArgument("session_id is required")
	}
	return id, nil
}

// optionalSeed accepts the seed as a decimal string, which keeps all 64 bits,
// or as a JSON number for small values.
func optionalSeed(req *structpb.Struct) (*uint64, error) {
	v := field(req, "seed")
	if v == nil {
		return nil, nil
	}

	switch kind := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_StringValue:
		raw := strings.TrimSpace(kind.StringValue)
		if raw == "" {
			return nil, nil
		}
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, errors.InvalidArgumentf("seed %q is not an unsigned integer", raw)
		}
		return &seed, nil
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n < 0 || n != math.Trunc(n) || n > math.MaxInt64 {
			return nil, errors.InvalidArgumentf("seed %v is not an unsigned integer", n)
		}
		seed := uint64(n)
		return &seed, nil
	default:
		return nil, errors.InvalidArgument("seed must be a string or a number")
	}
}

func stringList(req *structpb.Struct, name string) ([]string, error) {
	v := field(req, name)
	if v == nil {
		return nil, nil
	}
	if _, ok := v.GetKind().(*structpb.Value_NullValue); ok {
		return nil, nil
	}

	list := v.GetListValue()
	if list == nil {
		return nil, errors.InvalidArgumentf("%s must be a list of strings", name)
	}

	out := make([]string, 0, len(list.GetValues()))
	for i, item := range list.GetValues() {
		s, ok := item.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, errors.InvalidArgumentf("%s[%d] must be a string", name, i)
		}
		out = append(out, s.StringValue)
	}
	return out, nil
}
