package rpc

import (
	"encoding/json"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"
)

// ValueString renders a dynamic value the way it is displayed and searched:
// null is empty, whole numbers carry no decimals, nested values become JSON.
func ValueString(v *structpb.Value) string {
	if v == nil {
		return ""
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return ""
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	case *structpb.Value_BoolValue:
		return strconv.FormatBool(kind.BoolValue)
	default:
		b, err := json.Marshal(v.AsInterface())
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// StructString returns the string form of s[key], or "" when absent.
func StructString(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	return ValueString(s.GetFields()[key])
}

// Structs returns the Struct elements of l, skipping anything else.
func Structs(l *structpb.ListValue) []*structpb.Struct {
	out := make([]*structpb.Struct, 0, len(l.GetValues()))
	for _, v := range l.GetValues() {
		if s := v.GetStructValue(); s != nil {
			out = append(out, s)
		}
	}
	return out
}

// StructList wraps structs into a ListValue.
func StructList(items []*structpb.Struct) *structpb.ListValue {
	values := make([]*structpb.Value, 0, len(items))
	for _, s := range items {
		values = append(values, structpb.NewStructValue(s))
	}
	return &structpb.ListValue{Values: values}
}
