package errors

import (
	"maps"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToGRPCError converts err to a status error. Meta travels as a Struct detail.
func ToGRPCError(err error) error {
	if err == nil {
		return nil
	}

	// Already a gRPC status error
	if _, ok := status.FromError(err); ok {
		return err
	}

	e, ok := find(err)
	if !ok {
		return status.Error(codes.Internal, err.Error())
	}

	st := status.New(e.Code.GRPCCode(), e.Message)
	if detail := metaDetail(e); detail != nil {
		if withDetails, detailErr := st.WithDetails(detail); detailErr == nil {
			st = withDetails
		}
	}
	return st.Err()
}

// metaDetail packs the code and meta into a Struct detail. Meta that
// structpb cannot represent drops the whole detail.
func metaDetail(e *Error) *structpb.Struct {
	if len(e.Meta) == 0 {
		return nil
	}
	fields := maps.Clone(e.Meta)
	fields["code"] = string(e.Code)
	detail, err := structpb.NewStruct(fields)
	if err != nil {
		return nil
	}
	return detail
}

// FromGRPCError turns a status error back into an *Error, restoring meta
// from the first Struct detail
func FromGRPCError(err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	out := New(codeFromGRPC(st.Code()), st.Message())
	for _, detail := range st.Details() {
		if meta, ok := detail.(*structpb.Struct); ok {
			out.Meta = meta.AsMap()
			delete(out.Meta, "code")
			break
		}
	}
	return out
}
