package errors

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// Code classifies an error for transports
type Code string

// Error codes
const (
	CodeOK                 Code = "OK"
	CodeCanceled           Code = "CANCELED"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeDeadlineExceeded   Code = "DEADLINE_EXCEEDED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeResourceExhausted  Code = "RESOURCE_EXHAUSTED"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeOutOfRange         Code = "OUT_OF_RANGE"
	CodeUnimplemented      Code = "UNIMPLEMENTED"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
)

type codeInfo struct {
	grpc  codes.Code
	http  int
	retry bool
}

var codeTable = map[Code]codeInfo{
	CodeOK:                 {codes.OK, http.StatusOK, false},
	CodeCanceled:           {codes.Canceled, http.StatusRequestTimeout, false},
	CodeInvalidArgument:    {codes.InvalidArgument, http.StatusBadRequest, false},
	CodeDeadlineExceeded:   {codes.DeadlineExceeded, http.StatusGatewayTimeout, true},
	CodeNotFound:           {codes.NotFound, http.StatusNotFound, false},
	CodeAlreadyExists:      {codes.AlreadyExists, http.StatusConflict, false},
	CodeResourceExhausted:  {codes.ResourceExhausted, http.StatusTooManyRequests, true},
	CodeFailedPrecondition: {codes.FailedPrecondition, http.StatusConflict, false},
	CodeOutOfRange:         {codes.OutOfRange, http.StatusBadRequest, false},
	CodeUnimplemented:      {codes.Unimplemented, http.StatusNotImplemented, false},
	CodeInternal:           {codes.Internal, http.StatusInternalServerError, false},
	CodeUnavailable:        {codes.Unavailable, http.StatusServiceUnavailable, true},
}

var grpcTable = func() map[codes.Code]Code {
	out := make(map[codes.Code]Code, len(codeTable))
	for c, info := range codeTable {
		out[info.grpc] = c
	}
	return out
}()

func (c Code) info() codeInfo {
	if info, ok := codeTable[c]; ok {
		return info
	}
	return codeTable[CodeInternal]
}

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// GRPCCode returns the matching gRPC status code
func (c Code) GRPCCode() codes.Code {
	return c.info().grpc
}

// HTTPStatus returns the matching HTTP status, used by the websocket endpoint
// before the connection is upgraded
func (c Code) HTTPStatus() int {
	return c.info().http
}

// Retryable reports whether the same request may succeed later unchanged
func (c Code) Retryable() bool {
	return c.info().retry
}

// codeFromGRPC maps a gRPC status code back; unknown codes become Internal
func codeFromGRPC(c codes.Code) Code {
	if code, ok := grpcTable[c]; ok {
		return code
	}
	return CodeInternal
}
