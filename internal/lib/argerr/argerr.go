// Package argerr defines the invalid-argument error shared by the planning
// libraries and mapped by transports to their own status codes.
package argerr

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrInvalidArgument matches every *Error via errors.Is
var ErrInvalidArgument = errors.New("invalid argument")

// Error reports a rejected input value
type Error struct {
	Field  string
	Reason string
}

// New creates an invalid-argument error for field
func New(field, format string, args ...any) *Error {
	return &Error{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.Field == "" {
		return "invalid argument: " + e.Reason
	}
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidArgument) succeed
func (e *Error) Is(target error) bool {
	return target == ErrInvalidArgument
}

// GRPCStatus lets status.FromError report codes.InvalidArgument
func (e *Error) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// Is reports whether err is or wraps an invalid-argument error
func Is(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
