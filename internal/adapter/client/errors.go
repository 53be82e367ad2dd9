package client

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// APIError is a request the server answered with a failure status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Temporary reports whether the failure came from the backend rather than
// the request itself.
func (e *APIError) Temporary() bool {
	return e.Status >= http.StatusInternalServerError
}

func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// fromStatus maps a gRPC failure onto the HTTP status the REST surface
// would have returned for it.
func fromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	code := http.StatusInternalServerError
	switch st.Code() {
	case codes.InvalidArgument:
		code = http.StatusBadRequest
	case codes.Unauthenticated:
		code = http.StatusUnauthorized
	case codes.NotFound:
		code = http.StatusNotFound
	case codes.Unavailable, codes.DeadlineExceeded:
		code = http.StatusServiceUnavailable
	}
	return &APIError{Status: code, Message: st.Message()}
}
