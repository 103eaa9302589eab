package dispatch

import (
	"errors"
	"net/http"

	"github.com/danielkrainas/gobag/errcode"
)

const ErrorGroup = "sbi.dispatch"

var (
	ErrorCodeRouteNotFound = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "ROUTE_NOT_FOUND",
		Message:        "no route matches the request path",
		HTTPStatusCode: http.StatusNotFound,
	})

	ErrorCodeMethodNotAllowed = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "METHOD_NOT_ALLOWED",
		Message:        "the request method is not allowed for the path",
		HTTPStatusCode: http.StatusMethodNotAllowed,
	})

	ErrorCodeUnauthenticated = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "UNAUTHENTICATED",
		Message:        "Unauthenticated",
		Description:    "The route requires scopes and the request carries no principal.",
		HTTPStatusCode: http.StatusForbidden,
	})

	ErrorCodeInsufficientScope = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "INSUFFICIENT_SCOPE",
		Message:        "Insufficient authorization, missing scopes",
		Description:    "The principal lacks one or more of the route's scopes.",
		HTTPStatusCode: http.StatusForbidden,
	})

	ErrorCodePathParameterInvalid = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "PATH_PARAMETER_INVALID",
		Message:        "Couldn't parse path parameter %s: %v",
		HTTPStatusCode: http.StatusBadRequest,
	})

	ErrorCodePathParameterEncoding = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "PATH_PARAMETER_ENCODING",
		Message:        "Couldn't percent-decode path parameter as UTF-8: %s",
		HTTPStatusCode: http.StatusBadRequest,
	})

	ErrorCodeQueryParameterMissing = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "QUERY_PARAMETER_MISSING",
		Message:        "Missing required query parameter %s",
		HTTPStatusCode: http.StatusBadRequest,
	})

	ErrorCodeQueryParameterInvalid = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "QUERY_PARAMETER_INVALID",
		Message:        "Couldn't parse query parameter %s - doesn't match schema: %v",
		HTTPStatusCode: http.StatusBadRequest,
	})

	ErrorCodeHeaderMissing = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "HEADER_MISSING",
		Message:        "Missing required header %s",
		HTTPStatusCode: http.StatusBadRequest,
	})

	ErrorCodeHeaderInvalid = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "HEADER_INVALID",
		Message:        "Invalid header %s - %v",
		HTTPStatusCode: http.StatusBadRequest,
	})

	ErrorCodeBodyMissing = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "BODY_MISSING",
		Message:        "Missing required body parameter %s",
		HTTPStatusCode: http.StatusBadRequest,
	})

	ErrorCodeBodyInvalid = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "BODY_INVALID",
		Message:        "Couldn't parse body parameter %s - doesn't match schema: %v",
		HTTPStatusCode: http.StatusBadRequest,
	})

	ErrorCodeBodyUnreadable = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "BODY_UNREADABLE",
		Message:        "Couldn't read body parameter %s: %v",
		HTTPStatusCode: http.StatusBadRequest,
	})

	ErrorCodeContentTypeInvalid = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "CONTENT_TYPE_INVALID",
		Message:        "Unable to parse content-type header for %s: %v",
		HTTPStatusCode: http.StatusBadRequest,
	})

	ErrorCodeMultipartInvalid = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "MULTIPART_INVALID",
		Message:        "Couldn't read multipart body for %s: %v",
		HTTPStatusCode: http.StatusBadRequest,
	})

	ErrorCodeMultipartPartMissing = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "MULTIPART_PART_MISSING",
		Message:        "Missing required multipart/related parameter %s",
		HTTPStatusCode: http.StatusBadRequest,
	})

	ErrorCodeNotReady = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "NOT_READY",
		Message:        "Service not ready",
		HTTPStatusCode: http.StatusServiceUnavailable,
	})

	ErrorCodeHandlerFault = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "HANDLER_FAULT",
		Message:        "An internal error occurred",
		Description:    "The operation handler failed outside its documented responses.",
		HTTPStatusCode: http.StatusInternalServerError,
	})

	ErrorCodeHeaderEncoding = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "HEADER_ENCODING",
		Message:        "An internal server error occurred handling %s header - %v",
		HTTPStatusCode: http.StatusInternalServerError,
	})
)

// statusAndMessage classifies err for the wire. Routing errors carry no body.
func statusAndMessage(err error) (int, string) {
	var e errcode.Error
	if errors.As(err, &e) {
		return bodyFor(e.Code, e.Message)
	}

	var code errcode.ErrorCode
	if errors.As(err, &code) {
		return bodyFor(code, code.Message())
	}

	return http.StatusInternalServerError, ErrorCodeHandlerFault.Message()
}

func bodyFor(code errcode.ErrorCode, message string) (int, string) {
	status := code.Descriptor().HTTPStatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	switch code {
	case ErrorCodeRouteNotFound, ErrorCodeMethodNotAllowed:
		return status, ""
	}

	return status, message
}
