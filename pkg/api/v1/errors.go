package v1

import (
	"net/http"

	"github.com/danielkrainas/gobag/errcode"
)

const ErrorGroup = "sbi.api.v1"

var (
	ErrorCodeTokenMissing = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "TOKEN_MISSING",
		Message:        "no bearer token in request",
		HTTPStatusCode: http.StatusUnauthorized,
	})

	ErrorCodeTokenInvalid = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "TOKEN_INVALID",
		Message:        "bearer token rejected: %v",
		Description:    "The token failed signature, algorithm or claims validation.",
		HTTPStatusCode: http.StatusUnauthorized,
	})
)
