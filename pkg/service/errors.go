package service

import (
	"net/http"

	"github.com/danielkrainas/gobag/errcode"
)

const ErrorGroup = "sbi.service"

var (
	ErrorCodeNotFound = errcode.Register(ErrorGroup, errcode.ErrorDescriptor{
		Value:          "NOT_FOUND",
		Message:        "%s %q not found",
		HTTPStatusCode: http.StatusNotFound,
	})
)
