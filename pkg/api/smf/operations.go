package smf

import (
	"net/http"

	"github.com/danielkrainas/sbi/pkg/dispatch"
	"github.com/danielkrainas/sbi/pkg/models"
)

var scopes = []string{Scope}

// transportProblems are raised by the HTTP layer in front of the SMF rather
// than by the operation itself.
var transportProblems = dispatch.Problems[models.ProblemDetails](
	http.StatusLengthRequired,
	http.StatusRequestEntityTooLarge,
	http.StatusUnsupportedMediaType,
	http.StatusTooManyRequests,
)

func responses(groups ...[]dispatch.Variant) []dispatch.Variant {
	all := append([][]dispatch.Variant{}, groups...)
	all = append(all, dispatch.Redirects[models.RedirectResponse](), transportProblems)
	return append(dispatch.Join(all...), dispatch.GenericError[models.ProblemDetails]())
}

func ok[T any](extra ...dispatch.Variant) []dispatch.Variant {
	return append([]dispatch.Variant{dispatch.JSON[T](dispatch.TagOK, http.StatusOK)}, extra...)
}

func created[T any]() []dispatch.Variant {
	return []dispatch.Variant{dispatch.JSON[T](dispatch.TagCreated, http.StatusCreated).WithLocation()}
}

var noContent = dispatch.Empty(dispatch.TagNoContent, http.StatusNoContent)

// Operations is the Nsmf_PDUSession route table.
func Operations() []dispatch.Operation[Server] {
	return []dispatch.Operation[Server]{
		dispatch.Bind(dispatch.Descriptor{
			Name:    "PostSmContexts",
			Method:  http.MethodPost,
			Path:    "/sm-contexts",
			Scopes:  scopes,
			Summary: "Create SM Context",
			Variants: responses(
				created[models.SmContextCreatedData](),
				[]dispatch.Variant{
					dispatch.MultipartBody(dispatch.TagBadRequest, http.StatusBadRequest).
						WithDescription("SmContextCreateError with an N1 SM message for the UE"),
				},
				dispatch.Errors[models.SmContextCreateError](
					http.StatusForbidden,
					http.StatusNotFound,
					http.StatusInternalServerError,
					http.StatusServiceUnavailable,
					http.StatusGatewayTimeout,
				),
			),
		}, Server.PostSmContexts),

		dispatch.Bind(dispatch.Descriptor{
			Name:    "ReleaseSmContext",
			Method:  http.MethodPost,
			Path:    "/sm-contexts/{smContextRef}/release",
			Scopes:  scopes,
			Summary: "Release SM Context",
			Variants: responses(
				ok[models.SmContextReleasedData](noContent),
				dispatch.Problems[models.ProblemDetails](
					http.StatusBadRequest,
					http.StatusForbidden,
					http.StatusNotFound,
					http.StatusInternalServerError,
					http.StatusServiceUnavailable,
				),
			),
		}, Server.ReleaseSmContext),

		dispatch.Bind(dispatch.Descriptor{
			Name:    "RetrieveSmContext",
			Method:  http.MethodPost,
			Path:    "/sm-contexts/{smContextRef}/retrieve",
			Scopes:  scopes,
			Summary: "Retrieve SM Context",
			Variants: responses(
				ok[models.SmContextRetrievedData](),
				dispatch.Problems[models.ProblemDetails](
					http.StatusBadRequest,
					http.StatusForbidden,
					http.StatusNotFound,
					http.StatusInternalServerError,
					http.StatusServiceUnavailable,
					http.StatusGatewayTimeout,
				),
			),
		}, Server.RetrieveSmContext),

		dispatch.Bind(dispatch.Descriptor{
			Name:    "UpdateSmContext",
			Method:  http.MethodPost,
			Path:    "/sm-contexts/{smContextRef}/modify",
			Scopes:  scopes,
			Summary: "Update SM Context",
			Variants: responses(
				ok[models.SmContextUpdatedData](noContent),
				dispatch.Errors[models.SmContextUpdateError](
					http.StatusBadRequest,
					http.StatusForbidden,
					http.StatusNotFound,
					http.StatusInternalServerError,
					http.StatusServiceUnavailable,
				),
			),
		}, Server.UpdateSmContext),

		dispatch.Bind(dispatch.Descriptor{
			Name:    "PostPduSessions",
			Method:  http.MethodPost,
			Path:    "/pdu-sessions",
			Scopes:  scopes,
			Summary: "Create",
			Variants: responses(
				created[models.PduSessionCreatedData](),
				dispatch.Errors[models.PduSessionCreateError](
					http.StatusBadRequest,
					http.StatusForbidden,
					http.StatusNotFound,
					http.StatusInternalServerError,
					http.StatusServiceUnavailable,
				),
			),
		}, Server.PostPduSessions),

		dispatch.Bind(dispatch.Descriptor{
			Name:    "ReleasePduSession",
			Method:  http.MethodPost,
			Path:    "/pdu-sessions/{pduSessionRef}/release",
			Scopes:  scopes,
			Summary: "Release",
			Variants: responses(
				ok[models.ReleasedData](noContent),
				dispatch.Problems[models.ProblemDetails](
					http.StatusBadRequest,
					http.StatusForbidden,
					http.StatusNotFound,
					http.StatusInternalServerError,
					http.StatusServiceUnavailable,
				),
			),
		}, Server.ReleasePduSession),

		dispatch.Bind(dispatch.Descriptor{
			Name:    "RetrievePduSession",
			Method:  http.MethodPost,
			Path:    "/pdu-sessions/{pduSessionRef}/retrieve",
			Scopes:  scopes,
			Summary: "Retrieve",
			Variants: responses(
				ok[models.RetrievedData](),
				dispatch.Problems[models.ProblemDetails](
					http.StatusBadRequest,
					http.StatusForbidden,
					http.StatusNotFound,
					http.StatusInternalServerError,
					http.StatusServiceUnavailable,
				),
			),
		}, Server.RetrievePduSession),
	}
}

// New builds the dispatcher serving srv under the API prefix.
func New(srv Server, genericErrorStatus int) (*dispatch.Dispatcher[Server], error) {
	return dispatch.New[Server](srv, Operations(), dispatch.Options{
		Prefix:             Prefix,
		GenericErrorStatus: genericErrorStatus,
	})
}
