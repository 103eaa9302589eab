package smf

import (
	"context"
	"net/http"

	"github.com/danielkrainas/sbi/pkg/dispatch"
	"github.com/danielkrainas/sbi/pkg/models"
)

const CallbackScope = "nsmf-callback"

// CallbackServer receives the requests an SMF sends back to its peers. The
// paths are the URIs the peer supplied in vsmfPduSessionUri and
// smContextStatusUri.
type CallbackServer interface {
	dispatch.Readiness

	ModifyPduSession(ctx context.Context, in *ModifyPduSessionParams) (dispatch.Response, error)
	NotifySmContextStatus(ctx context.Context, in *NotifySmContextStatusParams) (dispatch.Response, error)
}

type ModifyPduSessionParams struct {
	VsmfPduSessionURI string                `in:"path=vsmfPduSessionUri"`
	Body              models.VsmfUpdateData `in:"body=VsmfUpdateData,required"`
}

type NotifySmContextStatusParams struct {
	SmContextStatusURI string                             `in:"path=smContextStatusUri"`
	Body               models.SmContextStatusNotification `in:"body=SmContextStatusNotification,required"`
}

// CallbackOperations is ordered so the more specific modify path is tried
// before the catch-all status notification path.
func CallbackOperations() []dispatch.Operation[CallbackServer] {
	callbackScopes := []string{CallbackScope}
	return []dispatch.Operation[CallbackServer]{
		dispatch.Bind(dispatch.Descriptor{
			Name:    "ModifyPduSession",
			Method:  http.MethodPost,
			Path:    "/{+vsmfPduSessionUri}/modify",
			Scopes:  callbackScopes,
			Summary: "Update a PDU session on the V-SMF",
			Variants: responses(
				ok[models.VsmfUpdatedData](noContent),
				dispatch.Errors[models.VsmfUpdateError](
					http.StatusBadRequest,
					http.StatusForbidden,
					http.StatusNotFound,
					http.StatusInternalServerError,
					http.StatusServiceUnavailable,
				),
			),
		}, CallbackServer.ModifyPduSession),

		dispatch.Bind(dispatch.Descriptor{
			Name:    "NotifySmContextStatus",
			Method:  http.MethodPost,
			Path:    "/{+smContextStatusUri}",
			Scopes:  callbackScopes,
			Summary: "Notify the NF service consumer of an SM context status change",
			Variants: responses(
				[]dispatch.Variant{noContent},
				dispatch.Problems[models.ProblemDetails](
					http.StatusBadRequest,
					http.StatusInternalServerError,
					http.StatusServiceUnavailable,
				),
			),
		}, CallbackServer.NotifySmContextStatus),
	}
}

func NewCallbacks(srv CallbackServer, genericErrorStatus int) (*dispatch.Dispatcher[CallbackServer], error) {
	return dispatch.New[CallbackServer](srv, CallbackOperations(), dispatch.Options{
		GenericErrorStatus: genericErrorStatus,
	})
}
