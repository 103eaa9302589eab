// Package smf declares the Nsmf_PDUSession API: the handler interface its
// implementations provide and the operation table that routes to it.
package smf

import (
	"context"

	"github.com/danielkrainas/sbi/pkg/dispatch"
	"github.com/danielkrainas/sbi/pkg/models"
)

const (
	Prefix = "/nsmf-pdusession/v1"
	Scope  = "nsmf-pdusession"
)

// Server is implemented by an SMF. Documented failures are returned as
// response variants; a non-nil error is reported to the peer as a bare 500.
type Server interface {
	dispatch.Readiness

	PostSmContexts(ctx context.Context, in *PostSmContextsParams) (dispatch.Response, error)
	ReleaseSmContext(ctx context.Context, in *ReleaseSmContextParams) (dispatch.Response, error)
	RetrieveSmContext(ctx context.Context, in *RetrieveSmContextParams) (dispatch.Response, error)
	UpdateSmContext(ctx context.Context, in *UpdateSmContextParams) (dispatch.Response, error)
	PostPduSessions(ctx context.Context, in *PostPduSessionsParams) (dispatch.Response, error)
	ReleasePduSession(ctx context.Context, in *ReleasePduSessionParams) (dispatch.Response, error)
	RetrievePduSession(ctx context.Context, in *RetrievePduSessionParams) (dispatch.Response, error)
}

const (
	MediaTypeNAS  = "application/vnd.3gpp.5gnas"
	MediaTypeNGAP = "application/vnd.3gpp.ngap"
)

type PostSmContextsParams struct {
	JSONData                  models.SmContextCreateData `in:"part=jsonData,required" mime:"application/json"`
	BinaryDataN1SmMessage     []byte                     `in:"part=binaryDataN1SmMessage" mime:"application/vnd.3gpp.5gnas"`
	BinaryDataN2SmInformation []byte                     `in:"part=binaryDataN2SmInformation" mime:"application/vnd.3gpp.ngap"`
}

type ReleaseSmContextParams struct {
	SmContextRef string                       `in:"path=smContextRef"`
	Body         *models.SmContextReleaseData `in:"body=SmContextReleaseData"`
}

type RetrieveSmContextParams struct {
	SmContextRef string                        `in:"path=smContextRef"`
	Body         *models.SmContextRetrieveData `in:"body=SmContextRetrieveData"`
}

type UpdateSmContextParams struct {
	SmContextRef string                     `in:"path=smContextRef"`
	Body         models.SmContextUpdateData `in:"body=SmContextUpdateData,required"`
}

type PostPduSessionsParams struct {
	Body models.PduSessionCreateData `in:"body=PduSessionCreateData,required"`
}

type ReleasePduSessionParams struct {
	PduSessionRef string              `in:"path=pduSessionRef"`
	Body          *models.ReleaseData `in:"body=ReleaseData"`
}

type RetrievePduSessionParams struct {
	PduSessionRef string              `in:"path=pduSessionRef"`
	Body          models.RetrieveData `in:"body=RetrieveData,required"`
}
