// Package nrf declares the Nnrf_NFDiscovery API.
package nrf

import (
	"context"
	"net/http"

	"github.com/danielkrainas/sbi/pkg/dispatch"
	"github.com/danielkrainas/sbi/pkg/models"
)

const (
	Prefix = "/nnrf-disc/v1"
	Scope  = "nnrf-disc"
)

type Server interface {
	dispatch.Readiness

	SearchNFInstances(ctx context.Context, in *SearchNFInstancesParams) (dispatch.Response, error)
	RetrieveStoredSearch(ctx context.Context, in *RetrieveStoredSearchParams) (dispatch.Response, error)
	RetrieveCompleteSearch(ctx context.Context, in *RetrieveCompleteSearchParams) (dispatch.Response, error)
}

type SearchNFInstancesParams struct {
	TargetNfType          models.NFType   `in:"query=target-nf-type,required"`
	RequesterNfType       models.NFType   `in:"query=requester-nf-type,required"`
	RequesterNfInstanceID *string         `in:"query=requester-nf-instance-id"`
	ServiceNames          []string        `in:"query=service-names"`
	TargetNfInstanceID    *string         `in:"query=target-nf-instance-id"`
	TargetPlmnList        []models.PlmnID `in:"query=target-plmn-list,json"`
	Snssais               []models.Snssai `in:"query=snssais,json"`
	Dnn                   *string         `in:"query=dnn"`
	Limit                 *int32          `in:"query=limit"`
	MaxPayloadSize        *int32          `in:"query=max-payload-size"`
	SupportedFeatures     *string         `in:"query=supported-features"`
	IfNoneMatch           *string         `in:"header=If-None-Match"`
	AcceptEncoding        *string         `in:"header=Accept-Encoding"`
}

type RetrieveStoredSearchParams struct {
	SearchID string `in:"path=searchId"`
}

type RetrieveCompleteSearchParams struct {
	SearchID string `in:"path=searchId"`
}

func responses(groups ...[]dispatch.Variant) []dispatch.Variant {
	all := append([][]dispatch.Variant{}, groups...)
	all = append(all, dispatch.Redirects[models.RedirectResponse]())
	return append(dispatch.Join(all...), dispatch.GenericError[models.ProblemDetails]())
}

// Operations is the Nnrf_NFDiscovery route table.
func Operations() []dispatch.Operation[Server] {
	scopes := []string{Scope}
	return []dispatch.Operation[Server]{
		dispatch.Bind(dispatch.Descriptor{
			Name:    "SearchNFInstances",
			Method:  http.MethodGet,
			Path:    "/nf-instances",
			Scopes:  scopes,
			Summary: "Search a collection of NF Instances",
			Variants: responses(
				[]dispatch.Variant{
					dispatch.JSON[models.SearchResult](dispatch.TagOK, http.StatusOK).
						WithHeaders("Cache-Control", "ETag", "Content-Encoding"),
					dispatch.Empty(dispatch.TagNotAcceptable, http.StatusNotAcceptable),
				},
				dispatch.Problems[models.ProblemDetails](
					http.StatusBadRequest,
					http.StatusForbidden,
					http.StatusNotFound,
					http.StatusRequestURITooLong,
					http.StatusInternalServerError,
					http.StatusNotImplemented,
					http.StatusServiceUnavailable,
				),
			),
		}, Server.SearchNFInstances),

		dispatch.Bind(dispatch.Descriptor{
			Name:    "RetrieveStoredSearch",
			Method:  http.MethodGet,
			Path:    "/searches/{searchId}",
			Scopes:  scopes,
			Summary: "Retrieve a stored search result",
			Variants: responses(
				[]dispatch.Variant{dispatch.JSON[models.StoredSearchResult](dispatch.TagOK, http.StatusOK)},
				dispatch.Problems[models.ProblemDetails](http.StatusNotFound),
			),
		}, Server.RetrieveStoredSearch),

		dispatch.Bind(dispatch.Descriptor{
			Name:    "RetrieveCompleteSearch",
			Method:  http.MethodGet,
			Path:    "/searches/{searchId}/complete",
			Scopes:  scopes,
			Summary: "Retrieve a complete search result",
			Variants: responses(
				[]dispatch.Variant{dispatch.JSON[models.StoredSearchResult](dispatch.TagOK, http.StatusOK)},
				dispatch.Problems[models.ProblemDetails](http.StatusNotFound),
			),
		}, Server.RetrieveCompleteSearch),
	}
}

func New(srv Server, genericErrorStatus int) (*dispatch.Dispatcher[Server], error) {
	return dispatch.New[Server](srv, Operations(), dispatch.Options{
		Prefix:             Prefix,
		GenericErrorStatus: genericErrorStatus,
	})
}
