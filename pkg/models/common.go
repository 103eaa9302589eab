// Package models holds the 3GPP SBI data types exchanged by the NRF and SMF
// APIs (TS 29.571, 29.502, 29.510). Only the members the services use are
// declared; unknown members are reported, not rejected.
package models

type ProblemDetails struct {
	Type              string         `json:"type,omitempty"`
	Title             string         `json:"title,omitempty"`
	Status            int32          `json:"status,omitempty"`
	Detail            string         `json:"detail,omitempty"`
	Instance          string         `json:"instance,omitempty"`
	Cause             string         `json:"cause,omitempty"`
	InvalidParams     []InvalidParam `json:"invalidParams,omitempty"`
	SupportedFeatures string         `json:"supportedFeatures,omitempty"`
}

type InvalidParam struct {
	Param  string `json:"param"`
	Reason string `json:"reason,omitempty"`
}

type RedirectResponse struct {
	Cause       string `json:"cause,omitempty"`
	TargetScp   string `json:"targetScp,omitempty"`
	TargetSepp  string `json:"targetSepp,omitempty"`
	TargetNfID  string `json:"targetNfId,omitempty"`
	TargetURI   string `json:"targetUri,omitempty"`
	Description string `json:"description,omitempty"`
}

type PlmnID struct {
	Mcc string `json:"mcc"`
	Mnc string `json:"mnc"`
}

type Snssai struct {
	Sst int32  `json:"sst"`
	Sd  string `json:"sd,omitempty"`
}

type Guami struct {
	PlmnID PlmnID `json:"plmnId"`
	AmfID  string `json:"amfId"`
}

type RefToBinaryData struct {
	ContentID string `json:"contentId"`
}

type AccessType string

const (
	AccessType3GPP    AccessType = "3GPP_ACCESS"
	AccessTypeNon3GPP AccessType = "NON_3GPP_ACCESS"
)

type RatType string

// Problem builds a ProblemDetails with the given HTTP status and cause.
func Problem(status int, cause, detail string) *ProblemDetails {
	return &ProblemDetails{
		Status: int32(status),
		Cause:  cause,
		Detail: detail,
	}
}

const (
	CauseMandatoryIeIncorrect = "MANDATORY_IE_INCORRECT"
	CauseContextNotFound      = "CONTEXT_NOT_FOUND"
	CauseSystemFailure        = "SYSTEM_FAILURE"
	CauseInvalidMsgFormat     = "INVALID_MSG_FORMAT"
	CauseResourceNotFound     = "RESOURCE_URI_STRUCTURE_NOT_FOUND"
)
