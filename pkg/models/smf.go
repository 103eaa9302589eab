package models

type UpCnxState string

const (
	UpCnxStateActivated   UpCnxState = "ACTIVATED"
	UpCnxStateDeactivated UpCnxState = "DEACTIVATED"
	UpCnxStateActivating  UpCnxState = "ACTIVATING"
	UpCnxStateSuspended   UpCnxState = "SUSPENDED"
)

func (s UpCnxState) Valid() bool {
	switch s {
	case UpCnxStateActivated, UpCnxStateDeactivated, UpCnxStateActivating, UpCnxStateSuspended:
		return true
	}

	return false
}

type HoState string

type ResourceStatus string

const (
	ResourceStatusReleased    ResourceStatus = "RELEASED"
	ResourceStatusUnchanged   ResourceStatus = "UNCHANGED"
	ResourceStatusTransferred ResourceStatus = "TRANSFERRED"
)

type SmContextCreateData struct {
	Supi                string           `json:"supi,omitempty"`
	UnauthenticatedSupi bool             `json:"unauthenticatedSupi,omitempty"`
	Pei                 string           `json:"pei,omitempty"`
	Gpsi                string           `json:"gpsi,omitempty"`
	PduSessionID        int32            `json:"pduSessionId,omitempty"`
	Dnn                 string           `json:"dnn,omitempty"`
	SNssai              *Snssai          `json:"sNssai,omitempty"`
	ServingNfID         string           `json:"servingNfId"`
	Guami               *Guami           `json:"guami,omitempty"`
	ServingNetwork      PlmnID           `json:"servingNetwork"`
	AnType              AccessType       `json:"anType"`
	RatType             RatType          `json:"ratType,omitempty"`
	N1SmMsg             *RefToBinaryData `json:"n1SmMsg,omitempty"`
	SmContextStatusURI  string           `json:"smContextStatusUri"`
	SupportedFeatures   string           `json:"supportedFeatures,omitempty"`
}

type SmContextCreatedData struct {
	HSmfURI              string     `json:"hSmfUri,omitempty"`
	PduSessionID         int32      `json:"pduSessionId,omitempty"`
	SNssai               *Snssai    `json:"sNssai,omitempty"`
	UpCnxState           UpCnxState `json:"upCnxState,omitempty"`
	HoState              HoState    `json:"hoState,omitempty"`
	SmfServiceInstanceID string     `json:"smfServiceInstanceId,omitempty"`
	SupportedFeatures    string     `json:"supportedFeatures,omitempty"`
}

type SmContextCreateError struct {
	Error        ProblemDetails   `json:"error"`
	N1SmMsg      *RefToBinaryData `json:"n1SmMsg,omitempty"`
	RecoveryTime string           `json:"recoveryTime,omitempty"`
}

type NgApCause struct {
	Group int32 `json:"group"`
	Value int32 `json:"value"`
}

type SmContextReleaseData struct {
	Cause           string      `json:"cause,omitempty"`
	NgApCause       *NgApCause  `json:"ngApCause,omitempty"`
	UeLocation      interface{} `json:"ueLocation,omitempty"`
	VsmfReleaseOnly bool        `json:"vsmfReleaseOnly,omitempty"`
	IsmfReleaseOnly bool        `json:"ismfReleaseOnly,omitempty"`
}

type SmContextReleasedData struct {
	SmallDataRateStatus interface{} `json:"smallDataRateStatus,omitempty"`
	ApnRateStatus       interface{} `json:"apnRateStatus,omitempty"`
}

type MmeCapabilities struct {
	NonIPSupported    bool `json:"nonIpSupported,omitempty"`
	EthernetSupported bool `json:"ethernetSupported,omitempty"`
	UpipSupported     bool `json:"upipSupported,omitempty"`
}

type SmContextRetrieveData struct {
	TargetMmeCap  *MmeCapabilities `json:"targetMmeCap,omitempty"`
	SmContextType string           `json:"smContextType,omitempty"`
}

// SmContext is the complete state of an SM context as retrieved by a peer.
type SmContext struct {
	PduSessionID int32      `json:"pduSessionId"`
	Dnn          string     `json:"dnn"`
	SNssai       Snssai     `json:"sNssai"`
	Supi         string     `json:"supi,omitempty"`
	AnType       AccessType `json:"anType,omitempty"`
	UpCnxState   UpCnxState `json:"upCnxState,omitempty"`
}

type SmContextRetrievedData struct {
	UeEpsPdnConnection string     `json:"ueEpsPdnConnection"`
	SmContext          *SmContext `json:"smContext,omitempty"`
}

type SmContextUpdateData struct {
	Pei                string           `json:"pei,omitempty"`
	ServingNfID        string           `json:"servingNfId,omitempty"`
	Guami              *Guami           `json:"guami,omitempty"`
	ServingNetwork     *PlmnID          `json:"servingNetwork,omitempty"`
	AnType             AccessType       `json:"anType,omitempty"`
	RatType            RatType          `json:"ratType,omitempty"`
	UpCnxState         UpCnxState       `json:"upCnxState,omitempty"`
	HoState            HoState          `json:"hoState,omitempty"`
	Release            bool             `json:"release,omitempty"`
	Cause              string           `json:"cause,omitempty"`
	N1SmMsg            *RefToBinaryData `json:"n1SmMsg,omitempty"`
	N2SmInfo           *RefToBinaryData `json:"n2SmInfo,omitempty"`
	SmContextStatusURI string           `json:"smContextStatusUri,omitempty"`
}

type SmContextUpdatedData struct {
	UpCnxState   UpCnxState       `json:"upCnxState,omitempty"`
	HoState      HoState          `json:"hoState,omitempty"`
	ReleaseCause string           `json:"releaseCause,omitempty"`
	N1SmMsg      *RefToBinaryData `json:"n1SmMsg,omitempty"`
	N2SmInfo     *RefToBinaryData `json:"n2SmInfo,omitempty"`
}

type SmContextUpdateError struct {
	Error        ProblemDetails   `json:"error"`
	N1SmMsg      *RefToBinaryData `json:"n1SmMsg,omitempty"`
	N2SmInfo     *RefToBinaryData `json:"n2SmInfo,omitempty"`
	UpCnxState   UpCnxState       `json:"upCnxState,omitempty"`
	RecoveryTime string           `json:"recoveryTime,omitempty"`
}

type StatusInfo struct {
	ResourceStatus    ResourceStatus `json:"resourceStatus"`
	Cause             string         `json:"cause,omitempty"`
	CnAssistedRanPara interface{}    `json:"cnAssistedRanPara,omitempty"`
	AnType            AccessType     `json:"anType,omitempty"`
}

type SmContextStatusNotification struct {
	StatusInfo          StatusInfo  `json:"statusInfo"`
	SmallDataRateStatus interface{} `json:"smallDataRateStatus,omitempty"`
	ApnRateStatus       interface{} `json:"apnRateStatus,omitempty"`
}

type PduSessionCreateData struct {
	Supi              string     `json:"supi,omitempty"`
	Pei               string     `json:"pei,omitempty"`
	PduSessionID      int32      `json:"pduSessionId,omitempty"`
	Dnn               string     `json:"dnn"`
	SNssai            *Snssai    `json:"sNssai,omitempty"`
	VsmfID            string     `json:"vsmfId"`
	ServingNetwork    PlmnID     `json:"servingNetwork"`
	AnType            AccessType `json:"anType"`
	VsmfPduSessionURI string     `json:"vsmfPduSessionUri"`
	RequestType       string     `json:"requestType,omitempty"`
	SupportedFeatures string     `json:"supportedFeatures,omitempty"`
}

type TunnelInfo struct {
	Ipv4Addr string `json:"ipv4Addr,omitempty"`
	Ipv6Addr string `json:"ipv6Addr,omitempty"`
	GtpTeid  string `json:"gtpTeid"`
}

type Ambr struct {
	Uplink   string `json:"uplink"`
	Downlink string `json:"downlink"`
}

type PduSessionCreatedData struct {
	PduSessionType    string      `json:"pduSessionType"`
	SscMode           string      `json:"sscMode"`
	HcnTunnelInfo     *TunnelInfo `json:"hcnTunnelInfo,omitempty"`
	SessionAmbr       *Ambr       `json:"sessionAmbr,omitempty"`
	HSmfInstanceID    string      `json:"hSmfInstanceId,omitempty"`
	PduSessionID      int32       `json:"pduSessionId,omitempty"`
	SNssai            *Snssai     `json:"sNssai,omitempty"`
	SupportedFeatures string      `json:"supportedFeatures,omitempty"`
}

type PduSessionCreateError struct {
	Error        ProblemDetails   `json:"error"`
	N1smCause    string           `json:"n1smCause,omitempty"`
	N1SmInfoToUe *RefToBinaryData `json:"n1SmInfoToUe,omitempty"`
	RecoveryTime string           `json:"recoveryTime,omitempty"`
}

type ReleaseData struct {
	Cause      string      `json:"cause,omitempty"`
	NgApCause  *NgApCause  `json:"ngApCause,omitempty"`
	UeLocation interface{} `json:"ueLocation,omitempty"`
}

type ReleasedData struct {
	SmallDataRateStatus interface{} `json:"smallDataRateStatus,omitempty"`
}

type RetrieveData struct {
	SmallDataRateStatusReq bool `json:"smallDataRateStatusReq,omitempty"`
}

type RetrievedData struct {
	SmallDataRateStatus interface{} `json:"smallDataRateStatus,omitempty"`
}

type VsmfUpdateData struct {
	RequestIndication string `json:"requestIndication"`
	SessionAmbr       *Ambr  `json:"sessionAmbr,omitempty"`
	Cause             string `json:"cause,omitempty"`
	N1smCause         string `json:"n1smCause,omitempty"`
	Pti               int32  `json:"pti,omitempty"`
	SupportedFeatures string `json:"supportedFeatures,omitempty"`
}

type VsmfUpdatedData struct {
	N1SmInfoFromUe    *RefToBinaryData `json:"n1SmInfoFromUe,omitempty"`
	UeLocation        interface{}      `json:"ueLocation,omitempty"`
	SupportedFeatures string           `json:"supportedFeatures,omitempty"`
}

type VsmfUpdateError struct {
	Error          ProblemDetails   `json:"error"`
	Pti            int32            `json:"pti,omitempty"`
	N1smCause      string           `json:"n1smCause,omitempty"`
	N1SmInfoFromUe *RefToBinaryData `json:"n1SmInfoFromUe,omitempty"`
	RecoveryTime   string           `json:"recoveryTime,omitempty"`
}
