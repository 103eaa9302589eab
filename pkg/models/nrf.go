package models

type NFType string

const (
	NFTypeNRF  NFType = "NRF"
	NFTypeAMF  NFType = "AMF"
	NFTypeSMF  NFType = "SMF"
	NFTypeAUSF NFType = "AUSF"
	NFTypeUDM  NFType = "UDM"
	NFTypeUPF  NFType = "UPF"
	NFTypePCF  NFType = "PCF"
)

type NFStatus string

const (
	NFStatusRegistered   NFStatus = "REGISTERED"
	NFStatusSuspended    NFStatus = "SUSPENDED"
	NFStatusUndiscovered NFStatus = "UNDISCOVERABLE"
)

type NFProfile struct {
	NfInstanceID  string      `json:"nfInstanceId"`
	NfType        NFType      `json:"nfType"`
	NfStatus      NFStatus    `json:"nfStatus"`
	PlmnList      []PlmnID    `json:"plmnList,omitempty"`
	SNssais       []Snssai    `json:"sNssais,omitempty"`
	Fqdn          string      `json:"fqdn,omitempty"`
	Ipv4Addresses []string    `json:"ipv4Addresses,omitempty"`
	Priority      int32       `json:"priority,omitempty"`
	Capacity      int32       `json:"capacity,omitempty"`
	SmfInfo       *SmfInfo    `json:"smfInfo,omitempty"`
	NfServices    []NFService `json:"nfServices,omitempty"`
}

type SmfInfo struct {
	SNssaiSmfInfoList []SnssaiSmfInfoItem `json:"sNssaiSmfInfoList"`
}

type SnssaiSmfInfoItem struct {
	SNssai         Snssai           `json:"sNssai"`
	DnnSmfInfoList []DnnSmfInfoItem `json:"dnnSmfInfoList"`
}

type DnnSmfInfoItem struct {
	Dnn string `json:"dnn"`
}

type NFService struct {
	ServiceInstanceID string             `json:"serviceInstanceId"`
	ServiceName       string             `json:"serviceName"`
	Versions          []NFServiceVersion `json:"versions"`
	Scheme            string             `json:"scheme"`
	NfServiceStatus   string             `json:"nfServiceStatus"`
	APIPrefix         string             `json:"apiPrefix,omitempty"`
}

type NFServiceVersion struct {
	APIVersionInURI string `json:"apiVersionInUri"`
	APIFullVersion  string `json:"apiFullVersion"`
}

type SearchResult struct {
	ValidityPeriod       int32       `json:"validityPeriod,omitempty"`
	NfInstances          []NFProfile `json:"nfInstances"`
	SearchID             string      `json:"searchId,omitempty"`
	NumNfInstComplete    int32       `json:"numNfInstComplete,omitempty"`
	NrfSupportedFeatures string      `json:"nrfSupportedFeatures,omitempty"`
}

type StoredSearchResult struct {
	NfInstances []NFProfile `json:"nfInstances"`
}

// HasService reports whether the profile offers any of names. An empty
// list matches every profile.
func (p *NFProfile) HasService(names []string) bool {
	if len(names) == 0 {
		return true
	}

	for _, svc := range p.NfServices {
		for _, name := range names {
			if svc.ServiceName == name {
				return true
			}
		}
	}

	return false
}

// Serves reports whether the profile's SMF info covers dnn and every snssai.
// Zero values match anything.
func (p *NFProfile) Serves(dnn string, snssais []Snssai) bool {
	if dnn == "" && len(snssais) == 0 {
		return true
	}

	if p.SmfInfo == nil {
		return dnn == "" && p.supportsAll(snssais)
	}

	for _, want := range snssais {
		found := false
		for _, item := range p.SmfInfo.SNssaiSmfInfoList {
			if item.SNssai == want {
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}

	if dnn == "" {
		return true
	}

	for _, item := range p.SmfInfo.SNssaiSmfInfoList {
		for _, d := range item.DnnSmfInfoList {
			if d.Dnn == dnn {
				return true
			}
		}
	}

	return false
}

func (p *NFProfile) supportsAll(snssais []Snssai) bool {
	for _, want := range snssais {
		found := false
		for _, have := range p.SNssais {
			if have == want {
				found = true
				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}
