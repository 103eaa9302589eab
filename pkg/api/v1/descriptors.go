package v1

import (
	"github.com/danielkrainas/gobag/api/describe"

	"github.com/danielkrainas/sbi/pkg/api/nrf"
	"github.com/danielkrainas/sbi/pkg/api/smf"
)

var (
	VersionHeader = describe.Parameter{
		Name:        "Api-Version",
		Type:        "string",
		Description: "The build version of the server.",
		Format:      "<version>",
		Examples:    []string{"0.0.0-dev"},
	}

	AuthorizationHeader = describe.Parameter{
		Name:        "Authorization",
		Type:        "string",
		Description: "OAuth2 access token issued by the NRF. The scope claim lists the granted services.",
		Format:      "Bearer <jwt>",
	}
)

// API lists the services mounted by the SBI listener and the callback
// listener.
type API struct {
	Name   string
	Prefix string
	Scope  string
}

var (
	APISMF      = API{Name: "smf", Prefix: smf.Prefix, Scope: smf.Scope}
	APINRF      = API{Name: "nrf", Prefix: nrf.Prefix, Scope: nrf.Scope}
	APICallback = API{Name: "callback", Scope: smf.CallbackScope}
)
