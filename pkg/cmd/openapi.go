package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	gobagcontext "github.com/danielkrainas/gobag/context"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-yaml/yaml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielkrainas/sbi/pkg/api/v1"
	"github.com/danielkrainas/sbi/pkg/dispatch"
	"github.com/danielkrainas/sbi/pkg/factory"
	"github.com/danielkrainas/sbi/pkg/util/log"
)

var (
	openAPIName   string
	openAPIFormat string
)

func init() {
	openAPICmd.Flags().StringVar(&openAPIName, "api", "", "limit the document to one api: smf, nrf or callback")
	openAPICmd.Flags().StringVar(&openAPIFormat, "format", "json", "output format: json or yaml")
	rootCmd.AddCommand(openAPICmd)
}

var openAPICmd = &cobra.Command{
	Use:   "openapi",
	Short: "print the OpenAPI document of the operation tables",
	Long:  "print the OpenAPI document of the operation tables",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := loadConfig()
		if err != nil {
			log.Fatal("configuration failure", zap.Error(err))
		}

		catalog, err := factory.Catalog(config)
		if err != nil {
			log.Fatal("initialization failed", zap.Error(err))
		}

		doc, err := BuildOpenAPI(catalog, openAPIName, gobagcontext.GetVersion(rootContext))
		if err != nil {
			log.Fatal("openapi generation failed", zap.Error(err))
		}

		out, err := EncodeOpenAPI(doc, openAPIFormat)
		if err != nil {
			log.Fatal("openapi encoding failed", zap.Error(err))
		}

		os.Stdout.Write(out)
	},
}

// BuildOpenAPI documents one api by name, or all of them when name is empty.
func BuildOpenAPI(catalog *factory.Dispatchers, name string, version string) (*openapi3.T, error) {
	if version == "" {
		version = "0.0.0-dev"
	}

	title := "sbi"
	if name != "" {
		title = "sbi " + name
	}

	doc := dispatch.NewOpenAPI(title, version)
	switch name {
	case "":
		catalog.SMF.AddToOpenAPI(doc)
		catalog.NRF.AddToOpenAPI(doc)
		catalog.Callback.AddToOpenAPI(doc)
	case v1.APISMF.Name:
		catalog.SMF.AddToOpenAPI(doc)
	case v1.APINRF.Name:
		catalog.NRF.AddToOpenAPI(doc)
	case v1.APICallback.Name:
		catalog.Callback.AddToOpenAPI(doc)
	default:
		return nil, fmt.Errorf("unknown api %q", name)
	}

	return doc, nil
}

// EncodeOpenAPI renders doc as indented JSON or as YAML with the JSON key
// order preserved.
func EncodeOpenAPI(doc *openapi3.T, format string) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}

	switch format {
	case "json", "":
		return append(data, '\n'), nil
	case "yaml", "yml":
		var ordered yaml.MapSlice
		if err := yaml.Unmarshal(data, &ordered); err != nil {
			return nil, err
		}

		return yaml.Marshal(ordered)
	}

	return nil, fmt.Errorf("unsupported format %q", format)
}
