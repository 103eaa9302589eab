package cmd

import (
	"encoding/json"
	"os"

	"github.com/danielkrainas/gobag/api/describe"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielkrainas/sbi/pkg/api/v1"
	"github.com/danielkrainas/sbi/pkg/factory"
	"github.com/danielkrainas/sbi/pkg/util/log"
)

func init() {
	rootCmd.AddCommand(routesCmd)
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "print every registered operation",
	Long:  "print every registered operation as JSON route descriptions",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := loadConfig()
		if err != nil {
			log.Fatal("configuration failure", zap.Error(err))
		}

		catalog, err := factory.Catalog(config)
		if err != nil {
			log.Fatal("initialization failed", zap.Error(err))
		}

		out := map[string][]describe.Route{
			v1.APISMF.Name:      catalog.SMF.Describe(),
			v1.APINRF.Name:      catalog.NRF.Describe(),
			v1.APICallback.Name: catalog.Callback.Describe(),
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			log.Fatal("encoding failed", zap.Error(err))
		}
	},
}
