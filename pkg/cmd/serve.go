package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielkrainas/sbi/pkg/factory"
	"github.com/danielkrainas/sbi/pkg/service"
	"github.com/danielkrainas/sbi/pkg/util/log"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the SBI and callback listeners",
	Long:  "run the SBI and callback listeners",
	Run: func(cmd *cobra.Command, args []string) {
		config, err := loadConfig()
		if err != nil {
			log.Fatal("configuration failure", zap.Error(err))
		}

		componentManager, err := factory.ComponentManager(rootContext, config)
		if err != nil {
			log.Fatal("initialization failed", zap.Error(err))
			return
		}

		defer log.Sync()
		done := make(chan struct{})
		go func() {
			if err := componentManager.Run(); err != nil {
				log.Error("component manager failed", zap.Error(err))
			}

			close(done)
		}()

		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
		select {
		case <-done:
		case sig := <-ch:
			log.Info("termination signal", zap.String("signal", sig.String()))
			componentManager.Shutdown()
			<-done
		}
	},
}

func loadConfig() (*service.Config, error) {
	config, err := service.ResolveConfig(configPath)
	if err != nil {
		return nil, err
	}

	return service.ValidateConfig(config)
}
