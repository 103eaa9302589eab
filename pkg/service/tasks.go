package service

import (
	"go.uber.org/zap"

	"github.com/danielkrainas/sbi/pkg/util/log"
)

type SearchExpiryTask struct {
	NRF *NRF
}

func (task *SearchExpiryTask) RunTask() error {
	if removed := task.NRF.PurgeExpired(); removed > 0 {
		log.Debug("expired searches purged", zap.Int("count", removed))
	}

	return nil
}
