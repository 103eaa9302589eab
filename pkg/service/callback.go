package service

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/danielkrainas/sbi/pkg/api/smf"
	"github.com/danielkrainas/sbi/pkg/dispatch"
	"github.com/danielkrainas/sbi/pkg/models"
	"github.com/danielkrainas/sbi/pkg/util/log"
)

const maxRetainedNotifications = 256

// ReceivedNotification is a status notification as seen by the receiver.
type ReceivedNotification struct {
	URI          string
	Notification models.SmContextStatusNotification
}

// CallbackReceiver is the consumer side of the SMF callbacks. It keeps the
// most recent notifications for inspection.
type CallbackReceiver struct {
	dispatch.AlwaysReady

	mu       sync.Mutex
	received []ReceivedNotification
}

var _ smf.CallbackServer = (*CallbackReceiver)(nil)

func NewCallbackReceiver() *CallbackReceiver {
	return &CallbackReceiver{}
}

func (cr *CallbackReceiver) ModifyPduSession(ctx context.Context, in *smf.ModifyPduSessionParams) (dispatch.Response, error) {
	if in.Body.RequestIndication == "" {
		return dispatch.Respond(dispatch.TagBadRequest, &models.VsmfUpdateError{
			Error: *models.Problem(http.StatusBadRequest, models.CauseMandatoryIeIncorrect, "requestIndication is mandatory"),
			Pti:   in.Body.Pti,
		}), nil
	}

	log.Info("pdu session modification received",
		zap.String("uri", in.VsmfPduSessionURI),
		zap.String("indication", in.Body.RequestIndication))

	return dispatch.Respond(dispatch.TagOK, &models.VsmfUpdatedData{
		SupportedFeatures: in.Body.SupportedFeatures,
	}), nil
}

func (cr *CallbackReceiver) NotifySmContextStatus(ctx context.Context, in *smf.NotifySmContextStatusParams) (dispatch.Response, error) {
	log.Info("sm context status received",
		zap.String("uri", in.SmContextStatusURI),
		zap.String("status", string(in.Body.StatusInfo.ResourceStatus)))

	cr.mu.Lock()
	cr.received = append(cr.received, ReceivedNotification{URI: in.SmContextStatusURI, Notification: in.Body})
	if len(cr.received) > maxRetainedNotifications {
		cr.received = cr.received[len(cr.received)-maxRetainedNotifications:]
	}

	cr.mu.Unlock()
	return dispatch.Respond(dispatch.TagNoContent, nil), nil
}

func (cr *CallbackReceiver) Received() []ReceivedNotification {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return append([]ReceivedNotification(nil), cr.received...)
}
