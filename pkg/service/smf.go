package service

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/danielkrainas/gobag/util/uid"
	"go.uber.org/zap"

	"github.com/danielkrainas/sbi/pkg/api/smf"
	"github.com/danielkrainas/sbi/pkg/dispatch"
	"github.com/danielkrainas/sbi/pkg/models"
	"github.com/danielkrainas/sbi/pkg/util/log"
)

const (
	n1ContentID = "n1msg"

	// 5GSM PDU SESSION ESTABLISHMENT REJECT, cause #31 request rejected, unspecified.
	nasEPD5GSM       = 0x2e
	nasMsgEstReject  = 0xc3
	nasCauseRejected = 0x1f
)

// SMF is an in-memory session management function.
type SMF struct {
	storage    StorageService
	hub        HubConnector
	apiRoot    string
	instanceID string
	closing    int32
}

var _ smf.Server = (*SMF)(nil)

func NewSMF(storage StorageService, hub HubConnector, apiRoot string, instanceID string) *SMF {
	return &SMF{
		storage:    storage,
		hub:        hub,
		apiRoot:    apiRoot,
		instanceID: instanceID,
	}
}

func (s *SMF) Ready(ctx context.Context) bool {
	return atomic.LoadInt32(&s.closing) == 0
}

// Close makes the SMF report itself unready.
func (s *SMF) Close() {
	atomic.StoreInt32(&s.closing, 1)
}

func (s *SMF) location(collection, ref string) string {
	return fmt.Sprintf("%s%s/%s/%s", s.apiRoot, smf.Prefix, collection, ref)
}

func contextNotFound(kind, ref string) *models.ProblemDetails {
	return models.Problem(http.StatusNotFound, models.CauseContextNotFound, ErrorCodeNotFound.WithArgs(kind, ref).Message)
}

func (s *SMF) PostSmContexts(ctx context.Context, in *smf.PostSmContextsParams) (dispatch.Response, error) {
	data := in.JSONData
	if data.ServingNfID == "" || (data.Supi == "" && !data.UnauthenticatedSupi) {
		return s.rejectSmContext(data, "servingNfId and supi are mandatory"), nil
	}

	rec := &SmContextRecord{
		Ref:        uid.Generate(),
		Supi:       data.Supi,
		Data:       data,
		UpCnxState: models.UpCnxStateActivating,
	}

	if err := s.storage.PutSmContext(ctx, rec); err != nil {
		return dispatch.Response{}, fmt.Errorf("store sm context: %w", err)
	}

	log.Debug("sm context created", zap.String("ref", rec.Ref), zap.String("supi", rec.Supi), zap.Int("n1_bytes", len(in.BinaryDataN1SmMessage)))
	return dispatch.Respond(dispatch.TagCreated, &models.SmContextCreatedData{
		PduSessionID:         data.PduSessionID,
		SNssai:               data.SNssai,
		UpCnxState:           rec.UpCnxState,
		SmfServiceInstanceID: s.instanceID,
	}).WithLocation(s.location("sm-contexts", rec.Ref)), nil
}

// rejectSmContext answers with the create error and an N1 reject the AMF
// forwards to the UE.
func (s *SMF) rejectSmContext(data models.SmContextCreateData, detail string) dispatch.Response {
	body := &models.SmContextCreateError{
		Error:   *models.Problem(http.StatusBadRequest, models.CauseMandatoryIeIncorrect, detail),
		N1SmMsg: &models.RefToBinaryData{ContentID: n1ContentID},
	}

	return dispatch.Respond(dispatch.TagBadRequest, dispatch.Multipart{Parts: []dispatch.Part{
		{Name: "jsonData", ContentType: dispatch.ContentTypeJSON, Value: body},
		{
			Name:        "binaryDataN1SmMessage",
			ContentType: smf.MediaTypeNAS,
			ContentID:   n1ContentID,
			Data:        []byte{nasEPD5GSM, byte(data.PduSessionID), 0x00, nasMsgEstReject, nasCauseRejected},
		},
	}})
}

func (s *SMF) ReleaseSmContext(ctx context.Context, in *smf.ReleaseSmContextParams) (dispatch.Response, error) {
	rec, err := s.storage.RemoveSmContext(ctx, in.SmContextRef)
	if err != nil {
		return dispatch.Response{}, fmt.Errorf("release sm context: %w", err)
	} else if rec == nil {
		return dispatch.Respond(dispatch.TagNotFound, contextNotFound("sm context", in.SmContextRef)), nil
	}

	cause := ""
	if in.Body != nil {
		cause = in.Body.Cause
	}

	s.publishReleased(rec, cause)
	if in.Body != nil && in.Body.VsmfReleaseOnly {
		return dispatch.Respond(dispatch.TagOK, &models.SmContextReleasedData{}), nil
	}

	return dispatch.Respond(dispatch.TagNoContent, nil), nil
}

func (s *SMF) publishReleased(rec *SmContextRecord, cause string) {
	if rec.Data.SmContextStatusURI == "" {
		return
	}

	s.hub.Publish(TopicSmContextStatus, &StatusEvent{
		Ref: rec.Ref,
		URI: rec.Data.SmContextStatusURI,
		Notification: models.SmContextStatusNotification{
			StatusInfo: models.StatusInfo{
				ResourceStatus: models.ResourceStatusReleased,
				Cause:          cause,
				AnType:         rec.Data.AnType,
			},
		},
	})
}

func (s *SMF) RetrieveSmContext(ctx context.Context, in *smf.RetrieveSmContextParams) (dispatch.Response, error) {
	rec, err := s.storage.GetSmContext(ctx, in.SmContextRef)
	if err != nil {
		return dispatch.Response{}, fmt.Errorf("retrieve sm context: %w", err)
	} else if rec == nil {
		return dispatch.Respond(dispatch.TagNotFound, contextNotFound("sm context", in.SmContextRef)), nil
	}

	out := &models.SmContextRetrievedData{UeEpsPdnConnection: "pdn-" + rec.Ref}
	if in.Body != nil && in.Body.SmContextType != "" && in.Body.SmContextType != "EPS_PDN_CONNECTION" {
		sm := &models.SmContext{
			PduSessionID: rec.Data.PduSessionID,
			Dnn:          rec.Data.Dnn,
			Supi:         rec.Supi,
			AnType:       rec.Data.AnType,
			UpCnxState:   rec.UpCnxState,
		}

		if rec.Data.SNssai != nil {
			sm.SNssai = *rec.Data.SNssai
		}

		out.SmContext = sm
	}

	return dispatch.Respond(dispatch.TagOK, out), nil
}

func (s *SMF) UpdateSmContext(ctx context.Context, in *smf.UpdateSmContextParams) (dispatch.Response, error) {
	data := in.Body
	invalidState := data.UpCnxState != "" && !data.UpCnxState.Valid()
	notFound := dispatch.Respond(dispatch.TagNotFound, &models.SmContextUpdateError{
		Error: *contextNotFound("sm context", in.SmContextRef),
	})

	if data.Release && !invalidState {
		released, err := s.storage.RemoveSmContext(ctx, in.SmContextRef)
		if err != nil {
			return dispatch.Response{}, fmt.Errorf("update sm context: %w", err)
		} else if released == nil {
			return notFound, nil
		}

		s.publishReleased(released, data.Cause)
		return dispatch.Respond(dispatch.TagNoContent, nil), nil
	}

	var rejected *models.SmContextUpdateError
	rec, err := s.storage.ModifySmContext(ctx, in.SmContextRef, func(current *SmContextRecord) *SmContextRecord {
		if invalidState {
			rejected = &models.SmContextUpdateError{
				Error:      *models.Problem(http.StatusBadRequest, models.CauseInvalidMsgFormat, fmt.Sprintf("unknown upCnxState %q", data.UpCnxState)),
				UpCnxState: current.UpCnxState,
			}

			return nil
		}

		// stored records are shared with readers and never mutated in place
		next := *current
		if data.UpCnxState != "" {
			next.UpCnxState = data.UpCnxState
		}

		if data.HoState != "" {
			next.HoState = data.HoState
		}

		if data.SmContextStatusURI != "" {
			next.Data.SmContextStatusURI = data.SmContextStatusURI
		}

		if data.AnType != "" {
			next.Data.AnType = data.AnType
		}

		return &next
	})

	if err != nil {
		return dispatch.Response{}, fmt.Errorf("update sm context: %w", err)
	} else if rec == nil {
		return notFound, nil
	} else if rejected != nil {
		return dispatch.Respond(dispatch.TagBadRequest, rejected), nil
	}

	return dispatch.Respond(dispatch.TagOK, &models.SmContextUpdatedData{
		UpCnxState: rec.UpCnxState,
		HoState:    rec.HoState,
		N1SmMsg:    data.N1SmMsg,
		N2SmInfo:   data.N2SmInfo,
	}), nil
}

func (s *SMF) PostPduSessions(ctx context.Context, in *smf.PostPduSessionsParams) (dispatch.Response, error) {
	data := in.Body
	if data.VsmfPduSessionURI == "" || data.VsmfID == "" || data.Dnn == "" {
		return dispatch.Respond(dispatch.TagBadRequest, &models.PduSessionCreateError{
			Error: *models.Problem(http.StatusBadRequest, models.CauseMandatoryIeIncorrect, "vsmfId, vsmfPduSessionUri and dnn are mandatory"),
		}), nil
	}

	rec := &PduSessionRecord{
		Ref:  uid.Generate(),
		Supi: data.Supi,
		Data: data,
	}

	if err := s.storage.PutPduSession(ctx, rec); err != nil {
		return dispatch.Response{}, fmt.Errorf("store pdu session: %w", err)
	}

	log.Debug("pdu session created", zap.String("ref", rec.Ref), zap.String("vsmf", data.VsmfID))
	return dispatch.Respond(dispatch.TagCreated, &models.PduSessionCreatedData{
		PduSessionType: "IPV4",
		SscMode:        "SSC_MODE_1",
		SessionAmbr:    &models.Ambr{Uplink: "100 Mbps", Downlink: "100 Mbps"},
		HSmfInstanceID: s.instanceID,
		PduSessionID:   data.PduSessionID,
		SNssai:         data.SNssai,
	}).WithLocation(s.location("pdu-sessions", rec.Ref)), nil
}

func (s *SMF) ReleasePduSession(ctx context.Context, in *smf.ReleasePduSessionParams) (dispatch.Response, error) {
	rec, err := s.storage.RemovePduSession(ctx, in.PduSessionRef)
	if err != nil {
		return dispatch.Response{}, fmt.Errorf("release pdu session: %w", err)
	} else if rec == nil {
		return dispatch.Respond(dispatch.TagNotFound, contextNotFound("pdu session", in.PduSessionRef)), nil
	}

	return dispatch.Respond(dispatch.TagNoContent, nil), nil
}

func (s *SMF) RetrievePduSession(ctx context.Context, in *smf.RetrievePduSessionParams) (dispatch.Response, error) {
	rec, err := s.storage.GetPduSession(ctx, in.PduSessionRef)
	if err != nil {
		return dispatch.Response{}, fmt.Errorf("retrieve pdu session: %w", err)
	} else if rec == nil {
		return dispatch.Respond(dispatch.TagNotFound, contextNotFound("pdu session", in.PduSessionRef)), nil
	}

	out := &models.RetrievedData{}
	if in.Body.SmallDataRateStatusReq {
		out.SmallDataRateStatus = map[string]int{"remainPacketsUl": 0, "remainPacketsDl": 0}
	}

	return dispatch.Respond(dispatch.TagOK, out), nil
}
