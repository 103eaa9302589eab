package service

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/danielkrainas/gobag/util/uid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/danielkrainas/sbi/pkg/api/nrf"
	"github.com/danielkrainas/sbi/pkg/api/smf"
	"github.com/danielkrainas/sbi/pkg/dispatch"
	"github.com/danielkrainas/sbi/pkg/models"
	"github.com/danielkrainas/sbi/pkg/util/log"
)

type storedSearch struct {
	limited  []models.NFProfile
	complete []models.NFProfile
	expires  time.Time
}

// NRF answers discovery requests from the profiles in storage and keeps
// recent searches for later retrieval.
type NRF struct {
	storage  StorageService
	searches *lru.Cache[string, *storedSearch]
	validity time.Duration
	now      func() time.Time
	closing  int32
}

var _ nrf.Server = (*NRF)(nil)

func NewNRF(storage StorageService, cacheSize int, validity time.Duration) (*NRF, error) {
	searches, err := lru.New[string, *storedSearch](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("search cache: %w", err)
	}

	return &NRF{
		storage:  storage,
		searches: searches,
		validity: validity,
		now:      time.Now,
	}, nil
}

// SelfProfile is the NF profile the SMF registers with its own NRF.
func SelfProfile(instanceID string, apiRoot string) *models.NFProfile {
	return &models.NFProfile{
		NfInstanceID: instanceID,
		NfType:       models.NFTypeSMF,
		NfStatus:     models.NFStatusRegistered,
		PlmnList:     []models.PlmnID{{Mcc: "001", Mnc: "01"}},
		SNssais:      []models.Snssai{{Sst: 1}},
		Priority:     1,
		Capacity:     100,
		SmfInfo: &models.SmfInfo{
			SNssaiSmfInfoList: []models.SnssaiSmfInfoItem{{
				SNssai:         models.Snssai{Sst: 1},
				DnnSmfInfoList: []models.DnnSmfInfoItem{{Dnn: "internet"}},
			}},
		},
		NfServices: []models.NFService{{
			ServiceInstanceID: instanceID + "-pdusession",
			ServiceName:       smf.Scope,
			Versions:          []models.NFServiceVersion{{APIVersionInURI: "v1", APIFullVersion: "1.0.0"}},
			Scheme:            strings.SplitN(apiRoot, "://", 2)[0],
			NfServiceStatus:   string(models.NFStatusRegistered),
		}},
	}
}

func (n *NRF) Ready(ctx context.Context) bool {
	return atomic.LoadInt32(&n.closing) == 0
}

func (n *NRF) Close() {
	atomic.StoreInt32(&n.closing, 1)
}

func (n *NRF) SearchNFInstances(ctx context.Context, in *nrf.SearchNFInstancesParams) (dispatch.Response, error) {
	if in.AcceptEncoding != nil && refusesIdentity(*in.AcceptEncoding) {
		return dispatch.Respond(dispatch.TagNotAcceptable, nil), nil
	}

	candidates, err := n.storage.FindNFProfiles(ctx, in.TargetNfType)
	if err != nil {
		return dispatch.Response{}, fmt.Errorf("search nf instances: %w", err)
	}

	complete := make([]models.NFProfile, 0, len(candidates))
	for _, p := range candidates {
		if matches(p, in) {
			complete = append(complete, *p)
		}
	}

	sort.Slice(complete, func(i, j int) bool {
		return complete[i].NfInstanceID < complete[j].NfInstanceID
	})

	limited := complete
	if in.Limit != nil && *in.Limit > 0 && int(*in.Limit) < len(limited) {
		limited = limited[:*in.Limit]
	}

	if in.MaxPayloadSize != nil && *in.MaxPayloadSize > 0 {
		limited = fitPayload(limited, int(*in.MaxPayloadSize)*1000)
	}

	id := uid.Generate()
	n.searches.Add(id, &storedSearch{
		limited:  limited,
		complete: complete,
		expires:  n.now().Add(n.validity),
	})

	log.Debug("nf search stored", zap.String("search", id), zap.Int("matches", len(complete)))
	return dispatch.Respond(dispatch.TagOK, &models.SearchResult{
		ValidityPeriod:    int32(n.validity / time.Second),
		NfInstances:       limited,
		SearchID:          id,
		NumNfInstComplete: int32(len(complete)),
	}).
		WithHeader("Cache-Control", fmt.Sprintf("max-age=%d", int(n.validity/time.Second))).
		WithHeader("ETag", etag(limited)), nil
}

func matches(p *models.NFProfile, in *nrf.SearchNFInstancesParams) bool {
	if p.NfStatus != models.NFStatusRegistered {
		return false
	}

	if in.TargetNfInstanceID != nil && p.NfInstanceID != *in.TargetNfInstanceID {
		return false
	}

	if in.RequesterNfInstanceID != nil && p.NfInstanceID == *in.RequesterNfInstanceID {
		return false
	}

	if len(in.TargetPlmnList) > 0 && len(p.PlmnList) > 0 && !sharesPlmn(p.PlmnList, in.TargetPlmnList) {
		return false
	}

	dnn := ""
	if in.Dnn != nil {
		dnn = *in.Dnn
	}

	return p.HasService(in.ServiceNames) && p.Serves(dnn, in.Snssais)
}

func sharesPlmn(have, want []models.PlmnID) bool {
	for _, a := range have {
		for _, b := range want {
			if a == b {
				return true
			}
		}
	}

	return false
}

// refusesIdentity reports whether an Accept-Encoding value rules out an
// uncompressed response.
func refusesIdentity(acceptEncoding string) bool {
	for _, coding := range strings.Split(acceptEncoding, ",") {
		fields := strings.Split(coding, ";")
		name := strings.TrimSpace(fields[0])
		if name != "identity" && name != "*" {
			continue
		}

		for _, param := range fields[1:] {
			param = strings.ReplaceAll(param, " ", "")
			if param == "q=0" || param == "q=0.0" || param == "q=0.00" || param == "q=0.000" {
				return true
			}
		}
	}

	return false
}

// fitPayload drops trailing profiles until the encoded list fits in max bytes.
func fitPayload(profiles []models.NFProfile, max int) []models.NFProfile {
	for len(profiles) > 0 {
		data, err := json.Marshal(profiles)
		if err != nil || len(data) <= max {
			break
		}

		profiles = profiles[:len(profiles)-1]
	}

	return profiles
}

func etag(profiles []models.NFProfile) string {
	h := fnv.New64a()
	for _, p := range profiles {
		h.Write([]byte(p.NfInstanceID))
		h.Write([]byte{0})
	}

	return fmt.Sprintf("%q", fmt.Sprintf("%016x", h.Sum64()))
}

func (n *NRF) lookup(id string) (*storedSearch, bool) {
	s, ok := n.searches.Get(id)
	if !ok {
		return nil, false
	}

	if !n.now().Before(s.expires) {
		n.searches.Remove(id)
		return nil, false
	}

	return s, true
}

func searchNotFound(id string) *models.ProblemDetails {
	return models.Problem(http.StatusNotFound, models.CauseResourceNotFound, ErrorCodeNotFound.WithArgs("search", id).Message)
}

func (n *NRF) RetrieveStoredSearch(ctx context.Context, in *nrf.RetrieveStoredSearchParams) (dispatch.Response, error) {
	s, ok := n.lookup(in.SearchID)
	if !ok {
		return dispatch.Respond(dispatch.TagNotFound, searchNotFound(in.SearchID)), nil
	}

	return dispatch.Respond(dispatch.TagOK, &models.StoredSearchResult{NfInstances: s.limited}), nil
}

func (n *NRF) RetrieveCompleteSearch(ctx context.Context, in *nrf.RetrieveCompleteSearchParams) (dispatch.Response, error) {
	s, ok := n.lookup(in.SearchID)
	if !ok {
		return dispatch.Respond(dispatch.TagNotFound, searchNotFound(in.SearchID)), nil
	}

	return dispatch.Respond(dispatch.TagOK, &models.StoredSearchResult{NfInstances: s.complete}), nil
}

// PurgeExpired drops every stored search past its validity and returns how
// many were removed.
func (n *NRF) PurgeExpired() int {
	now := n.now()
	removed := 0
	for _, id := range n.searches.Keys() {
		if s, ok := n.searches.Peek(id); ok && !now.Before(s.expires) {
			n.searches.Remove(id)
			removed++
		}
	}

	return removed
}
