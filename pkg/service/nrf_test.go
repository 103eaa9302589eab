package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/danielkrainas/sbi/pkg/api/nrf"
	"github.com/danielkrainas/sbi/pkg/dispatch"
	"github.com/danielkrainas/sbi/pkg/models"
)

type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time {
	return c.t
}

func newTestNRF(t *testing.T, profiles ...*models.NFProfile) (*NRF, *testClock) {
	t.Helper()
	storage, err := NewMemoryStorage(profiles)
	if err != nil {
		t.Fatal(err)
	}

	n, err := NewNRF(storage, 4, time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	clock := &testClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	n.now = clock.now
	return n, clock
}

func testProfiles() []*models.NFProfile {
	self := SelfProfile("smf-b", "https://smf-b.example.org")
	other := SelfProfile("smf-a", "http://smf-a.example.org")
	other.PlmnList = []models.PlmnID{{Mcc: "999", Mnc: "70"}}
	suspended := SelfProfile("smf-c", "http://smf-c.example.org")
	suspended.NfStatus = models.NFStatusSuspended
	return []*models.NFProfile{self, other, suspended, {NfInstanceID: "amf-1", NfType: models.NFTypeAMF, NfStatus: models.NFStatusRegistered}}
}

func search(t *testing.T, n *NRF, in *nrf.SearchNFInstancesParams) *models.SearchResult {
	t.Helper()
	if in.TargetNfType == "" {
		in.TargetNfType = models.NFTypeSMF
	}

	in.RequesterNfType = models.NFTypeAMF
	resp, err := n.SearchNFInstances(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}

	if resp.Tag != dispatch.TagOK {
		t.Fatalf("tag = %s", resp.Tag)
	}

	return resp.Body.(*models.SearchResult)
}

func ids(profiles []models.NFProfile) []string {
	out := make([]string, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p.NfInstanceID)
	}

	return out
}

func TestSelfProfile(t *testing.T) {
	p := SelfProfile("smf-1", "https://smf.example.org")
	if p.NfType != models.NFTypeSMF || p.NfStatus != models.NFStatusRegistered {
		t.Errorf("profile = %+v", p)
	}

	if len(p.NfServices) != 1 || p.NfServices[0].Scheme != "https" || p.NfServices[0].ServiceInstanceID != "smf-1-pdusession" {
		t.Errorf("services = %+v", p.NfServices)
	}

	if !p.Serves("internet", []models.Snssai{{Sst: 1}}) || p.Serves("ims", nil) {
		t.Errorf("smf info coverage wrong: %+v", p.SmfInfo)
	}
}

func TestSearchNFInstances(t *testing.T) {
	n, _ := newTestNRF(t, testProfiles()...)

	dnn, ims := "internet", "ims"
	other, self := "smf-a", "smf-b"
	cases := []struct {
		name string
		in   *nrf.SearchNFInstancesParams
		want []string
	}{
		{"all registered", &nrf.SearchNFInstancesParams{}, []string{"smf-a", "smf-b"}},
		{"plmn", &nrf.SearchNFInstancesParams{TargetPlmnList: []models.PlmnID{{Mcc: "001", Mnc: "01"}}}, []string{"smf-b"}},
		{"service", &nrf.SearchNFInstancesParams{ServiceNames: []string{"nsmf-event-exposure"}}, []string{}},
		{"dnn", &nrf.SearchNFInstancesParams{Dnn: &dnn, Snssais: []models.Snssai{{Sst: 1}}}, []string{"smf-a", "smf-b"}},
		{"unserved dnn", &nrf.SearchNFInstancesParams{Dnn: &ims}, []string{}},
		{"target instance", &nrf.SearchNFInstancesParams{TargetNfInstanceID: &other}, []string{"smf-a"}},
		{"requester excluded", &nrf.SearchNFInstancesParams{RequesterNfInstanceID: &self}, []string{"smf-a"}},
		{"amf", &nrf.SearchNFInstancesParams{TargetNfType: models.NFTypeAMF}, []string{"amf-1"}},
	}

	for _, c := range cases {
		got := search(t, n, c.in)
		if diff := cmp.Diff(c.want, ids(got.NfInstances)); diff != "" {
			t.Errorf("%s (-want +got):\n%s", c.name, diff)
		}

		if got.SearchID == "" || got.ValidityPeriod != 60 || int(got.NumNfInstComplete) != len(c.want) {
			t.Errorf("%s: result = %+v", c.name, got)
		}
	}
}

func TestSearchLimitAndHeaders(t *testing.T) {
	n, _ := newTestNRF(t, testProfiles()...)
	limit := int32(1)
	resp, err := n.SearchNFInstances(context.Background(), &nrf.SearchNFInstancesParams{
		TargetNfType:    models.NFTypeSMF,
		RequesterNfType: models.NFTypeAMF,
		Limit:           &limit,
	})
	if err != nil {
		t.Fatal(err)
	}

	result := resp.Body.(*models.SearchResult)
	if diff := cmp.Diff([]string{"smf-a"}, ids(result.NfInstances)); diff != "" {
		t.Errorf("limited (-want +got):\n%s", diff)
	}

	if result.NumNfInstComplete != 2 {
		t.Errorf("complete count = %d", result.NumNfInstComplete)
	}

	if got := resp.Header.Get("Cache-Control"); got != "max-age=60" {
		t.Errorf("cache control = %q", got)
	}

	first := resp.Header.Get("ETag")
	again, _ := n.SearchNFInstances(context.Background(), &nrf.SearchNFInstancesParams{
		TargetNfType:    models.NFTypeSMF,
		RequesterNfType: models.NFTypeAMF,
		Limit:           &limit,
	})
	if first == "" || first[0] != '"' || again.Header.Get("ETag") != first {
		t.Errorf("etag not stable: %q vs %q", first, again.Header.Get("ETag"))
	}

	stored, _ := n.RetrieveStoredSearch(context.Background(), &nrf.RetrieveStoredSearchParams{SearchID: result.SearchID})
	if diff := cmp.Diff([]string{"smf-a"}, ids(stored.Body.(*models.StoredSearchResult).NfInstances)); diff != "" {
		t.Errorf("stored (-want +got):\n%s", diff)
	}

	complete, _ := n.RetrieveCompleteSearch(context.Background(), &nrf.RetrieveCompleteSearchParams{SearchID: result.SearchID})
	if diff := cmp.Diff([]string{"smf-a", "smf-b"}, ids(complete.Body.(*models.StoredSearchResult).NfInstances)); diff != "" {
		t.Errorf("complete (-want +got):\n%s", diff)
	}
}

func TestFitPayload(t *testing.T) {
	var profiles []models.NFProfile
	for _, p := range testProfiles()[:2] {
		profiles = append(profiles, *p)
	}

	one, err := json.Marshal(profiles[:1])
	if err != nil {
		t.Fatal(err)
	}

	if got := fitPayload(profiles, len(one)); len(got) != 1 {
		t.Errorf("fit to one profile kept %d", len(got))
	}

	if got := fitPayload(profiles, 1<<20); len(got) != 2 {
		t.Errorf("roomy payload kept %d", len(got))
	}

	if got := fitPayload(profiles, 1); len(got) != 0 {
		t.Errorf("tiny payload kept %d", len(got))
	}
}

func TestSearchAcceptEncoding(t *testing.T) {
	n, _ := newTestNRF(t, testProfiles()...)
	for value, refused := range map[string]bool{
		"gzip":               false,
		"gzip, identity;q=0": true,
		"*;q=0":              true,
		"identity; q=0.000":  true,
		"identity;q=0.5":     false,
		"gzip;q=0, identity": false,
		"deflate, *;q=0.1":   false,
	} {
		v := value
		resp, err := n.SearchNFInstances(context.Background(), &nrf.SearchNFInstancesParams{
			TargetNfType:    models.NFTypeSMF,
			RequesterNfType: models.NFTypeAMF,
			AcceptEncoding:  &v,
		})
		if err != nil {
			t.Fatal(err)
		}

		if got := resp.Tag == dispatch.TagNotAcceptable; got != refused {
			t.Errorf("%q: not acceptable = %v, want %v", value, got, refused)
		}
	}
}

func TestStoredSearchExpiry(t *testing.T) {
	n, clock := newTestNRF(t, testProfiles()...)
	first := search(t, n, &nrf.SearchNFInstancesParams{}).SearchID

	clock.t = clock.t.Add(30 * time.Second)
	second := search(t, n, &nrf.SearchNFInstancesParams{}).SearchID

	if resp, _ := n.RetrieveStoredSearch(context.Background(), &nrf.RetrieveStoredSearchParams{SearchID: first}); resp.Tag != dispatch.TagOK {
		t.Fatalf("fresh search tag = %s", resp.Tag)
	}

	clock.t = clock.t.Add(30 * time.Second)
	resp, _ := n.RetrieveCompleteSearch(context.Background(), &nrf.RetrieveCompleteSearchParams{SearchID: first})
	if resp.Tag != dispatch.TagNotFound {
		t.Errorf("expired search tag = %s", resp.Tag)
	}

	if problem := resp.Body.(*models.ProblemDetails); problem.Cause != models.CauseResourceNotFound {
		t.Errorf("problem = %+v", problem)
	}

	clock.t = clock.t.Add(30 * time.Second)
	if removed := n.PurgeExpired(); removed != 1 {
		t.Errorf("purged = %d, want 1", removed)
	}

	if ok := n.searches.Contains(second); ok {
		t.Errorf("purged search still cached")
	}

	if resp, _ := n.RetrieveStoredSearch(context.Background(), &nrf.RetrieveStoredSearchParams{SearchID: "unknown"}); resp.Tag != dispatch.TagNotFound {
		t.Errorf("unknown search tag = %s", resp.Tag)
	}
}

func TestSearchCacheEvictsOldest(t *testing.T) {
	n, _ := newTestNRF(t, testProfiles()...)
	first := search(t, n, &nrf.SearchNFInstancesParams{}).SearchID
	for i := 0; i < 4; i++ {
		search(t, n, &nrf.SearchNFInstancesParams{})
	}

	if resp, _ := n.RetrieveStoredSearch(context.Background(), &nrf.RetrieveStoredSearchParams{SearchID: first}); resp.Tag != dispatch.TagNotFound {
		t.Errorf("evicted search tag = %s", resp.Tag)
	}
}
