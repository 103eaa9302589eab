package nrf

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/danielkrainas/sbi/pkg/dispatch"
	"github.com/danielkrainas/sbi/pkg/models"
)

type stubServer struct {
	dispatch.AlwaysReady
	last interface{}
}

func (s *stubServer) SearchNFInstances(ctx context.Context, in *SearchNFInstancesParams) (dispatch.Response, error) {
	s.last = in
	return dispatch.Respond(dispatch.TagOK, &models.SearchResult{NfInstances: []models.NFProfile{}}).
		WithHeader("Cache-Control", "max-age=60"), nil
}

func (s *stubServer) RetrieveStoredSearch(ctx context.Context, in *RetrieveStoredSearchParams) (dispatch.Response, error) {
	s.last = in
	return dispatch.Respond(dispatch.TagOK, &models.StoredSearchResult{}), nil
}

func (s *stubServer) RetrieveCompleteSearch(ctx context.Context, in *RetrieveCompleteSearchParams) (dispatch.Response, error) {
	s.last = in
	return dispatch.Respond(dispatch.TagNotFound, models.Problem(http.StatusNotFound, models.CauseResourceNotFound, "gone")), nil
}

func newRequest(method, target string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	rc := dispatch.RequestContext{
		SpanID:    "span-3",
		Principal: &dispatch.Principal{Subject: "smf-1", Scopes: dispatch.NewScopes(Scope)},
	}

	return r.WithContext(dispatch.WithRequestContext(r.Context(), rc))
}

func TestOperationTable(t *testing.T) {
	d, err := New(&stubServer{}, 0)
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	var got []string
	for _, desc := range d.Table().Descriptors() {
		got = append(got, desc.Name+" "+desc.Method+" "+desc.FullPath())
	}

	want := []string{
		"SearchNFInstances GET " + Prefix + "/nf-instances",
		"RetrieveStoredSearch GET " + Prefix + "/searches/{searchId}",
		"RetrieveCompleteSearch GET " + Prefix + "/searches/{searchId}/complete",
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("operations (-want +got):\n%s", diff)
	}
}

func TestSearchQueryBinding(t *testing.T) {
	srv := &stubServer{}
	d, err := New(srv, 0)
	if err != nil {
		t.Fatal(err)
	}

	q := url.Values{}
	q.Set("target-nf-type", "SMF")
	q.Set("requester-nf-type", "AMF")
	q.Set("service-names", "nsmf-pdusession,nsmf-event-exposure")
	q.Set("target-plmn-list", `[{"mcc":"001","mnc":"01"}]`)
	q.Set("snssais", `[{"sst":1,"sd":"010203"}]`)
	q.Set("dnn", "internet")
	q.Set("limit", "3")

	r := newRequest(http.MethodGet, Prefix+"/nf-instances?"+q.Encode())
	r.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	dnn, limit, encoding := "internet", int32(3), "gzip"
	want := &SearchNFInstancesParams{
		TargetNfType:    models.NFTypeSMF,
		RequesterNfType: models.NFTypeAMF,
		ServiceNames:    []string{"nsmf-pdusession", "nsmf-event-exposure"},
		TargetPlmnList:  []models.PlmnID{{Mcc: "001", Mnc: "01"}},
		Snssais:         []models.Snssai{{Sst: 1, Sd: "010203"}},
		Dnn:             &dnn,
		Limit:           &limit,
		AcceptEncoding:  &encoding,
	}

	if diff := cmp.Diff(want, srv.last); diff != "" {
		t.Errorf("input (-want +got):\n%s", diff)
	}

	if got := rec.Header().Get("Cache-Control"); got != "max-age=60" {
		t.Errorf("cache control = %q", got)
	}
}

func TestSearchQueryErrors(t *testing.T) {
	d, err := New(&stubServer{}, 0)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		query string
		body  string
	}{
		{"requester-nf-type=AMF", "Missing required query parameter target-nf-type"},
		{"target-nf-type=SMF", "Missing required query parameter requester-nf-type"},
	}

	for _, c := range cases {
		rec := httptest.NewRecorder()
		d.ServeHTTP(rec, newRequest(http.MethodGet, Prefix+"/nf-instances?"+c.query))
		if rec.Code != http.StatusBadRequest || rec.Body.String() != c.body {
			t.Errorf("%s: %d %q, want 400 %q", c.query, rec.Code, rec.Body.String(), c.body)
		}
	}

	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, newRequest(http.MethodGet, Prefix+"/nf-instances?target-nf-type=SMF&requester-nf-type=AMF&target-plmn-list=nope"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed json query: status = %d", rec.Code)
	}
}

func TestSearchRoutes(t *testing.T) {
	srv := &stubServer{}
	d, err := New(srv, 0)
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	d.ServeHTTP(rec, newRequest(http.MethodGet, Prefix+"/searches/abc"))
	if rec.Code != http.StatusOK {
		t.Errorf("stored search: status = %d", rec.Code)
	}

	if in, ok := srv.last.(*RetrieveStoredSearchParams); !ok || in.SearchID != "abc" {
		t.Errorf("stored search input = %+v", srv.last)
	}

	rec = httptest.NewRecorder()
	d.ServeHTTP(rec, newRequest(http.MethodGet, Prefix+"/searches/abc/complete"))
	if rec.Code != http.StatusNotFound || rec.Header().Get("Content-Type") != dispatch.ContentTypeProblem {
		t.Errorf("complete search: %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}

	for _, c := range []struct {
		method string
		target string
		status int
	}{
		{http.MethodPost, Prefix + "/searches/abc", http.StatusMethodNotAllowed},
		{http.MethodDelete, Prefix + "/nf-instances", http.StatusMethodNotAllowed},
		{http.MethodGet, Prefix + "/searches", http.StatusNotFound},
		{http.MethodGet, Prefix + "/searches/abc/complete/more", http.StatusNotFound},
	} {
		rec := httptest.NewRecorder()
		d.ServeHTTP(rec, newRequest(c.method, c.target))
		if rec.Code != c.status {
			t.Errorf("%s %s: status = %d, want %d", c.method, c.target, rec.Code, c.status)
		}
	}
}

func TestVariantsMapStatusesOneToOne(t *testing.T) {
	d, err := New(&stubServer{}, 0)
	if err != nil {
		t.Fatal(err)
	}

	for _, desc := range d.Table().Descriptors() {
		if err := dispatch.ValidateVariants(desc.Name, desc.Variants); err != nil {
			t.Errorf("%s: %v", desc.Name, err)
		}
	}
}
