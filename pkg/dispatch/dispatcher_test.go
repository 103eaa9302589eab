package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type widget struct {
	Name  string       `json:"name"`
	Size  int          `json:"size,omitempty"`
	Inner *widgetInner `json:"inner,omitempty"`
}

type widgetInner struct {
	Color string `json:"color"`
}

type problem struct {
	Status int    `json:"status,omitempty"`
	Detail string `json:"detail,omitempty"`
}

type getWidgetParams struct {
	WidgetID string   `in:"path=widgetId"`
	Verbose  *bool    `in:"query=verbose"`
	Tags     []string `in:"query=tags"`
	Trace    *string  `in:"header=X-Trace"`
}

type putWidgetParams struct {
	WidgetID string `in:"path=widgetId"`
	Body     widget `in:"body=Widget,required"`
}

type patchWidgetParams struct {
	WidgetID string  `in:"path=widgetId"`
	Body     *widget `in:"body=Widget"`
}

type uploadParams struct {
	WidgetID string `in:"path=widgetId"`
	Meta     widget `in:"part=meta,required" mime:"application/json"`
	Blob     []byte `in:"part=blob" mime:"application/octet-stream"`
}

type findParams struct {
	Kind  string `in:"query=kind,required"`
	Limit *int32 `in:"query=limit"`
}

type fakeAPI struct {
	notReady bool
	calls    int
	last     interface{}
	resp     Response
	err      error
}

func (f *fakeAPI) Ready(context.Context) bool {
	return !f.notReady
}

func (f *fakeAPI) handle(in interface{}) (Response, error) {
	f.calls++
	f.last = in
	return f.resp, f.err
}

func (f *fakeAPI) GetWidget(ctx context.Context, in *getWidgetParams) (Response, error) {
	return f.handle(in)
}

func (f *fakeAPI) PutWidget(ctx context.Context, in *putWidgetParams) (Response, error) {
	return f.handle(in)
}

func (f *fakeAPI) PatchWidget(ctx context.Context, in *patchWidgetParams) (Response, error) {
	return f.handle(in)
}

func (f *fakeAPI) Upload(ctx context.Context, in *uploadParams) (Response, error) {
	return f.handle(in)
}

func (f *fakeAPI) Find(ctx context.Context, in *findParams) (Response, error) {
	return f.handle(in)
}

const testPrefix = "/test/v1"

func widgetOperations() []Operation[*fakeAPI] {
	scopes := []string{"widgets"}
	return []Operation[*fakeAPI]{
		Bind(Descriptor{
			Name:   "GetWidget",
			Method: http.MethodGet,
			Path:   "/widgets/{widgetId}",
			Scopes: scopes,
			Variants: []Variant{
				JSON[widget](TagOK, http.StatusOK).WithHeaders("ETag"),
				Problem[problem](TagNotFound, http.StatusNotFound),
				Redirect[problem](TagTemporaryRedirect, http.StatusTemporaryRedirect),
				GenericError[problem](),
			},
		}, (*fakeAPI).GetWidget),

		Bind(Descriptor{
			Name:   "PutWidget",
			Method: http.MethodPut,
			Path:   "/widgets/{widgetId}",
			Scopes: scopes,
			Variants: []Variant{
				JSON[widget](TagOK, http.StatusOK),
				JSON[widget](TagCreated, http.StatusCreated).WithLocation(),
			},
		}, (*fakeAPI).PutWidget),

		Bind(Descriptor{
			Name:     "PatchWidget",
			Method:   http.MethodPatch,
			Path:     "/widgets/{widgetId}",
			Variants: []Variant{Empty(TagNoContent, http.StatusNoContent)},
		}, (*fakeAPI).PatchWidget),

		Bind(Descriptor{
			Name:   "Upload",
			Method: http.MethodPost,
			Path:   "/widgets/{widgetId}/upload",
			Variants: []Variant{
				Empty(TagNoContent, http.StatusNoContent),
				MultipartBody(TagBadRequest, http.StatusBadRequest),
			},
		}, (*fakeAPI).Upload),

		Bind(Descriptor{
			Name:     "Find",
			Path:     "/widgets",
			Variants: []Variant{JSON[[]widget](TagOK, http.StatusOK)},
		}, (*fakeAPI).Find),
	}
}

func newTestDispatcher(t *testing.T, api *fakeAPI) *Dispatcher[*fakeAPI] {
	t.Helper()
	d, err := New[*fakeAPI](api, widgetOperations(), Options{Prefix: testPrefix, GenericErrorStatus: http.StatusBadGateway})
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	return d
}

func withPrincipal(r *http.Request, scopes ...string) *http.Request {
	rc := RequestContext{
		SpanID:    "span-1",
		Principal: &Principal{Subject: "tester", Scopes: NewScopes(scopes...)},
	}

	return r.WithContext(WithRequestContext(r.Context(), rc))
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func multipartRequest(t *testing.T, target string, parts ...[2]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		header := textproto.MIMEHeader{}
		if p[0] != "" {
			header.Set("Content-Type", p[0])
		}

		w, err := mw.CreatePart(header)
		if err != nil {
			t.Fatal(err)
		}

		io.WriteString(w, p[1])
	}

	mw.Close()
	r := httptest.NewRequest(http.MethodPost, target, &buf)
	r.Header.Set("Content-Type", "multipart/related; boundary="+mw.Boundary())
	return r
}

func TestDispatcherBindsParameters(t *testing.T) {
	api := &fakeAPI{resp: Respond(TagOK, &widget{Name: "a/b"}).WithHeader("ETag", `"1"`)}
	d := newTestDispatcher(t, api)

	r := httptest.NewRequest(http.MethodGet, testPrefix+"/widgets/a%2Fb?verbose=true&tags=x,y&tags=z", nil)
	r.Header.Set("X-Trace", "t-1")
	rec := serve(d, withPrincipal(r, "widgets"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	verbose, trace := true, "t-1"
	want := &getWidgetParams{WidgetID: "a/b", Verbose: &verbose, Tags: []string{"x", "y", "z"}, Trace: &trace}
	if diff := cmp.Diff(want, api.last); diff != "" {
		t.Fatalf("bound input (-want +got):\n%s", diff)
	}

	if got := rec.Header().Get("Content-Type"); got != ContentTypeJSON {
		t.Errorf("content type = %q", got)
	}

	if got := rec.Header().Get("ETag"); got != `"1"` {
		t.Errorf("etag = %q", got)
	}

	if got := rec.Header().Get(SpanIDHeader); got != "span-1" {
		t.Errorf("span header = %q", got)
	}

	var body widget
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if body.Name != "a/b" {
		t.Errorf("body name = %q", body.Name)
	}
}

func TestDispatcherPathPercentRoundTrip(t *testing.T) {
	api := &fakeAPI{resp: Respond(TagOK, &widget{})}
	d := newTestDispatcher(t, api)

	for _, id := range []string{"plain", "a/b", "100%", "with space", "a+b", "ünïcødé", "日本", "q?#f", "%2F"} {
		rec := serve(d, withPrincipal(httptest.NewRequest(http.MethodGet, testPrefix+"/widgets/"+url.PathEscape(id), nil), "widgets"))
		if rec.Code != http.StatusOK {
			t.Errorf("%q: status = %d, body %q", id, rec.Code, rec.Body.String())
			continue
		}

		if got := api.last.(*getWidgetParams).WidgetID; got != id {
			t.Errorf("widget id = %q, want %q", got, id)
		}
	}
}

func TestDispatcherRoutingErrors(t *testing.T) {
	d := newTestDispatcher(t, &fakeAPI{})
	cases := []struct {
		method string
		target string
		status int
	}{
		{http.MethodGet, testPrefix + "/nothing", http.StatusNotFound},
		{http.MethodGet, testPrefix + "/widgets/a/b", http.StatusNotFound},
		{http.MethodGet, "/other/widgets", http.StatusNotFound},
		{http.MethodDelete, testPrefix + "/widgets/a", http.StatusMethodNotAllowed},
		{http.MethodGet, testPrefix + "/widgets/a/upload", http.StatusMethodNotAllowed},
	}

	for _, c := range cases {
		rec := serve(d, withPrincipal(httptest.NewRequest(c.method, c.target, nil), "widgets"))
		if rec.Code != c.status {
			t.Errorf("%s %s: status = %d, want %d", c.method, c.target, rec.Code, c.status)
		}

		if rec.Body.Len() != 0 {
			t.Errorf("%s %s: body = %q, want empty", c.method, c.target, rec.Body.String())
		}

		if got := rec.Header().Get("Content-Type"); got != "" {
			t.Errorf("%s %s: content type = %q, want none", c.method, c.target, got)
		}

		if got := rec.Header().Get(SpanIDHeader); got != "span-1" {
			t.Errorf("%s %s: span header = %q", c.method, c.target, got)
		}
	}
}

func TestDispatcherAuthorization(t *testing.T) {
	api := &fakeAPI{resp: Respond(TagOK, &widget{})}
	d := newTestDispatcher(t, api)
	target := testPrefix + "/widgets/w1"

	rec := serve(d, httptest.NewRequest(http.MethodGet, target, nil))
	if rec.Code != http.StatusForbidden || rec.Body.String() != "Unauthenticated" {
		t.Errorf("anonymous: %d %q", rec.Code, rec.Body.String())
	}

	rec = serve(d, withPrincipal(httptest.NewRequest(http.MethodGet, target, nil), "other"))
	if rec.Code != http.StatusForbidden || rec.Body.String() != "Insufficient authorization, missing scopes widgets" {
		t.Errorf("wrong scope: %d %q", rec.Code, rec.Body.String())
	}

	if api.calls != 0 {
		t.Fatalf("handler ran %d times for denied requests", api.calls)
	}

	r := httptest.NewRequest(http.MethodGet, target, nil)
	r = r.WithContext(WithRequestContext(r.Context(), RequestContext{Principal: &Principal{Scopes: AllScopes()}}))
	if rec := serve(d, r); rec.Code != http.StatusOK {
		t.Errorf("all scopes: status = %d", rec.Code)
	}

	// operations without scopes accept anonymous callers
	api.resp = Respond(TagNoContent, nil)
	if rec := serve(d, httptest.NewRequest(http.MethodPatch, target, nil)); rec.Code != http.StatusNoContent {
		t.Errorf("unscoped operation: status = %d", rec.Code)
	}
}

func TestDispatcherParameterErrors(t *testing.T) {
	d := newTestDispatcher(t, &fakeAPI{resp: Respond(TagOK, []widget{})})
	cases := []struct {
		target string
		body   string
	}{
		{testPrefix + "/widgets", "Missing required query parameter kind"},
		{testPrefix + "/widgets?kind=a&limit=ten", `Couldn't parse query parameter limit - doesn't match schema: strconv.ParseInt: parsing "ten": invalid syntax`},
		{testPrefix + "/widgets/w1?verbose=maybe", `Couldn't parse query parameter verbose - doesn't match schema: strconv.ParseBool: parsing "maybe": invalid syntax`},
		{testPrefix + "/widgets/%ff", "Couldn't percent-decode path parameter as UTF-8: widgetId"},
	}

	for _, c := range cases {
		rec := serve(d, withPrincipal(httptest.NewRequest(http.MethodGet, c.target, nil), "widgets"))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", c.target, rec.Code)
			continue
		}

		if got := rec.Body.String(); got != c.body {
			t.Errorf("%s: body = %q, want %q", c.target, got, c.body)
		}

		if got := rec.Header().Get("Content-Type"); got != "text/plain; charset=utf-8" {
			t.Errorf("%s: content type = %q", c.target, got)
		}
	}
}

func TestDispatcherJSONBody(t *testing.T) {
	api := &fakeAPI{resp: Respond(TagOK, &widget{Name: "w"})}
	d := newTestDispatcher(t, api)
	target := testPrefix + "/widgets/w1"

	body := `{"zeta":1,"name":"w","inner":{"color":"red","shade":2},"alpha":true}`
	rec := serve(d, withPrincipal(httptest.NewRequest(http.MethodPut, target, strings.NewReader(body)), "widgets"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	want := &putWidgetParams{WidgetID: "w1", Body: widget{Name: "w", Inner: &widgetInner{Color: "red"}}}
	if diff := cmp.Diff(want, api.last); diff != "" {
		t.Fatalf("bound input (-want +got):\n%s", diff)
	}

	wantWarning := `299 - "Ignoring unknown fields in body: alpha, inner.shade, zeta"`
	if got := rec.Header().Get("Warning"); got != wantWarning {
		t.Errorf("warning = %q, want %q", got, wantWarning)
	}

	rec = serve(d, withPrincipal(httptest.NewRequest(http.MethodPut, target, strings.NewReader(`{"name":"w"}`)), "widgets"))
	if got := rec.Header().Get("Warning"); got != "" {
		t.Errorf("unexpected warning %q", got)
	}

	rec = serve(d, withPrincipal(httptest.NewRequest(http.MethodPut, target, nil), "widgets"))
	if rec.Code != http.StatusBadRequest || rec.Body.String() != "Missing required body parameter Widget" {
		t.Errorf("missing body: %d %q", rec.Code, rec.Body.String())
	}

	rec = serve(d, withPrincipal(httptest.NewRequest(http.MethodPut, target, strings.NewReader(`{"name":5}`)), "widgets"))
	if rec.Code != http.StatusBadRequest || !strings.HasPrefix(rec.Body.String(), "Couldn't parse body parameter Widget - doesn't match schema: ") {
		t.Errorf("mistyped body: %d %q", rec.Code, rec.Body.String())
	}

	calls := api.calls
	rec = serve(d, withPrincipal(httptest.NewRequest(http.MethodPut, target, strings.NewReader(" null\n")), "widgets"))
	if rec.Code != http.StatusBadRequest || !strings.HasPrefix(rec.Body.String(), "Couldn't parse body parameter Widget - doesn't match schema: ") {
		t.Errorf("null body: %d %q", rec.Code, rec.Body.String())
	}

	if api.calls != calls {
		t.Errorf("handler invoked for a null body")
	}
}

func TestDispatcherOptionalBody(t *testing.T) {
	api := &fakeAPI{resp: Respond(TagNoContent, nil)}
	d := newTestDispatcher(t, api)

	rec := serve(d, httptest.NewRequest(http.MethodPatch, testPrefix+"/widgets/w1", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}

	if in := api.last.(*patchWidgetParams); in.Body != nil {
		t.Errorf("body = %+v, want nil", in.Body)
	}

	if rec.Body.Len() != 0 || rec.Header().Get("Content-Type") != "" {
		t.Errorf("no content response carried a body: %q", rec.Body.String())
	}

	serve(d, httptest.NewRequest(http.MethodPatch, testPrefix+"/widgets/w1", strings.NewReader(`{"name":"p"}`)))
	if in := api.last.(*patchWidgetParams); in.Body == nil || in.Body.Name != "p" {
		t.Errorf("body = %+v", in.Body)
	}

	rec = serve(d, httptest.NewRequest(http.MethodPatch, testPrefix+"/widgets/w1", strings.NewReader("null")))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("optional null body: status = %d", rec.Code)
	}

	if in := api.last.(*patchWidgetParams); in.Body != nil {
		t.Errorf("optional null body bound as %+v", in.Body)
	}
}

func TestDispatcherMultipartBody(t *testing.T) {
	api := &fakeAPI{resp: Respond(TagNoContent, nil)}
	d := newTestDispatcher(t, api)
	target := testPrefix + "/widgets/w1/upload"

	r := multipartRequest(t, target,
		[2]string{"application/json", `{"name":"first"}`},
		[2]string{"application/octet-stream", "\x00\x01\x02"},
		[2]string{"application/json", `{"name":"second"}`},
		[2]string{"application/vnd.unknown", "zz"},
	)

	rec := serve(d, r)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	want := &uploadParams{WidgetID: "w1", Meta: widget{Name: "first"}, Blob: []byte{0, 1, 2}}
	if diff := cmp.Diff(want, api.last); diff != "" {
		t.Fatalf("bound input (-want +got):\n%s", diff)
	}

	wantWarning := `299 - "Ignoring unknown fields in body: application/json, application/vnd.unknown"`
	if got := rec.Header().Get("Warning"); got != wantWarning {
		t.Errorf("warning = %q, want %q", got, wantWarning)
	}
}

func TestDispatcherMultipartOptionalPartAbsent(t *testing.T) {
	api := &fakeAPI{resp: Respond(TagNoContent, nil)}
	d := newTestDispatcher(t, api)

	rec := serve(d, multipartRequest(t, testPrefix+"/widgets/w1/upload", [2]string{"application/json; charset=utf-8", `{"name":"only"}`}))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	in := api.last.(*uploadParams)
	if in.Meta.Name != "only" || in.Blob != nil {
		t.Errorf("bound input = %+v", in)
	}

	if got := rec.Header().Get("Warning"); got != "" {
		t.Errorf("unexpected warning %q", got)
	}
}

func TestDispatcherMultipartErrors(t *testing.T) {
	api := &fakeAPI{resp: Respond(TagNoContent, nil)}
	d := newTestDispatcher(t, api)
	target := testPrefix + "/widgets/w1/upload"

	missing := multipartRequest(t, target, [2]string{"application/octet-stream", "abc"})
	noType := httptest.NewRequest(http.MethodPost, target, strings.NewReader("x"))
	notMultipart := httptest.NewRequest(http.MethodPost, target, strings.NewReader("{}"))
	notMultipart.Header.Set("Content-Type", "application/json")
	noBoundary := httptest.NewRequest(http.MethodPost, target, strings.NewReader("x"))
	noBoundary.Header.Set("Content-Type", "multipart/related")
	truncated := httptest.NewRequest(http.MethodPost, target, strings.NewReader("--b\r\nContent-Type: application/json\r\n\r\n{\"name\":"))
	truncated.Header.Set("Content-Type", "multipart/related; boundary=b")
	badPart := multipartRequest(t, target, [2]string{"application/json", `{"name":1}`})
	nullPart := multipartRequest(t, target, [2]string{"application/json", "null"})

	cases := []struct {
		name   string
		r      *http.Request
		prefix string
	}{
		{"missing part", missing, "Missing required multipart/related parameter meta"},
		{"no content type", noType, "Unable to parse content-type header for Upload: missing content-type"},
		{"not multipart", notMultipart, "Unable to parse content-type header for Upload: expected a multipart media type"},
		{"no boundary", noBoundary, "Unable to parse content-type header for Upload: missing boundary"},
		{"truncated", truncated, "Couldn't read multipart body for Upload: "},
		{"mistyped part", badPart, "Couldn't parse body parameter meta - doesn't match schema: "},
		{"null part", nullPart, "Couldn't parse body parameter meta - doesn't match schema: "},
	}

	for _, c := range cases {
		rec := serve(d, c.r)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", c.name, rec.Code)
			continue
		}

		if !strings.HasPrefix(rec.Body.String(), c.prefix) {
			t.Errorf("%s: body = %q, want prefix %q", c.name, rec.Body.String(), c.prefix)
		}
	}

	if api.calls != 0 {
		t.Errorf("handler invoked %d times for rejected uploads", api.calls)
	}
}

func TestDispatcherMultipartPartWithoutType(t *testing.T) {
	api := &fakeAPI{resp: Respond(TagNoContent, nil)}
	d := newTestDispatcher(t, api)

	rec := serve(d, multipartRequest(t, testPrefix+"/widgets/w1/upload",
		[2]string{"", "loose"},
		[2]string{"application/json", `{"name":"m"}`},
	))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}

	if got := rec.Header().Get("Warning"); !strings.Contains(got, "(no content type)") {
		t.Errorf("warning = %q", got)
	}
}

func TestDispatcherReadiness(t *testing.T) {
	api := &fakeAPI{notReady: true, resp: Respond(TagOK, []widget{})}
	d := newTestDispatcher(t, api)

	rec := serve(d, httptest.NewRequest(http.MethodGet, testPrefix+"/widgets?kind=a", nil))
	if rec.Code != http.StatusServiceUnavailable || rec.Body.String() != "Service not ready" {
		t.Errorf("not ready: %d %q", rec.Code, rec.Body.String())
	}

	// parameter errors are reported before readiness
	rec = serve(d, httptest.NewRequest(http.MethodGet, testPrefix+"/widgets", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad request while not ready: status = %d", rec.Code)
	}

	if api.calls != 0 {
		t.Fatalf("handler ran %d times while not ready", api.calls)
	}
}

func TestDispatcherHandlerFault(t *testing.T) {
	api := &fakeAPI{err: errors.New("storage exploded")}
	d := newTestDispatcher(t, api)

	rec := serve(d, httptest.NewRequest(http.MethodGet, testPrefix+"/widgets?kind=a", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}

	if got := rec.Body.String(); got != "An internal error occurred" {
		t.Errorf("body = %q", got)
	}

	if strings.Contains(rec.Body.String(), "exploded") {
		t.Errorf("handler error leaked to the peer")
	}
}

func TestDispatcherGenericError(t *testing.T) {
	api := &fakeAPI{resp: Respond(TagGenericError, &problem{Detail: "upstream"})}
	d := newTestDispatcher(t, api)

	rec := serve(d, withPrincipal(httptest.NewRequest(http.MethodGet, testPrefix+"/widgets/w1", nil), "widgets"))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}

	if got := rec.Header().Get("Content-Type"); got != ContentTypeProblem {
		t.Errorf("content type = %q", got)
	}
}

func TestDispatcherLocation(t *testing.T) {
	api := &fakeAPI{resp: Respond(TagCreated, &widget{Name: "w"}).WithLocation("http://example.com/widgets/w1")}
	d := newTestDispatcher(t, api)
	target := testPrefix + "/widgets/w1"

	rec := serve(d, withPrincipal(httptest.NewRequest(http.MethodPut, target, strings.NewReader(`{"name":"w"}`)), "widgets"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}

	if got := rec.Header().Get("Location"); got != "http://example.com/widgets/w1" {
		t.Errorf("location = %q", got)
	}

	api.resp = Respond(TagCreated, &widget{Name: "w"})
	rec = serve(d, withPrincipal(httptest.NewRequest(http.MethodPut, target, strings.NewReader(`{"name":"w"}`)), "widgets"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("missing location: status = %d", rec.Code)
	}

	if got := rec.Body.String(); got != "An internal server error occurred handling Location header - value is required" {
		t.Errorf("missing location: body = %q", got)
	}

	if rec.Header().Get("Location") != "" {
		t.Errorf("missing location: Location header set")
	}
}

func TestNewRejectsInvalidTables(t *testing.T) {
	ok := []Variant{Empty(TagNoContent, http.StatusNoContent)}
	cases := []struct {
		name string
		ops  []Operation[*fakeAPI]
		opts Options
	}{
		{
			name: "generic status out of range",
			ops:  widgetOperations(),
			opts: Options{GenericErrorStatus: 700},
		},
		{
			name: "same shape and method",
			ops: []Operation[*fakeAPI]{
				Bind(Descriptor{Name: "A", Method: http.MethodPatch, Path: "/w/{a}", Variants: ok}, (*fakeAPI).PatchWidget),
				Bind(Descriptor{Name: "B", Method: http.MethodPatch, Path: "/w/{widgetId}", Variants: ok}, (*fakeAPI).PatchWidget),
			},
		},
		{
			name: "duplicate name",
			ops: []Operation[*fakeAPI]{
				Bind(Descriptor{Name: "A", Method: http.MethodPatch, Path: "/w/{widgetId}", Variants: ok}, (*fakeAPI).PatchWidget),
				Bind(Descriptor{Name: "A", Method: http.MethodPut, Path: "/w/{widgetId}", Variants: ok}, (*fakeAPI).PutWidget),
			},
		},
		{
			name: "capture without parameter",
			ops: []Operation[*fakeAPI]{
				Bind(Descriptor{Name: "A", Method: http.MethodGet, Path: "/w/{other}", Variants: ok}, (*fakeAPI).PatchWidget),
			},
		},
		{
			name: "shared status",
			ops: []Operation[*fakeAPI]{
				Bind(Descriptor{Name: "A", Path: "/w/{widgetId}", Variants: []Variant{
					Empty(TagNoContent, http.StatusNoContent),
					Empty(TagOK, http.StatusNoContent),
				}}, (*fakeAPI).PatchWidget),
			},
		},
	}

	for _, c := range cases {
		if _, err := New[*fakeAPI](&fakeAPI{}, c.ops, c.opts); err == nil {
			t.Errorf("%s: New succeeded, want error", c.name)
		}
	}
}
