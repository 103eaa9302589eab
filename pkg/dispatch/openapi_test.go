package dispatch

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var sortStrings = cmpopts.SortSlices(func(a, b string) bool { return a < b })

func TestAddToOpenAPI(t *testing.T) {
	d := newTestDispatcher(t, &fakeAPI{})
	doc := NewOpenAPI("widgets", "1.0.0")
	d.AddToOpenAPI(doc)

	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("document does not validate: %v", err)
	}

	var paths []string
	for path := range doc.Paths {
		paths = append(paths, path)
	}

	want := []string{testPrefix + "/widgets", testPrefix + "/widgets/{widgetId}", testPrefix + "/widgets/{widgetId}/upload"}
	if diff := cmp.Diff(want, paths, sortStrings); diff != "" {
		t.Fatalf("paths (-want +got):\n%s", diff)
	}

	item := doc.Paths[testPrefix+"/widgets/{widgetId}"]
	get := item.GetOperation(http.MethodGet)
	if get == nil || get.OperationID != "GetWidget" {
		t.Fatalf("GET operation = %+v", get)
	}

	if get.Description != "Requires scopes: widgets" {
		t.Errorf("description = %q", get.Description)
	}

	var params []string
	for _, p := range get.Parameters {
		params = append(params, p.Value.In+":"+p.Value.Name)
	}

	if diff := cmp.Diff([]string{"path:widgetId", "query:verbose", "query:tags", "header:X-Trace"}, params); diff != "" {
		t.Errorf("parameters (-want +got):\n%s", diff)
	}

	redirect := get.Responses["307"]
	if redirect == nil || redirect.Value.Headers["Location"] == nil || redirect.Value.Headers[TargetNfIDHeader] == nil {
		t.Errorf("307 response is missing its headers: %+v", redirect)
	}

	put := item.GetOperation(http.MethodPut)
	body := put.RequestBody.Value
	if !body.Required || body.Content.Get(ContentTypeJSON) == nil {
		t.Errorf("put body = %+v", body)
	}

	schema := body.Content.Get(ContentTypeJSON).Schema.Value
	if diff := cmp.Diff([]string{"name"}, schema.Required); diff != "" {
		t.Errorf("widget required (-want +got):\n%s", diff)
	}

	upload := doc.Paths[testPrefix+"/widgets/{widgetId}/upload"].GetOperation(http.MethodPost)
	parts := upload.RequestBody.Value.Content.Get(ContentTypeMultipart).Schema.Value
	if parts.Properties["blob"].Value.Format != "binary" {
		t.Errorf("blob part format = %q", parts.Properties["blob"].Value.Format)
	}

	if diff := cmp.Diff([]string{"meta"}, parts.Required); diff != "" {
		t.Errorf("required parts (-want +got):\n%s", diff)
	}
}

func TestDescribe(t *testing.T) {
	d := newTestDispatcher(t, &fakeAPI{})
	routes := d.Describe()
	if len(routes) != 5 {
		t.Fatalf("described %d routes, want 5", len(routes))
	}

	get := routes[0]
	if get.Name != "GetWidget" || get.Path != testPrefix+"/widgets/{widgetId}" {
		t.Fatalf("first route = %s %s", get.Name, get.Path)
	}

	req := get.Methods[0].Requests[0]
	if len(req.PathParameters) != 1 || req.PathParameters[0].Name != "widgetId" {
		t.Errorf("path parameters = %+v", req.PathParameters)
	}

	var successes, failures []int
	for _, s := range req.Successes {
		successes = append(successes, s.StatusCode)
	}

	for _, f := range req.Failures {
		failures = append(failures, f.StatusCode)
	}

	if diff := cmp.Diff([]int{200, 307}, successes); diff != "" {
		t.Errorf("successes (-want +got):\n%s", diff)
	}

	// documented variants first, then the dispatcher's own failures
	if diff := cmp.Diff([]int{404, 0, 400, 403, 500, 503}, failures); diff != "" {
		t.Errorf("failures (-want +got):\n%s", diff)
	}

	upload := routes[3].Methods[0].Requests[0]
	if upload.Body.ContentType != ContentTypeMultipart || upload.Body.Format != "meta (application/json), blob (application/octet-stream)" {
		t.Errorf("upload body = %+v", upload.Body)
	}
}
