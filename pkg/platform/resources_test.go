package platform

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/analyzere/extras/pkg/errors"
	"github.com/analyzere/extras/pkg/model"
)

type request struct {
	method, path, query, contentType, contentRange, body string
}

// recorder captures requests and answers them from a route table keyed by
// "METHOD path".
type recorder struct {
	mu       sync.Mutex
	requests []request
	routes   map[string]func(*fasthttp.RequestCtx)
}

func (r *recorder) handle(ctx *fasthttp.RequestCtx) {
	r.mu.Lock()
	r.requests = append(r.requests, request{
		method:       string(ctx.Method()),
		path:         string(ctx.Path()),
		query:        string(ctx.QueryArgs().QueryString()),
		contentType:  string(ctx.Request.Header.ContentType()),
		contentRange: string(ctx.Request.Header.Peek("Content-Range")),
		body:         string(ctx.PostBody()),
	})
	r.mu.Unlock()

	if h, ok := r.routes[string(ctx.Method())+" "+string(ctx.Path())]; ok {
		h(ctx)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusNotFound)
}

func reply(status int, body string) func(*fasthttp.RequestCtx) {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(status)
		ctx.SetBodyString(body)
	}
}

func TestCreateLayerView(t *testing.T) {
	rec := &recorder{routes: map[string]func(*fasthttp.RequestCtx){
		"POST /layer_views/": reply(fasthttp.StatusOK, `{"id": "1"}`),
	}}
	c := serve(t, rec.handle)

	id, err := c.CreateLayerView(context.Background(), NewLayerView{
		AnalysisProfile: Ref{RefID: "ap1"},
		Layer: FilterLayer{
			Type:        model.TypeFilterLayer,
			Description: "Event 1",
			Filters:     []model.LossFilter{{Type: "AnyOfFilter", Name: "Event 1", Attribute: "EventID", Values: []any{1}}},
			LossSets:    []Ref{{RefID: "abc123"}},
		},
	})
	if err != nil {
		t.Fatalf("CreateLayerView: %v", err)
	}
	if id != "1" {
		t.Errorf("id = %q, want 1", id)
	}

	var body struct {
		AnalysisProfile Ref `json:"analysis_profile"`
		Layer           struct {
			Type     string             `json:"_type"`
			Filters  []model.LossFilter `json:"filters"`
			LossSets []Ref              `json:"loss_sets"`
		} `json:"layer"`
	}
	if err := json.Unmarshal([]byte(rec.requests[0].body), &body); err != nil {
		t.Fatalf("request body: %v", err)
	}
	if body.AnalysisProfile.RefID != "ap1" || body.Layer.Type != "FilterLayer" ||
		len(body.Layer.Filters) != 1 || body.Layer.LossSets[0].RefID != "abc123" {
		t.Errorf("request body = %+v", body)
	}
	if rec.requests[0].contentType != "application/json" {
		t.Errorf("content type = %q", rec.requests[0].contentType)
	}
}

func TestYELT(t *testing.T) {
	const csv = "Trial,EventId,Sequence,Loss\n1,3,0.0,100.0\n"
	rec := &recorder{routes: map[string]func(*fasthttp.RequestCtx){
		"GET /layer_views/3/yelt": reply(fasthttp.StatusOK, csv),
	}}
	c := serve(t, rec.handle)

	got, err := c.YELT(context.Background(), "3")
	if err != nil {
		t.Fatalf("YELT: %v", err)
	}
	if string(got) != csv {
		t.Errorf("YELT = %q", got)
	}
	if q := rec.requests[0].query; q != "secondary_uncertainty=false" {
		t.Errorf("query = %q", q)
	}

	if _, err := c.YELT(context.Background(), "9"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("YELT(missing) error = %v, want NOT_FOUND", err)
	}
	if _, err := c.YELT(context.Background(), ""); !errors.Is(err, errors.ErrCodeInvalidID) {
		t.Errorf("YELT(\"\") error = %v, want INVALID_ID", err)
	}
}

func TestFindDistribution(t *testing.T) {
	rec := &recorder{routes: map[string]func(*fasthttp.RequestCtx){
		"GET /distributions/": func(ctx *fasthttp.RequestCtx) {
			if strings.Contains(string(ctx.QueryArgs().Peek("search")), "Frequency") {
				ctx.SetBodyString(`[{"id": "d7", "_type": "BinomialDistribution", "description": "Frequency 1.0"}]`)
				return
			}
			ctx.SetBodyString(`[]`)
		},
	}}
	c := serve(t, rec.handle)

	d, err := c.FindDistribution(context.Background(), "Generated Resource: Frequency 1.0")
	if err != nil {
		t.Fatal(err)
	}
	if d == nil || d.ID != "d7" || d.Type != "BinomialDistribution" {
		t.Errorf("FindDistribution = %+v", d)
	}
	if q := rec.requests[0].query; q != "search=Generated+Resource%3A+Frequency+1.0" {
		t.Errorf("query = %q", q)
	}

	d, err = c.FindDistribution(context.Background(), "Seasonality 0.0")
	if err != nil || d != nil {
		t.Errorf("FindDistribution(none) = %+v, %v; want nil, nil", d, err)
	}
}

func TestCreateDistributionAndUpload(t *testing.T) {
	var polls int
	rec := &recorder{routes: map[string]func(*fasthttp.RequestCtx){
		"POST /distributions/":               reply(fasthttp.StatusOK, `{"id": "d1"}`),
		"POST /distributions/d1/data":        reply(fasthttp.StatusCreated, "data"),
		"PATCH /distributions/d1/data":       reply(fasthttp.StatusNoContent, ""),
		"POST /distributions/d1/data/commit": reply(fasthttp.StatusNoContent, ""),
		"GET /distributions/d1/data/status": func(ctx *fasthttp.RequestCtx) {
			polls++
			if polls == 1 {
				ctx.SetBodyString(`{"status": "Processing"}`)
				return
			}
			ctx.SetBodyString(`{"status": "Processing Successful"}`)
		},
	}}
	c := serve(t, rec.handle)
	c.cfg.PollInterval = time.Millisecond

	p := 0.5
	d, err := c.CreateDistribution(context.Background(), Distribution{Type: "BinomialDistribution", Description: "freq", P: &p})
	if err != nil {
		t.Fatalf("CreateDistribution: %v", err)
	}
	if d.ID != "d1" || d.Type != "BinomialDistribution" || *d.P != 0.5 {
		t.Errorf("CreateDistribution = %+v", d)
	}
	if body := rec.requests[0].body; !strings.Contains(body, `"p":0.5`) || strings.Contains(body, `"n"`) {
		t.Errorf("create body = %s", body)
	}

	data := []byte("Probability,Loss\n1.0,100.0\n")
	if err := c.UploadDistributionData(context.Background(), "d1", data); err != nil {
		t.Fatalf("UploadDistributionData: %v", err)
	}

	var got []string
	for _, r := range rec.requests[1:] {
		got = append(got, r.method+" "+r.path)
	}
	want := []string{
		"POST /distributions/d1/data",
		"PATCH /distributions/d1/data",
		"POST /distributions/d1/data/commit",
		"GET /distributions/d1/data/status",
		"GET /distributions/d1/data/status",
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("requests =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
	if r := rec.requests[1]; r.body != `{"total_size":27}` {
		t.Errorf("upload start body = %s", r.body)
	}
	if r := rec.requests[2]; r.body != string(data) || r.contentRange != "bytes 0-26/27" {
		t.Errorf("patch = %+v", r)
	}
}

func TestUploadProcessingFailed(t *testing.T) {
	rec := &recorder{routes: map[string]func(*fasthttp.RequestCtx){
		"POST /distributions/d1/data":        reply(fasthttp.StatusCreated, ""),
		"PATCH /distributions/d1/data":       reply(fasthttp.StatusNoContent, ""),
		"POST /distributions/d1/data/commit": reply(fasthttp.StatusNoContent, ""),
		"GET /distributions/d1/data/status":  reply(fasthttp.StatusOK, `{"status": "Processing Failed", "errors": ["bad row"]}`),
	}}
	c := serve(t, rec.handle)

	err := c.UploadDistributionData(context.Background(), "d1", []byte("x"))
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("error = %v, want INTERNAL_ERROR", err)
	}
}

func TestUploadWaitHonoursContext(t *testing.T) {
	rec := &recorder{routes: map[string]func(*fasthttp.RequestCtx){
		"POST /distributions/d1/data":        reply(fasthttp.StatusCreated, ""),
		"PATCH /distributions/d1/data":       reply(fasthttp.StatusNoContent, ""),
		"POST /distributions/d1/data/commit": reply(fasthttp.StatusNoContent, ""),
		"GET /distributions/d1/data/status":  reply(fasthttp.StatusOK, `{"status": "Processing"}`),
	}}
	c := serve(t, rec.handle)
	c.cfg.PollInterval = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := c.UploadDistributionData(ctx, "d1", []byte("x")); !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("error = %v, want TIMEOUT", err)
	}
}

func TestCreateLossSet(t *testing.T) {
	rec := &recorder{routes: map[string]func(*fasthttp.RequestCtx){
		"POST /loss_sets/": reply(fasthttp.StatusOK, `{"id": "ls1", "server_generate": "foo"}`),
	}}
	c := serve(t, rec.handle)

	ls, err := c.CreateLossSet(context.Background(), ParametricLossSet{
		Type:        "ParametricLossSet",
		Frequency:   Ref{RefID: "d2"},
		Seasonality: Ref{RefID: "d3"},
		Severity:    Ref{RefID: "d1"},
		MetaData:    map[string]any{"_type": "AnalogousEventLossSet"},
	})
	if err != nil {
		t.Fatalf("CreateLossSet: %v", err)
	}
	if ls.ID != "ls1" || ls.Severity.RefID != "d1" || ls.MetaData["_type"] != "AnalogousEventLossSet" {
		t.Errorf("CreateLossSet = %+v", ls)
	}
	body := rec.requests[0].body
	for _, want := range []string{`"_type":"ParametricLossSet"`, `"severity":{"ref_id":"d1"}`, `"meta_data":{"_type":"AnalogousEventLossSet"}`} {
		if !strings.Contains(body, want) {
			t.Errorf("body %s missing %s", body, want)
		}
	}
}

func TestCreateWithoutID(t *testing.T) {
	rec := &recorder{routes: map[string]func(*fasthttp.RequestCtx){
		"POST /layer_views/": reply(fasthttp.StatusOK, `{}`),
	}}
	c := serve(t, rec.handle)

	if _, err := c.CreateLayerView(context.Background(), NewLayerView{}); !errors.Is(err, errors.ErrCodeNetwork) {
		t.Errorf("error = %v, want NETWORK_ERROR", err)
	}
}
