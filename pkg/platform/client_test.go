package platform

import (
	"context"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/analyzere/extras/pkg/cache"
	"github.com/analyzere/extras/pkg/errors"
)

const lvID = "ee3f8420-c583-4dd4-9f9d-8ade29b0d82f"

const lvDoc = `{"id": "ee3f8420-c583-4dd4-9f9d-8ade29b0d82f", "layer": {"_type": "CatXL", "nth": 1}}`

// serve starts an in-memory fasthttp server and returns a client wired to it.
func serve(t *testing.T, handler fasthttp.RequestHandler, opts ...Option) *Client {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: handler}
	go srv.Serve(ln) //nolint:errcheck
	t.Cleanup(func() { _ = ln.Close() })

	hc := &fasthttp.Client{Dial: func(string) (net.Conn, error) { return ln.Dial() }}
	opts = append([]Option{WithHTTPClient(hc)}, opts...)
	c, err := NewClient(Config{
		BaseURL:  "http://platform.test/",
		Username: "user",
		Password: "secret",
		Backoff:  time.Millisecond,
	}, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestLayerView(t *testing.T) {
	var gotPath, gotAuth string
	c := serve(t, func(ctx *fasthttp.RequestCtx) {
		gotPath = string(ctx.Path())
		gotAuth = string(ctx.Request.Header.Peek("Authorization"))
		ctx.SetContentType("application/json")
		ctx.SetBodyString(lvDoc)
	})

	lv, err := c.LayerView(context.Background(), lvID)
	if err != nil {
		t.Fatalf("LayerView: %v", err)
	}
	if lv.ID != lvID || lv.Layer.Type != "CatXL" {
		t.Errorf("LayerView = %+v", lv)
	}
	if gotPath != "/layer_views/"+lvID {
		t.Errorf("path = %q", gotPath)
	}
	if !strings.HasPrefix(gotAuth, "Basic ") {
		t.Errorf("Authorization = %q, want basic auth", gotAuth)
	}
}

func TestLayerViewStatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCode  errors.Code
		wantCalls int32
	}{
		{"not found", fasthttp.StatusNotFound, errors.ErrCodeNotFound, 1},
		{"unauthorized", fasthttp.StatusUnauthorized, errors.ErrCodeUnauthorized, 1},
		{"bad request", fasthttp.StatusBadRequest, errors.ErrCodeNetwork, 1},
		{"server error retried", fasthttp.StatusBadGateway, errors.ErrCodeNetwork, DefaultAttempts},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			c := serve(t, func(ctx *fasthttp.RequestCtx) {
				calls.Add(1)
				ctx.SetStatusCode(tt.status)
			})

			_, err := c.LayerView(context.Background(), lvID)
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want %s", err, tt.wantCode)
			}
			if got := calls.Load(); got != tt.wantCalls {
				t.Errorf("requests = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestLayerViewRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	c := serve(t, func(ctx *fasthttp.RequestCtx) {
		switch calls.Add(1) {
		case 1:
			ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
		case 2:
			ctx.SetBodyString(lvDoc[:20]) // truncated body
		default:
			ctx.SetBodyString(lvDoc)
		}
	})

	lv, err := c.LayerView(context.Background(), lvID)
	if err != nil {
		t.Fatalf("LayerView: %v", err)
	}
	if lv.ID != lvID {
		t.Errorf("ID = %q", lv.ID)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("requests = %d, want 3", got)
	}
}

func TestLayerViewCache(t *testing.T) {
	var calls atomic.Int32
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := serve(t, func(ctx *fasthttp.RequestCtx) {
		calls.Add(1)
		ctx.SetBodyString(lvDoc)
	}, WithCache(fc, time.Hour))

	for i := 0; i < 3; i++ {
		if _, err := c.LayerView(context.Background(), lvID); err != nil {
			t.Fatalf("LayerView #%d: %v", i, err)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("requests = %d, want 1 (cached)", got)
	}
}

func TestLayerViewInvalidID(t *testing.T) {
	c := serve(t, func(ctx *fasthttp.RequestCtx) {
		t.Error("request sent for invalid id")
	})
	if _, err := c.LayerView(context.Background(), "../etc/passwd"); !errors.Is(err, errors.ErrCodeInvalidID) {
		t.Errorf("error = %v, want INVALID_ID", err)
	}
}

func TestLayerViewInvalidDocument(t *testing.T) {
	c := serve(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetBodyString(`{"something": "here"}`)
	})
	if _, err := c.LayerView(context.Background(), lvID); !errors.Is(err, errors.ErrCodeInvalidLayerView) {
		t.Errorf("error = %v, want INVALID_LAYER_VIEW", err)
	}
}

func TestNewClientValidatesURL(t *testing.T) {
	if _, err := NewClient(Config{BaseURL: "ftp://example.com"}); err == nil {
		t.Error("expected error for ftp URL")
	}
	c, err := NewClient(Config{BaseURL: "https://api.analyzere.net/"})
	if err != nil {
		t.Fatal(err)
	}
	if c.BaseURL() != "https://api.analyzere.net" {
		t.Errorf("BaseURL() = %q", c.BaseURL())
	}
}
