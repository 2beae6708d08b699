package platform

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/analyzere/extras/pkg/errors"
	"github.com/analyzere/extras/pkg/model"
)

// UploadChunkSize is the largest body sent in one PATCH of a data upload.
const UploadChunkSize = 16 << 20

// Upload processing states reported by the platform.
const (
	StatusProcessingSuccessful = "Processing Successful"
	StatusProcessingFailed     = "Processing Failed"
)

// Ref points at a stored platform resource.
type Ref struct {
	RefID string `json:"ref_id"`
}

// FilterLayer is a FilterLayer as sent on creation, with its loss sets given
// by reference.
type FilterLayer struct {
	Type        string             `json:"_type"`
	Description string             `json:"description,omitempty"`
	Filters     []model.LossFilter `json:"filters"`
	LossSets    []Ref              `json:"loss_sets"`
}

// NewLayerView is the body of a layer view creation.
type NewLayerView struct {
	AnalysisProfile Ref `json:"analysis_profile"`
	Layer           any `json:"layer"`
}

// Distribution is a stored probability distribution. Only the fields of the
// distribution's type are set.
type Distribution struct {
	ID          string   `json:"id,omitempty"`
	Type        string   `json:"_type"`
	Description string   `json:"description,omitempty"`
	N           *int     `json:"n,omitempty"`
	P           *float64 `json:"p,omitempty"`
	Value       *float64 `json:"value,omitempty"`
}

// ParametricLossSet is a loss set defined by frequency, seasonality and
// severity distributions.
type ParametricLossSet struct {
	ID          string         `json:"id,omitempty"`
	Type        string         `json:"_type"`
	Description string         `json:"description,omitempty"`
	Frequency   Ref            `json:"frequency"`
	Seasonality Ref            `json:"seasonality"`
	Severity    Ref            `json:"severity"`
	MetaData    map[string]any `json:"meta_data,omitempty"`
}

type created struct {
	ID string `json:"id"`
}

// CreateLayerView saves lv and returns the new layer view's id.
func (c *Client) CreateLayerView(ctx context.Context, lv NewLayerView) (string, error) {
	body, err := c.postJSON(ctx, "/layer_views/", lv)
	if err != nil {
		return "", err
	}
	var out created
	if err := json.Unmarshal(body, &out); err != nil || out.ID == "" {
		return "", errors.New(errors.ErrCodeNetwork, "layer view creation returned no id")
	}
	return out.ID, nil
}

// YELT downloads the year event loss table of a layer view as CSV, without
// secondary uncertainty.
func (c *Client) YELT(ctx context.Context, layerViewID string) ([]byte, error) {
	if layerViewID == "" {
		return nil, errors.New(errors.ErrCodeInvalidID, "layer view id cannot be empty")
	}
	return c.send(ctx, call{
		method: fasthttp.MethodGet,
		path:   "/layer_views/" + url.PathEscape(layerViewID) + "/yelt",
		query:  url.Values{"secondary_uncertainty": {"false"}},
		raw:    true,
	})
}

// FindDistribution returns the first distribution matching search, or nil.
func (c *Client) FindDistribution(ctx context.Context, search string) (*Distribution, error) {
	body, err := c.send(ctx, call{
		method: fasthttp.MethodGet,
		path:   "/distributions/",
		query:  url.Values{"search": {search}},
	})
	if err != nil {
		return nil, err
	}
	var found []Distribution
	if err := json.Unmarshal(body, &found); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "decode distribution list")
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

// CreateDistribution saves d and returns it as stored.
func (c *Client) CreateDistribution(ctx context.Context, d Distribution) (Distribution, error) {
	body, err := c.postJSON(ctx, "/distributions/", d)
	if err != nil {
		return Distribution{}, err
	}
	if err := json.Unmarshal(body, &d); err != nil || d.ID == "" {
		return Distribution{}, errors.New(errors.ErrCodeNetwork, "distribution creation returned no id")
	}
	return d, nil
}

// UploadDistributionData uploads data to a distribution, commits it and
// waits until the platform has processed it.
func (c *Client) UploadDistributionData(ctx context.Context, id string, data []byte) error {
	if id == "" {
		return errors.New(errors.ErrCodeInvalidID, "distribution id cannot be empty")
	}
	path := "/distributions/" + url.PathEscape(id) + "/data"

	start, err := json.Marshal(map[string]int{"total_size": len(data)})
	if err != nil {
		return err
	}
	if _, err := c.send(ctx, call{method: fasthttp.MethodPost, path: path, body: start, contentType: "application/json", raw: true}); err != nil {
		return err
	}

	for off := 0; off < len(data); off += UploadChunkSize {
		end := min(off+UploadChunkSize, len(data))
		_, err := c.send(ctx, call{
			method:       fasthttp.MethodPatch,
			path:         path,
			body:         data[off:end],
			contentType:  "application/octet-stream",
			contentRange: fmt.Sprintf("bytes %d-%d/%d", off, end-1, len(data)),
			raw:          true,
		})
		if err != nil {
			return err
		}
	}

	if _, err := c.send(ctx, call{method: fasthttp.MethodPost, path: path + "/commit", body: []byte("{}"), contentType: "application/json", raw: true}); err != nil {
		return err
	}
	return c.waitProcessed(ctx, path+"/status")
}

func (c *Client) waitProcessed(ctx context.Context, path string) error {
	for {
		body, err := c.send(ctx, call{method: fasthttp.MethodGet, path: path})
		if err != nil {
			return err
		}
		var st struct {
			Status string `json:"status"`
			Errors any    `json:"errors,omitempty"`
		}
		if err := json.Unmarshal(body, &st); err != nil {
			return errors.Wrap(errors.ErrCodeNetwork, err, "decode upload status")
		}
		switch st.Status {
		case StatusProcessingSuccessful:
			return nil
		case StatusProcessingFailed:
			return errors.New(errors.ErrCodeInternal, "platform failed to process upload %s: %v", path, st.Errors)
		}
		c.logger.Debug("waiting for upload processing", "path", path, "status", st.Status)

		t := time.NewTimer(c.cfg.PollInterval)
		select {
		case <-ctx.Done():
			t.Stop()
			return errors.Wrap(errors.ErrCodeTimeout, ctx.Err(), "wait for %s", path)
		case <-t.C:
		}
	}
}

// CreateLossSet saves ls and returns it as stored.
func (c *Client) CreateLossSet(ctx context.Context, ls ParametricLossSet) (ParametricLossSet, error) {
	body, err := c.postJSON(ctx, "/loss_sets/", ls)
	if err != nil {
		return ParametricLossSet{}, err
	}
	if err := json.Unmarshal(body, &ls); err != nil || ls.ID == "" {
		return ParametricLossSet{}, errors.New(errors.ErrCodeNetwork, "loss set creation returned no id")
	}
	return ls, nil
}

func (c *Client) postJSON(ctx context.Context, path string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode %s", path)
	}
	return c.send(ctx, call{method: fasthttp.MethodPost, path: path, body: body, contentType: "application/json"})
}
