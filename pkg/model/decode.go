package model

import (
	"bytes"
	"os"

	"github.com/goccy/go-json"

	"github.com/analyzere/extras/pkg/errors"
)

// DecodeLayerView parses a LayerView document ({"id": ..., "layer": {...}}).
func DecodeLayerView(data []byte) (*LayerView, error) {
	schemas, err := loadSchemas()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load schemas")
	}
	if err := validateAgainst(schemas.layerView, data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayerView, err, "must supply a valid LayerView")
	}

	var lv LayerView
	if err := json.Unmarshal(data, &lv); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayerView, err, "must supply a valid LayerView")
	}
	if err := lv.Validate(); err != nil {
		return nil, err
	}
	return &lv, nil
}

// DecodeLayer parses a bare layer document ({"_type": ..., ...}).
func DecodeLayer(data []byte) (*Layer, error) {
	schemas, err := loadSchemas()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load schemas")
	}
	if err := validateAgainst(schemas.layer, data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayerView, err, "invalid layer")
	}

	var l Layer
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayerView, err, "invalid layer")
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Decode accepts either a LayerView or a bare layer. A bare layer is wrapped
// in a LayerView that borrows the layer's id.
func Decode(data []byte) (*LayerView, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &probe); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidLayerView, err, "must supply a valid LayerView")
	}
	if _, ok := probe["layer"]; ok {
		return DecodeLayerView(data)
	}
	if _, ok := probe["_type"]; ok {
		l, err := DecodeLayer(data)
		if err != nil {
			return nil, err
		}
		return &LayerView{ID: l.ID, Layer: l}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidLayerView, "must supply a valid LayerView: document has neither layer nor _type")
}

// Load reads and decodes a LayerView or bare layer from a file.
func Load(path string) (*LayerView, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return Decode(data)
}
