// Package model defines the read-only records retrieved from the Analyze Re
// platform that the graph builder consumes.
//
// # Layers
//
// A [Layer] is one node of a reinsurance structure. The platform models
// layers as a family of loosely related types (CatXL, AggXL, QuotaShare,
// FilterLayer, NestedLayer, ...) that share some attributes and add others.
// Here they are represented by a single struct with explicit optional
// fields: scalar terms are pointers, and sequence terms distinguish nil
// (absent) from empty (present with no entries). The term rule table in
// package terms relies on that distinction.
//
// A NestedLayer composes other layers: its Sink is the aggregation point and
// its Sources feed into it. The same source may appear under several sinks,
// so a layer tree is really a DAG.
//
// # Decoding
//
// [DecodeLayerView] and [Decode] parse the platform's JSON representation.
// Documents are validated against an embedded JSON Schema before decoding,
// so malformed input fails fast with an INVALID_LAYER_VIEW error:
//
//	lv, err := model.Load("layer_view.json")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(lv.ID, lv.Layer.Type)
package model
