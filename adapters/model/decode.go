package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"lifeexp/ports"
)

// DecodeRegressor parses a model artifact, dispatching on its "kind".
func DecodeRegressor(data []byte) (ports.Regressor, error) {
	var head struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("invalid model JSON: %w", err)
	}

	switch head.Kind {
	case KindLinear:
		var j linearJSON
		if err := strictUnmarshal(data, &j); err != nil {
			return nil, err
		}
		m, err := j.build()
		if err != nil {
			return nil, err
		}
		return m, nil
	case KindRandomForest:
		var j forestJSON
		if err := strictUnmarshal(data, &j); err != nil {
			return nil, err
		}
		f, err := j.build()
		if err != nil {
			return nil, err
		}
		return f, nil
	case "":
		return nil, fmt.Errorf("model artifact has no kind")
	default:
		return nil, fmt.Errorf("unsupported model kind %q", head.Kind)
	}
}

// DecodeScaler parses a scaler artifact.
func DecodeScaler(data []byte) (ports.Scaler, error) {
	var j scalerJSON
	if err := strictUnmarshal(data, &j); err != nil {
		return nil, err
	}
	return j.build()
}

// DecodeColumns parses the ordered feature-name list.
func DecodeColumns(data []byte) ([]string, error) {
	var cols []string
	if err := json.Unmarshal(data, &cols); err != nil {
		return nil, fmt.Errorf("feature columns must be a JSON array of strings: %w", err)
	}
	return cols, nil
}

func strictUnmarshal(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid artifact JSON: %w", err)
	}
	return nil
}
