// Package json wraps goccy/go-json for the featherpmm wire codec.
//
// Decoding always preserves numeric fidelity: wire numbers surface as
// json.Number so the typed record model can tell integers from reals.
package json

import (
	"bytes"

	gojson "github.com/goccy/go-json"
)

// Number is the numeric wire representation preserved by DecodeValue.
type Number = gojson.Number

// Marshal is a drop-in replacement for json.Marshal
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// Unmarshal is a drop-in replacement for json.Unmarshal
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// MarshalString marshals v and returns the encoding as a string.
// Used for JSON string escaping in the canonical writer.
func MarshalString(v interface{}) (string, error) {
	data, err := gojson.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeValue decodes wire text into the generic form the typed record
// model consumes: map[string]interface{}, []interface{}, Number, string,
// bool and nil. Numbers are never widened to float64.
func DecodeValue(data []byte) (interface{}, error) {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
