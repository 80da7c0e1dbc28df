package codec

import "encoding/json"

// JSON marshals values with encoding/json. It is the default codec.
type JSON struct{}

func (JSON) Name() string {
	return NameJSON
}

func (JSON) Marshal(value any) ([]byte, error) {
	return json.Marshal(value)
}

func (JSON) Unmarshal(data []byte, value any) error {
	return json.Unmarshal(data, value)
}
