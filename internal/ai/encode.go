package ai

import "encoding/json"

func marshalJSON(v interface{}) (json.RawMessage, error) {
	return json.Marshal(v)
}
