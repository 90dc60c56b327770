package handlers

import (
	"encoding/json"
	"io"
	"net/http"
)

// readBody reads and returns the request body along with its decoded
// generic form. The generic map feeds the validator (which needs the raw
// JSON types); handlers re-decode the same bytes into a typed struct
// afterwards so absence and empty values stay distinguishable.
func readBody(r *http.Request) ([]byte, map[string]any, error) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, nil, err
	}
	body := map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, nil, err
		}
	}
	return data, body, nil
}
