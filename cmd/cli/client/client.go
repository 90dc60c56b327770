// Package client wraps HTTP calls to the Sip API, attaching the stored
// session cookie and capturing the refreshed one from responses.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/sipbar/sip/cmd/cli/config"
)

// Do performs an API request. When withSession is true the stored
// session token is sent as the session cookie; a refreshed cookie on the
// response replaces the stored one (sliding expiration).
func Do(method, path string, payload any, withSession bool, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, config.APIURL()+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withSession {
		tok, err := config.LoadSession()
		if err != nil {
			return fmt.Errorf("not signed in (run `sip auth sign-in` first)")
		}
		req.AddCookie(&http.Cookie{Name: "session", Value: tok})
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	for _, c := range resp.Cookies() {
		if c.Name == "session" && c.Value != "" {
			_ = config.SaveSession(c.Value)
		}
	}

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(data))
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return err
		}
	}
	return nil
}
