package acceptance

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// client is a browser-like API client: it keeps cookies between requests
type client struct {
	t          *testing.T
	base       string
	http       *http.Client
	lastHeader http.Header
}

func newClient(t *testing.T, server *httptest.Server) *client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &client{t: t, base: server.URL + "/api/v1", http: &http.Client{Jar: jar}}
}

// do sends a JSON request and decodes a JSON response. Other content types come back under
// the "raw" key.
func (c *client) do(method, path string, body interface{}) (int, map[string]interface{}) {
	c.t.Helper()

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		payload = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+path, payload)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	c.lastHeader = resp.Header

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)

	decoded := map[string]interface{}{}
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(c.t, json.Unmarshal(raw, &decoded), string(raw))
	} else {
		decoded["raw"] = string(raw)
	}
	return resp.StatusCode, decoded
}

func data(response map[string]interface{}) map[string]interface{} {
	return response["data"].(map[string]interface{})
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
