package graphapi

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pageview-capi/dto"
)

func newTestClient(url string) *Client {
	return &Client{BasePath: url, HTTP: &http.Client{}}
}

func sampleData() *dto.Data {
	return &dto.Data{
		PixelId: "123",
		Data: []*dto.DataItem{{
			EventName:    "PageView",
			EventId:      "event_7",
			EventTime:    1000,
			ActionSource: "website",
			UserData:     &dto.UserData{ClientIpAddress: "1.2.3.4", ClientUserAgent: "ua"},
		}},
		TestEventCode: "TEST1",
	}
}

func TestSendEvents(t *testing.T) {
	var gotPath, gotToken, gotContentType string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("access_token")
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := ioutil.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"events_received":1,"messages":[],"fbtrace_id":"abc"}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).SendEvents(context.Background(), "123", "tok+en", sampleData())
	require.NoError(t, err)

	assert.Equal(t, 1, res.EventsReceived)
	assert.Equal(t, "abc", res.FbTraceId)
	assert.Equal(t, "/123/events", gotPath)
	assert.Equal(t, "tok+en", gotToken)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "TEST1", gotBody["test_event_code"])

	events := gotBody["data"].([]interface{})
	require.Len(t, events, 1)
	event := events[0].(map[string]interface{})
	assert.Equal(t, "PageView", event["event_name"])
	assert.Equal(t, "event_7", event["event_id"])
	assert.NotContains(t, event, "fbp")
	assert.NotContains(t, event, "fbc")
	assert.NotContains(t, event["user_data"], "external_id")
}

func TestSendEventsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Invalid OAuth access token.","type":"OAuthException","code":190,"fbtrace_id":"xyz"}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).SendEvents(context.Background(), "123", "bad", sampleData())
	require.Error(t, err)

	apiErr, ok := errors.Cause(err).(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, 190, apiErr.Code)
	assert.Equal(t, "xyz", apiErr.FbTraceId)
	assert.True(t, IsConfigError(err))
	assert.False(t, IsTransportError(err))
}

func TestSendEventsUnparsableError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).SendEvents(context.Background(), "123", "tok", sampleData())
	require.Error(t, err)

	apiErr := errors.Cause(err).(*APIError)
	assert.Equal(t, "upstream down", apiErr.Message)
	assert.False(t, IsConfigError(err))
}

func TestSendEventsMissingCredentials(t *testing.T) {
	c := newTestClient("http://127.0.0.1:0")

	_, err := c.SendEvents(context.Background(), "", "tok", sampleData())
	assert.Equal(t, ErrMissingPixelID, err)
	assert.True(t, IsConfigError(err))

	_, err = c.SendEvents(context.Background(), "123", "", sampleData())
	assert.Equal(t, ErrMissingAccessToken, err)
	assert.True(t, IsConfigError(err))
}

func TestSendEventsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).SendEvents(context.Background(), "123", "tok", sampleData())
	require.Error(t, err)
	assert.True(t, IsTransportError(err))
	assert.False(t, IsConfigError(err))
}
