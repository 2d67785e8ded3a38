package netx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostJSON_SendsBodyAndToken(t *testing.T) {
	var gotAuth, gotCT string
	var gotBody map[string]string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCT = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{"message":"Message sent"}`))
	}))
	defer ts.Close()

	var out struct {
		Message string `json:"message"`
	}
	err := PostJSON(context.Background(), ts.Client(), ts.URL, "tok", map[string]string{"message": "hi"}, &out)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "application/json", gotCT)
	assert.Equal(t, "hi", gotBody["message"])
	assert.Equal(t, "Message sent", out.Message)
}

func TestPostJSON_NoTokenNoBody(t *testing.T) {
	var gotAuth string
	var gotLen int64

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotLen = r.ContentLength
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	require.NoError(t, PostJSON(context.Background(), nil, ts.URL, "", nil, nil))
	assert.Empty(t, gotAuth)
	assert.Zero(t, gotLen)
}

func TestPostJSON_StatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"Too many requests, please try again later."}`))
	}))
	defer ts.Close()

	err := PostJSON(context.Background(), nil, ts.URL, "", map[string]string{}, nil)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.Code)
	assert.Equal(t, "Too many requests, please try again later.", se.Message)
	assert.Contains(t, err.Error(), "429")
}
