package util

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertList(t *testing.T) {
	out := ConvertList([]int{1, 2, 3}, strconv.Itoa)
	assert.Equal(t, []string{"1", "2", "3"}, out)
	assert.Empty(t, ConvertList(nil, strconv.Itoa))
}

func TestPtrVal(t *testing.T) {
	assert.Equal(t, 4.5, Val(Ptr(4.5)))
	assert.Equal(t, 0.0, Val[float64](nil))
	assert.Equal(t, "", Val[string](nil))
}

func TestGetHistogramVecReusesRegistered(t *testing.T) {
	first, err := GetHistogramVec("util_test_duration_seconds", "test", "status")
	require.NoError(t, err)
	second, err := GetHistogramVec("util_test_duration_seconds", "test", "status")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestNewRestyClientRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/flaky":
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		default:
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	c := NewRestyClient(RestyOptions{BaseURL: srv.URL, Timeout: time.Second, RetryCount: 2})
	c.SetRetryWaitTime(time.Millisecond).SetRetryMaxWaitTime(time.Millisecond)

	resp, err := c.R().Get("/flaky")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.EqualValues(t, 2, calls.Load())

	calls.Store(0)
	resp, err = c.R().Get("/bad")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.EqualValues(t, 1, calls.Load())
}
