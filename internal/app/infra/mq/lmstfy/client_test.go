package lmstfy

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall/ordercore/internal/app/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	return NewClient(config.LmstfyConfig{
		Host:      u.Hostname(),
		Port:      port,
		Namespace: "mall",
		Token:     "token",
	})
}

func TestPublishSendsDelayAndTTL(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/mall/order_expire", r.URL.Path)
		assert.Equal(t, "90", r.URL.Query().Get("delay"))
		assert.Equal(t, "120", r.URL.Query().Get("ttl"))
		assert.Equal(t, "3", r.URL.Query().Get("tries"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"order_id":"o1"}`, string(body))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"msg": "published", "job_id": "job-1"})
	})

	jobID, err := cli.Publish("order_expire", []byte(`{"order_id":"o1"}`), 2*time.Minute, 90*time.Second, 3)
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
}

func TestConsumeAndAck(t *testing.T) {
	cli := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			if r.URL.Path == "/api/mall/empty" {
				w.WriteHeader(http.StatusNotFound)
				_ = json.NewEncoder(w).Encode(map[string]string{"msg": "no job available"})
				return
			}
			assert.Equal(t, "30", r.URL.Query().Get("ttr"))
			assert.Equal(t, "3", r.URL.Query().Get("timeout"))
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"msg":       "new job",
				"namespace": "mall",
				"queue":     "order_expire",
				"job_id":    "job-1",
				"data":      []byte(`{"order_id":"o1"}`),
			})
		case http.MethodDelete:
			assert.Equal(t, "/api/mall/order_expire/job/job-1", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	})

	job, err := cli.Consume("order_expire", 3*time.Second, 30*time.Second)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, "job-1", job.ID)
	assert.JSONEq(t, `{"order_id":"o1"}`, string(job.Data))

	require.NoError(t, cli.Ack("order_expire", job.ID))

	job, err = cli.Consume("empty", 3*time.Second, 30*time.Second)
	require.NoError(t, err)
	assert.Nil(t, job)
}

func TestSecondsRoundsUp(t *testing.T) {
	assert.EqualValues(t, 0, seconds(0))
	assert.EqualValues(t, 0, seconds(-time.Second))
	assert.EqualValues(t, 1, seconds(10*time.Millisecond))
	assert.EqualValues(t, 60, seconds(time.Minute))
}
