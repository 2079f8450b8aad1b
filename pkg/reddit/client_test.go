package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReddit struct {
	authCalls atomic.Int32
	mux       *http.ServeMux
}

func newFakeReddit(t *testing.T) (*fakeReddit, *httptest.Server) {
	t.Helper()
	f := &fakeReddit{mux: http.NewServeMux()}
	f.mux.HandleFunc("POST /api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
		f.authCalls.Add(1)
		id, secret, ok := r.BasicAuth()
		if !ok || id != "cid" || secret != "csecret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("grant_type") != "password" || r.PostForm.Get("password") != "pass" {
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "tok123", "expires_in": 3600})
	})
	ts := httptest.NewServer(f.mux)
	t.Cleanup(ts.Close)
	return f, ts
}

func testClient(ts *httptest.Server) *Client {
	return New(Config{
		UserAgent:    "feed2reddit-test",
		ClientID:     "cid",
		ClientSecret: "csecret",
		Username:     "bot",
		Password:     "pass",
		AuthURL:      ts.URL + "/api/v1/access_token",
		BaseURL:      ts.URL,
		Timeout:      time.Second,
	})
}

func TestClient_Submit(t *testing.T) {
	f, ts := newFakeReddit(t)
	f.mux.HandleFunc("POST /api/submit", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bearer tok123", r.Header.Get("Authorization"))
		assert.Equal(t, "feed2reddit-test", r.Header.Get("User-Agent"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "self", r.PostForm.Get("kind"))
		assert.Equal(t, "news", r.PostForm.Get("sr"))
		assert.Equal(t, "[News] Hello", r.PostForm.Get("title"))
		assert.Equal(t, "body text", r.PostForm.Get("text"))
		_, _ = fmt.Fprint(w, `{"json":{"errors":[],"data":{"name":"t3_abc","url":"https://reddit.com/r/news/abc"}}}`)
	})

	c := testClient(ts)
	id, err := c.Submit(context.Background(), "news", "[News] Hello", "body text")
	require.NoError(t, err)
	assert.Equal(t, "t3_abc", id)

	id, err = c.Submit(context.Background(), "news", "[News] Hello", "body text")
	require.NoError(t, err)
	assert.Equal(t, "t3_abc", id)
	assert.Equal(t, int32(1), f.authCalls.Load(), "token reused")
}

func TestClient_SubmitRejected(t *testing.T) {
	f, ts := newFakeReddit(t)
	f.mux.HandleFunc("POST /api/submit", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"json":{"errors":[["RATELIMIT","you are doing that too much. try again in 5 minutes.","ratelimit"]]}}`)
	})

	_, err := testClient(ts).Submit(context.Background(), "news", "t", "b")
	require.Error(t, err)
	assert.Equal(t, "reddit /api/submit rejected: RATELIMIT: you are doing that too much. try again in 5 minutes.", err.Error())
}

func TestClient_Reply(t *testing.T) {
	f, ts := newFakeReddit(t)
	f.mux.HandleFunc("POST /api/comment", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "t3_abc", r.PostForm.Get("thing_id"))
		assert.Equal(t, "part two", r.PostForm.Get("text"))
		_, _ = fmt.Fprint(w, `{"json":{"errors":[],"data":{"things":[{"kind":"t1","data":{"name":"t1_xyz"}}]}}}`)
	})

	id, err := testClient(ts).Reply(context.Background(), "t3_abc", "part two")
	require.NoError(t, err)
	assert.Equal(t, "t1_xyz", id)
}

func TestClient_ReplyNoThings(t *testing.T) {
	f, ts := newFakeReddit(t)
	f.mux.HandleFunc("POST /api/comment", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"json":{"errors":[],"data":{"things":[]}}}`)
	})

	_, err := testClient(ts).Reply(context.Background(), "t3_abc", "part two")
	assert.EqualError(t, err, "reddit /api/comment: no comment returned for t3_abc")
}

func TestClient_Delete(t *testing.T) {
	f, ts := newFakeReddit(t)
	var deleted string
	f.mux.HandleFunc("POST /api/del", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		deleted = r.PostForm.Get("id")
		_, _ = fmt.Fprint(w, `{}`)
	})

	require.NoError(t, testClient(ts).Delete(context.Background(), "t3_bad"))
	assert.Equal(t, "t3_bad", deleted)
}

func TestClient_Submitted(t *testing.T) {
	f, ts := newFakeReddit(t)
	f.mux.HandleFunc("GET /user/bot/submitted", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "new", r.URL.Query().Get("sort"))
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		_, _ = fmt.Fprint(w, `{"kind":"Listing","data":{"children":[
			{"kind":"t3","data":{"name":"t3_1","url":"u1","title":"one","ups":10,"downs":2}},
			{"kind":"t3","data":{"name":"t3_2","url":"u2","title":"two","ups":0,"downs":7}}
		]}}`)
	})

	res, err := testClient(ts).Submitted(context.Background(), "bot", 25)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "t3_1", res[0].ID)
	assert.Equal(t, 8, res[0].Score())
	assert.Equal(t, "two", res[1].Title)
	assert.Equal(t, -7, res[1].Score())
}

func TestClient_HTTPErrors(t *testing.T) {
	tbl := []struct {
		code      int
		msg       string
		transient bool
	}{
		{http.StatusGatewayTimeout, "reddit /api/submit: 504 Gateway Timeout", true},
		{http.StatusInternalServerError, "reddit /api/submit: 500 Internal Server Error", true},
		{http.StatusTooManyRequests, "reddit /api/submit: 429 Too Many Requests", true},
		{http.StatusForbidden, "reddit /api/submit: 403 Forbidden", false},
	}

	for _, tt := range tbl {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			f, ts := newFakeReddit(t)
			f.mux.HandleFunc("POST /api/submit", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.code)
			})

			_, err := testClient(ts).Submit(context.Background(), "news", "t", "b")
			require.Error(t, err)
			assert.Equal(t, tt.msg, err.Error())

			var te interface{ Transient() bool }
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.transient, te.Transient())
		})
	}
}

func TestClient_ReauthOnUnauthorized(t *testing.T) {
	f, ts := newFakeReddit(t)
	var calls atomic.Int32
	f.mux.HandleFunc("POST /api/del", func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = fmt.Fprint(w, `{}`)
	})

	c := testClient(ts)
	require.Error(t, c.Delete(context.Background(), "t3_1"))
	require.NoError(t, c.Delete(context.Background(), "t3_1"))
	assert.Equal(t, int32(2), f.authCalls.Load())
}

func TestClient_AuthFailures(t *testing.T) {
	t.Run("bad client credentials", func(t *testing.T) {
		f, ts := newFakeReddit(t)
		c := testClient(ts)
		c.cfg.ClientSecret = "wrong"
		err := c.Delete(context.Background(), "t3_1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401 Unauthorized")
		assert.Equal(t, int32(1), f.authCalls.Load(), "not retried")
	})

	t.Run("bad password", func(t *testing.T) {
		f, ts := newFakeReddit(t)
		c := testClient(ts)
		c.cfg.Password = "wrong"
		err := c.Delete(context.Background(), "t3_1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reddit auth rejected for bot: invalid_grant")
		assert.Equal(t, int32(1), f.authCalls.Load(), "not retried")
	})
}

func TestClient_TokenExpiry(t *testing.T) {
	f, ts := newFakeReddit(t)
	f.mux.HandleFunc("POST /api/del", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{}`)
	})

	c := testClient(ts)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	require.NoError(t, c.Delete(context.Background(), "t3_1"))
	now = now.Add(30 * time.Minute)
	require.NoError(t, c.Delete(context.Background(), "t3_1"))
	assert.Equal(t, int32(1), f.authCalls.Load())

	now = now.Add(30 * time.Minute) // past expires_in minus a minute
	require.NoError(t, c.Delete(context.Background(), "t3_1"))
	assert.Equal(t, int32(2), f.authCalls.Load())
}

func TestTransportError_Transient(t *testing.T) {
	assert.True(t, (&transportError{err: fmt.Errorf("read: %w", syscall.ECONNRESET)}).Transient())
	assert.True(t, (&transportError{err: fmt.Errorf("write: %w", syscall.ECONNABORTED)}).Transient())
	assert.False(t, (&transportError{err: errors.New("unsupported protocol scheme")}).Transient())

	err := wrapTransport(timeoutErr{})
	assert.Contains(t, err.Error(), "timed out")
}

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }
