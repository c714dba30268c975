package main

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
	"go.uber.org/zap"

	"github.com/funny-falcon/slotpool/pool"
)

func request(s *server, method, uri string) (int, []byte) {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	s.handler(&ctx)
	return ctx.Response.StatusCode(), append([]byte(nil), ctx.Response.Body()...)
}

func newTestServer(t *testing.T, cfg Config) *server {
	t.Helper()
	s, err := newServer(cfg, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestServer_allocFree(t *testing.T) {
	s := newTestServer(t, Config{Capacity: 2, Debug: true})

	code, body := request(s, "POST", "/alloc?value=10")
	require.Equal(t, fasthttp.StatusOK, code, string(body))
	var first allocResponse
	require.NoError(t, jsonConfig.Unmarshal(body, &first))
	assert.Equal(t, uint64(1), first.ID)
	assert.Equal(t, int64(10), first.Value)
	assert.Equal(t, 1, first.Available)

	code, _ = request(s, "POST", "/alloc?value=11")
	require.Equal(t, fasthttp.StatusOK, code)
	code, body = request(s, "POST", "/alloc?value=12")
	require.Equal(t, fasthttp.StatusServiceUnavailable, code)
	var e errorResponse
	require.NoError(t, jsonConfig.Unmarshal(body, &e))
	assert.Equal(t, pool.ErrExhausted.Error(), e.Error)

	code, _ = request(s, "POST", "/free?id=1")
	require.Equal(t, fasthttp.StatusNoContent, code)
	code, _ = request(s, "POST", "/free?id=1")
	require.Equal(t, fasthttp.StatusNotFound, code)

	code, body = request(s, "GET", "/stats")
	require.Equal(t, fasthttp.StatusOK, code)
	var st pool.Stats
	require.NoError(t, jsonConfig.Unmarshal(body, &st))
	assert.Equal(t, 2, st.Capacity)
	assert.Equal(t, 1, st.Live)
	assert.Equal(t, 1, st.Available)
	assert.True(t, st.Debug)

	require.NoError(t, s.close(), "close releases handles still held")
}

func TestServer_badRequests(t *testing.T) {
	s := newTestServer(t, Config{Capacity: 1})
	defer s.close()

	code, _ := request(s, "POST", "/alloc?value=x")
	assert.Equal(t, fasthttp.StatusBadRequest, code)
	code, _ = request(s, "POST", "/free")
	assert.Equal(t, fasthttp.StatusBadRequest, code)
	code, _ = request(s, "GET", "/alloc?value=1")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, code)
	code, _ = request(s, "POST", "/stats")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, code)
	code, _ = request(s, "GET", "/free?id=1")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, code)
	code, _ = request(s, "GET", "/nope")
	assert.Equal(t, fasthttp.StatusNotFound, code)
}

func TestServer_overListener(t *testing.T) {
	s := newTestServer(t, Config{Capacity: 4})
	defer s.close()

	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: s.handler}
	go srv.Serve(ln)
	defer srv.Shutdown()

	client := &fasthttp.Client{
		Dial: func(string) (net.Conn, error) { return ln.Dial() },
	}
	for i := 0; i < 4; i++ {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		req.SetRequestURI("http://slotpool/alloc?value=7")
		req.Header.SetMethod(fasthttp.MethodPost)
		require.NoError(t, client.Do(req, resp))
		require.Equal(t, fasthttp.StatusOK, resp.StatusCode())
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}

	code, body, err := client.Get(nil, "http://slotpool/stats")
	require.NoError(t, err)
	require.Equal(t, fasthttp.StatusOK, code)
	var st pool.Stats
	require.NoError(t, jsonConfig.Unmarshal(body, &st))
	assert.Equal(t, 4, st.Live)
}
