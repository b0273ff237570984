package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/tracklit/internal/constants"
	"github.com/julianstephens/tracklit/internal/storage"
	"github.com/julianstephens/tracklit/internal/worker"
)

func startWorker(t *testing.T) *worker.Worker {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracklit.db")
	w := worker.New(func(ctx context.Context) (storage.Provider, error) {
		s, err := storage.Open(ctx, storage.Config{
			Backend:        constants.BackendSQLite,
			Path:           path,
			LockAttempts:   1,
			LockRetryDelay: time.Millisecond,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	}, 0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return w
}

// failedDoer never became ready
type failedDoer struct{}

func (failedDoer) Started() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (failedDoer) Status() worker.Signal {
	return worker.Signal{Type: worker.SignalLockUnavailable, Error: "held by pid 42"}
}

func (failedDoer) Do(_ context.Context, req worker.Request) (worker.Response, error) {
	panic("Do called on a failed worker: " + req.ID)
}

func readLines(t *testing.T, r io.Reader) []map[string]any {
	t.Helper()
	var out []map[string]any
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m), sc.Text())
		out = append(out, m)
	}
	return out
}

func TestServeStdio(t *testing.T) {
	w := startWorker(t)
	in := strings.Join([]string{
		`{"id":"1","type":"CREATE_HABIT","payload":{"name":"Stretch"}}`,
		``,
		`{"id":"2","type":"GET_HABITS"}`,
		`not json`,
		`{"id":"3","type":"NO_SUCH_THING"}`,
	}, "\n")

	var out strings.Builder
	require.NoError(t, ServeStdio(context.Background(), w, strings.NewReader(in), &out))

	lines := readLines(t, strings.NewReader(out.String()))
	require.Len(t, lines, 5)
	assert.Equal(t, "READY", lines[0]["type"])

	assert.Equal(t, "1", lines[1]["id"])
	assert.Equal(t, true, lines[1]["ok"])

	assert.Equal(t, "2", lines[2]["id"])
	habits, ok := lines[2]["data"].([]any)
	require.True(t, ok)
	assert.Len(t, habits, 1)

	assert.Equal(t, false, lines[3]["ok"])
	assert.Contains(t, lines[3]["error"], "malformed envelope")

	assert.Equal(t, "3", lines[4]["id"])
	assert.Equal(t, false, lines[4]["ok"])
}

func TestServeStdioSignalsFailedStartup(t *testing.T) {
	var out strings.Builder
	require.NoError(t, ServeStdio(context.Background(), failedDoer{}, strings.NewReader(""), &out))

	lines := readLines(t, strings.NewReader(out.String()))
	require.Len(t, lines, 1)
	assert.Equal(t, "LOCK_UNAVAILABLE", lines[0]["type"])
	assert.Equal(t, "held by pid 42", lines[0]["error"])
}

func TestServeStdioStopsOnCancelWithOpenInput(t *testing.T) {
	w := startWorker(t)
	inR, inW := io.Pipe()
	defer inW.Close()
	outR, outW := io.Pipe()
	defer outR.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- ServeStdio(ctx, w, inR, outW) }()

	out := bufio.NewReader(outR)
	var sig worker.Signal
	line, err := out.ReadBytes('\n')
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(line, &sig))
	assert.True(t, sig.Ready())

	_, err = io.WriteString(inW, `{"id":"1","type":"GET_HABITS"}`+"\n")
	require.NoError(t, err)
	var res worker.Response
	line, err = out.ReadBytes('\n')
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(line, &res))
	assert.Equal(t, "1", res.ID)

	cancel()
	select {
	case err := <-errc:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("ServeStdio did not return after cancel")
	}
}

func TestWebSocket(t *testing.T) {
	w := startWorker(t)
	ts := httptest.NewServer(NewServer("", w).Handler())
	defer ts.Close()

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer ws.Close()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))

	var sig worker.Signal
	require.NoError(t, ws.ReadJSON(&sig))
	assert.True(t, sig.Ready())

	require.NoError(t, ws.WriteMessage(websocket.TextMessage,
		[]byte(`{"id":"a","type":"CREATE_CHECKIN_TEMPLATE","payload":{"name":"Evening"}}`)))
	var res worker.Response
	require.NoError(t, ws.ReadJSON(&res))
	assert.Equal(t, "a", res.ID)
	assert.True(t, res.Result.OK, res.Result.Error)

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"id":"b","type":"GET_SCHEMA"}`)))
	require.NoError(t, ws.ReadJSON(&res))
	assert.Equal(t, "b", res.ID)
	assert.True(t, res.Result.OK)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `tracklit_requests_total{ok="true",type="GET_SCHEMA"}`)
}

func TestServerRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- NewServer("127.0.0.1:0", failedDoer{}).Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()
	select {
	case err := <-errc:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
