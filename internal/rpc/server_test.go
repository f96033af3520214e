package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/ccflags/internal/compdb"
	"github.com/blackwell-systems/ccflags/internal/resolver"
)

// newTestServer returns a Server over a one-entry database.
func newTestServer(reload ReloadFunc) *Server {
	db := compdb.FromEntries([]compdb.Entry{{
		Directory: "/proj/build",
		File:      "/proj/src/a.cpp",
		Arguments: []string{"c++", "-I", "../include", "-Wall", "-c", "/proj/src/a.cpp"},
	}})
	return NewServer(&resolver.Resolver{DB: db}, reload, "test")
}

// runServer starts s.Run in a goroutine piped through io.Pipe and returns
// a function that writes a request line and reads the response line.
func runServer(t *testing.T, s *Server) (sendLine func(line string) string, done <-chan error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())

	// Pipe: test writes to pw, server reads from pr.
	pr, pw := io.Pipe()
	// Pipe: server writes to sw, test reads from sr.
	sr, sw := io.Pipe()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(ctx, pr, sw)
	}()

	var pending strings.Builder
	buf := make([]byte, 1<<16)
	sendLine = func(line string) string {
		_, err := io.WriteString(pw, line+"\n")
		require.NoError(t, err)

		for {
			buffered := pending.String()
			if idx := strings.IndexByte(buffered, '\n'); idx >= 0 {
				pending.Reset()
				pending.WriteString(buffered[idx+1:])
				return buffered[:idx]
			}
			n, err := sr.Read(buf)
			if n > 0 {
				pending.Write(buf[:n])
			}
			if err != nil {
				t.Fatalf("sendLine read: %v", err)
			}
		}
	}

	t.Cleanup(func() {
		cancel()
		_ = pw.Close()
		_ = sr.Close()
	})

	return sendLine, errCh
}

type response struct {
	ID     *int            `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *jsonrpcError   `json:"error"`
}

func decode(t *testing.T, line string) response {
	t.Helper()
	var r response
	require.NoError(t, json.Unmarshal([]byte(line), &r), line)
	return r
}

func TestRun_Initialize(t *testing.T) {
	send, _ := runServer(t, newTestServer(nil))

	resp := decode(t, send(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`))
	require.Nil(t, resp.Error)
	require.NotNil(t, resp.ID)
	assert.Equal(t, 1, *resp.ID)

	var info ServerInfo
	require.NoError(t, json.Unmarshal(resp.Result, &info))
	assert.Equal(t, "ccflags", info.Name)
	assert.Equal(t, "test", info.Version)
	assert.False(t, info.CanReload)
	assert.Contains(t, info.Methods, "flagsForFile")
}

func TestRun_FlagsForFile(t *testing.T) {
	send, _ := runServer(t, newTestServer(nil))

	resp := decode(t, send(`{"jsonrpc":"2.0","id":2,"method":"flagsForFile","params":{"file":"/proj/src/a.cpp"}}`))
	require.Nil(t, resp.Error)

	var res resolver.Result
	require.NoError(t, json.Unmarshal(resp.Result, &res))
	assert.True(t, res.DoCache)
	assert.Equal(t, []string{"-I", "/proj/include", "-Wall"}, res.Flags)
}

func TestRun_FlagsForUnknownFileIsNull(t *testing.T) {
	send, _ := runServer(t, newTestServer(nil))

	line := send(`{"jsonrpc":"2.0","id":3,"method":"flagsForFile","params":{"file":"/elsewhere/x.cpp"}}`)
	assert.Contains(t, line, `"result":null`)
	assert.Nil(t, decode(t, line).Error)
}

func TestRun_InvalidParams(t *testing.T) {
	send, _ := runServer(t, newTestServer(nil))

	for _, params := range []string{``, `,"params":{}`, `,"params":[1,2]`} {
		resp := decode(t, send(`{"jsonrpc":"2.0","id":4,"method":"flagsForFile"`+params+`}`))
		require.NotNil(t, resp.Error, params)
		assert.Equal(t, codeInvalidParams, resp.Error.Code, params)
	}
}

func TestRun_IsHeader(t *testing.T) {
	send, _ := runServer(t, newTestServer(nil))

	resp := decode(t, send(`{"jsonrpc":"2.0","id":5,"method":"isHeader","params":{"file":"/proj/src/a.hpp"}}`))
	assert.JSONEq(t, `true`, string(resp.Result))

	resp = decode(t, send(`{"jsonrpc":"2.0","id":6,"method":"isHeader","params":{"file":"/proj/src/a.cpp"}}`))
	assert.JSONEq(t, `false`, string(resp.Result))
}

func TestRun_Reload(t *testing.T) {
	send, _ := runServer(t, newTestServer(func() (int, error) { return 42, nil }))

	resp := decode(t, send(`{"jsonrpc":"2.0","id":7,"method":"reload"}`))
	require.Nil(t, resp.Error)
	assert.JSONEq(t, `{"entries":42}`, string(resp.Result))
}

func TestRun_ReloadErrors(t *testing.T) {
	send, _ := runServer(t, newTestServer(nil))
	resp := decode(t, send(`{"jsonrpc":"2.0","id":8,"method":"reload"}`))
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeInternalError, resp.Error.Code)

	send, _ = runServer(t, newTestServer(func() (int, error) { return 0, errors.New("boom") }))
	resp = decode(t, send(`{"jsonrpc":"2.0","id":9,"method":"reload"}`))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "boom", resp.Error.Message)
}

func TestRun_MethodNotFound(t *testing.T) {
	send, _ := runServer(t, newTestServer(nil))

	resp := decode(t, send(`{"jsonrpc":"2.0","id":10,"method":"nope"}`))
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeMethodNotFound, resp.Error.Code)
}

func TestRun_ParseError(t *testing.T) {
	send, _ := runServer(t, newTestServer(nil))

	resp := decode(t, send(`{not json`))
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeParseError, resp.Error.Code)
	assert.Nil(t, resp.ID)
}

func TestRun_NotificationGetsNoResponse(t *testing.T) {
	send, _ := runServer(t, newTestServer(nil))

	// The notification produces no output, so the next response read must
	// belong to the request that follows it.
	resp := decode(t, send(`{"jsonrpc":"2.0","method":"isHeader","params":{"file":"/a.h"}}`+"\n"+
		`{"jsonrpc":"2.0","id":11,"method":"initialize"}`))
	require.NotNil(t, resp.ID)
	assert.Equal(t, 11, *resp.ID)
}

func TestRun_Shutdown(t *testing.T) {
	send, done := runServer(t, newTestServer(nil))

	resp := decode(t, send(`{"jsonrpc":"2.0","id":12,"method":"shutdown"}`))
	assert.Nil(t, resp.Error)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after shutdown")
	}
}

func TestRun_EOF(t *testing.T) {
	s := newTestServer(nil)
	err := s.Run(context.Background(), strings.NewReader(""), io.Discard)
	assert.NoError(t, err)
}
