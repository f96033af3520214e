// Package rpc serves flag lookups to editor plugins as newline-delimited
// JSON-RPC 2.0 over a reader/writer pair, normally stdin and stdout.
package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"

	"github.com/blackwell-systems/ccflags/internal/resolver"
)

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// ReloadFunc re-reads the compilation database and returns its entry count.
type ReloadFunc func() (int, error)

// Server reads JSON-RPC requests and dispatches them to registered methods.
type Server struct {
	resolver *resolver.Resolver
	reload   ReloadFunc
	version  string
	methods  map[string]methodHandler
	shutdown bool
}

// methodHandler is the function signature for JSON-RPC method handlers.
type methodHandler func(params json.RawMessage) (any, error)

// jsonrpcRequest is a JSON-RPC 2.0 request message.
type jsonrpcRequest struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

// jsonrpcResponse is a JSON-RPC 2.0 response message. Result holds encoded
// JSON so that a null result is still sent.
type jsonrpcResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *jsonrpcError    `json:"error,omitempty"`
}

// jsonrpcError represents a JSON-RPC 2.0 error object.
type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// paramsError marks a handler failure caused by bad request params.
type paramsError struct {
	msg string
}

func (e *paramsError) Error() string { return e.msg }

// NewServer constructs a Server around r. reload may be nil when the
// database cannot be reloaded, e.g. when serving from the SQLite index.
func NewServer(r *resolver.Resolver, reload ReloadFunc, version string) *Server {
	s := &Server{
		resolver: r,
		reload:   reload,
		version:  version,
		methods:  make(map[string]methodHandler),
	}
	addMethods(s)
	return s
}

// register adds a method handler.
func (s *Server) register(name string, h methodHandler) {
	s.methods[name] = h
}

// Run blocks, reading JSON-RPC 2.0 messages from r and writing responses to w,
// until ctx is cancelled, r returns EOF, or a shutdown request is served.
// Returns nil on clean shutdown, or a non-nil error for unexpected I/O failures.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	bw := bufio.NewWriter(w)
	scanner := bufio.NewScanner(r)
	// Flag lists for generated code can be long.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineCh := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		for scanner.Scan() {
			line := scanner.Text()
			select {
			case lineCh <- line:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errCh <- err
		}
		close(lineCh)
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			return err
		case line, ok := <-lineCh:
			if !ok {
				// EOF: clean shutdown
				return nil
			}
			if line == "" {
				continue
			}
			if err := s.handleLine(line, bw); err != nil {
				return err
			}
			if s.shutdown {
				return nil
			}
		}
	}
}

// handleLine processes a single JSON-RPC line and writes the response.
func (s *Server) handleLine(line string, bw *bufio.Writer) error {
	var req jsonrpcRequest
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		return s.writeResponse(bw, jsonrpcResponse{
			JSONRPC: "2.0",
			Error:   &jsonrpcError{Code: codeParseError, Message: "Parse error"},
		})
	}

	handler, found := s.methods[req.Method]

	// Notifications (no id) run for side effects and get no response.
	if req.ID == nil {
		if found {
			if _, err := handler(req.Params); err != nil {
				log.Printf("Warning: notification %s: %v", req.Method, err)
			}
		}
		return nil
	}

	resp := jsonrpcResponse{JSONRPC: "2.0", ID: req.ID}
	if !found {
		resp.Error = &jsonrpcError{Code: codeMethodNotFound, Message: "Method not found"}
		return s.writeResponse(bw, resp)
	}

	result, err := handler(req.Params)
	if err != nil {
		code := codeInternalError
		var pe *paramsError
		if errors.As(err, &pe) {
			code = codeInvalidParams
		}
		resp.Error = &jsonrpcError{Code: code, Message: err.Error()}
		return s.writeResponse(bw, resp)
	}

	data, err := json.Marshal(result)
	if err != nil {
		resp.Error = &jsonrpcError{Code: codeInternalError, Message: err.Error()}
		return s.writeResponse(bw, resp)
	}
	resp.Result = data

	return s.writeResponse(bw, resp)
}

// writeResponse marshals resp as a single JSON line and flushes the writer.
func (s *Server) writeResponse(bw *bufio.Writer, resp jsonrpcResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if _, err := bw.Write(data); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}
	return bw.Flush()
}
