package rpc

import (
	"encoding/json"
	"errors"
	"path/filepath"

	"github.com/blackwell-systems/ccflags/internal/flags"
)

// fileParams is the params object shared by the per-file methods.
type fileParams struct {
	File string `json:"file"`
}

// ServerInfo is the result of "initialize".
type ServerInfo struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Methods   []string `json:"methods"`
	CanReload bool     `json:"canReload"`
}

// ReloadResult is the result of "reload".
type ReloadResult struct {
	Entries int `json:"entries"`
}

// methodNames lists the methods in the order reported by "initialize".
var methodNames = []string{"initialize", "flagsForFile", "isHeader", "reload", "shutdown"}

// addMethods registers every method handler on s.
func addMethods(s *Server) {
	s.register("initialize", s.handleInitialize)
	s.register("flagsForFile", s.handleFlagsForFile)
	s.register("isHeader", s.handleIsHeader)
	s.register("reload", s.handleReload)
	s.register("shutdown", s.handleShutdown)
}

func (s *Server) handleInitialize(json.RawMessage) (any, error) {
	return ServerInfo{
		Name:      "ccflags",
		Version:   s.version,
		Methods:   methodNames,
		CanReload: s.reload != nil,
	}, nil
}

// handleFlagsForFile returns the resolver result, or null when nothing is
// known about the file.
func (s *Server) handleFlagsForFile(params json.RawMessage) (any, error) {
	file, err := decodeFile(params)
	if err != nil {
		return nil, err
	}
	res, ok := s.resolver.Resolve(file)
	if !ok {
		return nil, nil
	}
	return res, nil
}

func (s *Server) handleIsHeader(params json.RawMessage) (any, error) {
	file, err := decodeFile(params)
	if err != nil {
		return nil, err
	}
	return flags.IsHeaderFile(file), nil
}

func (s *Server) handleReload(json.RawMessage) (any, error) {
	if s.reload == nil {
		return nil, errors.New("reload is not supported by this database")
	}
	n, err := s.reload()
	if err != nil {
		return nil, err
	}
	return ReloadResult{Entries: n}, nil
}

func (s *Server) handleShutdown(json.RawMessage) (any, error) {
	s.shutdown = true
	return nil, nil
}

// decodeFile extracts an absolute file path from params.
func decodeFile(params json.RawMessage) (string, error) {
	var p fileParams
	if len(params) == 0 {
		return "", &paramsError{msg: "missing params"}
	}
	if err := json.Unmarshal(params, &p); err != nil {
		return "", &paramsError{msg: "Invalid params"}
	}
	if p.File == "" {
		return "", &paramsError{msg: "file is required"}
	}
	abs, err := filepath.Abs(p.File)
	if err != nil {
		return "", &paramsError{msg: err.Error()}
	}
	return abs, nil
}
