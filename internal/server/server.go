package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/chenchenpp/springboot-code-mcp/internal/logging"
	"github.com/chenchenpp/springboot-code-mcp/internal/tools"
)

// Options configures a Server.
type Options struct {
	Name         string
	Version      string
	Instructions string
	Log          *zap.Logger
}

// Server dispatches JSON-RPC messages to the tool registry. It is safe for
// concurrent use.
type Server struct {
	info         implementation
	instructions string
	registry     *tools.Registry
	log          *zap.Logger
}

// New returns a Server backed by registry.
func New(registry *tools.Registry, opts Options) *Server {
	opts.Log = logging.OrNop(opts.Log)
	if opts.Version == "" {
		opts.Version = "dev"
	}
	return &Server{
		info:         implementation{Name: opts.Name, Version: opts.Version},
		instructions: opts.Instructions,
		registry:     registry,
		log:          opts.Log,
	}
}

// Handle processes one encoded message and returns the encoded response, or
// nil when the message was a notification.
func (s *Server) Handle(ctx context.Context, data []byte) []byte {
	body, _ := s.handle(ctx, data)
	return body
}

// handled describes a processed message for transports that need more than
// the encoded body.
type handled struct {
	Method string
	// OK is true when the response carries a result rather than an error.
	OK bool
}

// handle returns the encoded response, nil for notifications.
func (s *Server) handle(ctx context.Context, data []byte) ([]byte, handled) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return s.encode(errorResponse(nullID, CodeInvalidRequest, "batch requests are not supported")), handled{}
	}

	if !json.Valid(trimmed) {
		return s.encode(errorResponse(nullID, CodeParseError, "parse error: message is not valid JSON")), handled{}
	}
	var req rpcRequest
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return s.encode(errorResponse(nullID, CodeInvalidRequest, "invalid request: "+err.Error())), handled{}
	}

	if req.JSONRPC != "2.0" || req.Method == "" {
		id := req.ID
		if id == nil {
			id = nullID
		}
		return s.encode(errorResponse(id, CodeInvalidRequest, "invalid request: jsonrpc must be \"2.0\" and method is required")), handled{Method: req.Method}
	}

	if req.isNotification() {
		s.notify(req)
		return nil, handled{Method: req.Method, OK: true}
	}

	s.log.Debug("rpc request", zap.String("method", req.Method), zap.ByteString("id", req.ID))
	resp := s.dispatch(ctx, &req)
	return s.encode(resp), handled{Method: req.Method, OK: resp.Error == nil}
}

func (s *Server) notify(req rpcRequest) {
	switch req.Method {
	case "notifications/initialized":
		s.log.Info("client initialized")
	case "notifications/cancelled":
		s.log.Debug("client cancelled a request", zap.ByteString("params", req.Params))
	default:
		s.log.Debug("ignoring notification", zap.String("method", req.Method))
	}
}

func (s *Server) dispatch(ctx context.Context, req *rpcRequest) *rpcResponse {
	switch req.Method {
	case "initialize":
		return s.initialize(req)
	case "ping":
		return resultResponse(req.ID, struct{}{})
	case "tools/list":
		return resultResponse(req.ID, map[string]any{"tools": s.registry.List()})
	case "tools/call":
		return s.callTool(ctx, req)
	default:
		return errorResponse(req.ID, CodeMethodNotFound, "method not found: "+req.Method)
	}
}

func (s *Server) initialize(req *rpcRequest) *rpcResponse {
	var params initializeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, CodeInvalidParams, "invalid initialize params: "+err.Error())
		}
	}

	version := LatestProtocolVersion
	if slices.Contains(supportedProtocolVersions, params.ProtocolVersion) {
		version = params.ProtocolVersion
	}

	s.log.Info("initialize",
		zap.String("client", params.ClientInfo.Name),
		zap.String("client_version", params.ClientInfo.Version),
		zap.String("protocol", version))

	return resultResponse(req.ID, initializeResult{
		ProtocolVersion: version,
		Capabilities:    serverCapabilities{Tools: toolsCapability{ListChanged: false}},
		ServerInfo:      s.info,
		Instructions:    s.instructions,
	})
}

func (s *Server) callTool(ctx context.Context, req *rpcRequest) *rpcResponse {
	var params callToolParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
		return errorResponse(req.ID, CodeInvalidParams, "tools/call requires a tool name")
	}

	result, err := s.registry.Call(ctx, params.Name, params.Arguments)
	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		return errorResponse(req.ID, CodeInvalidParams, fmt.Sprintf("tool %s not found", params.Name))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return errorResponse(req.ID, CodeInternalError, err.Error())
	case err != nil:
		s.log.Error("tool failed", zap.String("tool", params.Name), zap.Error(err))
		result = tools.ErrorResult("%s failed: %v", params.Name, err)
	}

	s.log.Debug("tool called", zap.String("tool", params.Name), zap.Bool("is_error", result.IsError))
	return resultResponse(req.ID, result)
}

func (s *Server) encode(resp *rpcResponse) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		s.log.Error("encoding response", zap.Error(err))
		data, _ = json.Marshal(errorResponse(resp.ID, CodeInternalError, "encoding response failed"))
	}
	return data
}

func resultResponse(id json.RawMessage, result any) *rpcResponse {
	return &rpcResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, msg string) *rpcResponse {
	return &rpcResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: msg}}
}
