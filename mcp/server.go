package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/Terrib1e/awt-chat-mcp-server/internal/prompts"
	"github.com/Terrib1e/awt-chat-mcp-server/internal/resources"
	"github.com/Terrib1e/awt-chat-mcp-server/internal/tools"
	"github.com/Terrib1e/awt-chat-mcp-server/jsonrpc"
)

// Server processes JSON-RPC requests against the tool registry, resource
// catalog, and prompt library.
type Server struct {
	registry *tools.Registry
	catalog  *resources.Catalog
	prompts  *prompts.Library
	info     ServerInfo
	logger   *slog.Logger
}

// ServerOption configures a Server
type ServerOption func(*Server)

// WithRegistry sets the tool registry
func WithRegistry(registry *tools.Registry) ServerOption {
	return func(s *Server) {
		s.registry = registry
	}
}

// WithResources sets the resource catalog
func WithResources(catalog *resources.Catalog) ServerOption {
	return func(s *Server) {
		s.catalog = catalog
	}
}

// WithPrompts sets the prompt library
func WithPrompts(library *prompts.Library) ServerOption {
	return func(s *Server) {
		s.prompts = library
	}
}

// WithServerInfo sets the name and version reported on initialize
func WithServerInfo(name, version string) ServerOption {
	return func(s *Server) {
		s.info = ServerInfo{Name: name, Version: version}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP server instance
func NewServer(opts ...ServerOption) (*Server, error) {
	s := &Server{
		info:   ServerInfo{Name: "chatmcp", Version: "dev"},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		return nil, fmt.Errorf("server requires a tool registry")
	}
	if s.prompts == nil {
		s.prompts = prompts.NewLibrary()
	}
	return s, nil
}

// Handle processes a single JSON-RPC request and returns a response
func (s *Server) Handle(request jsonrpc.Request) jsonrpc.Response {
	s.logger.Debug("handling request", "method", request.Method)

	switch request.Method {
	case "initialize":
		return s.handleInitialize(request)
	case "ping":
		return jsonrpc.NewResponse(request.Id, PingResponse{}, nil)
	case "notifications/initialized", "notifications/cancelled":
		// Notifications produce no response; the transport drops this.
		return jsonrpc.NewResponse(request.Id, nil, nil)
	case "tools/list":
		return s.handleToolsList(request)
	case "tools/call":
		return s.handleToolsCall(request)
	case "resources/list":
		return s.handleResourcesList(request)
	case "resources/read":
		return s.handleResourcesRead(request)
	case "prompts/list":
		return s.handlePromptsList(request)
	case "prompts/get":
		return s.handlePromptsGet(request)
	default:
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrMethodNotFound, nil))
	}
}

func (s *Server) handleInitialize(request jsonrpc.Request) jsonrpc.Response {
	if len(request.Params) > 0 {
		var params InitializeRequest
		if err := json.Unmarshal(request.Params, &params); err != nil {
			return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, err))
		}
		if params.ClientInfo != nil {
			s.logger.Info("client connected", "name", params.ClientInfo.Name, "version", params.ClientInfo.Version)
		}
	}

	response := InitializeResponse{
		ProtocolVersion: Version,
		Capabilities: ServerCapabilities{
			Tools: &struct {
				ListChanged bool `json:"listChanged"`
			}{},
			Prompts: &struct {
				ListChanged bool `json:"listChanged"`
			}{},
		},
		ServerInfo: s.info,
	}
	if s.catalog != nil {
		response.Capabilities.Resources = &struct {
			Subscribe   bool `json:"subscribe"`
			ListChanged bool `json:"listChanged"`
		}{}
	}
	return jsonrpc.NewResponse(request.Id, response, nil)
}

func (s *Server) handleToolsList(request jsonrpc.Request) jsonrpc.Response {
	listed := []Tool{}
	for _, tool := range s.registry.Tools() {
		listed = append(listed, Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		})
	}
	return jsonrpc.NewResponse(request.Id, ToolsListResponse{Tools: listed}, nil)
}

// handleToolsCall dispatches to the registry. Tool failures are reported
// inside the result envelope, as an "Error: ..." text block with the isError
// flag set, so the caller can still read them as content. Only a malformed
// request is a protocol-level error.
func (s *Server) handleToolsCall(request jsonrpc.Request) jsonrpc.Response {
	var params ToolCallRequest
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, err))
	}
	if params.Name == "" {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, "tool name is required"))
	}

	result, err := s.registry.Dispatch(context.Background(), params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool call failed", "tool", params.Name, "error", err)
		return jsonrpc.NewResponse(request.Id, ToolCallResponse{
			Content: []Content{NewTextContent(fmt.Sprintf("Error: %s", err.Error()), nil, nil)},
			IsError: true,
		}, nil)
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInternal, err))
	}

	return jsonrpc.NewResponse(request.Id, ToolCallResponse{
		Content: []Content{NewTextContent(string(encoded), nil, nil)},
	}, nil)
}

func (s *Server) handleResourcesList(request jsonrpc.Request) jsonrpc.Response {
	listed := []Resource{}
	if s.catalog != nil {
		for _, entry := range s.catalog.List() {
			listed = append(listed, Resource{
				URI:         entry.URI,
				Name:        entry.Name,
				Description: entry.Description,
				MimeType:    entry.MimeType,
			})
		}
	}
	return jsonrpc.NewResponse(request.Id, ListResourcesResponse{Resources: listed}, nil)
}

func (s *Server) handleResourcesRead(request jsonrpc.Request) jsonrpc.Response {
	var params ReadResourceRequest
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, err))
	}
	if params.URI == "" {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, "resource URI is required"))
	}
	if s.catalog == nil {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, "no resources available"))
	}

	content, err := s.catalog.Read(params.URI)
	if err != nil {
		s.logger.Warn("resource read failed", "uri", params.URI, "error", err)
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, err))
	}

	return jsonrpc.NewResponse(request.Id, ReadResourceResponse{
		Contents: []ResourceContents{{
			URI:      content.URI,
			MimeType: content.MimeType,
			Text:     content.Text,
		}},
	}, nil)
}

func (s *Server) handlePromptsList(request jsonrpc.Request) jsonrpc.Response {
	listed := []Prompt{}
	for _, p := range s.prompts.List() {
		arguments := make([]PromptArgument, 0, len(p.Arguments))
		for _, arg := range p.Arguments {
			arguments = append(arguments, PromptArgument{
				Name:        arg.Name,
				Description: arg.Description,
				Required:    arg.Required,
			})
		}
		listed = append(listed, Prompt{
			Name:        p.Name,
			Description: p.Description,
			Arguments:   arguments,
		})
	}
	return jsonrpc.NewResponse(request.Id, ListPromptsResponse{Prompts: listed}, nil)
}

func (s *Server) handlePromptsGet(request jsonrpc.Request) jsonrpc.Response {
	var params GetPromptRequest
	if err := json.Unmarshal(request.Params, &params); err != nil {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, err))
	}

	prompt, ok := s.prompts.Get(params.Name)
	if !ok {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, fmt.Sprintf("unknown prompt: %s", params.Name)))
	}

	text, err := s.prompts.Render(params.Name, params.Arguments)
	if err != nil {
		return jsonrpc.NewResponse(request.Id, nil, jsonrpc.NewError(jsonrpc.ErrInvalidParams, err))
	}

	return jsonrpc.NewResponse(request.Id, GetPromptResponse{
		Description: prompt.Description,
		Messages: []PromptMessage{{
			Role:    RoleUser,
			Content: NewTextContent(text, nil, nil),
		}},
	}, nil)
}
