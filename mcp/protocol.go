package mcp

import "github.com/google/jsonschema-go/jsonschema"

// Version is the Model Context Protocol version
const Version = "2024-11-05"

// Role represents the sender or recipient of messages and data in a conversation
type Role string

const (
	// RoleUser represents the user
	RoleUser Role = "user"

	// RoleAssistant represents the assistant
	RoleAssistant Role = "assistant"
)

// Content types
type (
	// Annotations represents optional annotations for objects
	Annotations struct {
		// Describes who the intended customer of this object or data is
		Audience []Role `json:"audience,omitempty"`
		// Describes how important this data is for operating the server (0-1)
		Priority *float64 `json:"priority,omitempty"`
	}

	// Content represents the base content type
	Content struct {
		Type        string       `json:"type"`
		Text        string       `json:"text,omitempty"`
		Data        string       `json:"data,omitempty"`
		MimeType    string       `json:"mimeType,omitempty"`
		Annotations *Annotations `json:"annotations,omitempty"`
	}
)

// NewTextContent creates a new text Content with optional annotations
func NewTextContent(text string, audience []Role, priority *float64) Content {
	content := Content{
		Type: "text",
		Text: text,
	}
	if audience != nil || priority != nil {
		content.Annotations = &Annotations{
			Audience: audience,
			Priority: priority,
		}
	}
	return content
}

// Initialize
type (
	// ServerCapabilities represents the server's supported capabilities
	ServerCapabilities struct {
		Experimental map[string]interface{} `json:"experimental,omitempty"`
		Logging      *struct{}              `json:"logging,omitempty"`
		Prompts      *struct {
			ListChanged bool `json:"listChanged"`
		} `json:"prompts,omitempty"`
		Resources *struct {
			Subscribe   bool `json:"subscribe"`
			ListChanged bool `json:"listChanged"`
		} `json:"resources,omitempty"`
		Tools *struct {
			ListChanged bool `json:"listChanged"`
		} `json:"tools,omitempty"`
	}

	// ServerInfo represents information about an MCP implementation
	ServerInfo struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}

	// InitializeRequest represents a request to initialize the server
	InitializeRequest struct {
		ProtocolVersion string                 `json:"protocolVersion,omitempty"`
		Capabilities    map[string]interface{} `json:"capabilities,omitempty"`
		ClientInfo      *ServerInfo            `json:"clientInfo,omitempty"`
	}

	// InitializeResponse represents the server's response to an initialize request
	InitializeResponse struct {
		ProtocolVersion string             `json:"protocolVersion"`
		Capabilities    ServerCapabilities `json:"capabilities"`
		ServerInfo      ServerInfo         `json:"serverInfo"`
		Instructions    string             `json:"instructions,omitempty"`
	}
)

// Resources
type (
	// Resource represents a known resource that the server can read
	Resource struct {
		URI         string `json:"uri"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		MimeType    string `json:"mimeType,omitempty"`
	}

	// ResourceContents represents the contents of a specific resource
	ResourceContents struct {
		URI      string `json:"uri"`
		MimeType string `json:"mimeType,omitempty"`
		Text     string `json:"text,omitempty"`
		Blob     string `json:"blob,omitempty"`
	}

	// ListResourcesResponse represents the response for resources/list
	ListResourcesResponse struct {
		Resources  []Resource `json:"resources"`
		NextCursor string     `json:"nextCursor,omitempty"`
	}

	// ReadResourceRequest represents a request to read a resource
	ReadResourceRequest struct {
		URI string `json:"uri"`
	}

	// ReadResourceResponse represents the response for resources/read
	ReadResourceResponse struct {
		Contents []ResourceContents `json:"contents"`
	}
)

// Prompts
type (
	// Prompt represents a prompt or prompt template
	Prompt struct {
		Name        string           `json:"name"`
		Description string           `json:"description,omitempty"`
		Arguments   []PromptArgument `json:"arguments,omitempty"`
	}

	// PromptArgument represents an argument for a prompt
	PromptArgument struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		Required    bool   `json:"required,omitempty"`
	}

	// PromptMessage represents a message in a prompt
	PromptMessage struct {
		Role    Role    `json:"role"`
		Content Content `json:"content"`
	}

	// ListPromptsResponse represents the response for prompts/list
	ListPromptsResponse struct {
		Prompts    []Prompt `json:"prompts"`
		NextCursor string   `json:"nextCursor,omitempty"`
	}

	// GetPromptRequest represents a request to get a specific prompt
	GetPromptRequest struct {
		Name      string            `json:"name"`
		Arguments map[string]string `json:"arguments,omitempty"`
	}

	// GetPromptResponse represents the response for prompts/get
	GetPromptResponse struct {
		Description string          `json:"description,omitempty"`
		Messages    []PromptMessage `json:"messages"`
	}
)

// Tools
type (
	// Tool represents a single tool in the tools/list response
	Tool struct {
		Name        string             `json:"name"`
		Description string             `json:"description,omitempty"`
		InputSchema *jsonschema.Schema `json:"inputSchema"`
	}

	// ToolsListResponse represents the response for the tools/list method
	ToolsListResponse struct {
		Tools      []Tool `json:"tools"`
		NextCursor string `json:"nextCursor,omitempty"`
	}

	// ToolCallRequest represents a request to call a specific tool
	ToolCallRequest struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments,omitempty"`
	}

	// ToolCallResponse represents the response from a tool call
	ToolCallResponse struct {
		Content []Content `json:"content"`
		IsError bool      `json:"isError,omitempty"`
	}
)

// Ping
type (
	// PingRequest represents a ping request
	PingRequest struct{}

	// PingResponse represents the response for ping
	PingResponse struct{}
)
