/*
Package mcp implements the MCP server that exposes the intent hub.

The server uses stdio transport and exposes 4 tools:
  - intent_predict: Classify request text and propose a tool sequence
  - intent_complete: Report the outcome of a predicted interaction
  - intent_status: Inspect model version, sample count, rolling accuracy
  - intent_samples: BM25 search over the training-sample corpus
*/
package mcp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/khanglvm/intent-hub-mcp/internal/learner"
	"github.com/khanglvm/intent-hub-mcp/internal/reward"
	"github.com/khanglvm/intent-hub-mcp/internal/search"
	"github.com/khanglvm/intent-hub-mcp/internal/version"
)

// Server represents the intent-hub-mcp MCP server.
type Server struct {
	learner *learner.Learner
	indexer *search.Indexer
	logger  *zap.Logger

	in  io.Reader
	out io.Writer
}

// NewServer creates a new MCP server over a running learner.
func NewServer(l *learner.Learner, idx *search.Indexer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		learner: l,
		indexer: idx,
		logger:  logger,
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

// Run starts the MCP server using stdio transport.
// This blocks until stdin is closed.
func (s *Server) Run() error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		response, err := s.handleRequest(line)
		if err != nil {
			s.sendError(err)
			continue
		}

		if response != nil {
			s.sendResponse(response)
		}
	}

	return scanner.Err()
}

// MCPRequest represents an incoming MCP JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing MCP JSON-RPC response.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents an MCP error.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// handleRequest processes an incoming MCP request.
func (s *Server) handleRequest(data []byte) (*MCPResponse, error) {
	var req MCPRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid JSON-RPC request: %w", err)
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(&req)
	case "tools/list":
		return s.handleToolsList(&req)
	case "tools/call":
		return s.handleToolsCall(&req)
	case "notifications/initialized":
		// Notification, no response.
		return nil, nil
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32601, Message: "Method not found"},
		}, nil
	}
}

// handleInitialize handles the MCP initialize request.
func (s *Server) handleInitialize(req *MCPRequest) (*MCPResponse, error) {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "intent-hub-mcp",
				"version": version.Version,
			},
		},
	}, nil
}

// handleToolsList returns the list of available tools with AI-native descriptions.
func (s *Server) handleToolsList(req *MCPRequest) (*MCPResponse, error) {
	tools := []map[string]interface{}{
		{
			"name": "intent_predict",
			"description": `Classify a request and get the recommended tool sequence.

WHEN TO USE: Call this before executing a user request to decide which
tools to reach for and whether the local model is confident enough.

Returns: interactionId, intent, confidence, per-intent scores, tool
sequence, and a routing decision (LOCAL, REMOTE, or HYBRID_ESCALATE).

The interactionId must be passed to intent_complete after execution so
the model can learn from the outcome.`,
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text": map[string]interface{}{
						"type":        "string",
						"description": "The request text to classify",
					},
				},
				"required": []string{"text"},
			},
		},
		{
			"name": "intent_complete",
			"description": `Report the outcome of a predicted interaction.

WHEN TO USE: After executing the tools for a request that went through
intent_predict. Each interactionId is accepted exactly once.

WORKFLOW:
1. intent_predict(text) -> interactionId, tools
2. Execute the task
3. intent_complete(interactionId, actualTools, taskSuccess, ...)

Returns: the computed reward components and total.`,
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"interactionId": map[string]interface{}{
						"type":        "string",
						"description": "The id returned by intent_predict",
					},
					"actualIntent": map[string]interface{}{
						"type":        "string",
						"description": "The confirmed intent label, if known",
					},
					"actualTools": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Ordered list of tools actually invoked",
					},
					"taskSuccess": map[string]interface{}{
						"type":        "boolean",
						"description": "Whether the task completed successfully",
					},
					"latencyMs": map[string]interface{}{
						"type":        "integer",
						"description": "Wall-clock execution time in milliseconds",
					},
					"errorOccurred": map[string]interface{}{
						"type":        "boolean",
						"description": "Whether an unrecoverable error occurred",
					},
					"confirmed": map[string]interface{}{
						"type":        "boolean",
						"description": "For HYBRID_ESCALATE interactions: the outcome was reviewed",
					},
				},
				"required": []string{"interactionId"},
			},
		},
		{
			"name": "intent_status",
			"description": `Inspect the learning loop.

Returns: current model version, absorbed sample count, rolling accuracy
over recent completions, and the number of pending interactions.`,
			"inputSchema": map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			"name": "intent_samples",
			"description": `BM25 search over the training-sample corpus.

WHEN TO USE: To check what the model has been trained on before trusting
a low-confidence prediction, or to find labeled examples near a query.`,
			"inputSchema": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Natural language search query",
					},
					"intent": map[string]interface{}{
						"type":        "string",
						"description": "Optional intent label to scope the search",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of results (default 10)",
					},
				},
				"required": []string{"query"},
			},
		},
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": tools,
		},
	}, nil
}

// handleToolsCall handles tool execution requests.
func (s *Server) handleToolsCall(req *MCPRequest) (*MCPResponse, error) {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}

	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	var result interface{}
	var err error

	switch params.Name {
	case "intent_predict":
		result, err = s.execPredict(params.Arguments)
	case "intent_complete":
		result, err = s.execComplete(params.Arguments)
	case "intent_status":
		result, err = s.execStatus()
	case "intent_samples":
		result, err = s.execSamples(params.Arguments)
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32602, Message: fmt.Sprintf("Unknown tool: %s", params.Name)},
		}, nil
	}

	if err != nil {
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &MCPError{Code: -32000, Message: err.Error()},
		}, nil
	}

	text, merr := json.MarshalIndent(result, "", "  ")
	if merr != nil {
		return nil, fmt.Errorf("failed to encode result: %w", merr)
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": string(text),
				},
			},
		},
	}, nil
}

// execPredict classifies text through the learner.
func (s *Server) execPredict(args json.RawMessage) (interface{}, error) {
	var params struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if strings.TrimSpace(params.Text) == "" {
		return nil, fmt.Errorf("text is required")
	}

	return s.learner.Ingest(params.Text)
}

// execComplete reports an interaction outcome to the learner.
func (s *Server) execComplete(args json.RawMessage) (interface{}, error) {
	var params struct {
		InteractionID string   `json:"interactionId"`
		ActualIntent  string   `json:"actualIntent"`
		ActualTools   []string `json:"actualTools"`
		TaskSuccess   bool     `json:"taskSuccess"`
		LatencyMs     int      `json:"latencyMs"`
		ErrorOccurred bool     `json:"errorOccurred"`
		Confirmed     bool     `json:"confirmed"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if params.InteractionID == "" {
		return nil, fmt.Errorf("interactionId is required")
	}

	return s.learner.Complete(params.InteractionID, reward.Outcome{
		ActualIntent:  params.ActualIntent,
		ActualTools:   params.ActualTools,
		TaskSuccess:   params.TaskSuccess,
		LatencyMs:     params.LatencyMs,
		ErrorOccurred: params.ErrorOccurred,
		Confirmed:     params.Confirmed,
	})
}

// execStatus reports the learner's monitoring surface.
func (s *Server) execStatus() (interface{}, error) {
	return s.learner.Status(), nil
}

// execSamples searches the training-sample index.
func (s *Server) execSamples(args json.RawMessage) (interface{}, error) {
	if s.indexer == nil {
		return nil, fmt.Errorf("sample index is not available")
	}

	var params struct {
		Query  string `json:"query"`
		Intent string `json:"intent"`
		Limit  int    `json:"limit"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if strings.TrimSpace(params.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}

	if params.Intent != "" {
		return s.indexer.SearchByIntent(params.Query, params.Intent, params.Limit)
	}
	return s.indexer.Search(params.Query, params.Limit)
}

// sendResponse writes a JSON-RPC response to stdout.
func (s *Server) sendResponse(resp *MCPResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to marshal response", zap.Error(err))
		return
	}
	fmt.Fprintln(s.out, string(data))
}

// sendError writes an error response to stdout.
func (s *Server) sendError(err error) {
	resp := &MCPResponse{
		JSONRPC: "2.0",
		ID:      nil,
		Error:   &MCPError{Code: -32700, Message: err.Error()},
	}
	s.sendResponse(resp)
}
