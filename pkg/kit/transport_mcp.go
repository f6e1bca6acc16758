package kit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPDecoder extracts the typed request from MCP tool arguments.
type MCPDecoder func(mcp.CallToolRequest) (any, error)

// RegisterMCPTool registers an Endpoint as an MCP tool on srv. Endpoint
// errors become tool errors rather than protocol errors; the response is
// returned as JSON text.
func RegisterMCPTool(srv *server.MCPServer, tool mcp.Tool, endpoint Endpoint, decode MCPDecoder) {
	srv.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := ctx.Value(TransportKey).(string); !ok {
			ctx = WithTransport(ctx, TransportMCPStdio)
		}
		if GetRequestID(ctx) == "" {
			ctx = WithRequestID(ctx, NewRequestID())
		}

		request, err := decode(req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		resp, err := endpoint(ctx, request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("marshal: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	})
}
