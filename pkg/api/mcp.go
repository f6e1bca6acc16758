package api

import (
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hazyhaar/salary-registry/pkg/category"
	"github.com/hazyhaar/salary-registry/pkg/kit"
)

// NewMCPServer builds an MCP server exposing the same endpoints as the
// HTTP router.
func NewMCPServer(version string, cat Catalog, cl *category.Classifier, logger *slog.Logger) *server.MCPServer {
	if logger == nil {
		logger = slog.Default()
	}
	if cl == nil {
		cl = category.New(category.WithLogger(logger))
	}
	srv := server.NewMCPServer("salary-registry", version, server.WithToolCapabilities(false))
	registerMCPTools(srv, newEndpoints(cat, cl, logger))
	return srv
}

func registerMCPTools(srv *server.MCPServer, ep *endpoints) {
	kit.RegisterMCPTool(srv, mcp.NewTool("search_occupations",
		mcp.WithDescription("Fuzzy-search occupations in one country's salary data, best matches first."),
		mcp.WithString("country", mcp.Required(), mcp.Description("Country code (e.g. us, gb)")),
		mcp.WithString("query", mcp.Required(), mcp.Description("Occupation title or fragment (e.g. \"data anal\")")),
		mcp.WithNumber("limit", mcp.Description("Maximum results (default 10, max 100)")),
	), ep.search, decodeMCPSearch)

	kit.RegisterMCPTool(srv, mcp.NewTool("best_occupation",
		mcp.WithDescription("Return the single best-matching occupation with its salary figures and category."),
		mcp.WithString("country", mcp.Required(), mcp.Description("Country code")),
		mcp.WithString("query", mcp.Required(), mcp.Description("Occupation title")),
	), ep.best, decodeMCPSearch)

	kit.RegisterMCPTool(srv, mcp.NewTool("classify_occupation",
		mcp.WithDescription("Classify a job title into a broad occupational category with skills, responsibilities and career path."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Job title to classify")),
	), ep.classify, func(req mcp.CallToolRequest) (any, error) {
		title, err := requiredString(req, "title")
		if err != nil {
			return nil, err
		}
		return &classifyReq{Title: title}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("classify_occupations",
		mcp.WithDescription("Classify up to 100 job titles at once."),
		mcp.WithArray("titles", mcp.Required(), mcp.Description("Job titles"), mcp.Items(map[string]any{"type": "string"})),
	), ep.classifyBatch, func(req mcp.CallToolRequest) (any, error) {
		raw, _ := req.GetArguments()["titles"].([]any)
		titles := make([]string, 0, len(raw))
		for i, v := range raw {
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("titles[%d] is not a string", i)
			}
			titles = append(titles, s)
		}
		return &classifyBatchReq{Titles: titles}, nil
	})

	kit.RegisterMCPTool(srv, mcp.NewTool("list_countries",
		mcp.WithDescription("List the countries with salary data, their datasets and record counts."),
	), ep.countries, func(mcp.CallToolRequest) (any, error) { return nil, nil })

	kit.RegisterMCPTool(srv, mcp.NewTool("related_occupations",
		mcp.WithDescription("List occupations in the same category as a title, highest average salary first."),
		mcp.WithString("country", mcp.Required(), mcp.Description("Country code")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Job title")),
		mcp.WithNumber("limit", mcp.Description("Maximum results (default 10, max 100)")),
	), ep.related, func(req mcp.CallToolRequest) (any, error) {
		country, err := requiredString(req, "country")
		if err != nil {
			return nil, err
		}
		title, err := requiredString(req, "title")
		if err != nil {
			return nil, err
		}
		return &relatedReq{Country: country, Title: title, Limit: intArg(req, "limit")}, nil
	})
}

func decodeMCPSearch(req mcp.CallToolRequest) (any, error) {
	country, err := requiredString(req, "country")
	if err != nil {
		return nil, err
	}
	query, err := requiredString(req, "query")
	if err != nil {
		return nil, err
	}
	return &searchReq{Country: country, Query: query, Limit: intArg(req, "limit")}, nil
}

func requiredString(req mcp.CallToolRequest, name string) (string, error) {
	v, ok := req.GetArguments()[name]
	if !ok {
		return "", fmt.Errorf("missing %s", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", name)
	}
	return s, nil
}

// intArg reads a JSON number argument; absent or malformed values are 0.
func intArg(req mcp.CallToolRequest, name string) int {
	switch v := req.GetArguments()[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
