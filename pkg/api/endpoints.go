package api

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/hazyhaar/salary-registry/pkg/category"
	"github.com/hazyhaar/salary-registry/pkg/kit"
	"github.com/hazyhaar/salary-registry/pkg/match"
	"github.com/hazyhaar/salary-registry/pkg/salary"
)

const (
	defaultLimit = 10
	maxLimit     = 100
	maxBatch     = 100
	// minQueryLen is the shortest query worth ranking; shorter queries
	// return no results rather than the whole pool.
	minQueryLen = 2
)

// Catalog is the salary data the endpoints serve. *salary.Registry
// implements it.
type Catalog interface {
	Search(country, query string, limit int) ([]match.Result[salary.Record], error)
	Best(country, query string) (salary.Record, bool, error)
	Related(country, title string, cat salary.Categorizer, limit int) ([]salary.Record, error)
	Countries() []salary.CountryInfo
	DatasetCount() int
	TotalRecords() int
}

// Shared request/response types used by both HTTP and MCP transports.

type searchReq struct {
	Country string
	Query   string
	Limit   int
}

type searchResponse struct {
	Country string                        `json:"country"`
	Query   string                        `json:"query"`
	Results []match.Result[salary.Record] `json:"results"`
}

type bestResponse struct {
	Occupation salary.Record `json:"occupation"`
	Score      int           `json:"score"`
	Category   string        `json:"category"`
}

type classifyReq struct {
	Title string
}

type classifyResponse struct {
	Title      string `json:"title"`
	Normalized string `json:"normalized"`
	category.Info
}

type classifyBatchReq struct {
	Titles []string
}

type batchResponse struct {
	Results []classifyResponse `json:"results"`
}

type countriesResponse struct {
	Countries []salary.CountryInfo `json:"countries"`
}

type relatedReq struct {
	Country string
	Title   string
	Limit   int
}

type relatedResponse struct {
	Country  string          `json:"country"`
	Title    string          `json:"title"`
	Category string          `json:"category"`
	Related  []salary.Record `json:"related"`
}

// endpoints holds every action, each wrapped with logging.
type endpoints struct {
	search        kit.Endpoint
	best          kit.Endpoint
	classify      kit.Endpoint
	classifyBatch kit.Endpoint
	countries     kit.Endpoint
	related       kit.Endpoint
}

func newEndpoints(cat Catalog, cl *category.Classifier, logger *slog.Logger) *endpoints {
	wrap := func(name string, e kit.Endpoint) kit.Endpoint {
		return kit.Logging(logger, name)(e)
	}
	return &endpoints{
		search:        wrap("search", searchEndpoint(cat)),
		best:          wrap("best", bestEndpoint(cat, cl)),
		classify:      wrap("classify", classifyEndpoint(cl)),
		classifyBatch: wrap("classify_batch", classifyBatchEndpoint(cl)),
		countries:     wrap("countries", countriesEndpoint(cat)),
		related:       wrap("related", relatedEndpoint(cat, cl)),
	}
}

// clampLimit applies the default for unset limits and caps large ones.
func clampLimit(n int) int {
	switch {
	case n <= 0:
		return defaultLimit
	case n > maxLimit:
		return maxLimit
	}
	return n
}

// catalogError turns registry errors into transport errors.
func catalogError(err error, country string) error {
	if errors.Is(err, salary.ErrUnknownCountry) {
		return kit.NotFound(err, "no salary data for country %q", country)
	}
	return err
}

func searchEndpoint(cat Catalog) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*searchReq)
		if strings.TrimSpace(req.Country) == "" {
			return nil, kit.InvalidRequest("missing country")
		}
		resp := searchResponse{Country: req.Country, Query: req.Query, Results: []match.Result[salary.Record]{}}
		if utf8.RuneCountInString(strings.TrimSpace(req.Query)) < minQueryLen {
			// Still report unknown countries.
			if _, err := cat.Search(req.Country, "", 1); err != nil {
				return nil, catalogError(err, req.Country)
			}
			return resp, nil
		}
		res, err := cat.Search(req.Country, req.Query, clampLimit(req.Limit))
		if err != nil {
			return nil, catalogError(err, req.Country)
		}
		if res != nil {
			resp.Results = res
		}
		return resp, nil
	}
}

func bestEndpoint(cat Catalog, cl *category.Classifier) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*searchReq)
		if strings.TrimSpace(req.Country) == "" {
			return nil, kit.InvalidRequest("missing country")
		}
		if strings.TrimSpace(req.Query) == "" {
			return nil, kit.InvalidRequest("missing query")
		}
		rec, ok, err := cat.Best(req.Country, req.Query)
		if err != nil {
			return nil, catalogError(err, req.Country)
		}
		if !ok {
			return nil, kit.NotFound(nil, "no occupation matches %q", req.Query)
		}
		return bestResponse{
			Occupation: rec,
			Score:      match.Score(req.Query, rec.Occupation),
			Category:   cl.CategoryOf(rec.Occupation),
		}, nil
	}
}

func classifyOne(cl *category.Classifier, title string) classifyResponse {
	return classifyResponse{
		Title:      title,
		Normalized: category.NormalizeTitle(title),
		Info:       cl.Classify(title),
	}
}

func classifyEndpoint(cl *category.Classifier) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*classifyReq)
		return classifyOne(cl, req.Title), nil
	}
}

func classifyBatchEndpoint(cl *category.Classifier) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*classifyBatchReq)
		if len(req.Titles) == 0 {
			return nil, kit.InvalidRequest("titles array is empty")
		}
		if len(req.Titles) > maxBatch {
			return nil, kit.InvalidRequest("too many titles (max %d, got %d)", maxBatch, len(req.Titles))
		}
		results := make([]classifyResponse, len(req.Titles))
		for i, title := range req.Titles {
			results[i] = classifyOne(cl, title)
		}
		return batchResponse{Results: results}, nil
	}
}

func countriesEndpoint(cat Catalog) kit.Endpoint {
	return func(_ context.Context, _ any) (any, error) {
		return countriesResponse{Countries: cat.Countries()}, nil
	}
}

func relatedEndpoint(cat Catalog, cl *category.Classifier) kit.Endpoint {
	return func(_ context.Context, request any) (any, error) {
		req := request.(*relatedReq)
		if strings.TrimSpace(req.Title) == "" {
			return nil, kit.InvalidRequest("missing title")
		}
		related, err := cat.Related(req.Country, req.Title, cl, clampLimit(req.Limit))
		if err != nil {
			return nil, catalogError(err, req.Country)
		}
		if related == nil {
			related = []salary.Record{}
		}
		return relatedResponse{
			Country:  req.Country,
			Title:    req.Title,
			Category: cl.CategoryOf(req.Title),
			Related:  related,
		}, nil
	}
}
