package tools

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/go-resty/resty/v2"

	"github.com/sahil-voice-agent/server/internal/agent/model"
	errx "github.com/sahil-voice-agent/server/internal/core/error"
	logx "github.com/sahil-voice-agent/server/pkg/logger"
)

const ToolWebSearch = "web_search"

type WebSearchInput struct {
	Query string `json:"query"`
}

type WebSearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

type WebSearchOutput struct {
	Answer  string            `json:"answer,omitempty"`
	Results []WebSearchResult `json:"results"`
}

type tavilyRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	IncludeAnswer bool   `json:"include_answer"`
}

type tavilyResponse struct {
	Answer  string            `json:"answer"`
	Results []WebSearchResult `json:"results"`
}

// NewWebSearchTool builds the web_search tool backed by the Tavily API.
// The response model is only granted this tool for queries the router
// tags as needing fresh web data.
func NewWebSearchTool(cfg model.SearchConfig) tool.BaseTool {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.Timeout) * time.Second)

	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolWebSearch,
			Desc: "Search the web for current information: market conditions, news, trends, hiring and salary data. Returns a short answer plus ranked source snippets.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Search query describing the current information needed.",
					Required: true,
				},
			}),
		},
		func(ctx context.Context, in *WebSearchInput) (*WebSearchOutput, error) {
			query := strings.TrimSpace(in.Query)
			if query == "" {
				return nil, fmt.Errorf("query is required")
			}

			maxResults := cfg.MaxResults
			if maxResults <= 0 {
				maxResults = 3
			}

			var out tavilyResponse
			resp, err := client.R().
				SetContext(ctx).
				SetBody(tavilyRequest{
					APIKey:        cfg.APIKey,
					Query:         query,
					MaxResults:    maxResults,
					IncludeAnswer: true,
				}).
				SetResult(&out).
				Post("/search")
			if err != nil {
				logx.Error().Err(err).Str("query", query).Msg("web search request failed")
				return nil, errx.New(err, http.StatusBadGateway, errx.SearchErrorMessage)
			}
			if resp.IsError() {
				logx.Error().Int("status", resp.StatusCode()).Str("query", query).Msg("web search returned error status")
				return nil, errx.New(fmt.Errorf("status %d", resp.StatusCode()), resp.StatusCode(), errx.SearchErrorMessage)
			}

			logx.Debug().Str("query", query).Int("results", len(out.Results)).Msg("web search completed")
			return &WebSearchOutput{Answer: out.Answer, Results: out.Results}, nil
		},
	)
}
