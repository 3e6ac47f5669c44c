package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Tameralinada/ai-code-reviewer/internal/analyzer"
	"github.com/Tameralinada/ai-code-reviewer/internal/store"
)

// Analyzer is the subset of the analysis engine the MCP tools need.
type Analyzer interface {
	AnalyzeCode(ctx context.Context, code string) analyzer.Result
	AnalyzeSecurity(ctx context.Context, code string) analyzer.SecurityResult
	AnalyzeQuality(ctx context.Context, code string) analyzer.QualityResult
	QuickAnalyze(ctx context.Context, code string) *analyzer.QuickFeedback
}

// Server wraps the review data layer and analysis engine and exposes them
// as MCP tools.
type Server struct {
	store  store.Store
	engine Analyzer
}

// NewServer creates the MCP server wrapper with all required dependencies.
func NewServer(s store.Store, engine Analyzer) *Server {
	return &Server{
		store:  s,
		engine: engine,
	}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("ai-code-reviewer", "1.0.0", server.WithToolCapabilities(true))

	// Register all tools
	srv.AddTool(s.reviewCodeTool())
	srv.AddTool(s.recentReviewsTool())
	srv.AddTool(s.reviewDetailsTool())
	srv.AddTool(s.securityScanTool())
	srv.AddTool(s.qualityScanTool())
	srv.AddTool(s.quickFeedbackTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

// review_code
func (s *Server) reviewCodeTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("review_code",
		mcp.WithDescription("Run a full code review: issues with severity and line numbers, complexity/maintainability/security scores, and improvement suggestions. The review is persisted and can be fetched later with review_details."),
		mcp.WithString("code", mcp.Required(), mcp.Description("The source code to review")),
		mcp.WithString("file_name", mcp.Description("Optional file name for the review record")),
	)
	return tool, s.handleReviewCode
}

func (s *Server) handleReviewCode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: code"), nil
	}
	fileName := request.GetString("file_name", "")

	review, err := s.store.CreateReview(ctx, fileName, code)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create review: %v", err)), nil
	}

	res := s.engine.AnalyzeCode(ctx, code)
	if err := s.store.RecordResult(ctx, review.ID, res); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to record result: %v", err)), nil
	}

	out := map[string]any{
		"review_id": review.ID,
		"file_name": review.FileName,
		"success":   res.Success,
	}
	if res.Success {
		out["analysis"] = res.Analysis
	} else {
		out["error"] = res.Error
	}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// recent_reviews
func (s *Server) recentReviewsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("recent_reviews",
		mcp.WithDescription("List recent reviews, newest first. Returns a JSON array with id, file_name, status, and created_at."),
		mcp.WithNumber("limit", mcp.Description("Maximum number of reviews to return (default 10)")),
	)
	return tool, s.handleRecentReviews
}

func (s *Server) handleRecentReviews(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 0)

	reviews, err := s.store.RecentReviews(ctx, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list reviews: %v", err)), nil
	}

	type reviewOut struct {
		ID        string `json:"id"`
		FileName  string `json:"file_name"`
		Status    string `json:"status"`
		CreatedAt string `json:"created_at"`
	}

	out := make([]reviewOut, len(reviews))
	for i, r := range reviews {
		out[i] = reviewOut{
			ID:        r.ID,
			FileName:  r.FileName,
			Status:    string(r.Status),
			CreatedAt: r.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal reviews: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// review_details
func (s *Server) reviewDetailsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("review_details",
		mcp.WithDescription("Get a stored review with its issues, metrics, and history."),
		mcp.WithString("review_id", mcp.Required(), mcp.Description("The review ID")),
	)
	return tool, s.handleReviewDetails
}

func (s *Server) handleReviewDetails(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reviewID, err := request.RequireString("review_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: review_id"), nil
	}

	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("review not found: %s", reviewID)), nil
	}

	issues, err := s.store.ListIssues(ctx, reviewID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list issues: %v", err)), nil
	}

	result := map[string]any{
		"review": map[string]any{
			"id":         review.ID,
			"file_name":  review.FileName,
			"status":     string(review.Status),
			"created_at": review.CreatedAt.Format("2006-01-02 15:04:05"),
		},
	}

	issueOut := make([]map[string]any, len(issues))
	for i, issue := range issues {
		issueOut[i] = map[string]any{
			"severity":    string(issue.Severity),
			"description": issue.Description,
			"line_number": issue.LineNumber,
		}
	}
	result["issues"] = issueOut

	// A review that never completed has no metric row
	if metric, err := s.store.GetMetric(ctx, reviewID); err == nil {
		result["metrics"] = map[string]any{
			"complexity":      metric.Complexity,
			"maintainability": metric.Maintainability,
			"security_score":  metric.SecurityScore,
		}
	}

	if history, err := s.store.ListHistory(ctx, reviewID); err == nil {
		historyOut := make([]map[string]any, len(history))
		for i, h := range history {
			historyOut[i] = map[string]any{
				"action":     string(h.Action),
				"details":    h.Details,
				"created_at": h.CreatedAt.Format("2006-01-02 15:04:05"),
			}
		}
		result["history"] = historyOut
	}

	data, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal review: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// security_scan
func (s *Server) securityScanTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("security_scan",
		mcp.WithDescription("Run a security-focused scan. Returns vulnerabilities with type, severity, remediation, and CWE references. Results are not persisted."),
		mcp.WithString("code", mcp.Required(), mcp.Description("The source code to scan")),
	)
	return tool, s.handleSecurityScan
}

func (s *Server) handleSecurityScan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: code"), nil
	}

	res := s.engine.AnalyzeSecurity(ctx, code)
	if !res.Success {
		return mcp.NewToolResultError(fmt.Sprintf("security scan failed: %s", res.Error)), nil
	}

	data, err := json.Marshal(res.Report)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal report: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// quality_scan
func (s *Server) qualityScanTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("quality_scan",
		mcp.WithDescription("Run a quality-focused scan. Returns quality issues, maintainability index, cognitive complexity, and local code statistics. Results are not persisted."),
		mcp.WithString("code", mcp.Required(), mcp.Description("The source code to scan")),
	)
	return tool, s.handleQualityScan
}

func (s *Server) handleQualityScan(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: code"), nil
	}

	res := s.engine.AnalyzeQuality(ctx, code)
	if !res.Success {
		return mcp.NewToolResultError(fmt.Sprintf("quality scan failed: %s", res.Error)), nil
	}

	data, err := json.Marshal(res.Report)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal report: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// quick_feedback
func (s *Server) quickFeedbackTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("quick_feedback",
		mcp.WithDescription("Get fast, lightweight suggestions for a snippet. Always returns a result; scores degrade to \"N/A\" if analysis fails."),
		mcp.WithString("code", mcp.Required(), mcp.Description("The source code snippet")),
	)
	return tool, s.handleQuickFeedback
}

func (s *Server) handleQuickFeedback(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	code, err := request.RequireString("code")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: code"), nil
	}

	feedback := s.engine.QuickAnalyze(ctx, code)

	data, err := json.Marshal(feedback)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal feedback: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
