// ABOUTME: MCP resource implementations for nourish.
// ABOUTME: Provides nourish://today and nourish://profile resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	todayURI   = "nourish://today"
	profileURI = "nourish://profile"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         todayURI,
		Name:        "Today's Nutrition",
		Description: "Meals, intake, target, burn and lifestyle score for today",
		MIMEType:    "application/json",
	}, s.handleTodayResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         profileURI,
		Name:        "Profile and Target",
		Description: "Saved user profile and the resulting daily calorie target",
		MIMEType:    "application/json",
	}, s.handleProfileResource)
}

// Resource handlers

func (s *Server) handleTodayResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sum, err := s.svc.DailySummary(s.svc.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to summarize today: %w", err)
	}
	return jsonResource(todayURI, sum)
}

func (s *Server) handleProfileResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	profile, err := s.svc.Profile()
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	target, err := s.svc.EstimateTarget()
	if err != nil {
		return nil, fmt.Errorf("failed to estimate target: %w", err)
	}

	return jsonResource(profileURI, map[string]any{
		"profile": profile,
		"target":  target,
	})
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
