package mcp

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/roasbeef/pushclash/internal/profile"
	"github.com/roasbeef/pushclash/internal/roast"
)

// Client facing tool error messages. Pipeline details stay in the server log.
const (
	msgUsernameRequired = "Username is required"
	msgRoastFailed      = "Failed to generate LeetCode roast"
)

// RoastProfileArgs are the arguments for the roast_leetcode_profile tool.
type RoastProfileArgs struct {
	// Username is the LeetCode username to roast.
	Username string `json:"username" jsonschema:"LeetCode username to roast"`
}

// RoastProfileResult is the result of the roast_leetcode_profile tool.
type RoastProfileResult struct {
	Username       string       `json:"username"`
	Name           string       `json:"name"`
	AvatarURL      string       `json:"avatar_url"`
	Outcome        profile.Kind `json:"outcome"`
	TotalSolved    int          `json:"total_solved"`
	EasySolved     int          `json:"easy_solved"`
	MediumSolved   int          `json:"medium_solved"`
	HardSolved     int          `json:"hard_solved"`
	AcceptanceRate float64      `json:"acceptance_rate"`
	Rating         float64      `json:"rating"`
	Ranking        *int         `json:"ranking,omitempty"`
	Roast          string       `json:"roast"`
}

func (s *Server) handleRoastProfile(ctx context.Context,
	req *mcp.CallToolRequest,
	args RoastProfileArgs) (*mcp.CallToolResult, RoastProfileResult, error) {

	resp, err := s.roaster.Roast(ctx, args.Username)
	if err != nil {
		return nil, RoastProfileResult{}, s.toolError(args.Username, err)
	}

	return nil, RoastProfileResult{
		Username:       resp.User.Username,
		Name:           resp.User.Name,
		AvatarURL:      resp.User.AvatarURL,
		Outcome:        resp.Outcome,
		TotalSolved:    resp.Stats.TotalSolved,
		EasySolved:     resp.Stats.EasySolved,
		MediumSolved:   resp.Stats.MediumSolved,
		HardSolved:     resp.Stats.HardSolved,
		AcceptanceRate: resp.Stats.AcceptanceRate,
		Rating:         resp.Stats.Rating,
		Ranking:        resp.Stats.Ranking,
		Roast:          resp.RoastResult,
	}, nil
}

// toolError logs err and returns the error shown to the MCP client.
func (s *Server) toolError(username string, err error) error {
	if errors.Is(err, roast.ErrInvalidInput) {
		return errors.New(msgUsernameRequired)
	}

	s.log.Warn("Roast tool failed", "username", username, "error", err)

	return errors.New(msgRoastFailed)
}
