package gateway

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// BlockingStatusInput identifies the user whose blocking state to fetch.
type BlockingStatusInput struct {
	Email string `json:"email" jsonschema:"email address the user registered with"`
}

type BlockingStatusResult struct {
	Valid                bool     `json:"valid" jsonschema:"whether the email maps to a registered user"`
	IsBlocking           bool     `json:"is_blocking" jsonschema:"whether a blocking session is active"`
	ProfileID            string   `json:"profile_id,omitempty" jsonschema:"active profile identifier"`
	ProfileName          string   `json:"profile_name,omitempty" jsonschema:"active profile name"`
	SessionID            string   `json:"session_id,omitempty" jsonschema:"active session identifier"`
	StartedAt            string   `json:"started_at,omitempty" jsonschema:"RFC3339 timestamp the session started"`
	RestrictedApps       []string `json:"restricted_apps" jsonschema:"app bundle ids currently blocked"`
	RestrictedCategories []string `json:"restricted_categories" jsonschema:"category ids currently blocked"`
}

type UnblockAppInput struct {
	Email       string `json:"email" jsonschema:"email address the user registered with"`
	AppBundleID string `json:"app_bundle_id" jsonschema:"bundle id of the app to unblock"`
	Reason      string `json:"reason,omitempty" jsonschema:"why the agent granted the unblock"`
}

type UnblockAppResult struct {
	UserID        string   `json:"user_id" jsonschema:"resolved user identifier"`
	ProfileID     string   `json:"profile_id" jsonschema:"profile the app was removed from"`
	UnblockedApp  string   `json:"unblocked_app" jsonschema:"bundle id that was unblocked"`
	RemainingApps []string `json:"remaining_apps" jsonschema:"bundle ids still blocked"`
	Reason        string   `json:"reason,omitempty" jsonschema:"reason echoed back for the record"`
}

type EndBlockingInput struct {
	Email  string `json:"email" jsonschema:"email address the user registered with"`
	Reason string `json:"reason,omitempty" jsonschema:"why the agent ended the session"`
}

type EndBlockingResult struct {
	UserID        string `json:"user_id" jsonschema:"resolved user identifier"`
	SessionsEnded int64  `json:"sessions_ended" jsonschema:"number of sessions ended"`
	Reason        string `json:"reason,omitempty" jsonschema:"reason echoed back for the record"`
}

type StartBlockingInput struct {
	Email       string `json:"email" jsonschema:"email address the user registered with"`
	ProfileID   string `json:"profile_id,omitempty" jsonschema:"optional explicit profile identifier"`
	ProfileName string `json:"profile_name,omitempty" jsonschema:"optional profile name to match"`
}

type StartBlockingResult struct {
	UserID     string `json:"user_id" jsonschema:"resolved user identifier"`
	ProfileID  string `json:"profile_id" jsonschema:"profile governing the session"`
	SessionID  string `json:"session_id" jsonschema:"session identifier"`
	IsBlocking bool   `json:"is_blocking" jsonschema:"always true on success"`
	StartedAt  string `json:"started_at" jsonschema:"RFC3339 timestamp the session started"`
}

// RegisterTools wires the four admin operations onto an MCP server. The
// handlers are plain forwards: the agent negotiates, the server decides.
func RegisterTools(server *mcp.Server, client *Client) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_user_blocking_status",
		Description: "Get a user's current blocking status and restricted apps using their email",
	}, blockingStatusHandler(client))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "unblock_app",
		Description: "Unblock a specific app for a user with reasoning",
	}, unblockAppHandler(client))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "end_blocking_session",
		Description: "End a user's entire blocking session with reasoning",
	}, endBlockingHandler(client))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "start_blocking_session",
		Description: "Start a user's blocking session by email (optionally choose a profile)",
	}, startBlockingHandler(client))
}

func blockingStatusHandler(client *Client) mcp.ToolHandlerFor[BlockingStatusInput, BlockingStatusResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input BlockingStatusInput) (*mcp.CallToolResult, BlockingStatusResult, error) {
		if input.Email == "" {
			return nil, BlockingStatusResult{}, fmt.Errorf("no user email provided")
		}

		status, err := client.StatusByEmail(ctx, input.Email)
		if err != nil {
			return nil, BlockingStatusResult{}, err
		}

		result := BlockingStatusResult{
			Valid:                status.Valid,
			IsBlocking:           status.IsBlocking,
			RestrictedApps:       status.RestrictedApps,
			RestrictedCategories: status.RestrictedCategories,
		}
		if status.ProfileID != nil {
			result.ProfileID = *status.ProfileID
		}
		if status.ProfileName != nil {
			result.ProfileName = *status.ProfileName
		}
		if status.SessionID != nil {
			result.SessionID = *status.SessionID
		}
		if status.StartedAt != nil {
			result.StartedAt = status.StartedAt.Format("2006-01-02T15:04:05Z07:00")
		}
		return nil, result, nil
	}
}

func unblockAppHandler(client *Client) mcp.ToolHandlerFor[UnblockAppInput, UnblockAppResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input UnblockAppInput) (*mcp.CallToolResult, UnblockAppResult, error) {
		if input.Email == "" {
			return nil, UnblockAppResult{}, fmt.Errorf("no user email provided")
		}
		if input.AppBundleID == "" {
			return nil, UnblockAppResult{}, fmt.Errorf("no app bundle ID provided")
		}

		resp, err := client.UnblockApp(ctx, input.Email, input.AppBundleID)
		if err != nil {
			return nil, UnblockAppResult{}, err
		}

		return nil, UnblockAppResult{
			UserID:        resp.UserID,
			ProfileID:     resp.ProfileID,
			UnblockedApp:  resp.UnblockedApp,
			RemainingApps: resp.RemainingApps,
			Reason:        input.Reason,
		}, nil
	}
}

func endBlockingHandler(client *Client) mcp.ToolHandlerFor[EndBlockingInput, EndBlockingResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EndBlockingInput) (*mcp.CallToolResult, EndBlockingResult, error) {
		if input.Email == "" {
			return nil, EndBlockingResult{}, fmt.Errorf("no user email provided")
		}

		resp, err := client.EndBlocking(ctx, input.Email)
		if err != nil {
			return nil, EndBlockingResult{}, err
		}

		return nil, EndBlockingResult{
			UserID:        resp.UserID,
			SessionsEnded: resp.SessionsEnded,
			Reason:        input.Reason,
		}, nil
	}
}

func startBlockingHandler(client *Client) mcp.ToolHandlerFor[StartBlockingInput, StartBlockingResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input StartBlockingInput) (*mcp.CallToolResult, StartBlockingResult, error) {
		if input.Email == "" {
			return nil, StartBlockingResult{}, fmt.Errorf("no user email provided")
		}

		resp, err := client.StartBlocking(ctx, input.Email, input.ProfileID, input.ProfileName)
		if err != nil {
			return nil, StartBlockingResult{}, err
		}

		return nil, StartBlockingResult{
			UserID:     resp.UserID,
			ProfileID:  resp.ProfileID,
			SessionID:  resp.SessionID,
			IsBlocking: resp.IsBlocking,
			StartedAt:  resp.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		}, nil
	}
}
