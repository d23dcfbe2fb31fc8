package gateway

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab/mcpclient/pkg/observability"
)

// Tool names exposed on the job_management endpoint.
const (
	ToolJobTemplatesList   = "controller.job_templates_list"
	ToolJobTemplatesLaunch = "controller.job_templates_launch_create"
	ToolJobsRead           = "controller.jobs_read"
	ToolJobsStdoutRead     = "controller.jobs_stdout_read"
)

// versionedArgs is the argument envelope shared by the controller tools.
type versionedArgs struct {
	Version     string         `json:"version,omitempty" jsonschema_description:"Controller API version"`
	ID          int            `json:"id,omitempty" jsonschema_description:"Resource identifier"`
	RequestBody map[string]any `json:"requestBody,omitempty" jsonschema_description:"Optional request payload"`
}

// recordTool counts the execution outcome before the result is returned.
func recordTool(name string, res *mcp.CallToolResult) *mcp.CallToolResult {
	status := "ok"
	if res.IsError {
		status = "tool_error"
	}
	observability.GatewayToolExecutionsTotal.WithLabelValues(name, status).Inc()
	return res
}

// textResult serializes v as JSON into a single text content part.
func textResult(v any) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult("encoding result: %v", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
}

// errorResult builds a tool-level error result. Domain failures (unknown
// template, unfinished job) are reported this way rather than as protocol
// errors so clients can inspect them.
func errorResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
	}
}

// newUtilityServer builds the MCP server behind the default /mcp endpoint.
func newUtilityServer() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "ping",
		Description: "Replies with pong",
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, struct{}, error) {
		return recordTool("ping", &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: "pong"}},
		}), struct{}{}, nil
	})

	type echoInput struct {
		Message string `json:"message" jsonschema_description:"The message to echo back"`
	}
	mcp.AddTool(server, &mcp.Tool{
		Name:        "echo",
		Description: "Echoes the provided message back",
	}, func(_ context.Context, _ *mcp.CallToolRequest, input echoInput) (*mcp.CallToolResult, struct{}, error) {
		return recordTool("echo", &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Echo: %s", input.Message)}},
		}), struct{}{}, nil
	})

	return server
}

// newJobManagementServer builds the MCP server behind /job_management/mcp.
// The tools mirror the controller's job template and job APIs.
func newJobManagementServer(store *jobStore) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolJobTemplatesList,
		Description: "List the controller's job templates",
	}, func(_ context.Context, _ *mcp.CallToolRequest, _ versionedArgs) (*mcp.CallToolResult, struct{}, error) {
		return recordTool(ToolJobTemplatesList, textResult(store.listTemplates())), struct{}{}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolJobTemplatesLaunch,
		Description: "Launch a job from the given job template",
	}, func(_ context.Context, _ *mcp.CallToolRequest, args versionedArgs) (*mcp.CallToolResult, struct{}, error) {
		job, err := store.launch(args.ID)
		if err != nil {
			return recordTool(ToolJobTemplatesLaunch, errorResult("%v", err)), struct{}{}, nil
		}
		return recordTool(ToolJobTemplatesLaunch, textResult(job)), struct{}{}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolJobsRead,
		Description: "Read the current state of a launched job",
	}, func(_ context.Context, _ *mcp.CallToolRequest, args versionedArgs) (*mcp.CallToolResult, struct{}, error) {
		job, err := store.read(args.ID)
		if err != nil {
			return recordTool(ToolJobsRead, errorResult("%v", err)), struct{}{}, nil
		}
		return recordTool(ToolJobsRead, textResult(job)), struct{}{}, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolJobsStdoutRead,
		Description: "Read the stdout of a finished job",
	}, func(_ context.Context, _ *mcp.CallToolRequest, args versionedArgs) (*mcp.CallToolResult, struct{}, error) {
		out, err := store.stdout(args.ID)
		if err != nil {
			return recordTool(ToolJobsStdoutRead, errorResult("%v", err)), struct{}{}, nil
		}
		return recordTool(ToolJobsStdoutRead, textResult(out)), struct{}{}, nil
	})

	return server
}
