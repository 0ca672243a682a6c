package mcp

import "github.com/mark3labs/mcp-go/mcp"

// suggestShellCommandTool defines the suggest_shell_command MCP tool.
var suggestShellCommandTool = mcp.NewTool("suggest_shell_command",
	mcp.WithDescription("Generate a bash command for a natural-language request, using the server's working directory as context. The command is returned, not run."),
	mcp.WithString("request",
		mcp.Required(),
		mcp.Description("What the command should do"),
	),
)

// suggestSearchCommandTool defines the suggest_search_command MCP tool.
var suggestSearchCommandTool = mcp.NewTool("suggest_search_command",
	mcp.WithDescription("Generate an ag (The Silver Searcher) command that finds the code a request describes, using project keywords and recent commits as context."),
	mcp.WithString("request",
		mcp.Required(),
		mcp.Description("What to look for in the repository"),
	),
)

// refactorCodeTool defines the refactor_code MCP tool.
var refactorCodeTool = mcp.NewTool("refactor_code",
	mcp.WithDescription("Return a refactored version of a code module."),
	mcp.WithString("code",
		mcp.Required(),
		mcp.Description("The complete source to refactor"),
	),
	mcp.WithString("instructions",
		mcp.Description("Refactoring instructions (defaults to a general clean-up list)"),
	),
	mcp.WithBoolean("json_mode",
		mcp.Description("Ask the model for a JSON object with a code field instead of a fenced reply"),
	),
)
