package mcp

import "github.com/mark3labs/mcp-go/mcp"

var createToolDef = mcp.NewTool("log_create",
	mcp.WithDescription("Open a new in-memory log. Free logs hold title/context notes; trace logs hold structured program events."),
	mcp.WithString("kind", mcp.Description("Log kind"), mcp.Enum("free", "trace")),
	mcp.WithBoolean("timestamp", mcp.Description("Free logs: stamp each entry. Trace logs: show times on each line. Defaults from config.")),
	mcp.WithString("separator", mcp.Description("Field separator. Free logs take a single character.")),
)

var addToolDef = mcp.NewTool("log_add",
	mcp.WithDescription("Append a note to a free log."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Log ID from log_create")),
	mcp.WithString("title", mcp.Required(), mcp.Description("Entry title")),
	mcp.WithString("context", mcp.Description("Entry context")),
)

var traceToolDef = mcp.NewTool("log_trace",
	mcp.WithDescription("Append a structured event to a trace log. kind: V (name = extra), FC (call name(extra)), IF/ELIF (extra is the condition), ELSE, R (return extra)."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Log ID from log_create")),
	mcp.WithString("function", mcp.Required(), mcp.Description("Function the event happened in")),
	mcp.WithString("kind", mcp.Required(), mcp.Description("Event kind"), mcp.Enum("V", "FC", "IF", "ELIF", "ELSE", "R")),
	mcp.WithString("name", mcp.Description("Variable or called function name (V, FC)")),
	mcp.WithString("extra", mcp.Description("Value, parameters or condition")),
)

var renderToolDef = mcp.NewTool("log_render",
	mcp.WithDescription("Return the full text of an open log."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Log ID")),
)

var saveToolDef = mcp.NewTool("log_save",
	mcp.WithDescription("Write an open log to a file, replacing it if it exists. The log stays open."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Log ID")),
	mcp.WithString("path", mcp.Required(), mcp.Description("Full file name including extension")),
)

var closeToolDef = mcp.NewTool("log_close",
	mcp.WithDescription("Discard an open log. Unsaved entries are lost."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Log ID")),
)

var listToolDef = mcp.NewTool("log_list",
	mcp.WithDescription("List open logs."),
)

var historyToolDef = mcp.NewTool("log_history",
	mcp.WithDescription("List previous saves, newest first."),
	mcp.WithString("path", mcp.Description("Only saves to this exact path")),
	mcp.WithNumber("limit", mcp.Description("Maximum items to return (default 20, max 100)")),
	mcp.WithNumber("offset", mcp.Description("Items to skip")),
)
