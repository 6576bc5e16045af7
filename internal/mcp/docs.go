package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AboutText is the product description shown by the guide.
const AboutText = "Chunking is a productivity app designed to help you break large goals into smaller, manageable chunks. It helps you stay motivated, visualize progress, and get more done — without feeling overwhelmed."

const serverInstructions = `chunking tracks projects broken into three checklist tasks, free-text notes, a focus timer and chats with a planning assistant.

Core concepts:
- Project: name, optional goals, tasks Research / Planning / Execution. Lives in exactly one list: current or finished.
- Projects are addressed by list + index; indexes shift when projects move, so call list_projects before toggling.
- Toggling the last open task of a current project moves it to finished. Unchecking any task of a finished project moves it back.
- Note: id + text, persisted across restarts.
- Focus timer: one countdown per server. Set, start, pause, reset; a sound plays once when it reaches 00:00.
- Conversation: a chat with the assistant about a topic. Replies are markdown bullet points.

Workflow:
1) list_projects to orient.
2) create_project / toggle_task / view_goals to work the checklist.
3) save_note for anything worth keeping; begin_edit_note + save_note with editing_id to revise.
4) timer_set then timer_start for a focus block; timer_status to check.
5) start_conversation with a project name as topic, then send_message.
6) get_recent_activity to review what happened.

Docs:
- chunking://guide/about
- chunking://guide/workflows
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "chunking://guide/about",
		Name:        "guide_about",
		Title:       "About Chunking",
		Description: "What Chunking is and the idea behind it.",
		Content: `# About Chunking

` + AboutText + `

## How it works

- Break a goal into a project with three tasks: **Research**, **Planning**, **Execution**.
- Check tasks off as you go. A project with every task done moves to **Finished**.
- Keep notes alongside your projects.
- Use the focus timer to work in short, bounded blocks.
- Ask the assistant to help you chunk a goal into next steps.
`,
	},
	{
		URI:         "chunking://guide/workflows",
		Name:        "guide_workflows",
		Title:       "Workflows",
		Description: "Tool sequences for common tasks.",
		Content: `# Workflows

## Start a project

1. ` + "`create_project`" + ` with a name and optional goals.
2. ` + "`list_projects`" + ` to find its index in ` + "`current`" + `.

## Finish a project

1. ` + "`toggle_task`" + ` each open task (` + "`task_index`" + ` 0, 1, 2).
2. The result's ` + "`transition`" + ` is ` + "`promoted`" + ` when it moves to finished.
3. ` + "`dropped: true`" + ` means finished already held a project with that name; the toggled project was removed.

## Focus block

1. ` + "`timer_set`" + ` with minutes and seconds.
2. ` + "`timer_start`" + `; ` + "`timer_pause`" + ` keeps the remaining time, ` + "`timer_reset`" + ` clears it.
3. ` + "`timer_status`" + ` shows ` + "`display`" + ` as MM:SS.

## Ask for help

1. ` + "`start_conversation`" + ` with ` + "`topic`" + ` set to the project name.
2. ` + "`send_message`" + `; a reply with ` + "`failed: true`" + ` means the assistant could not be reached.
3. ` + "`get_transcript`" + ` to re-read the chat.

Pass ` + "`wait: false`" + ` to ` + "`send_message`" + ` to queue several questions at once. Replies land in
the transcript in the order they complete; ` + "`pending`" + ` is true until all have arrived.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
