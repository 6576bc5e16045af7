package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/chunking/internal/domain/activity"
	"github.com/rpggio/chunking/internal/domain/chat"
	"github.com/rpggio/chunking/internal/domain/note"
	"github.com/rpggio/chunking/internal/domain/project"
	"github.com/rpggio/chunking/internal/domain/session"
	"github.com/rpggio/chunking/internal/domain/timer"
)

// SessionService defines the session intents exposed as tools.
type SessionService interface {
	CreateProject(ctx context.Context, req project.CreateRequest) (session.CreatedProject, error)
	ToggleTask(ctx context.Context, kind project.ListKind, projectIndex, taskIndex int) (project.ToggleResult, error)
	Projects() session.ProjectLists
	ViewGoals(kind project.ListKind, projectIndex int) (project.Project, error)

	Notes() []note.Note
	Draft() note.Draft
	SaveNote(ctx context.Context, text string, editingID int64) (note.Note, bool)
	DeleteNote(ctx context.Context, id int64) bool
	BeginEditNote(id int64) (note.Draft, bool)
	CancelEditNote()

	SetTimer(minutes, seconds int) bool
	StartTimer(ctx context.Context) bool
	PauseTimer()
	ResetTimer()
	TimerStatus() timer.Snapshot

	StartConversation(topic string) (string, error)
	Ask(ctx context.Context, conversationID, text string) (chat.Entry, error)
	Send(ctx context.Context, conversationID, text string) (bool, error)
	Transcript(conversationID string) ([]chat.Entry, bool, error)
	Conversations() []session.ConversationSummary
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Session  SessionService
	Activity ActivityService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Version  string
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "chunking",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
