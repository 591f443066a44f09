// Package mcp exposes the story collection to MCP clients over stdio: list,
// read, generate (optionally saving or updating) and delete stories.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/jwulff/storybuilder/internal/builder"
	"github.com/jwulff/storybuilder/internal/gallery"
	"github.com/jwulff/storybuilder/internal/stories"
	"github.com/jwulff/storybuilder/internal/story"
	"github.com/jwulff/storybuilder/internal/synth"
)

const (
	serverName    = "Cosmic Story Builder"
	serverVersion = "0.1.0"
)

// StoryStore is the part of stories.Store the tools use.
type StoryStore interface {
	Load(ctx context.Context) []story.Record
	Get(ctx context.Context, id string) (story.Record, int, error)
	Append(ctx context.Context, r story.Record) (int, story.Record, error)
	Replace(ctx context.Context, id string, r story.Record) (int, error)
	Remove(ctx context.Context, id string) error
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *server.MCPServer
}

// StorySummary is one entry of list_stories.
type StorySummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Timestamp   time.Time `json:"timestamp"`
	Protagonist string    `json:"protagonist"`
	Setting     string    `json:"setting"`
	Preview     string    `json:"preview"`
}

// ListResult is the list_stories output.
type ListResult struct {
	Stories []StorySummary `json:"stories"`
	Total   int            `json:"total"`
}

// ListInput is the list_stories input.
type ListInput struct {
	Query string `json:"query"`
	Sort  string `json:"sort"`
}

// GetInput is the get_story input.
type GetInput struct {
	ID string `json:"id"`
}

// GenerateInput is the generate_story input. With ID set the story replaces
// that stored story; otherwise Save appends it.
type GenerateInput struct {
	Protagonist   string `json:"protagonist"`
	Setting       string `json:"setting"`
	Conflict      string `json:"conflict"`
	Companion     string `json:"companion"`
	CustomElement string `json:"customElement"`
	Save          bool   `json:"save"`
	ID            string `json:"id"`
}

// GenerateResult is the generate_story output.
type GenerateResult struct {
	Title    string           `json:"title"`
	Content  string           `json:"content"`
	Images   []story.ImageRef `json:"images"`
	Saved    bool             `json:"saved"`
	Updated  bool             `json:"updated"`
	ID       string           `json:"id,omitempty"`
	Position *int             `json:"position,omitempty"`
}

// DeleteInput is the delete_story input.
type DeleteInput struct {
	ID      string `json:"id"`
	Confirm bool   `json:"confirm"`
}

// DeleteResult is the delete_story output.
type DeleteResult struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// New returns a server whose tools act on store and compose with composer.
func New(store StoryStore, composer builder.Composer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("mcp")
	now := func() time.Time { return time.Now().UTC() }

	mcpServer := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)
	mcpServer.AddTool(listTool(), listHandler(store))
	mcpServer.AddTool(getTool(), getHandler(store))
	mcpServer.AddTool(generateTool(), generateHandler(store, composer, now, logger))
	mcpServer.AddTool(deleteTool(), deleteHandler(store, logger))

	return &Server{mcpServer: mcpServer}
}

// Serve runs the server on stdio until the client disconnects.
func (s *Server) Serve() error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

func listTool() mcp.Tool {
	return mcp.NewTool(
		"list_stories",
		mcp.WithDescription("Lists saved stories, optionally filtered by a search query and sorted"),
		mcp.WithString("query",
			mcp.Description("Case-insensitive text matched against title, content, hero and setting"),
		),
		mcp.WithString("sort",
			mcp.Description("newest, oldest or title"),
			mcp.Enum(string(gallery.SortNewest), string(gallery.SortOldest), string(gallery.SortTitle)),
		),
		mcp.WithOutputSchema[ListResult](),
	)
}

func listHandler(store StoryStore) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input ListInput
		if err := request.BindArguments(&input); err != nil {
			return mcp.NewToolResultErrorFromErr("invalid list arguments", err), nil
		}
		key, err := gallery.ParseSortKey(input.Sort)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("invalid sort", err), nil
		}

		visible := gallery.Sort(gallery.Filter(store.Load(ctx), input.Query), key)
		result := ListResult{Stories: make([]StorySummary, 0, len(visible)), Total: len(visible)}
		for _, r := range visible {
			result.Stories = append(result.Stories, StorySummary{
				ID:          r.ID,
				Title:       r.Title,
				Timestamp:   r.Timestamp,
				Protagonist: r.Settings.Protagonist,
				Setting:     r.Settings.Setting,
				Preview:     gallery.Preview(r.Content, gallery.PreviewWidth),
			})
		}
		return mcp.NewToolResultStructuredOnly(result), nil
	}
}

func getTool() mcp.Tool {
	return mcp.NewTool(
		"get_story",
		mcp.WithDescription("Returns one saved story with its settings and images"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Story id from list_stories")),
		mcp.WithOutputSchema[story.Record](),
	)
}

func getHandler(store StoryStore) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input GetInput
		if err := request.BindArguments(&input); err != nil {
			return mcp.NewToolResultErrorFromErr("invalid get arguments", err), nil
		}
		rec, _, err := store.Get(ctx, input.ID)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("get story failed", err), nil
		}
		return mcp.NewToolResultStructuredOnly(rec), nil
	}
}

func generateTool() mcp.Tool {
	return mcp.NewTool(
		"generate_story",
		mcp.WithDescription("Generates a space adventure from the given settings, optionally saving it or replacing an existing story"),
		mcp.WithString("protagonist", mcp.Required(), mcp.Description("The hero, e.g. 'brave astronaut'")),
		mcp.WithString("setting", mcp.Required(), mcp.Description("Where it happens, e.g. 'Mars colony'")),
		mcp.WithString("conflict", mcp.Required(), mcp.Description("What they did, e.g. 'discovered an alien artifact'")),
		mcp.WithString("companion", mcp.Description("Who helps them")),
		mcp.WithString("customElement", mcp.Description("An extra twist woven into the story")),
		mcp.WithBoolean("save", mcp.Description("Append the story to the collection"), mcp.DefaultBool(false)),
		mcp.WithString("id", mcp.Description("Replace this stored story instead of appending")),
		mcp.WithOutputSchema[GenerateResult](),
	)
}

func generateHandler(store StoryStore, composer builder.Composer, now func() time.Time, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input GenerateInput
		if err := request.BindArguments(&input); err != nil {
			return mcp.NewToolResultErrorFromErr("invalid generate arguments", err), nil
		}
		settings := story.Settings{
			Protagonist:   input.Protagonist,
			Setting:       input.Setting,
			Conflict:      input.Conflict,
			Companion:     input.Companion,
			CustomElement: input.CustomElement,
		}
		if missing := settings.Missing(); len(missing) > 0 {
			return mcp.NewToolResultError(builder.ValidationMessage), nil
		}

		draft := composer.Compose(settings)
		result := GenerateResult{Title: draft.Title, Content: draft.Content, Images: draft.Images}
		rec := recordFrom(draft, settings, now())

		switch {
		case input.ID != "":
			pos, err := store.Replace(ctx, input.ID, rec)
			if err != nil {
				if errors.Is(err, stories.ErrNotFound) {
					return mcp.NewToolResultError("story being edited no longer exists"), nil
				}
				return mcp.NewToolResultErrorFromErr("update story failed", err), nil
			}
			result.Updated = true
			result.ID = input.ID
			result.Position = &pos
			logger.Info("Story updated", zap.String("id", input.ID), zap.Int("position", pos))
		case input.Save:
			pos, stored, err := store.Append(ctx, rec)
			if err != nil {
				return mcp.NewToolResultErrorFromErr("save story failed", err), nil
			}
			result.Saved = true
			result.ID = stored.ID
			result.Position = &pos
			logger.Info("Story saved", zap.String("id", stored.ID))
		}
		return mcp.NewToolResultStructuredOnly(result), nil
	}
}

func recordFrom(d synth.Draft, s story.Settings, at time.Time) story.Record {
	images := d.Images
	if images == nil {
		images = []story.ImageRef{}
	}
	return story.Record{
		Title:     d.Title,
		Content:   d.Content,
		Timestamp: at,
		Settings:  s,
		Images:    images,
	}
}

func deleteTool() mcp.Tool {
	return mcp.NewTool(
		"delete_story",
		mcp.WithDescription("Permanently deletes a story. Requires confirm=true; this cannot be undone"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Story id from list_stories")),
		mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Must be true to delete")),
		mcp.WithOutputSchema[DeleteResult](),
	)
}

func deleteHandler(store StoryStore, logger *zap.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var input DeleteInput
		if err := request.BindArguments(&input); err != nil {
			return mcp.NewToolResultErrorFromErr("invalid delete arguments", err), nil
		}
		if !input.Confirm {
			return mcp.NewToolResultError("refusing to delete without confirm=true; this action cannot be undone"), nil
		}
		if err := store.Remove(ctx, input.ID); err != nil {
			return mcp.NewToolResultErrorFromErr("delete story failed", err), nil
		}
		logger.Info("Story deleted", zap.String("id", input.ID))
		return mcp.NewToolResultStructuredOnly(DeleteResult{ID: input.ID, Deleted: true}), nil
	}
}
