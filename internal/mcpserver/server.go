// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes interval, formula and voicing tools for LLM integration via
// stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/tonic/internal/formula"
	"github.com/starford/tonic/internal/interval"
	"github.com/starford/tonic/internal/note"
	"github.com/starford/tonic/internal/voicing"
)

var semitoneItems = mcp.Items(map[string]any{"type": "integer", "minimum": 0, "maximum": interval.MaxSemitones})

// Server wraps the MCP server with tonic tools.
type Server struct {
	mcp *server.MCPServer
	svc *voicing.Service
}

// New creates a new MCP server with all tonic tools registered.
func New(svc *voicing.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Tonic",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("classify_interval",
		mcp.WithDescription("Classify a semitone count (0-12) into quality, number and step."),
		mcp.WithNumber("semitones", mcp.Required(), mcp.Description("Semitone count, 0 to 12")),
	), s.classifyInterval)

	s.mcp.AddTool(mcp.NewTool("classify_intervals",
		mcp.WithDescription("Classify a list of semitone counts. Fails on the first invalid element."),
		mcp.WithArray("semitones", mcp.Required(), semitoneItems, mcp.Description("Semitone counts, each 0 to 12")),
	), s.classifyIntervals)

	s.mcp.AddTool(mcp.NewTool("transpose_note",
		mcp.WithDescription("Move a note up by the interval of the given semitone count."),
		mcp.WithString("root", mcp.Required(), mcp.Description("Start note, e.g. C4, F#3, Bb2")),
		mcp.WithNumber("semitones", mcp.Required(), mcp.Description("Semitone count, 0 to 12")),
	), s.transposeNote)

	s.mcp.AddTool(mcp.NewTool("build_chain",
		mcp.WithDescription("Stack intervals on a root. Each interval applies to the previous note. "+
			"See the "+IntervalTableURI+" resource for the octave rules."),
		mcp.WithString("root", mcp.Required(), mcp.Description("Root note, e.g. C4")),
		mcp.WithArray("semitones", mcp.Required(), semitoneItems, mcp.Description("Stacked steps, e.g. [4, 3] for a major triad")),
	), s.buildChain)

	s.mcp.AddTool(mcp.NewTool("build_formula",
		mcp.WithDescription("Build a named chord or scale formula from a root."),
		mcp.WithString("formula", mcp.Required(), mcp.Description("Formula name or alias, e.g. major, m7, dorian")),
		mcp.WithString("root", mcp.Required(), mcp.Description("Root note, e.g. C4")),
	), s.buildFormula)

	s.mcp.AddTool(mcp.NewTool("list_formulas",
		mcp.WithDescription("List the chord and scale formulas in the catalog."),
		mcp.WithString("kind", mcp.Enum(string(formula.KindChord), string(formula.KindScale)), mcp.Description("Optional kind filter")),
	), s.listFormulas)

	s.mcp.AddTool(mcp.NewTool("save_voicing",
		mcp.WithDescription("Save a named voicing to the library. Give either steps or a formula."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Unique voicing name")),
		mcp.WithString("root", mcp.Required(), mcp.Description("Root note, e.g. C4")),
		mcp.WithArray("steps", semitoneItems, mcp.Description("Stacked steps; omit to use the formula's steps")),
		mcp.WithString("formula", mcp.Description("Formula name or alias")),
	), s.saveVoicing)

	s.mcp.AddTool(mcp.NewTool("list_voicings",
		mcp.WithDescription("List saved voicings, newest first."),
		mcp.WithString("formula", mcp.Description("Optional formula name filter")),
		mcp.WithNumber("limit", mcp.Description("Page size (default 50)")),
		mcp.WithNumber("offset", mcp.Description("Page offset")),
	), s.listVoicings)

	s.mcp.AddTool(mcp.NewTool("get_voicing",
		mcp.WithDescription("Fetch a saved voicing by its exact name."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Voicing name")),
	), s.getVoicing)

	s.mcp.AddTool(mcp.NewTool("get_interval_table",
		mcp.WithDescription("Returns the interval classification table and chaining rules. "+
			"Call this before building chains to check octave behaviour."),
	), s.getIntervalTable)

	// Resource: interval table.
	s.mcp.AddResource(
		mcp.NewResource(IntervalTableURI, "Interval Table",
			mcp.WithResourceDescription("Semitone to interval classification and chaining rules."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readIntervalTableResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

type intervalView struct {
	interval.Interval
	Name string `json:"name"`
}

func viewIntervals(ivs []interval.Interval) []intervalView {
	out := make([]intervalView, len(ivs))
	for i, iv := range ivs {
		out[i] = intervalView{Interval: iv, Name: iv.Name()}
	}
	return out
}

func (s *Server) classifyInterval(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := requireInt(req, "semitones")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	iv, err := interval.FromSemitone(n)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%v: %d", err, n)), nil
	}
	return jsonResult(intervalView{Interval: iv, Name: iv.Name()})
}

func (s *Server) classifyIntervals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	steps, err := intSlice(req, "semitones")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ivs, err := interval.FromSemitones(steps)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(viewIntervals(ivs))
}

func (s *Server) transposeNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rootArg, err := req.RequireString("root")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := requireInt(req, "semitones")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	root, err := note.Parse(rootArg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	iv, err := interval.FromSemitone(n)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%v: %d", err, n)), nil
	}
	to := iv.SecondNoteFrom(root)
	return mcp.NewToolResultText(fmt.Sprintf("%s + %s = %s", root, iv.Name(), to)), nil
}

func (s *Server) buildChain(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rootArg, err := req.RequireString("root")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	steps, err := intSlice(req, "semitones")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	root, err := note.Parse(rootArg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := voicing.Build(root, steps)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(v)
}

func (s *Server) buildFormula(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("formula")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rootArg, err := req.RequireString("root")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	root, err := note.Parse(rootArg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.svc.BuildFormula(root, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(v)
}

func (s *Server) listFormulas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	kind := formula.Kind(optionalString(req, "kind"))
	if kind != "" && kind != formula.KindChord && kind != formula.KindScale {
		return mcp.NewToolResultError("kind must be chord or scale"), nil
	}

	var lines []string
	for _, f := range s.svc.Formulas(kind) {
		line := fmt.Sprintf("%s (%s) %v", f.Name, f.Kind, f.Steps)
		if len(f.Aliases) > 0 {
			line += " aliases: " + strings.Join(f.Aliases, ", ")
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return mcp.NewToolResultText("no formulas found"), nil
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) saveVoicing(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rootArg, err := req.RequireString("root")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	steps, err := intSlice(req, "steps")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	root, err := note.Parse(rootArg)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	v, err := s.svc.Save(ctx, voicing.SaveRequest{
		Name:    name,
		Root:    root,
		Steps:   steps,
		Formula: optionalString(req, "formula"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("saved: %s (%s)", v.Name, v.ID)), nil
}

func (s *Server) listVoicings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit, err := optionalInt(req, "limit", 50)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	offset, err := optionalInt(req, "offset", 0)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	items, total, err := s.svc.List(ctx, limit, offset, optionalString(req, "formula"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(items) == 0 {
		return mcp.NewToolResultText("no voicings found"), nil
	}

	lines := make([]string, 0, len(items)+1)
	lines = append(lines, fmt.Sprintf("%d of %d voicings", len(items), total))
	for _, v := range items {
		names := make([]string, len(v.Notes))
		for i, n := range v.Notes {
			names[i] = n.String()
		}
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s", v.ID, v.Name, strings.Join(names, " ")))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getVoicing(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.svc.GetByName(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(v)
}

func (s *Server) getIntervalTable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(IntervalTableMarkdown()), nil
}

func (s *Server) readIntervalTableResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      IntervalTableURI,
			MIMEType: "text/markdown",
			Text:     IntervalTableMarkdown(),
		},
	}, nil
}
