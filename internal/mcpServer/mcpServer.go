package mcpServer

import (
	"context"
	"net/http"

	"github.com/akolanti/DocChat/internal/adapter"
	"github.com/akolanti/DocChat/internal/api"
	"github.com/akolanti/DocChat/internal/config"
	"github.com/akolanti/DocChat/internal/docqa"
	"github.com/akolanti/DocChat/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server exposes the docqa service as MCP tools. Answers are synchronous here, unlike the job
// based HTTP chat route.
type Server struct {
	docs   docqa.Service
	server *mcp.Server
	logger *logger_i.Logger
}

type SessionInput struct {
	SessionId string `json:"session_id" jsonschema:"id returned by create_session"`
}

type AddTextInput struct {
	SessionId string `json:"session_id" jsonschema:"id returned by create_session"`
	Text      string `json:"text" jsonschema:"plain text to add as a document"`
}

type AskInput struct {
	SessionId string `json:"session_id" jsonschema:"id returned by create_session"`
	Question  string `json:"question" jsonschema:"question about the loaded documents"`
}

type CreateSessionOutput struct {
	SessionId string `json:"session_id"`
}

type AddTextOutput struct {
	Document api.DocumentResponse `json:"document"`
	Message  string               `json:"message"`
}

type ListDocumentsOutput struct {
	SessionId     string                 `json:"session_id"`
	DocumentLabel string                 `json:"document_label"`
	Documents     []api.DocumentResponse `json:"documents"`
	Busy          bool                   `json:"busy"`
}

type AskOutput struct {
	Kind   string `json:"kind"`
	Answer string `json:"answer"`
}

func NewServer(docs docqa.Service) *Server {
	s := &Server{
		docs:   docs,
		server: mcp.NewServer(&mcp.Implementation{Name: config.MCPServerName, Version: config.MCPServerVersion}, nil),
		logger: logger_i.NewLogger("MCP Server"),
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_session",
		Description: "Start an empty document chat session and return its id.",
	}, s.createSession)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_text",
		Description: "Add pasted text to a session as a document named \"Pasted Text\".",
	}, s.addText)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_question",
		Description: "Ask a question about the documents loaded in a session.",
	}, s.askQuestion)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the documents loaded in a session with their sizes.",
	}, s.listDocuments)

	return s
}

// Handler serves the tools over streamable HTTP.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.server }, nil)
}

// MCP returns the underlying server, for in-process transports.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

func (s *Server) createSession(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, CreateSessionOutput, error) {
	sess, err := s.docs.CreateSession(ctx)
	if err != nil {
		return nil, CreateSessionOutput{}, err
	}
	s.logger.WithTrace(ctx).Debug("Session created over MCP", "sessionId", sess.Id)
	return nil, CreateSessionOutput{SessionId: sess.Id}, nil
}

func (s *Server) addText(ctx context.Context, _ *mcp.CallToolRequest, in AddTextInput) (*mcp.CallToolResult, AddTextOutput, error) {
	doc, message, err := s.docs.IngestText(ctx, in.SessionId, in.Text)
	if err != nil {
		return nil, AddTextOutput{}, err
	}
	return nil, AddTextOutput{Document: adapter.ToDocumentResponse(doc.Info()), Message: message}, nil
}

func (s *Server) askQuestion(ctx context.Context, _ *mcp.CallToolRequest, in AskInput) (*mcp.CallToolResult, AskOutput, error) {
	res, err := s.docs.Ask(ctx, in.SessionId, in.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}
	return nil, AskOutput{Kind: string(res.Kind), Answer: res.Text}, nil
}

func (s *Server) listDocuments(_ context.Context, _ *mcp.CallToolRequest, in SessionInput) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	sess, err := s.docs.GetSession(in.SessionId)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}
	info := adapter.ToSessionResponse(sess)
	return nil, ListDocumentsOutput{
		SessionId:     info.SessionId,
		DocumentLabel: info.DocumentLabel,
		Documents:     info.Documents,
		Busy:          info.Busy,
	}, nil
}
