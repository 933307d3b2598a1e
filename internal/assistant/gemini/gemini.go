// Package gemini connects the assistant to Google's Gemini models.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/MrJamesThe3rd/financia/internal/assistant"
)

const DefaultModel = "gemini-2.5-flash"

var ErrMissingAPIKey = errors.New("gemini api key is required")

type Config struct {
	APIKey      string
	Model       string
	Temperature float32
}

// Client starts Gemini chats that can call the record tools.
type Client struct {
	genai       *genai.Client
	model       string
	temperature float32
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{genai: gc, model: model, temperature: cfg.Temperature}, nil
}

func (c *Client) Start(ctx context.Context, brief assistant.Brief) (assistant.Conversation, error) {
	chat, err := c.genai.Chats.Create(ctx, c.model, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction(brief), genai.RoleUser),
		Temperature:       genai.Ptr(c.temperature),
		Tools:             []*genai.Tool{{FunctionDeclarations: declarations()}},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("creating chat: %w", err)
	}

	return &conversation{chat: chat}, nil
}

type conversation struct {
	chat *genai.Chat
}

func (c *conversation) Send(ctx context.Context, text string) (*assistant.Reply, error) {
	resp, err := c.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return nil, fmt.Errorf("sending message: %w", err)
	}

	return toReply(resp), nil
}

func toReply(resp *genai.GenerateContentResponse) *assistant.Reply {
	if resp == nil {
		return &assistant.Reply{}
	}

	reply := &assistant.Reply{}

	for _, fc := range resp.FunctionCalls() {
		if fc == nil {
			continue
		}

		reply.Calls = append(reply.Calls, assistant.Call{Name: fc.Name, Args: fc.Args})
	}

	if len(reply.Calls) == 0 {
		reply.Text = strings.TrimSpace(resp.Text())
	}

	return reply
}
