package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/matrooslabs/shadow-world/internal/models"
)

// Gemini is a ChatModel backed by the Google GenAI API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a new Gemini client for the named model.
func NewGemini(ctx context.Context, model, apiKey string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Generate sends the instructions and conversation to Gemini and returns the
// text of the first candidate. A fresh model handle is configured per call so
// concurrent turns never share mutable system instructions.
func (g *Gemini) Generate(ctx context.Context, instructions string, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("gemini: no messages to send")
	}

	model := g.client.GenerativeModel(g.model)
	if instructions != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(instructions)},
		}
	}

	session := model.StartChat()
	for _, msg := range messages[:len(messages)-1] {
		session.History = append(session.History, &genai.Content{
			Role:  toGenaiRole(msg.Role),
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(messages[len(messages)-1].Content))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	return textFromResponse(resp)
}

// Close releases the underlying API client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

func toGenaiRole(role models.MessageRole) string {
	if role == models.RoleAssistant {
		return "model"
	}
	return "user"
}

// textFromResponse extracts the plain text of the first candidate.
func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini response was empty or in an unexpected format")
	}
	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out += string(text)
		}
	}
	if out == "" {
		return "", fmt.Errorf("gemini response contained no text parts")
	}
	return out, nil
}

var _ ChatModel = (*Gemini)(nil)
