package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/talkheal/talkheal-backend/internal/models"
)

// ToneOptions maps companion tone names to their system prompts.
var ToneOptions = map[string]string{
	"Compassionate Listener": "You are a compassionate listener — soft, empathetic, patient — like a therapist who listens without judgment.",
	"Motivating Coach":       "You are a motivating coach — energetic, encouraging, and action-focused — helping the user push through rough days.",
	"Wise Friend":            "You are a wise friend — thoughtful, poetic, and reflective — giving soulful responses and timeless advice.",
	"Neutral Therapist":      "You are a neutral therapist — balanced, logical, and non-intrusive — asking guiding questions using CBT techniques.",
	"Mindfulness Guide":      "You are a mindfulness guide — calm, slow, and grounding — focused on breathing, presence, and awareness.",
}

// DefaultTone is used when a session has not picked a tone.
const DefaultTone = "Compassionate Listener"

// TonePrompt returns the system prompt for a tone name, falling back to the
// default tone for unknown names.
func TonePrompt(tone string) string {
	if p, ok := ToneOptions[tone]; ok {
		return p
	}
	return ToneOptions[DefaultTone]
}

// Responder is the opaque chat backend capability: given a system prompt and
// the conversation so far (ending with the user's message), produce a reply.
type Responder interface {
	Send(ctx context.Context, systemPrompt string, history []models.Message) (string, error)
	GenerateTitle(ctx context.Context, firstMessage string) (string, error)
}

const (
	geminiChatModel  = "gemini-1.5-flash-latest"
	geminiTitleModel = "gemini-1.5-flash-latest"

	titleSystemInstruction = "You are a helpful assistant that generates concise titles for chat conversations. " +
		"The title should be 3-5 words maximum. Just return the title itself, nothing else."
)

// GeminiResponder backs the chat with Google's Gemini models.
type GeminiResponder struct {
	client *genai.Client
}

func NewGeminiResponder(ctx context.Context, apiKey string) (*GeminiResponder, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiResponder{client: client}, nil
}

func (g *GeminiResponder) Close() {
	if g.client != nil {
		if err := g.client.Close(); err != nil {
			log.Printf("Error closing GenAI client: %v", err)
		}
	}
}

func (g *GeminiResponder) Send(ctx context.Context, systemPrompt string, history []models.Message) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("history is empty")
	}
	last := history[len(history)-1]
	if last.Role != models.RoleUser {
		return "", fmt.Errorf("last message in history is not from the user")
	}

	model := g.client.GenerativeModel(geminiChatModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	session := model.StartChat()
	for _, m := range history[:len(history)-1] {
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Text)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(last.Text))
	if err != nil {
		return "", fmt.Errorf("gemini chat SendMessage failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "I'm sorry, I couldn't generate a response at this time. Please try again.", nil
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	if out.Len() == 0 {
		return "I received an empty response, please try rephrasing.", nil
	}
	return out.String(), nil
}

func (g *GeminiResponder) GenerateTitle(ctx context.Context, firstMessage string) (string, error) {
	model := g.client.GenerativeModel(geminiTitleModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(titleSystemInstruction)},
	}

	temp := float32(0.3)
	maxTokens := int32(20)
	model.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
		Temperature:     &temp,
	}

	prompt := fmt.Sprintf("Generate a very concise title (3-5 words maximum) for a conversation that starts with: %q.", firstMessage)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini title generation failed: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "Chat", nil
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	if out.Len() == 0 {
		return "Chat", nil
	}
	return strings.Trim(out.String(), "\"'\n\r\t ."), nil
}

// StaticResponder is the fallback when no AI backend is configured: the
// service stays usable, answering with supportive boilerplate instead of
// refusing to start.
type StaticResponder struct{}

func (StaticResponder) Send(_ context.Context, _ string, history []models.Message) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("history is empty")
	}
	return "Thank you for sharing that with me. I'm listening — tell me more about how that made you feel.", nil
}

func (StaticResponder) GenerateTitle(_ context.Context, firstMessage string) (string, error) {
	title := strings.TrimSpace(firstMessage)
	if len(title) > 40 {
		title = title[:40] + "…"
	}
	if title == "" {
		title = "Chat"
	}
	return title, nil
}
