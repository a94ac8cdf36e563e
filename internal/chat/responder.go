package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matrooslabs/shadow-world/internal/config"
	"github.com/matrooslabs/shadow-world/internal/knowledge"
	"github.com/matrooslabs/shadow-world/internal/llm"
	"github.com/matrooslabs/shadow-world/internal/models"
	"github.com/matrooslabs/shadow-world/pkg/logger"
)

// Responder produces one in-character reply per call from a persona's
// profile, retrieved knowledge, and bounded conversation history. It has no
// side effects beyond the single model invocation: retrieval problems degrade
// to a context-free reply instead of failing the turn.
type Responder struct {
	model        llm.ChatModel
	index        *knowledge.Index
	historyLimit int
	topK         int
	timeout      time.Duration
	preamble     string
	log          *logger.Logger
}

// NewResponder creates a Responder. index may be nil when no knowledge
// backend is configured; retrieval is then skipped entirely.
func NewResponder(model llm.ChatModel, index *knowledge.Index, cfg config.ChatConfig, log *logger.Logger) *Responder {
	historyLimit := cfg.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = config.DefaultHistoryLimit
	}
	topK := cfg.RetrievalTopK
	if topK <= 0 {
		topK = config.DefaultRetrievalTopK
	}
	return &Responder{
		model:        model,
		index:        index,
		historyLimit: historyLimit,
		topK:         topK,
		timeout:      cfg.TimeoutDuration(),
		preamble:     cfg.Preamble,
		log:          log,
	}
}

// Respond retrieves knowledge for the user message, assembles the persona
// prompt, and returns the model's reply verbatim. Retrieval always completes
// before prompt assembly, which always completes before the generation call.
func (r *Responder) Respond(ctx context.Context, personaID, displayName string, profile *models.PersonalityProfile, history []models.ChatMessage, userMessage string) (string, error) {
	retrieved := r.retrieve(ctx, personaID, userMessage)
	instructions := r.buildSystemPrompt(displayName, profile, retrieved)

	if len(history) > r.historyLimit {
		history = history[len(history)-r.historyLimit:]
	}
	messages := make([]llm.Message, 0, len(history)+1)
	for _, msg := range history {
		messages = append(messages, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, llm.Message{Role: models.RoleUser, Content: userMessage})

	genCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	reply, err := r.model.Generate(genCtx, instructions, messages)
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}
	return reply, nil
}

// retrieve queries the knowledge index for the persona. A missing index or a
// failing store yields an empty context, never an error.
func (r *Responder) retrieve(ctx context.Context, personaID, userMessage string) []string {
	if r.index == nil || personaID == "" {
		return nil
	}
	chunks, err := r.index.Query(ctx, personaID, userMessage, r.topK)
	if err != nil {
		r.log.WithPersona(personaID).Warn(fmt.Sprintf("knowledge retrieval degraded, replying without context: %v", err))
		return nil
	}
	return chunks
}

// buildSystemPrompt assembles the instruction block deterministically from
// the profile and retrieved chunks. Absent profile facets render an explicit
// fallback string so the prompt shape never changes between calls.
func (r *Responder) buildSystemPrompt(displayName string, profile *models.PersonalityProfile, retrieved []string) string {
	if profile == nil {
		profile = &models.PersonalityProfile{}
	}
	name := displayName
	if name == "" {
		name = "this persona"
	}

	var sb strings.Builder
	if r.preamble != "" {
		sb.WriteString(r.preamble)
		sb.WriteString("\n\n")
	}

	fmt.Fprintf(&sb, "You are %s's conversational clone, a digital representation of their personality based on their social media presence.\n\n", name)
	fmt.Fprintf(&sb, "PERSONALITY SUMMARY:\n%s\n\n", orFallback(profile.Summary, "Not specified"))
	fmt.Fprintf(&sb, "CORE TRAITS:\n%s\n\n", joinOrFallback(profile.Traits, "Not specified"))
	fmt.Fprintf(&sb, "INTERESTS & TOPICS:\n%s\n\n", joinOrFallback(profile.Interests, "Not specified"))
	fmt.Fprintf(&sb, "CORE VALUES:\n%s\n\n", joinOrFallback(profile.Values, "Not specified"))
	fmt.Fprintf(&sb, "COMMUNICATION STYLE:\n%s\n\n", orFallback(profile.CommunicationStyle, "Natural and conversational"))

	sb.WriteString("SAMPLE EXPRESSIONS (use these as reference for language style, tone, and phrasing):\n")
	if len(profile.SampleExpressions) == 0 {
		sb.WriteString("No samples available\n")
	} else {
		for _, sample := range profile.SampleExpressions {
			sb.WriteString("- ")
			sb.WriteString(sample)
			sb.WriteString("\n")
		}
	}

	if len(retrieved) > 0 {
		fmt.Fprintf(&sb, "\nKNOWLEDGE BASE:\nThe following information has been provided by %s as reference material. Use it to give informed, accurate answers when relevant.\n\n", name)
		sb.WriteString(strings.Join(retrieved, "\n\n---\n\n"))
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, `
IMPORTANT GUIDELINES:
1. Respond authentically as %[1]s would, based on the personality profile above.
2. Mirror their communication style - if they're casual, be casual; if formal, be formal.
3. Draw on their interests when relevant to the conversation.
4. Express opinions consistent with their values.
5. Be engaging and personable, not robotic.
6. Keep responses concise but substantive - typically 1-3 short paragraphs.
7. You can admit uncertainty on topics outside your knowledge base.
8. Never break character or acknowledge being a generated persona.
9. If asked about personal details not in the profile, deflect naturally.
10. When your knowledge base contains relevant information, use it to give informed answers.

Remember: You ARE %[1]s in this conversation. Speak in first person as them.`, name)

	return sb.String()
}

func orFallback(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func joinOrFallback(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}
