package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"alphamastery/internal/logging"
	"alphamastery/internal/services"
	"alphamastery/internal/services/llm"
)

// Disclaimer is attached to every answer.
const Disclaimer = "This is general information, not medical advice."

const systemPrompt = `You are 'Parent Help', a warm, factual assistant for parents of school-aged children with dyslexia.
- If the question is related to dyslexia:
  * Answer only dyslexia-related questions.
  * Never diagnose.
  * Be empathetic, concise, and encouraging.
  * Always cite sources when available.
- If the question is about treatment suggestions:
  -> Respond only with:
    'Sorry, I'm not supposed to provide medical suggestions. Please seek advice from a registered psychologist.'
- If the question is unrelated to dyslexia:
  -> Respond only with:
    'Sorry, I can't answer this question.'
- Follow this response format:
    Answer: <Main answer>
    1. <Point 1>
       <Summary>
       <Citation>
    2. <Point 2>
       <Summary>
       <Citation>
- You may end with a line "Suggestions:" followed by up to three related questions, one per line.`

// Responder produces a completion for a system and user prompt.
type Responder interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (llm.Completion, error)
}

// Reply is a shaped chatbot answer.
type Reply struct {
	Answer      string   `json:"answer"`
	Sources     []string `json:"sources"`
	Suggestions []string `json:"suggestions"`
	Disclaimer  string   `json:"disclaimer"`
}

// Bot answers parent questions.
type Bot struct {
	responder Responder
	logger    *slog.Logger
}

// New builds a Bot.
func New(responder Responder, logger *slog.Logger) *Bot {
	return &Bot{responder: responder, logger: logging.NewComponentLogger(logger, "chat")}
}

// Ask answers question, optionally grounded on a knowledge-base snippet.
func (b *Bot) Ask(ctx context.Context, question, kbHit string) (Reply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Reply{}, services.Wrap(services.ErrValidation, "chat", "ask", "question is required", nil)
	}
	logger := logging.WithContext(ctx, b.logger)

	completion, err := b.responder.Complete(ctx, systemPrompt, userPrompt(question, kbHit))
	if err != nil {
		logging.WarnWithContext(logger, "parent chat failed", "generative_unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check llm.api_key and llm.model"),
			logging.String(logging.FieldImpact, "parent question not answered"),
		)
		return Reply{}, services.Wrap(services.ErrGenerativeUnavailable, "chat", "ask", "responder failed", err)
	}

	answer, suggestions := splitSuggestions(completion.Text)
	reply := Reply{
		Answer:      answer,
		Sources:     formatSources(completion.Citations),
		Suggestions: suggestions,
		Disclaimer:  Disclaimer,
	}
	logger.Info("parent chat answered",
		logging.Int("sources", len(reply.Sources)),
		logging.Int("suggestions", len(reply.Suggestions)),
	)
	return reply, nil
}

func userPrompt(question, kbHit string) string {
	kb := strings.TrimSpace(kbHit)
	if kb == "" {
		kb = "N/A"
	}
	return fmt.Sprintf("Question: %s\nContext from our knowledge base:\n%s", question, kb)
}

// formatSources renders citations as markdown links, dropping duplicates.
func formatSources(citations []llm.Citation) []string {
	sources := []string{}
	seen := make(map[string]struct{}, len(citations))
	for _, c := range citations {
		url := strings.TrimSpace(c.URL)
		if url == "" {
			continue
		}
		title := strings.TrimSpace(c.Title)
		if title == "" {
			title = "Source"
		}
		link := fmt.Sprintf("[%s](%s)", title, url)
		if _, dup := seen[link]; dup {
			continue
		}
		seen[link] = struct{}{}
		sources = append(sources, link)
	}
	return sources
}

// splitSuggestions cuts a trailing "Suggestions:" list off text.
func splitSuggestions(text string) (string, []string) {
	text = strings.TrimSpace(text)
	suggestions := []string{}
	lines := strings.Split(text, "\n")
	marker := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(lines[i])), "suggestions:") {
			marker = i
			break
		}
	}
	if marker < 0 {
		return text, suggestions
	}

	inline := strings.TrimSpace(strings.TrimSpace(lines[marker])[len("suggestions:"):])
	candidates := lines[marker+1:]
	if inline != "" {
		candidates = append([]string{inline}, candidates...)
	}
	for _, line := range candidates {
		if item := trimBullet(line); item != "" {
			suggestions = append(suggestions, item)
		}
	}
	return strings.TrimSpace(strings.Join(lines[:marker], "\n")), suggestions
}

func trimBullet(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimLeft(line, "-*• ")
	// numbered items: "1." or "2)"
	if i := strings.IndexAny(line, ".)"); i > 0 && i <= 2 && isDigits(line[:i]) {
		line = line[i+1:]
	}
	return strings.TrimSpace(line)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
