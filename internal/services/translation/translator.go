package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/iyunix/go-legalist/internal/services/ai"
)

const promptTemplate = `Translate the following legal text to %s. Preserve all legal terminology, section numbers, case citations and formatting. Return only the translated text without any explanations.

Text:
%s`

// Translator sends a document to the model chunk by chunk, in order.
type Translator struct {
	provider ai.CompletionProvider
	config   *Config
	logger   Logger
}

func NewTranslator(provider ai.CompletionProvider, config *Config, logger Logger) (*Translator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Translator{provider: provider, config: config, logger: logger}, nil
}

// Translate returns text unchanged for an English target. Otherwise every
// chunk is translated sequentially and the results are joined with a blank
// line. The first failing chunk aborts the whole translation.
func (t *Translator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if IsEnglish(targetLanguage) {
		return text, nil
	}

	chunks := Chunk(text, t.config.ChunkSize)
	out := make([]string, 0, len(chunks))
	for i, c := range chunks {
		prompt := fmt.Sprintf(promptTemplate, strings.TrimSpace(targetLanguage), c)
		translated, err := t.provider.Complete(ctx, []ai.Message{{Role: "user", Content: prompt}}, t.config.MaxTokens)
		if err != nil {
			t.logger.Warn("chunk translation failed", "chunk", i+1, "of", len(chunks), "error", err)
			return "", fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), err)
		}
		out = append(out, strings.TrimSpace(translated))
		t.logger.Debug("chunk translated", "chunk", i+1, "of", len(chunks))
	}
	return strings.Join(out, "\n\n"), nil
}

// IsEnglish reports whether a target label names English: "english", "en",
// or an en-* / en_* locale, compared case-insensitively after trimming.
func IsEnglish(label string) bool {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case l == "english", l == "en":
		return true
	case strings.HasPrefix(l, "en-"), strings.HasPrefix(l, "en_"):
		return true
	}
	return false
}
