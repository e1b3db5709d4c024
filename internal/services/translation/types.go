package translation

import "context"

// Logger defines the logging interface used by the translation pipeline
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// TextExtractor yields document text, "" when nothing is readable.
type TextExtractor interface {
	ExtractBytes(content []byte) string
}

// TextTranslator translates a whole document into a target language.
type TextTranslator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}
