package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldEmbeddingProvider is the structured log field key for the embedding provider name.
	FieldEmbeddingProvider = "embedding_provider"
	// FieldEmbeddingModel is the structured log field key for the embedding model identifier.
	FieldEmbeddingModel = "embedding_model"
	// FieldSession is the structured log field key for the chat session id.
	FieldSession = "session_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger is replaced by a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// EmbeddingFields returns the fields that describe an embedding provider and model.
func EmbeddingFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldEmbeddingProvider, Value: provider},
		StringField{Key: FieldEmbeddingModel, Value: model},
	)
}

// WithEmbeddingFields attaches the embedding provider fields to the provided logger.
func WithEmbeddingFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, EmbeddingFields(provider, model)...)
}

// WithSession attaches the session id to the provided logger.
func WithSession(logger *zap.Logger, sessionID string) *zap.Logger {
	return WithFields(logger, StringFields(StringField{Key: FieldSession, Value: sessionID})...)
}
