package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the delegate provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the delegate model identifier.
	FieldModel = "ai_model"
	// FieldUser is the structured log field key for the user identifier.
	FieldUser = "user_id"
	// FieldJob is the structured log field key for a job identifier.
	FieldJob = "job_id"
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

// WithFields attaches the provided fields to the logger, defaulting to a
// no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	logger = OrNop(logger)
	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields returns the delegate provider and model fields. Empty values
// are dropped.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

func UserField(userID string) zap.Field {
	return zap.String(FieldUser, userID)
}

func JobField(jobID string) zap.Field {
	return zap.String(FieldJob, jobID)
}
