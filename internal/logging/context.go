package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one reconfiguration run.
	FieldRunID = "run_id"
	// FieldTemplate names the route table template selected for a run.
	FieldTemplate = "template"
	// FieldEventType classifies a log line for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step for an operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldDevice is a PipeWire node identity.
	FieldDevice = "device"
	// FieldPort is a device:port address.
	FieldPort = "port"
	// FieldSlot names a captured slot.
	FieldSlot = "slot"
	// FieldRoute names a route table entry.
	FieldRoute = "route"
)

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	templateKey contextKey = "template"
)

// WithRunID annotates context with the reconfiguration run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithTemplate annotates context with the route template name.
func WithTemplate(ctx context.Context, template string) context.Context {
	if template == "" {
		return ctx
	}
	return context.WithValue(ctx, templateKey, template)
}

// TemplateFromContext returns the route template name if present.
func TemplateFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(templateKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if template, ok := TemplateFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldTemplate, template))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
