package log

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/talentflow/talentflow/pkg/requestid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// StructuredLogger emits one entry per operation milestone. Every entry of an
// operation carries the operation name, the request id and the elapsed time.
type StructuredLogger struct {
	name  string
	debug bool
}

func NewDebugLogger(name string) *StructuredLogger {
	return &StructuredLogger{name: name, debug: true}
}

func NewLogger(name string) *StructuredLogger {
	return &StructuredLogger{name: name}
}

func (l *StructuredLogger) WithContext(ctx context.Context) *ContextLogger {
	return &ContextLogger{parent: l, requestID: requestid.FromContext(ctx)}
}

type ContextLogger struct {
	parent    *StructuredLogger
	requestID string
}

func (c *ContextLogger) Operation(name string) *OperationBuilder {
	return &OperationBuilder{logger: c, operation: name}
}

type OperationBuilder struct {
	logger    *ContextLogger
	operation string
	fields    []zap.Field
}

func (b *OperationBuilder) WithString(key, value string) *OperationBuilder {
	b.fields = append(b.fields, zap.String(key, value))
	return b
}

func (b *OperationBuilder) WithStringPtr(key string, value *string) *OperationBuilder {
	if value != nil {
		b.fields = append(b.fields, zap.String(key, *value))
	}
	return b
}

func (b *OperationBuilder) WithInt(key string, value int) *OperationBuilder {
	b.fields = append(b.fields, zap.Int(key, value))
	return b
}

func (b *OperationBuilder) WithUUID(key string, value uuid.UUID) *OperationBuilder {
	b.fields = append(b.fields, zap.String(key, value.String()))
	return b
}

func (b *OperationBuilder) WithParam(key string, value any) *OperationBuilder {
	b.fields = append(b.fields, zap.Any(key, value))
	return b
}

func (b *OperationBuilder) WithRequestBody(key string, body any) *OperationBuilder {
	raw, err := json.Marshal(body)
	if err != nil {
		return b
	}
	b.fields = append(b.fields, zap.ByteString(key, raw))
	return b
}

// Build logs the operation start and returns a tracer for the following milestones.
func (b *OperationBuilder) Build() *OperationTracer {
	t := &OperationTracer{
		logger:    zap.L().Named(b.logger.parent.name),
		debug:     b.logger.parent.debug,
		operation: b.operation,
		base: append([]zap.Field{
			zap.String("operation", b.operation),
			zap.String("request_id", b.logger.requestID),
		}, b.fields...),
		start: time.Now(),
	}
	t.emit(zap.DebugLevel, "operation started", nil)
	return t
}

type OperationTracer struct {
	logger    *zap.Logger
	debug     bool
	operation string
	base      []zap.Field
	start     time.Time
}

func (t *OperationTracer) emit(level zapcore.Level, msg string, fields []zap.Field) {
	if level == zapcore.DebugLevel && !t.debug {
		return
	}
	all := make([]zap.Field, 0, len(t.base)+len(fields)+1)
	all = append(all, t.base...)
	all = append(all, zap.Duration("elapsed", time.Since(t.start)))
	all = append(all, fields...)
	if ce := t.logger.Check(level, msg); ce != nil {
		ce.Write(all...)
	}
}

// Step records an intermediate milestone of the operation.
func (t *OperationTracer) Step(name string) *Entry {
	return &Entry{tracer: t, level: zapcore.DebugLevel, msg: "step " + name}
}

func (t *OperationTracer) Success() *Entry {
	return &Entry{tracer: t, level: zapcore.DebugLevel, msg: "operation succeeded"}
}

func (t *OperationTracer) Error(err error) *Entry {
	return &Entry{tracer: t, level: zapcore.ErrorLevel, msg: "operation failed", fields: []zap.Field{zap.Error(err)}}
}

// Warn is an error the operation recovered from.
func (t *OperationTracer) Warn(err error) *Entry {
	return &Entry{tracer: t, level: zapcore.WarnLevel, msg: "operation degraded", fields: []zap.Field{zap.Error(err)}}
}

type Entry struct {
	tracer *OperationTracer
	level  zapcore.Level
	msg    string
	fields []zap.Field
}

func (e *Entry) WithString(key, value string) *Entry {
	e.fields = append(e.fields, zap.String(key, value))
	return e
}

func (e *Entry) WithInt(key string, value int) *Entry {
	e.fields = append(e.fields, zap.Int(key, value))
	return e
}

func (e *Entry) WithBool(key string, value bool) *Entry {
	e.fields = append(e.fields, zap.Bool(key, value))
	return e
}

func (e *Entry) WithUUID(key string, value uuid.UUID) *Entry {
	e.fields = append(e.fields, zap.String(key, value.String()))
	return e
}

func (e *Entry) WithParam(key string, value any) *Entry {
	e.fields = append(e.fields, zap.Any(key, value))
	return e
}

func (e *Entry) Log() {
	e.tracer.emit(e.level, e.msg, e.fields)
}
