package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger is the service-wide slog logger with domain helpers
type Logger struct {
	*slog.Logger
}

// New builds a text logger in gin debug mode and a JSON logger otherwise.
// LOG_LEVEL picks the threshold; debug also records the source line.
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return NewWithHandler(handler)
}

// NewWithHandler wraps handler so records carry the request ID from their context
func NewWithHandler(handler slog.Handler) *Logger {
	return &Logger{Logger: slog.New(requestHandler{Handler: handler})}
}

func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type requestIDKey struct{}

// ContextWithRequestID returns ctx tagged with id for every later log record
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type requestHandler struct {
	slog.Handler
}

func (h requestHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := RequestIDFromContext(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	return h.Handler.Handle(ctx, r)
}

func (h requestHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return requestHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h requestHandler) WithGroup(name string) slog.Handler {
	return requestHandler{Handler: h.Handler.WithGroup(name)}
}

func toArgs(fields map[string]interface{}, extra int) []interface{} {
	args := make([]interface{}, 0, len(fields)+extra)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return args
}

// HTTP

func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.InfoContext(c.Request.Context(), "HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.Int("size", c.Writer.Size()),
	)
}

func (l *Logger) LogHTTPError(c *gin.Context, err error, statusCode int) {
	l.ErrorContext(c.Request.Context(), "HTTP Error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
	)
}

// Marketplace

func (l *Logger) LogEventCreated(ctx context.Context, eventID, vendorID string, charts int) {
	l.InfoContext(ctx, "Event Created",
		slog.String("event_id", eventID),
		slog.String("vendor_id", vendorID),
		slog.Int("charts", charts),
	)
}

// LogInventoryReconciled reports the merge plan applied to an event's booking charts
func (l *Logger) LogInventoryReconciled(ctx context.Context, eventID string, creates, updates, deletes int) {
	l.InfoContext(ctx, "Inventory Reconciled",
		slog.String("event_id", eventID),
		slog.Int("creates", creates),
		slog.Int("updates", updates),
		slog.Int("deletes", deletes),
	)
}

func (l *Logger) LogBookingCreated(ctx context.Context, bookingID, chartID, userID string, seats int) {
	l.InfoContext(ctx, "Booking Created",
		slog.String("booking_id", bookingID),
		slog.String("chart_id", chartID),
		slog.String("user_id", userID),
		slog.Int("seats", seats),
	)
}

func (l *Logger) LogBookingStatusChanged(ctx context.Context, bookingID, from, to string) {
	l.InfoContext(ctx, "Booking Status Changed",
		slog.String("booking_id", bookingID),
		slog.String("from", from),
		slog.String("to", to),
	)
}

func (l *Logger) LogCapacityRejected(ctx context.Context, chartID string, requested, remaining int) {
	l.WarnContext(ctx, "Capacity Rejected",
		slog.String("chart_id", chartID),
		slog.Int("requested", requested),
		slog.Int("remaining", remaining),
	)
}

// LogPaymentVerified logs at warn level when the gateway signature does not match
func (l *Logger) LogPaymentVerified(ctx context.Context, orderID string, valid bool) {
	level := slog.LevelInfo
	if !valid {
		level = slog.LevelWarn
	}
	l.Log(ctx, level, "Payment Verified",
		slog.String("gateway_order_id", orderID),
		slog.Bool("valid", valid),
	)
}

func (l *Logger) LogPayoutRecorded(ctx context.Context, bookingID, adminID string, amount float64) {
	l.InfoContext(ctx, "Payout Recorded",
		slog.String("booking_id", bookingID),
		slog.String("recorded_by", adminID),
		slog.Float64("amount", amount),
	)
}

func (l *Logger) LogVendorReviewed(ctx context.Context, vendorID, adminID, status string) {
	l.InfoContext(ctx, "Vendor Reviewed",
		slog.String("vendor_id", vendorID),
		slog.String("reviewed_by", adminID),
		slog.String("status", status),
	)
}

// Security

func (l *Logger) LogAuthSuccess(ctx context.Context, userID, method string) {
	l.InfoContext(ctx, "Authentication Success",
		slog.String("user_id", userID),
		slog.String("method", method),
	)
}

func (l *Logger) LogAuthFailure(ctx context.Context, reason, ip string) {
	l.WarnContext(ctx, "Authentication Failure",
		slog.String("reason", reason),
		slog.String("ip", ip),
	)
}

func (l *Logger) LogRateLimitExceeded(ctx context.Context, ip, endpoint string) {
	l.WarnContext(ctx, "Rate Limit Exceeded",
		slog.String("ip", ip),
		slog.String("endpoint", endpoint),
	)
}

// Map-field variants used across services

func (l *Logger) InfoWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	l.InfoContext(ctx, msg, toArgs(fields, 0)...)
}

func (l *Logger) ErrorWithContext(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	args := toArgs(fields, 1)
	if err != nil {
		args = append(args, slog.String("error", err.Error()))
	}
	l.ErrorContext(ctx, msg, args...)
}

func (l *Logger) DebugWithContext(ctx context.Context, msg string, fields map[string]interface{}) {
	l.DebugContext(ctx, msg, toArgs(fields, 0)...)
}

var defaultLogger = New()

func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault replaces the process logger; call it before serving
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
