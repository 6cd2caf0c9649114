package middleware

import (
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/studyplan-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"
)

// Inbound ids are echoed into logs and response headers.
var inboundIDRE = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

// AttachTraceContext puts request and trace ids on the request context and
// echoes them back. An active span's trace id beats the client header.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := inboundID(c.GetHeader(headerRequestID))

		traceID := ""
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			traceID = sc.TraceID().String()
		} else {
			traceID = inboundID(c.GetHeader(headerTraceID))
		}

		ctx := ctxutil.WithTraceData(c.Request.Context(), &ctxutil.TraceData{
			TraceID:   traceID,
			RequestID: reqID,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(headerTraceID, traceID)
		c.Writer.Header().Set(headerRequestID, reqID)
		c.Next()
	}
}

// inboundID keeps a well-formed client id or mints a new one.
func inboundID(raw string) string {
	raw = strings.TrimSpace(raw)
	if inboundIDRE.MatchString(raw) {
		return raw
	}
	return uuid.NewString()
}
