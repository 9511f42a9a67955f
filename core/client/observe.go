package client

import (
	"context"
	"slices"
	"time"

	"github.com/leofalp/llmwire/internal/utils"
	"github.com/leofalp/llmwire/providers/ai"
	"github.com/leofalp/llmwire/providers/observability"
)

// observedCall tracks the span and timing of one client operation. Every
// method is a no-op when the client has no observer.
type observedCall struct {
	observer observability.Provider
	span     observability.Span
	name     string
	start    time.Time
	attrs    []observability.Attribute
}

// observe starts a span for operation name and stores it, with the observer,
// in the returned context so the HTTP layer can attach events to it.
func (c *Client) observe(ctx context.Context, name, model string) (context.Context, *observedCall) {
	call := &observedCall{
		observer: c.observer,
		name:     name,
		start:    time.Now(),
		attrs: []observability.Attribute{
			observability.String(observability.AttrLLMProvider, string(c.dialect.Provider())),
		},
	}
	if model != "" {
		call.attrs = append(call.attrs, observability.String(observability.AttrLLMModel, model))
	}
	if c.observer == nil {
		return ctx, call
	}

	// 1. Start span and enrich context so the transport can attach events.
	ctx, call.span = c.observer.StartSpan(ctx, name, call.attrs...)
	ctx = observability.ContextWithSpan(ctx, call.span)
	ctx = observability.ContextWithObserver(ctx, c.observer)

	// 2. Emit a debug log at request start.
	call.span.AddEvent(observability.EventLLMRequestStart)
	c.observer.Debug(ctx, "llm request", call.attrs...)
	return ctx, call
}

// event adds a span event.
func (call *observedCall) event(name string, attrs ...observability.Attribute) {
	if call.span != nil {
		call.span.AddEvent(name, attrs...)
	}
}

// count increments a counter labelled with the call's attributes.
func (call *observedCall) count(ctx context.Context, metric string, value int64) {
	if call.observer != nil {
		call.observer.Counter(metric).Add(ctx, value, call.attrs...)
	}
}

// request annotates the span with the endpoint, key removed, and the
// sampling temperature of a completion attempt.
func (call *observedCall) request(url string, cfg ai.RequestConfig) {
	if call.span == nil {
		return
	}
	attrs := []observability.Attribute{
		observability.String(observability.AttrLLMEndpoint, utils.RedactURL(url)),
	}
	if cfg.Temperature != nil {
		attrs = append(attrs, observability.Float64(observability.AttrLLMTemperature, *cfg.Temperature))
	}
	call.span.SetAttributes(attrs...)
}

// fallback records a token parameter switch.
func (call *observedCall) fallback(ctx context.Context, from, to ai.TokenParam) {
	if call.observer == nil {
		return
	}
	attrs := []observability.Attribute{
		observability.String(observability.AttrLLMTokenParamPrevious, from.FieldName()),
		observability.String(observability.AttrLLMTokenParam, to.FieldName()),
	}
	call.event(observability.EventTokenParamFallback, attrs...)
	call.count(ctx, observability.MetricTokenParamFallback, 1)
	call.observer.Info(ctx, "token parameter rejected, retrying", append(slices.Clone(attrs), call.attrs...)...)
}

// end records the outcome of the call and closes the span. response may be
// nil for operations that do not produce one.
func (call *observedCall) end(ctx context.Context, response *ai.Response, err error, extra ...observability.Attribute) {
	if call.observer == nil {
		return
	}
	elapsed := time.Since(call.start)

	attrs := append(slices.Clone(call.attrs), extra...)
	attrs = append(attrs, observability.Duration(observability.AttrDuration, elapsed))
	if response != nil {
		attrs = append(attrs,
			observability.Int(observability.AttrHTTPStatusCode, response.StatusCode),
			observability.String(observability.AttrLLMFinishReason, response.FinishReason),
		)
	}
	call.span.SetAttributes(attrs...)
	call.event(observability.EventLLMRequestEnd)

	// Metrics
	call.observer.Histogram(observability.MetricRequestDuration).Record(ctx, elapsed.Seconds(), call.attrs...)

	if err != nil {
		call.span.RecordError(err)
		call.span.SetStatus(observability.StatusError, utils.TruncateString(err.Error(), 200))
		call.observer.Counter(observability.MetricRequestCount).Add(ctx, 1,
			append(slices.Clone(call.attrs), observability.String(observability.AttrStatus, "error"))...)
		call.observer.Error(ctx, call.name+" failed", append(attrs, observability.Error(err))...)
		call.span.End()
		return
	}

	call.observer.Counter(observability.MetricRequestCount).Add(ctx, 1,
		append(slices.Clone(call.attrs), observability.String(observability.AttrStatus, "success"))...)
	if response != nil && len(response.Parts) > 0 {
		attrs = append(attrs, observability.String("response", utils.TruncateString(response.Text(), 100)))
	}
	call.observer.Info(ctx, call.name+" completed", attrs...)
	call.span.SetStatus(observability.StatusOK, "success")
	call.span.End()
}
