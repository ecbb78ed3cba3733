package observability

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the tracer name for dotnetopr operations
const TracerName = "github.com/dumbnessrf/DotNetOpr"

// Common attribute keys
const (
	AttrToolchainCommand = attribute.Key("toolchain.command")
	AttrToolchainArgs    = attribute.Key("toolchain.args")
	AttrToolchainDir     = attribute.Key("toolchain.working_dir")
	AttrExitCode         = attribute.Key("process.exit_code")
)

// StartToolchainSpan starts a span around one toolchain process.
func StartToolchainSpan(ctx context.Context, command string, args []string, dir string) (context.Context, trace.Span) {
	return StartSpan(ctx, TracerName, "toolchain."+command,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			AttrToolchainCommand.String(command),
			AttrToolchainArgs.String(strings.Join(args, " ")),
			AttrToolchainDir.String(dir),
		),
	)
}

// RecordExitCode sets the process exit code on the span.
func RecordExitCode(span trace.Span, code int) {
	span.SetAttributes(AttrExitCode.Int(code))
}

// EndSpanWithError ends a span with an error status
func EndSpanWithError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
