package logging

import "context"

type ctxAttrsKey struct{}

// ContextWith returns a context carrying extra key-value pairs that every
// Logger in this package appends to records logged with that context.
// Pairs accumulate across nested calls.
func ContextWith(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}
	prev := fromContext(ctx)
	merged := make([]any, 0, len(prev)+len(args))
	merged = append(merged, prev...)
	merged = append(merged, args...)
	return context.WithValue(ctx, ctxAttrsKey{}, merged)
}

func fromContext(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	args, _ := ctx.Value(ctxAttrsKey{}).([]any)
	return args
}

// withContext prepends the pairs stored in ctx to args.
func withContext(ctx context.Context, args []any) []any {
	extra := fromContext(ctx)
	if len(extra) == 0 {
		return args
	}
	out := make([]any, 0, len(extra)+len(args))
	out = append(out, extra...)
	return append(out, args...)
}
