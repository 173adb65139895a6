package query

import "context"

type warningShownKey struct{}

// WithWarningShown records whether the at-risk streak warning was already
// shown in the caller's browser session.
func WithWarningShown(ctx context.Context, shown bool) context.Context {
	return context.WithValue(ctx, warningShownKey{}, shown)
}

// WarningShown reports the flag set by WithWarningShown. Missing means false.
func WarningShown(ctx context.Context) bool {
	shown, _ := ctx.Value(warningShownKey{}).(bool)
	return shown
}
