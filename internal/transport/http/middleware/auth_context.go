package middleware

import "context"

type ctxKey string

const ctxDiscordID ctxKey = "discord_id"

func WithDiscordID(ctx context.Context, discordID string) context.Context {
	return context.WithValue(ctx, ctxDiscordID, discordID)
}

func DiscordIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxDiscordID).(string)
	return v, ok && v != ""
}
