package middleware

import "context"

const userRecorderKey contextKey = "user_recorder"

func withUserIDRecorder(ctx context.Context, rec *userIDRecorder) context.Context {
	return context.WithValue(ctx, userRecorderKey, rec)
}
