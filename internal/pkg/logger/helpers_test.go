package logger

import (
	"context"

	"github.com/piresc/bahikhata/internal/pkg/requestcontext"
)

func withIDs(requestID, userID string) context.Context {
	return requestcontext.WithRequestContext(context.Background(), &requestcontext.RequestContext{
		RequestID: requestID,
		UserID:    userID,
	})
}
