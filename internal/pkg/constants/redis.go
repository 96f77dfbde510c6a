package constants

// Redis key formats
const (
	// Sessions
	KeySession      = "ledger:session:%s"       // Format: ledger:session:{session_id}
	KeyUserSessions = "ledger:user:%s:sessions" // Set of session IDs. Format: ledger:user:{user_id}:sessions

	// Rate Limiting
	KeyRateLimitPrefix = "ledger:rate" // Prefix used by the IP limiter
	KeyRateLimit       = "%s:%s:%s"    // Format: {prefix}:{route}:{user_id or ip}
)
