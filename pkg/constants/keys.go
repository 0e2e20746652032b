package constants

type ContextKey string

const (
	AppKey       ContextKey = "app"
	PoolKey      ContextKey = "pool"
	TxKey        ContextKey = "tx"
	LoggerKey    ContextKey = "logger"
	ParamsKey    ContextKey = "params"
	UserKey      ContextKey = "user"
	SessionKey   ContextKey = "session"
	TenantIDKey  ContextKey = "tenantID"
	LocalizerKey ContextKey = "localizer"
	RequestIDKey ContextKey = "requestID"
)
