package config

import (
	"log/slog"
	"time"
)

type contextKey string

const (
	IS_PROD                                    = false
	LOG_LEVEL_PROD                             = slog.LevelInfo
	FALLBACK_REDIS_TO_INTERNALSTORE            = true //if redis init fails, it falls back to an internals in-memory store
	TRACE_ID_KEY                    contextKey = "traceId"
	RATE_LIMIT_PER_SECOND                      = 2
	BURST_RATE_LIMIT_PER_SECOND                = 5
	//an MCP client spends several requests per tool call (post, notifications, SSE stream)
	MCP_RATE_LIMIT_PER_SECOND       = 20
	MCP_BURST_RATE_LIMIT_PER_SECOND = 40
	//limiters of clients silent for this long are dropped
	RateLimiterIdleTTL = 10 * time.Minute

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	JobTimeout                      = 60 * time.Second

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//uploads
	DefaultMaxUploadBytes int64 = 32 << 20 //32mb
	StagingDirName              = "temporary_data"
	PastedTextName              = "Pasted Text"

	//pdf library page extraction
	PageExtractTimeout = 10 * time.Second

	//simulated thinking time before an answer
	DefaultAnswerDelayMin = 1000 * time.Millisecond
	DefaultAnswerDelayMax = 3000 * time.Millisecond

	//mcp
	MCPServerName    = "docchat"
	MCPServerVersion = "v1.0.0"

	//redis
	redisHost        = "127.0.0.1"
	redisPort        = "6379"
	DefaultRedisAddr = redisHost + ":" + redisPort

	//redis has 16 DB we can use
	RedisJobStore     = 0
	RedisMessageStore = 1

	//redis timeouts
	RedisJobStoreTTL     = 24 * time.Hour
	RedisMessageStoreTTL = 24 * time.Hour

	DefaultConfigFile = "configs/docchat.toml"
)

// IdleWorkerTimeout is a var so tests can shorten it.
var IdleWorkerTimeout = 1 * time.Minute
