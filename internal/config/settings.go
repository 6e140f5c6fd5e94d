package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// runtime values, populated by Load
var (
	ListenAddr     = ServerListenAddr
	RedisAddr      = DefaultRedisAddr
	RedisPassword  = ""
	AuthToken      = ""
	NoAuthBypass   = false
	AnswerDelayMin = DefaultAnswerDelayMin
	AnswerDelayMax = DefaultAnswerDelayMax
	MaxUploadBytes = DefaultMaxUploadBytes
)

type fileConfig struct {
	Server serverConfig `toml:"server"`
	Auth   authConfig   `toml:"auth"`
	Redis  redisConfig  `toml:"redis"`
	Answer answerConfig `toml:"answer"`
}

type serverConfig struct {
	ListenAddr     string `toml:"listen_addr"`
	MaxUploadBytes int64  `toml:"max_upload_bytes"`
}

type authConfig struct {
	Token  string `toml:"token"`
	Bypass bool   `toml:"bypass"`
}

type redisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
}

type answerConfig struct {
	DelayMinMs int `toml:"delay_min_ms"`
	DelayMaxMs int `toml:"delay_max_ms"`
}

// Load reads .env, then the TOML file at CONFIG_FILE (or DefaultConfigFile) if it exists,
// then environment overrides. Missing files are not an error.
func Load() error {
	_ = godotenv.Load()

	cfg := currentConfig()
	configPath := getEnv("CONFIG_FILE", DefaultConfigFile)
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
			return fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(&cfg)
	if cfg.Answer.DelayMaxMs < cfg.Answer.DelayMinMs {
		return fmt.Errorf("answer delay max %dms is below min %dms", cfg.Answer.DelayMaxMs, cfg.Answer.DelayMinMs)
	}
	apply(cfg)
	return nil
}

func currentConfig() fileConfig {
	return fileConfig{
		Server: serverConfig{ListenAddr: ListenAddr, MaxUploadBytes: MaxUploadBytes},
		Auth:   authConfig{Token: AuthToken, Bypass: NoAuthBypass},
		Redis:  redisConfig{Addr: RedisAddr, Password: RedisPassword},
		Answer: answerConfig{
			DelayMinMs: int(AnswerDelayMin / time.Millisecond),
			DelayMaxMs: int(AnswerDelayMax / time.Millisecond),
		},
	}
}

func apply(cfg fileConfig) {
	ListenAddr = cfg.Server.ListenAddr
	MaxUploadBytes = cfg.Server.MaxUploadBytes
	AuthToken = cfg.Auth.Token
	NoAuthBypass = cfg.Auth.Bypass
	RedisAddr = cfg.Redis.Addr
	RedisPassword = cfg.Redis.Password
	AnswerDelayMin = time.Duration(cfg.Answer.DelayMinMs) * time.Millisecond
	AnswerDelayMax = time.Duration(cfg.Answer.DelayMaxMs) * time.Millisecond
}

func overrideByEnv(cfg *fileConfig) {
	cfg.Server.ListenAddr = getEnv("LISTEN_ADDR", cfg.Server.ListenAddr)
	cfg.Server.MaxUploadBytes = int64(getEnvAsInt("MAX_UPLOAD_BYTES", int(cfg.Server.MaxUploadBytes)))
	cfg.Auth.Token = getEnv("AUTH_TOKEN", cfg.Auth.Token)
	cfg.Auth.Bypass = getEnvAsBool("NO_AUTH_BYPASS", cfg.Auth.Bypass)
	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Answer.DelayMinMs = getEnvAsInt("ANSWER_DELAY_MIN_MS", cfg.Answer.DelayMinMs)
	cfg.Answer.DelayMaxMs = getEnvAsInt("ANSWER_DELAY_MAX_MS", cfg.Answer.DelayMaxMs)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
