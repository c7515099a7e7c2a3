package config

import (
	"time"

	"github.com/Builder-Lawyers/publisher/pkg/env"
)

type PublishConfig struct {
	// RollbackVerify re-checks that a rollback target is a published version
	// of the same site before the pointer moves.
	RollbackVerify bool
	CDNEnabled     bool
	JobTimeout     time.Duration
}

func NewPublishConfig() *PublishConfig {
	return &PublishConfig{
		RollbackVerify: env.GetBool("ROLLBACK_VERIFY", true),
		CDNEnabled:     env.GetBool("CDN_INVALIDATION_ENABLED", false),
		JobTimeout:     env.GetDuration("PUBLISH_JOB_TIMEOUT", 5*time.Minute),
	}
}

type RuntimeConfig struct {
	Addr         string
	Environment  string
	DomainTTL    time.Duration
	FetchTimeout time.Duration
}

func NewRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Addr:         env.GetEnv("RUNTIME_ADDR", ":8081"),
		Environment:  env.GetEnv("ENVIRONMENT", "development"),
		DomainTTL:    env.GetDuration("DOMAIN_CACHE_TTL", 300*time.Second),
		FetchTimeout: env.GetDuration("RUNTIME_FETCH_TIMEOUT", 3*time.Second),
	}
}

type APIConfig struct {
	Addr        string
	JWTSecret   string
	CORSOrigins string
	Migrate     bool
}

func NewAPIConfig() *APIConfig {
	return &APIConfig{
		Addr:        env.GetEnv("API_ADDR", ":8080"),
		JWTSecret:   env.GetEnv("JWT_SECRET", ""),
		CORSOrigins: env.GetEnv("CORS_ORIGINS", "http://localhost:3000"),
		Migrate:     env.GetBool("DB_MIGRATE", false),
	}
}
