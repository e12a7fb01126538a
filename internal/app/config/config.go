package config

import (
	"log"
	"os"
)

type Config struct {
	HTTPAddr        string
	DatabaseURL     string
	InternalToken   string
	CORSAllowOrigin string
	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3Bucket        string
	S3Region        string
	S3UseSSL        bool
	S3PublicBaseURL string
}

func MustLoad() Config {
	return Config{
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		DatabaseURL:     mustEnv("DATABASE_URL"),
		InternalToken:   mustEnv("INTERNAL_TOKEN"),
		CORSAllowOrigin: env("CORS_ALLOW_ORIGIN", "*"),
		S3Endpoint:      mustEnv("S3_ENDPOINT"),
		S3AccessKey:     mustEnv("S3_ACCESS_KEY"),
		S3SecretKey:     mustEnv("S3_SECRET_KEY"),
		S3Bucket:        env("S3_BUCKET", "cotizador-media"),
		S3Region:        env("S3_REGION", "us-east-1"),
		S3UseSSL:        env("S3_USE_SSL", "") == "true",
		S3PublicBaseURL: env("S3_PUBLIC_BASE_URL", ""),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("missing env %s", k)
	}
	return v
}
