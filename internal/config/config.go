package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	TelegramToken string        // Telegram bot API token
	AdminID       string        // configured admin identity, raw; parsed during reconciliation
	KumaURL       string        // Uptime Kuma base URL, e.g. "http://kuma:3001"
	KumaUsername  string
	KumaPassword  string
	KumaAPIKey    string        // optional; used instead of username/password when set
	DBPath        string        // sqlite file path
	LogDir        string        // logs directory
	OpsAddr       string        // ops HTTP bind address (healthz + metrics)
	RemoteTimeout time.Duration // bound on one remote round trip
}

func FromEnv() Config {
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "data/kumabot.db"
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	opsAddr := os.Getenv("OPS_ADDR")
	if opsAddr == "" {
		opsAddr = "127.0.0.1:8080"
	}

	remoteTimeout := 30 * time.Second
	if v := os.Getenv("REMOTE_TIMEOUT_S"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			remoteTimeout = time.Duration(n) * time.Second
		}
	}

	return Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		AdminID:       os.Getenv("BOT_ADMIN_ID"),
		KumaURL:       os.Getenv("UPTIME_KUMA_URL"),
		KumaUsername:  os.Getenv("UPTIME_KUMA_USERNAME"),
		KumaPassword:  os.Getenv("UPTIME_KUMA_PASSWORD"),
		KumaAPIKey:    os.Getenv("UPTIME_KUMA_API_KEY"),
		DBPath:        dbPath,
		LogDir:        logDir,
		OpsAddr:       opsAddr,
		RemoteTimeout: remoteTimeout,
	}
}
