package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// EnvFileKey - env untuk menunjuk file .env lain, default ".env"
const EnvFileKey = "PHARMACY_ENV_FILE"

func LoadEnv() {
	path := GetEnv(EnvFileKey, ".env")
	if err := godotenv.Load(path); err != nil {
		logrus.Infof("%s tidak ditemukan, pakai env system", path)
	}
}

func GetEnv(key string, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}
