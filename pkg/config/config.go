package config

import "os"

type Config struct {
	Port                    string
	Env                     string
	SiteURL                 string
	FirebaseCredentialsPath string
	JWTSecret               string
	MailgunAPIKey           string
	MailgunDomain           string
	MailFrom                string
}

func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		SiteURL:                 getEnv("SITE_URL", "http://localhost:3000"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		MailgunAPIKey:           getEnv("MAILGUN_API_KEY", ""),
		MailgunDomain:           getEnv("MAILGUN_DOMAIN", ""),
		MailFrom:                getEnv("MAIL_FROM", "Amanos Alerts <alerts@amanos.app>"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
