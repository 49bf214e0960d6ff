package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	MongoURI       string
	RedisURI       string
	JWTSecret      string
	Port           string
	FrontendURL    string
	AllowedOrigins []string // CORS: from ALLOWED_ORIGINS or FRONTEND_URL
	Environment    string   // ENV: production, development, etc.
	HashCost       int      // bcrypt work factor

	// Verification email dispatch
	SMTPAddr      string // host:port
	SMTPUsername  string
	SMTPPassword  string
	MailFrom      string
	MailFromName  string
	VerifyBaseURL string // link base embedded in verification emails

	CloudinaryName      string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

func Load() *Config {
	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))
	frontendURL := getEnv("FRONTEND_URL", "http://localhost:3000")

	allowedOrigins := parseOrigins(getEnv("ALLOWED_ORIGINS", ""))
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{frontendURL}
	}

	return &Config{
		MongoURI:       getEnv("MONGODB_URI", getEnv("MONGO_URL", "mongodb://localhost:27017/timecapsule")),
		RedisURI:       getEnv("REDIS_URI", "redis://localhost:6379/0"),
		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		Port:           getEnv("PORT", "8080"),
		FrontendURL:    frontendURL,
		AllowedOrigins: allowedOrigins,
		Environment:    env,
		HashCost:       getEnvInt("HASH_COST", 10),

		SMTPAddr:      getEnv("SMTP_ADDR", ""),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		MailFrom:      getEnv("MAIL_FROM", "noreply@timecapsule.app"),
		MailFromName:  getEnv("MAIL_FROM_NAME", "Time Capsule"),
		VerifyBaseURL: getEnv("VERIFY_BASE_URL", frontendURL+"/verifyemail"),

		CloudinaryName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
	}
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasSMTP reports whether outbound email is configured.
func (c *Config) HasSMTP() bool {
	return c.SMTPAddr != "" && c.SMTPUsername != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
