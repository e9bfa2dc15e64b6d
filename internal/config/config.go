package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field maps to an
// environment variable; strings for identifiers and secrets, ints for
// durations and costs.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	DBUser        string // database username
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name
	SessionSecret string // key used to authenticate session cookies
	TokenSecret   string // secret used to sign session tokens
	SessionTTLMin int    // session token time-to-live in minutes
	BcryptCost    int    // bcrypt cost for password hashing
	MediaDir      string // directory where uploaded media is stored
}

// Load reads configuration from the environment.  Required variables
// are enforced by must(); missing values abort startup with a fatal
// log message so a misconfigured instance never serves traffic.
func Load() Config {
	return Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"), // empty allowed
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		SessionSecret: must("SESSION_SECRET"),
		TokenSecret:   must("TOKEN_SECRET"),
		SessionTTLMin: mustInt("SESSION_TTL_MIN"),
		BcryptCost:    mustInt("BCRYPT_COST"),
		MediaDir:      getenv("MEDIA_DIR", "media"),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
