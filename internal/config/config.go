package config // package config loads application configuration from environment variables

import (
	"log"  // log is used to report configuration errors and halt execution
	"os"   // os provides access to environment variables
	"time" // time parses duration values
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  The types reflect how the values are used:
// strings for identifiers, secrets and base URLs, durations for timeouts.
type Config struct {
	Env               string        // application environment (e.g. "dev", "prod")
	Port              string        // HTTP port to listen on
	DBUser            string        // database username
	DBPass            string        // database password (optional)
	DBHost            string        // database host address
	DBPort            string        // database port number
	DBName            string        // database name
	SessionJWTSecret  string        // secret the identity provider signs session tokens with
	AuthBaseURL       string        // identity provider base URL (sign-out endpoint)
	AnalysisBaseURL   string        // analysis compute service base URL
	JournalBaseURL    string        // journal store base URL
	HTTPClientTimeout time.Duration // timeout for outbound calls to the external services
	TimelineTZ        string        // IANA zone for timeline date bucketing; empty = process local
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:               must("APP_ENV"),            // environment (dev/test/prod)
		Port:              must("APP_PORT"),           // port to bind the HTTP server
		DBUser:            must("DB_USER"),            // database user
		DBPass:            os.Getenv("DB_PASS"),       // database password (empty allowed)
		DBHost:            must("DB_HOST"),            // database host
		DBPort:            must("DB_PORT"),            // database port
		DBName:            must("DB_NAME"),            // database name
		SessionJWTSecret:  must("SESSION_JWT_SECRET"), // provider token signing secret
		AuthBaseURL:       must("AUTH_API_URL"),       // identity provider endpoint
		AnalysisBaseURL:   must("ANALYSIS_API_URL"),   // analysis service endpoint
		JournalBaseURL:    must("JOURNAL_API_URL"),    // journal store endpoint
		HTTPClientTimeout: parseDur(getenv("HTTP_CLIENT_TIMEOUT", "30s")),
		TimelineTZ:        os.Getenv("TIMELINE_TZ"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the value of an environment variable or a default when
// it is unset.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// parseDur converts a duration string, falling back to one second on a
// malformed value.
func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}
