package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Strings carry identifiers, secrets and paths;
// ints carry durations and costs in the unit the field name states.
type Config struct {
    Env            string // application environment (e.g. "dev", "prod")
    Port           string // HTTP port to listen on
    DBUser         string // database username
    DBPass         string // database password (optional)
    DBHost         string // database host address
    DBPort         string // database port number
    DBName         string // database name
    JWTSecret      string // secret used to sign JWTs
    TokenTTLHours  int    // access token time-to-live in hours
    RefreshTTLDays int    // refresh token time-to-live in days
    BcryptCost     int    // bcrypt cost for password hashing
    MediaRoot      string // directory where uploaded product images are stored
    BootstrapToken string // shared secret guarding the admin bootstrap endpoint
    RabbitURL      string // AMQP broker URL (optional; order events are best-effort)
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Optional values
// fall back to defaults suitable for local development.
func Load() Config {
    return Config{
        Env:            getenvDefault("APP_ENV", "dev"),
        Port:           getenvDefault("APP_PORT", "8000"),
        DBUser:         must("DB_USER"),
        DBPass:         os.Getenv("DB_PASS"), // empty allowed
        DBHost:         must("DB_HOST"),
        DBPort:         must("DB_PORT"),
        DBName:         must("DB_NAME"),
        JWTSecret:      must("JWT_SECRET"),
        TokenTTLHours:  intDefault("TOKEN_TTL_HOURS", 24),
        RefreshTTLDays: intDefault("REFRESH_TTL_DAYS", 7),
        BcryptCost:     intDefault("BCRYPT_COST", 12),
        MediaRoot:      getenvDefault("MEDIA_ROOT", "media"),
        BootstrapToken: must("ADMIN_BOOTSTRAP_TOKEN"),
        RabbitURL:      os.Getenv("RABBITMQ_URL"), // empty disables event publishing
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

// getenvDefault returns the variable's value or def when unset.
func getenvDefault(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

// intDefault parses an optional integer variable, falling back to def when
// the variable is unset.  An unparsable value is a fatal error rather than
// a silent fallback.
func intDefault(key string, def int) int {
    s := os.Getenv(key)
    if s == "" {
        return def
    }
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}
