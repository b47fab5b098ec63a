package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Env      string
	Port     string
	LogLevel string

	// BackendURL est la base du service catalogue distant ; le préfixe API est BackendURL + "/api".
	BackendURL      string
	PublicURL       string
	CatalogSource   string
	CatalogCacheTTL time.Duration

	SessionSecret string
	SessionTTL    time.Duration
	CORSOrigins   []string
	RateLimit     int64

	RedisHost     string
	RedisPassword string

	ElasticURL      string
	ElasticUser     string
	ElasticPassword string
	ElasticIndex    string
	// ElasticSync réindexe le catalogue chargé dans Elasticsearch au démarrage.
	ElasticSync bool

	ScyllaHosts    []string
	ScyllaKeyspace string
	ScyllaRole     string
	ScyllaPassword string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

const (
	CatalogSourceMock    = "mock"
	CatalogSourceRemote  = "remote"
	CatalogSourceScylla  = "scylla"
	CatalogSourceElastic = "elastic"
)

// LoadEnv charge le fichier .env s'il existe ; sinon on garde les variables du système.
func LoadEnv(logger *zap.Logger) {
	if err := godotenv.Load(".env"); err != nil {
		logger.Info("⚠️  Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	} else {
		logger.Info("✅ Fichier .env chargé avec succès")
	}
}

// FromEnv lit la configuration depuis l'environnement.
func FromEnv() Config {
	return Config{
		Env:      getenv("ENV", "development"),
		Port:     strings.TrimPrefix(getenv("PORT", "8080"), ":"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		BackendURL:      os.Getenv("BACKEND_URL"),
		PublicURL:       getenv("PUBLIC_URL", "http://localhost:3000"),
		CatalogSource:   strings.ToLower(getenv("CATALOG_SOURCE", CatalogSourceMock)),
		CatalogCacheTTL: getduration("CATALOG_CACHE_TTL", 10*time.Minute),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionTTL:    getduration("SESSION_TTL", 24*time.Hour),
		CORSOrigins:   splitList(getenv("CORS_ORIGINS", "*")),
		RateLimit:     getint("RATE_LIMIT_PER_MINUTE", 100),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		ElasticURL:      os.Getenv("ELASTIC_URL"),
		ElasticUser:     os.Getenv("ELASTIC_USER"),
		ElasticPassword: os.Getenv("ELASTIC_PASSWORD"),
		ElasticIndex:    getenv("ELASTIC_INDEX", "products"),
		ElasticSync:     strings.ToLower(os.Getenv("ELASTIC_SYNC")) == "true",

		ScyllaHosts:    splitList(os.Getenv("SCYLLA_HOSTS")),
		ScyllaKeyspace: os.Getenv("SCYLLA_KS_PRODUCTS_KEYSPACE"),
		ScyllaRole:     os.Getenv("SCYLLA_KS_PRODUCTS_ROLE"),
		ScyllaPassword: os.Getenv("SCYLLA_KS_PRODUCTS_PASSWORD"),

		MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:    getenv("MINIO_BUCKET", "charity-images"),
		MinioUseSSL:    strings.ToLower(os.Getenv("MINIO_USE_SSL")) == "true",
	}
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}

func getint(key string, fallback int64) int64 {
	if n, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil && n > 0 {
		return n
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
