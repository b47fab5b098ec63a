package database

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gocql/gocql"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"charityfinds/internal/config"
)

// Connections regroupe les datastores optionnels. Un champ nil = service non configuré.
type Connections struct {
	Redis   *redis.Client
	Elastic *elasticsearch.Client
	Scylla  *gocql.Session
	MinIO   *minio.Client

	logger *zap.Logger
}

// Connect ouvre uniquement les connexions configurées. Une connexion configurée mais
// injoignable est une erreur : mieux vaut échouer au démarrage.
func Connect(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Connections, error) {
	conns := &Connections{logger: logger}

	// 1. Redis
	if cfg.RedisHost != "" {
		if err := conns.connectRedis(ctx, cfg); err != nil {
			conns.Close()
			return nil, err
		}
	}

	// 2. Elasticsearch
	if cfg.ElasticURL != "" {
		if err := conns.connectElastic(cfg); err != nil {
			conns.Close()
			return nil, err
		}
	}

	// 3. ScyllaDB (keyspace produits)
	if len(cfg.ScyllaHosts) > 0 && cfg.ScyllaKeyspace != "" {
		if err := conns.connectScylla(cfg); err != nil {
			conns.Close()
			return nil, err
		}
	}

	// 4. MinIO
	if cfg.MinioEndpoint != "" {
		if err := conns.connectMinIO(ctx, cfg); err != nil {
			conns.Close()
			return nil, err
		}
	}

	return conns, nil
}

// =============================================
// REDIS
// =============================================
func (c *Connections) connectRedis(ctx context.Context, cfg config.Config) error {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisHost,
		Password:     cfg.RedisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("impossible de se connecter à Redis: %w", err)
	}

	c.Redis = client
	c.logger.Info("✅ Connecté à Redis", zap.String("addr", cfg.RedisHost))
	return nil
}

// =============================================
// ELASTICSEARCH
// =============================================
func (c *Connections) connectElastic(cfg config.Config) error {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.ElasticURL},
		Username:  cfg.ElasticUser,
		Password:  cfg.ElasticPassword,
	})
	if err != nil {
		return fmt.Errorf("erreur création client Elasticsearch: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return fmt.Errorf("erreur connexion Elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("erreur connexion Elasticsearch: %s", res.Status())
	}

	c.Elastic = client
	c.logger.Info("✅ Connecté à Elasticsearch", zap.String("url", cfg.ElasticURL))
	return nil
}

// =============================================
// SCYLLA DB
// =============================================

// createScyllaCluster crée la configuration de cluster du keyspace produits
func createScyllaCluster(cfg config.Config) (*gocql.ClusterConfig, error) {
	cluster := gocql.NewCluster(cfg.ScyllaHosts...)
	cluster.Keyspace = cfg.ScyllaKeyspace
	cluster.Consistency = gocql.Quorum
	cluster.Timeout = 5 * time.Second
	cluster.NumConns = 4
	cluster.ReconnectInterval = 1 * time.Second
	cluster.Authenticator = gocql.PasswordAuthenticator{
		Username: cfg.ScyllaRole,
		Password: cfg.ScyllaPassword,
	}

	if caPath := os.Getenv("SCYLLA_SSL_CA_PATH"); caPath != "" {
		caCert, err := os.ReadFile(caPath)
		if err != nil {
			return nil, fmt.Errorf("impossible de lire le certificat CA: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("impossible de parser le certificat CA")
		}
		cluster.SslOpts = &gocql.SslOptions{
			Config:                 &tls.Config{RootCAs: pool},
			EnableHostVerification: true,
		}
	}

	// Lecture seule, sélection d'hôtes token-aware
	cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(gocql.RoundRobinHostPolicy())

	return cluster, nil
}

func (c *Connections) connectScylla(cfg config.Config) error {
	cluster, err := createScyllaCluster(cfg)
	if err != nil {
		return fmt.Errorf("erreur configuration cluster pour %s: %w", cfg.ScyllaKeyspace, err)
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return fmt.Errorf("erreur création session pour %s: %w", cfg.ScyllaKeyspace, err)
	}

	c.Scylla = session
	c.logger.Info("✅ Session ScyllaDB ouverte",
		zap.String("keyspace", cfg.ScyllaKeyspace),
		zap.String("role", cfg.ScyllaRole))
	return nil
}

// =============================================
// MINIO
// =============================================
func (c *Connections) connectMinIO(ctx context.Context, cfg config.Config) error {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return fmt.Errorf("erreur connexion MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return fmt.Errorf("erreur vérification bucket MinIO: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket MinIO %q introuvable", cfg.MinioBucket)
	}

	c.MinIO = client
	c.logger.Info("✅ Connecté à MinIO", zap.String("endpoint", cfg.MinioEndpoint), zap.String("bucket", cfg.MinioBucket))
	return nil
}

// Ping retourne l'état de chaque datastore configuré (pour /api/health).
func (c *Connections) Ping(ctx context.Context) map[string]string {
	status := map[string]string{}

	if c.Redis != nil {
		status["redis"] = pingResult(c.Redis.Ping(ctx).Err())
	}
	if c.Elastic != nil {
		res, err := c.Elastic.Ping(c.Elastic.Ping.WithContext(ctx))
		if err == nil {
			res.Body.Close()
			if res.IsError() {
				err = fmt.Errorf("%s", res.Status())
			}
		}
		status["elasticsearch"] = pingResult(err)
	}
	if c.Scylla != nil {
		status["scylla"] = pingResult(c.Scylla.Query("SELECT now() FROM system.local").WithContext(ctx).Exec())
	}
	if c.MinIO != nil {
		status["minio"] = pingResult(nil)
		if c.MinIO.IsOffline() {
			status["minio"] = "offline"
		}
	}

	return status
}

func pingResult(err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	return "connected"
}

// Close ferme toutes les connexions ouvertes.
func (c *Connections) Close() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.logger.Warn("⚠️ Erreur fermeture Redis", zap.Error(err))
		}
	}
	if c.Scylla != nil {
		c.Scylla.Close()
		c.logger.Info("🔌 Session ScyllaDB fermée")
	}
}
