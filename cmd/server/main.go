package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"charityfinds/internal/cache"
	"charityfinds/internal/catalog"
	"charityfinds/internal/config"
	"charityfinds/internal/database"
	"charityfinds/internal/handlers"
	"charityfinds/internal/middleware"
	"charityfinds/internal/routes"
	"charityfinds/internal/services"
	"charityfinds/internal/storefront"
	"charityfinds/internal/utils"
)

const (
	catalogLoadTimeout = 30 * time.Second
	sweepInterval      = 5 * time.Minute
	shutdownTimeout    = 10 * time.Second
)

func main() {
	bootstrap, _ := zap.NewDevelopment()
	config.LoadEnv(bootstrap)
	cfg := config.FromEnv()

	logger, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("❌ Impossible d'initialiser le logger : %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("❌ Arrêt du serveur", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conns, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer conns.Close()

	var store *cache.Store
	if conns.Redis != nil {
		store = cache.NewStore(conns.Redis)
	}

	loader, err := selectLoader(cfg, conns, store, logger)
	if err != nil {
		return err
	}

	loadCtx, cancel := context.WithTimeout(ctx, catalogLoadTimeout)
	products, err := catalog.Load(loadCtx, loader, logger)
	cancel()
	if err != nil {
		return err
	}

	if cfg.ElasticSync && conns.Elastic != nil && cfg.CatalogSource != config.CatalogSourceElastic {
		go syncElastic(ctx, services.NewProductIndex(conns.Elastic, cfg.ElasticIndex, logger), products, logger)
	}

	sessions := storefront.NewSessions(products, cfg.SessionTTL, logger)
	go sessions.Run(ctx, sweepInterval)

	secret := cfg.SessionSecret
	if secret == "" {
		if cfg.IsProduction() {
			return errors.New("SESSION_SECRET manquant")
		}
		secret = "charityfinds-dev-session-secret!"
		logger.Warn("⚠️ SESSION_SECRET absent, secret de développement utilisé")
	}
	cookieStore := middleware.NewCookieStore(secret, cfg.IsProduction(), int(cfg.SessionTTL.Seconds()))

	var images *services.ImageSigner
	if conns.MinIO != nil {
		images = services.NewImageSigner(conns.MinIO, cfg.MinioBucket, logger)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), routes.CORS(cfg.CORSOrigins, logger))

	h := handlers.New(handlers.Options{
		Catalog:   products,
		Images:    images,
		Health:    conns,
		PublicURL: cfg.PublicURL,
		Origins:   cfg.CORSOrigins,
		Logger:    logger,
	})
	routes.RegisterRoutes(r, h, routes.Middlewares{
		Session:   middleware.Session(cookieStore, sessions, logger),
		RateLimit: middleware.RateLimit(store, cfg.RateLimit, logger),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🚀 Serveur CharityFinds lancé", zap.String("port", cfg.Port), zap.String("catalog", cfg.CatalogSource))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("🛑 Arrêt en cours")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}

// selectLoader choisit la source du catalogue ; Redis, s'il est configuré, sert de cache devant elle.
func selectLoader(cfg config.Config, conns *database.Connections, store *cache.Store, logger *zap.Logger) (catalog.Loader, error) {
	var loader catalog.Loader
	switch cfg.CatalogSource {
	case config.CatalogSourceMock:
		// Le catalogue de démonstration est embarqué : pas de cache.
		return catalog.StaticLoader{}, nil
	case config.CatalogSourceRemote:
		loader = catalog.NewRemoteLoader(cfg.BackendURL, logger)
	case config.CatalogSourceScylla:
		if conns.Scylla == nil {
			return nil, errors.New("CATALOG_SOURCE=scylla mais ScyllaDB n'est pas configuré")
		}
		loader = catalog.ScyllaLoader{Session: conns.Scylla}
	case config.CatalogSourceElastic:
		if conns.Elastic == nil {
			return nil, errors.New("CATALOG_SOURCE=elastic mais Elasticsearch n'est pas configuré")
		}
		loader = services.NewProductIndex(conns.Elastic, cfg.ElasticIndex, logger)
	default:
		return nil, fmt.Errorf("CATALOG_SOURCE inconnu: %q", cfg.CatalogSource)
	}

	if store != nil {
		loader = cache.NewCachedLoader(store, loader, cfg.CatalogCacheTTL, logger)
	}
	return loader, nil
}

func syncElastic(ctx context.Context, index *services.ProductIndex, c *catalog.Catalog, logger *zap.Logger) {
	if err := index.IndexProducts(ctx, c.Products()); err != nil {
		logger.Warn("⚠️ Réindexation Elasticsearch échouée", zap.Error(err))
	}
}
