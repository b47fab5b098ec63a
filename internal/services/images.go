package services

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"charityfinds/internal/models"
)

const DefaultSignedURLExpiry = time.Hour

// ImageSigner transforme les clés d'objets MinIO en URLs signées.
// Les URLs absolues (mock, CDN) sont servies telles quelles.
type ImageSigner struct {
	Client *minio.Client
	Bucket string
	Expiry time.Duration
	Logger *zap.Logger
}

func NewImageSigner(client *minio.Client, bucket string, logger *zap.Logger) *ImageSigner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageSigner{Client: client, Bucket: bucket, Expiry: DefaultSignedURLExpiry, Logger: logger}
}

// SignedURL retourne l'URL à exposer pour une image. En cas d'échec, la valeur brute est renvoyée.
func (s *ImageSigner) SignedURL(ctx context.Context, image string) string {
	if s == nil || s.Client == nil || image == "" || isAbsoluteURL(image) {
		return image
	}

	// Nettoie la clé pour ne garder que le chemin relatif au bucket
	key := strings.TrimPrefix(image, "/")
	key = strings.TrimPrefix(key, s.Bucket+"/")

	expiry := s.Expiry
	if expiry <= 0 {
		expiry = DefaultSignedURLExpiry
	}
	presigned, err := s.Client.PresignedGetObject(ctx, s.Bucket, key, expiry, make(url.Values))
	if err != nil {
		s.Logger.Warn("⚠️ Signature URL MinIO impossible", zap.String("key", key), zap.Error(err))
		return image
	}
	return presigned.String()
}

// SignProducts retourne une copie des annonces avec leurs images signées.
func (s *ImageSigner) SignProducts(ctx context.Context, products []models.Product) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	if s == nil || s.Client == nil {
		return out
	}
	for i := range out {
		out[i].Image = s.SignedURL(ctx, out[i].Image)
	}
	return out
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
