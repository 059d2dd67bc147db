package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/gid"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
	"github.com/angelmondragon/storefront-backend/pkg/shopify"
	"golang.org/x/sync/errgroup"
)

const (
	resourceProducts    = "products"
	resourceProduct     = "product"
	resourceCollections = "collections"
)

// Source is the commerce platform read surface.
type Source interface {
	Products(ctx context.Context, pageSize int) ([]shopify.Product, error)
	Product(ctx context.Context, id string) (*shopify.Product, error)
	Collections(ctx context.Context, pageSize, productsPerCollection int) ([]shopify.Collection, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CatalogKey(parts ...string) string
}

type cacheRecorder interface {
	CatalogCache(resource, result string)
}

// Service exposes read-only catalog queries.
type Service interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListCollections(ctx context.Context) ([]Collection, error)
	Home(ctx context.Context) (*Home, error)
}

// Options tunes paging and caching. A zero CacheTTL disables the cache.
type Options struct {
	CacheTTL           time.Duration
	PageSize           int
	CollectionProducts int
}

type service struct {
	source  Source
	cache   cacheStore
	metrics cacheRecorder
	logg    *logger.Logger
	opts    Options
}

// NewService builds a catalog service. cache and recorder may be nil.
func NewService(source Source, cache cacheStore, recorder cacheRecorder, logg *logger.Logger, opts Options) (Service, error) {
	if source == nil {
		return nil, fmt.Errorf("catalog source required")
	}
	if recorder == nil {
		recorder = (*metrics.Storefront)(nil)
	}
	return &service{
		source:  source,
		cache:   cache,
		metrics: recorder,
		logg:    logg,
		opts:    opts,
	}, nil
}

func (s *service) ListProducts(ctx context.Context) ([]Product, error) {
	return cached(ctx, s, resourceProducts, []string{resourceProducts}, func(ctx context.Context) ([]Product, error) {
		raw, err := s.source.Products(ctx, s.opts.PageSize)
		if err != nil {
			return nil, err
		}
		products := make([]Product, 0, len(raw))
		for _, p := range raw {
			product, err := fromShopifyProduct(p)
			if err != nil {
				s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "catalog.product_dropped")
				continue
			}
			products = append(products, product)
		}
		return products, nil
	})
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	normalized := gid.Normalize(id)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := cached(ctx, s, resourceProduct, []string{resourceProduct, normalized}, func(ctx context.Context) (Product, error) {
		raw, err := s.source.Product(ctx, gid.Format(gid.KindProduct, normalized))
		if err != nil {
			return Product{}, err
		}
		product, err := fromShopifyProduct(*raw)
		if err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "reason", err.Error()), "catalog.product_dropped")
			return Product{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return product, nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *service) ListCollections(ctx context.Context) ([]Collection, error) {
	return cached(ctx, s, resourceCollections, []string{resourceCollections}, func(ctx context.Context) ([]Collection, error) {
		raw, err := s.source.Collections(ctx, s.opts.PageSize, s.opts.CollectionProducts)
		if err != nil {
			return nil, err
		}
		collections := make([]Collection, 0, len(raw))
		for _, c := range raw {
			collection, errs := fromShopifyCollection(c)
			for _, dropErr := range errs {
				s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"collection_id": collection.ID, "reason": dropErr.Error()}), "catalog.product_dropped")
			}
			collections = append(collections, collection)
		}
		return collections, nil
	})
}

// Home fetches products and collections concurrently.
func (s *service) Home(ctx context.Context) (*Home, error) {
	var home Home
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := s.ListProducts(gctx)
		home.Products = products
		return err
	})
	g.Go(func() error {
		collections, err := s.ListCollections(gctx)
		home.Collections = collections
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &home, nil
}

// cached implements cache-aside. Cache failures degrade to a direct fetch.
func cached[T any](ctx context.Context, s *service, resource string, keyParts []string, fetch func(context.Context) (T, error)) (T, error) {
	if s.cache == nil || s.opts.CacheTTL <= 0 {
		return fetch(ctx)
	}

	key := s.cache.CatalogKey(keyParts...)
	raw, err := s.cache.Get(ctx, key)
	switch {
	case err == nil:
		var value T
		if decodeErr := json.Unmarshal([]byte(raw), &value); decodeErr == nil {
			s.metrics.CatalogCache(resource, metrics.CacheHit)
			return value, nil
		}
		s.metrics.CatalogCache(resource, metrics.CacheError)
	case redis.IsMiss(err):
		s.metrics.CatalogCache(resource, metrics.CacheMiss)
	default:
		s.metrics.CatalogCache(resource, metrics.CacheError)
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"key": key, "error": err.Error()}), "catalog.cache_read_failed")
	}

	value, err := fetch(ctx)
	if err != nil {
		return value, err
	}

	payload, err := json.Marshal(value)
	if err == nil {
		err = s.cache.Set(ctx, key, string(payload), s.opts.CacheTTL)
	}
	if err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"key": key, "error": err.Error()}), "catalog.cache_write_failed")
	}
	return value, nil
}
