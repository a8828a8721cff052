package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"agrilink/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Region caching
	GetRegionList(ctx context.Context) ([]*models.RegionRow, error)
	SetRegionList(ctx context.Context, regions []*models.RegionRow, ttl time.Duration) error
	InvalidateRegions(ctx context.Context) error

	// Catalog caching
	GetCatalog(ctx context.Context, filterKey string) ([]models.CatalogItem, error)
	SetCatalog(ctx context.Context, filterKey string, items []models.CatalogItem, ttl time.Duration) error
	InvalidateCatalog(ctx context.Context) error

	// Cart storage, one cart per buyer
	GetCart(ctx context.Context, buyerID uuid.UUID) (*models.Cart, error)
	SetCart(ctx context.Context, buyerID uuid.UUID, cart *models.Cart) error
	DeleteCart(ctx context.Context, buyerID uuid.UUID) error

	// Dashboard caching
	GetDashboard(ctx context.Context) (map[string]interface{}, error)
	SetDashboard(ctx context.Context, data map[string]interface{}, ttl time.Duration) error

	// Session management
	SetSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	GetSession(ctx context.Context, sessionID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// Generic string operations
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetRegionList(ctx context.Context) ([]*models.RegionRow, error) {
	data, err := r.client.Get(ctx, "agrilink:regions").Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var regions []*models.RegionRow
	if err := json.Unmarshal(data, &regions); err != nil {
		return nil, err
	}
	return regions, nil
}

func (r *redisCacheService) SetRegionList(ctx context.Context, regions []*models.RegionRow, ttl time.Duration) error {
	data, err := json.Marshal(regions)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, "agrilink:regions", data, ttl).Err()
}

func (r *redisCacheService) InvalidateRegions(ctx context.Context) error {
	return r.client.Del(ctx, "agrilink:regions").Err()
}

func (r *redisCacheService) GetCatalog(ctx context.Context, filterKey string) ([]models.CatalogItem, error) {
	key := fmt.Sprintf("agrilink:catalog:%s", filterKey)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var items []models.CatalogItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *redisCacheService) SetCatalog(ctx context.Context, filterKey string, items []models.CatalogItem, ttl time.Duration) error {
	key := fmt.Sprintf("agrilink:catalog:%s", filterKey)
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) InvalidateCatalog(ctx context.Context) error {
	keys, err := r.client.Keys(ctx, "agrilink:catalog:*").Result()
	if err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) GetCart(ctx context.Context, buyerID uuid.UUID) (*models.Cart, error) {
	key := fmt.Sprintf("agrilink:cart:%s", buyerID.String())
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return &models.Cart{}, nil // empty cart
		}
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *redisCacheService) SetCart(ctx context.Context, buyerID uuid.UUID, cart *models.Cart) error {
	key := fmt.Sprintf("agrilink:cart:%s", buyerID.String())
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	// Carts persist until checkout or explicit clear, no TTL
	return r.client.Set(ctx, key, data, 0).Err()
}

func (r *redisCacheService) DeleteCart(ctx context.Context, buyerID uuid.UUID) error {
	key := fmt.Sprintf("agrilink:cart:%s", buyerID.String())
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) GetDashboard(ctx context.Context) (map[string]interface{}, error) {
	data, err := r.client.Get(ctx, "agrilink:dashboard").Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var dashboard map[string]interface{}
	if err := json.Unmarshal(data, &dashboard); err != nil {
		return nil, err
	}
	return dashboard, nil
}

func (r *redisCacheService) SetDashboard(ctx context.Context, dashboard map[string]interface{}, ttl time.Duration) error {
	data, err := json.Marshal(dashboard)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, "agrilink:dashboard", data, ttl).Err()
}

func (r *redisCacheService) SetSession(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	key := fmt.Sprintf("agrilink:session:%s", sessionID)
	return r.client.Set(ctx, key, userID, ttl).Err()
}

func (r *redisCacheService) GetSession(ctx context.Context, sessionID string) (string, error) {
	key := fmt.Sprintf("agrilink:session:%s", sessionID)
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // not found
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) DeleteSession(ctx context.Context, sessionID string) error {
	key := fmt.Sprintf("agrilink:session:%s", sessionID)
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := fmt.Sprintf("agrilink:ratelimit:%s", key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
