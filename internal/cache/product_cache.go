package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"order-service/internal/models"
	"order-service/internal/repository"
)

// CachedProductRepository fronts a ProductRepository with a Redis
// read-through cache. Redis being down never fails a request, reads
// fall through to the database and the miss is logged.
type CachedProductRepository struct {
	realRepo repository.ProductRepository
	redis    *redis.Client
	ttl      time.Duration
}

var _ repository.ProductRepository = (*CachedProductRepository)(nil)

func NewCachedProductRepository(realRepo repository.ProductRepository, redis *redis.Client) *CachedProductRepository {
	return &CachedProductRepository{
		realRepo: realRepo,
		redis:    redis,
		ttl:      5 * time.Minute,
	}
}

func (c *CachedProductRepository) GetByID(ctx context.Context, id int) (*models.Product, error) {
	key := fmt.Sprintf("product:%d", id)

	data, err := c.redis.Get(ctx, key).Bytes()

	switch {
	case err == nil:
		if string(data) == "notfound" {
			return nil, fmt.Errorf("%w: product %d", repository.ErrNotFound, id)
		}

		var product models.Product
		if err := json.Unmarshal(data, &product); err != nil {
			log.Printf("Failed to unmarshal cached product (continuing with DB): %v", err)
			break
		}

		return &product, nil

	case errors.Is(err, redis.Nil):

	default:
		log.Printf("Redis error (continuing with DB): %v", err)
	}

	product, err := c.realRepo.GetByID(ctx, id)
	if err != nil {
		// Only a definite miss is cached negatively. Transient store
		// errors must not turn into a minute of false 404s.
		if errors.Is(err, repository.ErrNotFound) {
			if setErr := c.redis.Set(ctx, key, "notfound", 1*time.Minute).Err(); setErr != nil {
				log.Printf("Failed to cache notfound: %v", setErr)
			}
		}
		return nil, err
	}

	jsonData, err := json.Marshal(product)
	if err != nil {
		log.Printf("Failed to marshal product: %v", err)
		return product, nil
	}

	if err := c.redis.Set(ctx, key, jsonData, c.ttl).Err(); err != nil {
		log.Printf("failed to cache product: %v", err)
	}

	return product, nil
}

func (c *CachedProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	key := "products:all"

	data, err := c.redis.Get(ctx, key).Bytes()

	if err == nil {
		var products []models.Product
		json.Unmarshal(data, &products)
		return products, nil
	}

	if err != redis.Nil {
		log.Printf("Redis error: %v (continuing with DB)", err)
	}

	products, err := c.realRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	jsonData, err := json.Marshal(products)
	if err != nil {
		log.Printf("failed to marshal products: %v", err)
	} else {
		c.redis.Set(ctx, key, jsonData, c.ttl)
	}

	return products, nil
}

func (c *CachedProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := c.redis.Del(ctx, "products:all").Err(); err != nil {
		log.Printf("Failed to delete products:all cache: %v", err)
	}

	return c.realRepo.Create(ctx, product)
}

func (c *CachedProductRepository) Delete(ctx context.Context, id int) error {
	c.invalidateProductCache(ctx, id)

	return c.realRepo.Delete(ctx, id)
}

func (c *CachedProductRepository) SetStock(ctx context.Context, id int, quantity int) error {
	if err := c.realRepo.SetStock(ctx, id, quantity); err != nil {
		return err
	}

	c.invalidateProductCache(ctx, id)

	return nil
}

// InvalidateProducts drops cached entries for products whose stock
// changed outside this repository, e.g. when an order is placed.
func (c *CachedProductRepository) InvalidateProducts(ctx context.Context, ids ...int) {
	for _, id := range ids {
		c.invalidateProductCache(ctx, id)
	}
}

func (c *CachedProductRepository) invalidateProductCache(ctx context.Context, productID int) {
	productKey := fmt.Sprintf("product:%d", productID)

	if err := c.redis.Del(ctx, productKey).Err(); err != nil {
		log.Printf("Failed to delete product cache %s: %v", productKey, err)
	}

	if err := c.redis.Del(ctx, "products:all").Err(); err != nil {
		log.Printf("Failed to delete products:all cache: %v", err)
	}
}
