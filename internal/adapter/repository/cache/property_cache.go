package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/muhammadegaa/easyhome/internal/domain"
	"github.com/redis/go-redis/v9"
)

const propertyTTL = 1 * time.Hour

// PropertyCache is a Redis read-through cache for hydrated property details.
type PropertyCache struct {
	client *redis.Client
}

func NewPropertyCache(addr, password string) (*PropertyCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &PropertyCache{client: client}, nil
}

// GetProperty returns the cached property, or (nil, nil) on a cache miss.
func (c *PropertyCache) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	data, err := c.client.Get(ctx, "property:"+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var property domain.Property
	if err := json.Unmarshal(data, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (c *PropertyCache) SetProperty(ctx context.Context, property *domain.Property) error {
	data, err := json.Marshal(property)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "property:"+property.ID, data, propertyTTL).Err()
}

func (c *PropertyCache) DeleteProperty(ctx context.Context, id string) error {
	return c.client.Del(ctx, "property:"+id).Err()
}

func (c *PropertyCache) Close() error {
	return c.client.Close()
}
