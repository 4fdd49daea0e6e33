package services

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// CatalogExchange is the exchange product events are published on.
const CatalogExchange = "catalog"

// Routing keys of catalog events.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
	EventProductsPurged = "product.purged"
)

// EventPublisher sends a message to a broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ProductEvent is the payload of every catalog event.
type ProductEvent struct {
	Type    string    `json:"type"`
	ID      string    `json:"id,omitempty"`
	Slug    string    `json:"slug,omitempty"`
	OwnerID string    `json:"owner_id,omitempty"`
	Count   int64     `json:"count,omitempty"`
	At      time.Time `json:"at"`
}

// ProductCache stores flattened lookups.
type ProductCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
	DeletePattern(ctx context.Context, pattern string) error
}

func (s *ProductService) publish(evt ProductEvent) {
	if s.events == nil {
		return
	}
	evt.At = time.Now().UTC()
	body, err := json.Marshal(evt)
	if err != nil {
		s.logger.Warn("failed to marshal product event", zap.String("type", evt.Type), zap.Error(err))
		return
	}
	if err := s.events.Publish(CatalogExchange, evt.Type, body); err != nil {
		s.logger.Warn("failed to publish product event",
			zap.String("type", evt.Type), zap.String("product_id", evt.ID), zap.Error(err))
	}
}

func (s *ProductService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cacheGen.Add(1)
	if err := s.cache.DeletePattern(ctx, "*"); err != nil {
		s.logger.Warn("failed to invalidate product cache", zap.Error(err))
	}
}
