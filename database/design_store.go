package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fashionflow/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// ErrDesignNotFound is returned for unknown, expired or foreign designs.
var ErrDesignNotFound = errors.New("design not found")

const designKeyPrefix = "design:"

// storedDesign is the Redis representation of a design, image bytes included.
type storedDesign struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	MimeType  string    `json:"mimeType"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Data      []byte    `json:"data"`
}

// DesignStore keeps uploaded design images in Redis until their TTL expires.
type DesignStore struct {
	rdb redis.Cmdable
	ttl time.Duration
	now func() time.Time
}

func NewDesignStore(rdb redis.Cmdable, ttl time.Duration) *DesignStore {
	return &DesignStore{rdb: rdb, ttl: ttl, now: time.Now}
}

func designKey(id string) string {
	return designKeyPrefix + id
}

// Save stores image bytes for ownerID under a new id.
func (s *DesignStore) Save(ctx context.Context, ownerID, mimeType string, data []byte) (*models.Design, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image data")
	}

	now := s.now().UTC()
	rec := storedDesign{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		MimeType:  mimeType,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
		Data:      data,
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode design: %w", err)
	}

	if err := s.rdb.Set(ctx, designKey(rec.ID), payload, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to store design: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"design_id": rec.ID,
		"owner_id":  ownerID,
		"bytes":     len(data),
	}).Info("design stored")

	return rec.toModel(), nil
}

// Get returns the design with id if it belongs to ownerID.
func (s *DesignStore) Get(ctx context.Context, ownerID, id string) (*models.Design, error) {
	raw, err := s.rdb.Get(ctx, designKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDesignNotFound
		}
		return nil, fmt.Errorf("failed to load design: %w", err)
	}

	var rec storedDesign
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode design: %w", err)
	}
	if rec.OwnerID != ownerID {
		return nil, ErrDesignNotFound
	}
	return rec.toModel(), nil
}

// Delete removes a design before its TTL expires.
func (s *DesignStore) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, designKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete design: %w", err)
	}
	logrus.WithField("design_id", id).Info("design deleted")
	return nil
}

func (d storedDesign) toModel() *models.Design {
	return &models.Design{
		ID:        d.ID,
		OwnerID:   d.OwnerID,
		MimeType:  d.MimeType,
		Size:      len(d.Data),
		CreatedAt: d.CreatedAt,
		ExpiresAt: d.ExpiresAt,
		Data:      d.Data,
	}
}
