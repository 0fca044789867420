package usecase

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"manifest-reconciliation/internal/domain"
)

// ManifestCache keeps the consolidated manifests of each branch in memory.
// Entries are fetched lazily, once per branch even under concurrent misses,
// and only dropped by Invalidate.
type ManifestCache struct {
	gateway ValidationGateway
	kind    domain.WorkflowKind

	fetches singleflight.Group

	mu      sync.RWMutex
	entries map[string]*domain.ManifestSet
}

// NewManifestCache creates an empty cache.
func NewManifestCache(gateway ValidationGateway, kind domain.WorkflowKind) *ManifestCache {
	return &ManifestCache{
		gateway: gateway,
		kind:    kind,
		entries: make(map[string]*domain.ManifestSet),
	}
}

// Get returns the cached manifests of branchID, fetching them on first use.
func (c *ManifestCache) Get(ctx context.Context, branchID string) (*domain.ManifestSet, error) {
	if set := c.Peek(branchID); set != nil {
		return set, nil
	}

	v, err, _ := c.fetches.Do(branchID, func() (interface{}, error) {
		if set := c.Peek(branchID); set != nil {
			return set, nil
		}
		set, err := c.gateway.ConsolidatedToStart(ctx, c.kind, branchID)
		if err != nil {
			return nil, fmt.Errorf("could not get consolidated manifests for branch %s: %w", branchID, err)
		}
		if set == nil {
			set = &domain.ManifestSet{}
		}
		c.Put(branchID, set)
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.ManifestSet), nil
}

// Peek returns the cached manifests without fetching.
func (c *ManifestCache) Peek(branchID string) *domain.ManifestSet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[branchID]
}

// Put stores manifests delivered alongside a validation response.
func (c *ManifestCache) Put(branchID string, set *domain.ManifestSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[branchID] = set
}

// Invalidate drops the cached manifests of branchID.
func (c *ManifestCache) Invalidate(branchID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, branchID)
}

// Refresh refetches the manifests of branchID.
func (c *ManifestCache) Refresh(ctx context.Context, branchID string) (*domain.ManifestSet, error) {
	c.Invalidate(branchID)
	return c.Get(ctx, branchID)
}
