package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/dinehub/app/models"
	"github.com/shashiranjanraj/dinehub/app/repositories"
	"github.com/shashiranjanraj/dinehub/pkg/cache"
	"github.com/shashiranjanraj/dinehub/pkg/logger"
	"github.com/shashiranjanraj/dinehub/pkg/metrics"
	"github.com/shashiranjanraj/dinehub/pkg/storage"
)

// MenuService manages the catalog. Public listings are read through the
// cache and every write drops the cached listings.
type MenuService struct {
	repo  repositories.MenuRepository
	cache *cache.Store
	ttl   time.Duration
	disk  storage.Disk
}

// NewMenuService wires the catalog. cache and disk may be nil: listings are
// then always read from the store and image uploads are refused.
func NewMenuService(repo repositories.MenuRepository, c *cache.Store, ttl time.Duration, disk storage.Disk) *MenuService {
	return &MenuService{repo: repo, cache: c, ttl: ttl, disk: disk}
}

type MenuInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	Image       string
	IsAvailable *bool
}

// MenuPatch carries the fields of a partial update; nil means unchanged.
type MenuPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Image       *string
	IsAvailable *bool
}

func listKey(c models.Category) string {
	if c == "" {
		return "menu:all"
	}
	return "menu:" + strings.ToLower(strings.ReplaceAll(string(c), " ", "-"))
}

// List returns the catalog, optionally narrowed to one category.
func (s *MenuService) List(ctx context.Context, category string) ([]models.MenuItem, error) {
	var cat models.Category
	if strings.TrimSpace(category) != "" {
		c, err := models.ParseCategory(category)
		if err != nil {
			return nil, err
		}
		cat = c
	}

	key := listKey(cat)
	var items []models.MenuItem
	if s.cache.Get(ctx, key, &items) {
		metrics.CacheHits.WithLabelValues("redis").Inc()
		return items, nil
	}
	metrics.CacheMisses.WithLabelValues("redis").Inc()

	items, err := s.repo.List(ctx, cat)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	if err := s.cache.Set(ctx, key, items, s.ttl); err != nil {
		logger.WithCtx(ctx).Warn("menu: cache set failed", "key", key, "error", err)
	}
	return items, nil
}

func (s *MenuService) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *MenuService) Create(ctx context.Context, in MenuInput) (*models.MenuItem, error) {
	cat, err := models.ParseCategory(in.Category)
	if err != nil {
		return nil, err
	}
	if in.Price < 0 {
		return nil, ErrInvalidPrice
	}

	item := models.NewMenuItem(in.Name, in.Description, in.Price, cat)
	item.Image = strings.TrimSpace(in.Image)
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create menu item: %w", err)
	}
	s.invalidate(ctx)
	return item, nil
}

// Update applies the non-nil fields of p to item id.
func (s *MenuService) Update(ctx context.Context, id string, p MenuPatch) (*models.MenuItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		item.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		item.Description = strings.TrimSpace(*p.Description)
	}
	if p.Price != nil {
		if *p.Price < 0 {
			return nil, ErrInvalidPrice
		}
		item.Price = models.RoundCents(*p.Price)
	}
	if p.Category != nil {
		cat, err := models.ParseCategory(*p.Category)
		if err != nil {
			return nil, err
		}
		item.Category = cat
	}
	if p.Image != nil {
		item.Image = strings.TrimSpace(*p.Image)
	}
	if p.IsAvailable != nil {
		item.IsAvailable = *p.IsAvailable
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("update menu item %s: %w", id, err)
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *MenuService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete menu item %s: %w", id, err)
	}
	s.invalidate(ctx)
	return nil
}

var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadImage stores r on the configured disk and points item id at it.
func (s *MenuService) UploadImage(ctx context.Context, id string, r io.Reader, contentType string) (*models.MenuItem, error) {
	ext, ok := imageTypes[contentType]
	if !ok || s.disk == nil {
		return nil, ErrInvalidImage
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := path.Join("menu", item.ID, uuid.NewString()+ext)
	if err := s.disk.Put(ctx, key, r, contentType); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	item.Image = s.disk.URL(key)
	if err := s.repo.Update(ctx, item); err != nil {
		_ = s.disk.Delete(ctx, key)
		return nil, fmt.Errorf("update menu item %s: %w", id, err)
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *MenuService) invalidate(ctx context.Context) {
	keys := []string{listKey("")}
	for _, c := range models.Categories {
		keys = append(keys, listKey(c))
	}
	if err := s.cache.Forget(ctx, keys...); err != nil {
		logger.WithCtx(ctx).Warn("menu: cache invalidation failed", "error", err)
	}
}
