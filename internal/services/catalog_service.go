package services

import (
	"context"

	"cafeconnect/internal/models"
	"cafeconnect/internal/repositories"
	"cafeconnect/internal/search"
)

// CafeService handles business logic for the cafe catalog.
type CafeService struct {
	cafes catalog[models.Cafe, *models.Cafe]
}

// NewCafeService creates a new CafeService.
func NewCafeService(repo repositories.CafeRepository) *CafeService {
	return &CafeService{cafes: catalog[models.Cafe, *models.Cafe]{
		repo:   repo,
		newDoc: models.NewCafe,
	}}
}

// ListCafes returns every cafe, newest first, narrowed by query when one is given.
func (s *CafeService) ListCafes(ctx context.Context, query string) ([]models.Cafe, error) {
	cafes, err := s.cafes.list(ctx)
	if err != nil {
		return nil, err
	}
	return search.FilterByQuery(cafes, query), nil
}

func (s *CafeService) GetCafe(ctx context.Context, id string) (*models.Cafe, error) {
	return s.cafes.get(ctx, id)
}

func (s *CafeService) CreateCafe(ctx context.Context, decode Decoder) (*models.Cafe, error) {
	return s.cafes.create(ctx, decode)
}

func (s *CafeService) UpdateCafe(ctx context.Context, id string, mode UpdateMode, decode Decoder) (*models.Cafe, error) {
	return s.cafes.update(ctx, id, mode, decode)
}

func (s *CafeService) DeleteCafe(ctx context.Context, id string) (*models.Cafe, error) {
	return s.cafes.remove(ctx, id)
}

// MenuService handles business logic for menu items.
type MenuService struct {
	menus catalog[models.Menu, *models.Menu]
}

// NewMenuService creates a new MenuService.
func NewMenuService(repo repositories.MenuRepository) *MenuService {
	return &MenuService{menus: catalog[models.Menu, *models.Menu]{
		repo:   repo,
		newDoc: models.NewMenu,
	}}
}

// ListMenus returns menu items filtered by a free-text query and a category ("all" or "" for any).
func (s *MenuService) ListMenus(ctx context.Context, query, category string) ([]models.Menu, error) {
	menus, err := s.menus.list(ctx)
	if err != nil {
		return nil, err
	}
	return search.FilterByCategory(search.FilterByQuery(menus, query), category), nil
}

// ListAvailable is ListMenus restricted to items currently on sale.
func (s *MenuService) ListAvailable(ctx context.Context, query, category string) ([]models.Menu, error) {
	menus, err := s.ListMenus(ctx, query, category)
	if err != nil {
		return nil, err
	}
	available := make([]models.Menu, 0, len(menus))
	for _, m := range menus {
		if m.IsAvailable {
			available = append(available, m)
		}
	}
	return available, nil
}

func (s *MenuService) GetMenu(ctx context.Context, id string) (*models.Menu, error) {
	return s.menus.get(ctx, id)
}

func (s *MenuService) CreateMenu(ctx context.Context, decode Decoder) (*models.Menu, error) {
	return s.menus.create(ctx, decode)
}

// InsertMenu stores a menu item built in code, as the seeder does.
func (s *MenuService) InsertMenu(ctx context.Context, menu *models.Menu) (*models.Menu, error) {
	return s.menus.insert(ctx, menu)
}

func (s *MenuService) UpdateMenu(ctx context.Context, id string, mode UpdateMode, decode Decoder) (*models.Menu, error) {
	return s.menus.update(ctx, id, mode, decode)
}

func (s *MenuService) DeleteMenu(ctx context.Context, id string) (*models.Menu, error) {
	return s.menus.remove(ctx, id)
}
