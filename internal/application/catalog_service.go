package application

import (
	"context"

	repo "github.com/RaiderT63/foodgram/internal/domain/repository"
)

// CatalogService exposes the read-only ingredient and tag reference data.
type CatalogService struct {
	Catalog repo.CatalogRepository
}

func (s *CatalogService) ListTags(ctx context.Context) ([]TagView, error) {
	tags, err := s.Catalog.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TagView, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagView{ID: t.ID, Name: t.Name, Slug: t.Slug})
	}
	return out, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id int64) (*TagView, error) {
	t, err := s.Catalog.GetTag(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TagView{ID: t.ID, Name: t.Name, Slug: t.Slug}, nil
}

func (s *CatalogService) ListIngredients(ctx context.Context, namePrefix string) ([]IngredientView, error) {
	ings, err := s.Catalog.ListIngredients(ctx, namePrefix)
	if err != nil {
		return nil, err
	}
	out := make([]IngredientView, 0, len(ings))
	for _, ing := range ings {
		out = append(out, IngredientView{ID: ing.ID, Name: ing.Name, MeasurementUnit: ing.MeasurementUnit})
	}
	return out, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id int64) (*IngredientView, error) {
	ing, err := s.Catalog.GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}
	return &IngredientView{ID: ing.ID, Name: ing.Name, MeasurementUnit: ing.MeasurementUnit}, nil
}
