package service

import (
	"context"
	"strings"

	"github.com/kindnest/kindnest-api/internal/model"
	"github.com/kindnest/kindnest-api/internal/repository"
	"github.com/kindnest/kindnest-api/pkg/database"
	"github.com/kindnest/kindnest-api/pkg/validator"
	"github.com/kindnest/kindnest-api/pkg/wordfilter"
)

type FilterService interface {
	Add(ctx context.Context, word string) (*model.Filter, error)
	Remove(ctx context.Context, id uint) error
	List(ctx context.Context, page int) (*database.Page[model.Filter], error)
	// Check rejects text containing any blocklisted phrase, naming the
	// matched phrase in the error.
	Check(ctx context.Context, field, text string) error
}

type filterService struct {
	repo repository.FilterRepository
}

func NewFilterService(repo repository.FilterRepository) FilterService {
	return &filterService{repo: repo}
}

func (s *filterService) Add(ctx context.Context, word string) (*model.Filter, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if err := validator.CheckLength("filter", word, 100); err != nil {
		return nil, err
	}

	filter := &model.Filter{Word: word}
	if err := s.repo.Create(ctx, filter); err != nil {
		return nil, err
	}
	return filter, nil
}

func (s *filterService) Remove(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *filterService) List(ctx context.Context, page int) (*database.Page[model.Filter], error) {
	return s.repo.FindAll(ctx, page, database.DefaultPerPage)
}

func (s *filterService) Check(ctx context.Context, field, text string) error {
	words, err := s.repo.Words(ctx)
	if err != nil {
		return err
	}
	return validator.CheckFiltered(field, text, wordfilter.New(words))
}
