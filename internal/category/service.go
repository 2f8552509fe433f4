package category

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=category
type Repository interface {
	GetList(ctx context.Context, filter ListFilter) ([]*Category, error)
	FindByID(ctx context.Context, id int64) (*Category, error)
	Save(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id int64) error

	// FindRule returns the rule with the longest pattern contained in text.
	FindRule(ctx context.Context, text string) (*Rule, error)
	SaveRule(ctx context.Context, r *Rule) error
	ListRules(ctx context.Context) ([]*Rule, error)
	DeleteRule(ctx context.Context, id int64) error
}

type ListFilter struct {
	NameContains string
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, name, notes string) (*Category, error) {
	c := &Category{Name: strings.TrimSpace(name), Notes: notes}
	if c.Name == "" {
		return nil, ErrNameRequired
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Update(ctx context.Context, c *Category) error {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrNameRequired
	}

	return s.repo.Save(ctx, c)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Category, error) {
	return s.repo.GetList(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (*Category, error) {
	return s.repo.FindByID(ctx, id)
}

// Suggest returns the category a note most likely belongs to, or nil when
// no rule matches.
func (s *Service) Suggest(ctx context.Context, text string) (*Category, error) {
	id, err := s.SuggestID(ctx, text)
	if err != nil || id == nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, *id)
}

func (s *Service) SuggestID(ctx context.Context, text string) (*int64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	r, err := s.repo.FindRule(ctx, text)
	if err != nil {
		if errors.Is(err, ErrRuleNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding rule: %w", err)
	}

	return &r.CategoryID, nil
}

// Learn remembers that notes containing pattern belong to categoryID. An
// existing rule with the same pattern is repointed.
func (s *Service) Learn(ctx context.Context, pattern string, categoryID int64) (*Rule, error) {
	r := &Rule{Pattern: strings.TrimSpace(pattern), CategoryID: categoryID}
	if r.Pattern == "" {
		return nil, ErrPatternRequired
	}

	if _, err := s.repo.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}

	if err := s.repo.SaveRule(ctx, r); err != nil {
		return nil, err
	}

	return r, nil
}

func (s *Service) Rules(ctx context.Context) ([]*Rule, error) {
	return s.repo.ListRules(ctx)
}

func (s *Service) DeleteRule(ctx context.Context, id int64) error {
	return s.repo.DeleteRule(ctx, id)
}
