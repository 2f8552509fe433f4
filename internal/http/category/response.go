package category

import (
	"time"

	"github.com/MrJamesThe3rd/moneybox/internal/category"
)

type categoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ruleResponse struct {
	ID         int64     `json:"id"`
	Pattern    string    `json:"pattern"`
	CategoryID int64     `json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func toResponse(c *category.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, Notes: c.Notes, CreatedAt: c.CreatedAt}
}

func toResponseList(categories []*category.Category) []categoryResponse {
	resp := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, toResponse(c))
	}

	return resp
}

func toRuleResponse(r *category.Rule) ruleResponse {
	return ruleResponse{ID: r.ID, Pattern: r.Pattern, CategoryID: r.CategoryID, CreatedAt: r.CreatedAt}
}

func toRuleResponseList(rules []*category.Rule) []ruleResponse {
	resp := make([]ruleResponse, 0, len(rules))
	for _, r := range rules {
		resp = append(resp, toRuleResponse(r))
	}

	return resp
}
