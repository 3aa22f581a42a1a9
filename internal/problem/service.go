// Package problem lists and fetches problems from the remote site, with an
// optional cache in front of the read-only queries.
package problem

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ojpad/internal/cache"
	"ojpad/internal/judge"
	apperr "ojpad/pkg/errors"
	"ojpad/pkg/utils/logger"
)

const defaultCacheTTL = 10 * time.Minute

// Snippet is one language's starter code for a problem. Snippet sets are
// read-only and sourced remotely, never mutated locally.
type Snippet struct {
	Lang     string `json:"lang"`
	LangSlug string `json:"langSlug"`
	Code     string `json:"code"`
}

// Summary is one row of a problem listing.
type Summary struct {
	QuestionID string  `json:"questionId"`
	Title      string  `json:"title"`
	TitleSlug  string  `json:"titleSlug"`
	Difficulty string  `json:"difficulty"`
	PaidOnly   bool    `json:"paidOnly"`
	Status     string  `json:"status"`
	AcRate     float64 `json:"acRate"`
}

// Detail is the full problem document including snippets.
type Detail struct {
	QuestionID string    `json:"questionId"`
	Title      string    `json:"title"`
	TitleSlug  string    `json:"titleSlug"`
	Content    string    `json:"content"`
	Difficulty string    `json:"difficulty"`
	Snippets   []Snippet `json:"codeSnippets"`
}

// Filters narrows a problem listing.
type Filters struct {
	Difficulty string // EASY | MEDIUM | HARD, empty for all
	Search     string
	Status     string // AC | NOT_STARTED | TRIED, empty for all
	Limit      int
	Skip       int
}

// Service fetches problem data over the shared judge transport.
type Service struct {
	transport *judge.Transport
	cache     cache.Cache // nil disables caching
	ttl       time.Duration
}

func NewService(transport *judge.Transport, c cache.Cache, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Service{transport: transport, cache: c, ttl: ttl}
}

const listQuery = `
query problemsetQuestionList($categorySlug: String, $limit: Int, $skip: Int, $filters: QuestionListFilterInput) {
  problemsetQuestionList: questionList(categorySlug: $categorySlug, limit: $limit, skip: $skip, filters: $filters) {
    total: totalNum
    questions: data {
      questionId: questionFrontendId
      title
      titleSlug
      difficulty
      paidOnly: isPaidOnly
      status
      acRate
    }
  }
}`

// List returns problem summaries matching the filters plus the total count.
func (s *Service) List(ctx context.Context, f Filters) ([]Summary, int, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	filters := map[string]interface{}{}
	if f.Difficulty != "" {
		filters["difficulty"] = f.Difficulty
	}
	if f.Search != "" {
		filters["searchKeywords"] = f.Search
	}
	if f.Status != "" {
		filters["status"] = f.Status
	}
	variables := map[string]interface{}{
		"categorySlug": "",
		"limit":        f.Limit,
		"skip":         f.Skip,
		"filters":      filters,
	}

	data, err := s.transport.GraphQL(ctx, listQuery, variables)
	if err != nil {
		return nil, 0, fmt.Errorf("problem list query failed: %w", err)
	}
	var doc struct {
		ProblemsetQuestionList struct {
			Total     int       `json:"total"`
			Questions []Summary `json:"questions"`
		} `json:"problemsetQuestionList"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, fmt.Errorf("parse problem list failed: %w", err)
	}
	return doc.ProblemsetQuestionList.Questions, doc.ProblemsetQuestionList.Total, nil
}

const detailQuery = `
query questionDetail($titleSlug: String!) {
  question(titleSlug: $titleSlug) {
    questionId
    title
    titleSlug
    content
    difficulty
    codeSnippets {
      lang
      langSlug
      code
    }
  }
}`

// Detail fetches one problem document, consulting the cache first. Cache
// faults degrade to a direct fetch.
func (s *Service) Detail(ctx context.Context, slug string) (*Detail, error) {
	key := "ojpad:problem:" + slug
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err != nil {
			logger.Warn(ctx, "problem cache read failed", zap.Error(err))
		} else if cached != "" {
			var d Detail
			if err := json.Unmarshal([]byte(cached), &d); err == nil {
				return &d, nil
			}
			// Unreadable entry, drop it and refetch.
			_ = s.cache.Del(ctx, key)
		}
	}

	data, err := s.transport.GraphQL(ctx, detailQuery, map[string]interface{}{"titleSlug": slug})
	if err != nil {
		return nil, fmt.Errorf("problem detail query failed: %w", err)
	}
	var doc struct {
		Question *Detail `json:"question"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse problem detail failed: %w", err)
	}
	if doc.Question == nil || doc.Question.TitleSlug == "" {
		return nil, apperr.NotFoundError(fmt.Sprintf("problem %q", slug))
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(doc.Question); err == nil {
			if err := s.cache.Set(ctx, key, string(encoded), s.ttl); err != nil {
				logger.Warn(ctx, "problem cache write failed", zap.Error(err))
			}
		}
	}
	return doc.Question, nil
}

// Snippets returns the language-to-source snippet set for a problem.
func (s *Service) Snippets(ctx context.Context, slug string) (map[string]string, error) {
	detail, err := s.Detail(ctx, slug)
	if err != nil {
		return nil, err
	}
	set := make(map[string]string, len(detail.Snippets))
	for _, snippet := range detail.Snippets {
		set[snippet.LangSlug] = snippet.Code
	}
	return set, nil
}
