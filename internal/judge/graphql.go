package judge

import (
	"context"
	"encoding/json"
	"fmt"
)

const graphqlPath = "/graphql"

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// GraphQL posts a query to the site's generic query endpoint and returns the
// data document. GraphQL-level errors come back as a Go error with the first
// message attached.
func (t *Transport) GraphQL(ctx context.Context, query string, variables map[string]interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("marshal graphql request failed: %w", err)
	}
	resp, err := t.Do(ctx, "POST", graphqlPath, t.baseURL+"/", body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("graphql endpoint returned status %d", resp.StatusCode)
	}
	var parsed graphqlResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return nil, fmt.Errorf("parse graphql response failed: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %s", parsed.Errors[0].Message)
	}
	return parsed.Data, nil
}

const questionIDQuery = `
query questionId($titleSlug: String!) {
  question(titleSlug: $titleSlug) {
    questionId
  }
}`

// ResolveQuestionID maps a problem slug to the judge-assigned numeric id.
// The id is opaque and only valid for the duration of one operation.
func (t *Transport) ResolveQuestionID(ctx context.Context, slug string) (string, error) {
	data, err := t.GraphQL(ctx, questionIDQuery, map[string]interface{}{"titleSlug": slug})
	if err != nil {
		return "", err
	}
	var doc struct {
		Question struct {
			QuestionID string `json:"questionId"`
		} `json:"question"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parse question id failed: %w", err)
	}
	if doc.Question.QuestionID == "" {
		return "", fmt.Errorf("question id missing for slug %q", slug)
	}
	return doc.Question.QuestionID, nil
}

const userStatusQuery = `
query userStatus {
  userStatus {
    isSignedIn
    username
    realName
    avatar
    isPremium
  }
}`

// UserStatus is the signed-in state as reported by the remote site.
type UserStatus struct {
	IsSignedIn bool   `json:"isSignedIn"`
	Username   string `json:"username"`
	RealName   string `json:"realName"`
	Avatar     string `json:"avatar"`
	IsPremium  bool   `json:"isPremium"`
}

// FetchUserStatus validates the current cookies against the remote site.
func (t *Transport) FetchUserStatus(ctx context.Context) (UserStatus, error) {
	var status UserStatus
	data, err := t.GraphQL(ctx, userStatusQuery, nil)
	if err != nil {
		return status, err
	}
	var doc struct {
		UserStatus UserStatus `json:"userStatus"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return status, fmt.Errorf("parse user status failed: %w", err)
	}
	return doc.UserStatus, nil
}
