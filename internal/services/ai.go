package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/academic-task-api/internal/constants"
	"github.com/yukikurage/academic-task-api/internal/models"
)

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrAINoSubTasksSuggested  = errors.New("AI did not suggest any subtasks")
)

// SuggestedSubTask is a draft subtask proposed for a task. Nothing is stored.
type SuggestedSubTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SubTaskSuggester breaks a task down into draft subtasks.
type SubTaskSuggester interface {
	SuggestSubTasks(ctx context.Context, title, description string) ([]SuggestedSubTask, error)
}

type AIService struct {
	client *openai.Client
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// SuggestSubTasks asks OpenAI GPT for a breakdown of the task
func (s *AIService) SuggestSubTasks(ctx context.Context, title, description string) ([]SuggestedSubTask, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You help students and staff plan academic work. Break the task below into at most %d concrete subtasks.

Task title: %s

Task description:
%s

Return a JSON array in this format:
[
  {
    "title": "short subtask title",
    "description": "what needs to be done"
  }
]

Rules:
- Return an empty array [] if the task cannot be broken down
- Order the subtasks in the order they should be done
- Return only JSON, with no explanation`, constants.MaxAISuggestedSubTasks, title, description)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content

	var subtasks []SuggestedSubTask
	if err := json.Unmarshal([]byte(content), &subtasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	return subtasks, nil
}

// SuggestSubTasks drafts subtasks for a task. Blank suggestions are dropped
// and the list is capped.
func (s *TaskService) SuggestSubTasks(ctx context.Context, task *models.Task) ([]SuggestedSubTask, error) {
	if s.suggester == nil {
		return nil, ErrAIServiceNotConfigured
	}

	suggested, err := s.suggester.SuggestSubTasks(ctx, task.Title, task.Description)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest subtasks: %w", err)
	}

	valid := make([]SuggestedSubTask, 0, len(suggested))
	for _, sub := range suggested {
		sub.Title = strings.TrimSpace(sub.Title)
		if sub.Title == "" {
			continue
		}
		valid = append(valid, sub)
		if len(valid) == constants.MaxAISuggestedSubTasks {
			break
		}
	}

	if len(valid) == 0 {
		return nil, ErrAINoSubTasksSuggested
	}
	return valid, nil
}
