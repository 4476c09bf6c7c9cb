package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/leomatch/leomatch-backend/internal/domain"
)

type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewClient(apiKey string) (*Client, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-pro")
	model.SetTemperature(0.7)

	return &Client{
		client: client,
		model:  model,
	}, nil
}

func (c *Client) Close() {
	c.client.Close()
}

// Icebreakers asks the model for opening lines based on the two profiles.
func (c *Client) Icebreakers(ctx context.Context, a, b *domain.User) ([]string, error) {
	prompt := fmt.Sprintf(`
		Generate 3 creative icebreaker messages for a dating app match.
		User 1 Profile: %s
		User 2 Profile: %s

		Task: Create 3 distinct opening lines that User 1 could send to User 2.
		Focus on shared interests or interesting contrasts from their bios.
		Language: Russian.
		Output: JSON array of strings. Example: ["Hi...", "Hello..."]
	`, profileSummary(a), profileSummary(b))

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content generated")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	responseText := strings.TrimSpace(sb.String())
	// Clean up markdown code blocks if present
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")

	var icebreakers []string
	if err := json.Unmarshal([]byte(responseText), &icebreakers); err != nil {
		// Fallback if JSON parsing fails - just return raw text split by newlines
		lines := strings.Split(responseText, "\n")
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line != "" && !strings.HasPrefix(line, "[") && !strings.HasSuffix(line, "]") {
				icebreakers = append(icebreakers, line)
			}
		}
		if len(icebreakers) == 0 {
			return nil, fmt.Errorf("failed to parse icebreakers: %w", err)
		}
	}

	return icebreakers, nil
}

func profileSummary(u *domain.User) string {
	var parts []string
	parts = append(parts, u.FirstName)
	if u.Age != nil {
		parts = append(parts, fmt.Sprintf("%d лет", *u.Age))
	}
	if u.City != nil {
		parts = append(parts, *u.City)
	}
	if u.Bio != nil {
		parts = append(parts, *u.Bio)
	}
	return strings.Join(parts, ", ")
}
