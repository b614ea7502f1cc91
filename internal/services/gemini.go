package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"promptstudio-backend/internal/models"
)

const (
	brochureLinkSystem = "Select brochure-relevant links from a company website. " +
		"Respond in JSON with key 'links', each item containing 'type' and 'url'."
	brochureSystem = "You create high-converting B2B AI SaaS brochures in markdown. " +
		"Include: Overview, Product Value, Why It Wins, Social Proof, CTA."

	// At most this many candidate links are offered to the link picker.
	maxCandidateLinks = 80
)

type GeminiService struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiService(apiKey, modelName string) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.7)
	model.SetTopP(0.95)

	return &GeminiService{
		client: client,
		model:  model,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// PickBrochureLinks asks the model which of the landing page's links belong
// in a brochure. A response that cannot be parsed yields an empty pick list,
// not an error.
func (s *GeminiService) PickBrochureLinks(ctx context.Context, websiteURL string, links []string) ([]models.LinkPick, error) {
	if len(links) > maxCandidateLinks {
		links = links[:maxCandidateLinks]
	}

	prompt := fmt.Sprintf(`%s

Website: %s
Ignore privacy, terms, and social links. Prioritize about, product, pricing, docs, careers.

%s

Return ONLY valid JSON in this schema: {"links":[{"type":"about page","url":"https://example.com/about"}]}`,
		brochureLinkSystem, websiteURL, strings.Join(links, "\n"))

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("Gemini link selection failed: %w", err)
	}

	return parseLinkPicks(extractText(resp)), nil
}

// StreamBrochure generates the brochure, invoking onChunk with every piece
// of text as it arrives, and returns the assembled markdown.
func (s *GeminiService) StreamBrochure(ctx context.Context, companyName, extraRequirements, siteContext string, onChunk func(chunk string)) (string, error) {
	prompt := fmt.Sprintf("%s\n\nCompany: %s\nExtra requirements: %s\n\nWebsite context:\n%s",
		brochureSystem, companyName, extraRequirements, siteContext)

	iter := s.model.GenerateContentStream(ctx, genai.Text(prompt))

	var full strings.Builder
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", fmt.Errorf("Gemini brochure stream failed: %w", err)
		}

		chunk := extractText(resp)
		if chunk == "" {
			continue
		}
		full.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}

	brochure := full.String()
	if strings.TrimSpace(brochure) == "" {
		return "", fmt.Errorf("Gemini returned an empty brochure")
	}

	return brochure, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

// parseLinkPicks tolerates fenced or otherwise dirty JSON by falling back to
// the outermost brace slice.
func parseLinkPicks(raw string) []models.LinkPick {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var parsed struct {
		Links []models.LinkPick `json:"links"`
	}

	if json.Unmarshal([]byte(raw), &parsed) == nil {
		return filterLinkPicks(parsed.Links)
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		if json.Unmarshal([]byte(raw[start:end+1]), &parsed) == nil {
			return filterLinkPicks(parsed.Links)
		}
	}

	return nil
}

func filterLinkPicks(picks []models.LinkPick) []models.LinkPick {
	var valid []models.LinkPick
	for _, p := range picks {
		if p.URL == "" {
			continue
		}
		valid = append(valid, p)
	}
	return valid
}
