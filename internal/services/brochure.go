package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"promptstudio-backend/internal/models"
)

const (
	// Context caps, in characters.
	brochureLandingCap = 5000
	brochureSubpageCap = 3500
	brochureContextCap = 14000

	// How many picked links are actually fetched.
	maxBrochurePages = 3
)

type brochureModel interface {
	PickBrochureLinks(ctx context.Context, websiteURL string, links []string) ([]models.LinkPick, error)
	StreamBrochure(ctx context.Context, companyName, extraRequirements, siteContext string, onChunk func(chunk string)) (string, error)
}

// BrochureService assembles website context and drives the streaming
// brochure generation.
type BrochureService struct {
	scraper *ScraperService
	gemini  brochureModel
}

func NewBrochureService(scraper *ScraperService, gemini brochureModel) *BrochureService {
	return &BrochureService{
		scraper: scraper,
		gemini:  gemini,
	}
}

// GatherContext scrapes the landing page, lets the model pick relevant
// links, fetches up to three of them, and joins everything into the capped
// context string fed to the brochure prompt.
func (s *BrochureService) GatherContext(ctx context.Context, companyName, websiteURL string) (string, error) {
	landing, err := s.scraper.Fetch(ctx, websiteURL)
	if err != nil {
		return "", fmt.Errorf("failed to scrape landing page: %w", err)
	}

	picks, err := s.gemini.PickBrochureLinks(ctx, websiteURL, landing.Links)
	if err != nil {
		// Landing page alone is still enough for a brochure.
		log.Printf("Brochure link selection failed for %s: %v", websiteURL, err)
		picks = nil
	}

	blocks := []string{
		fmt.Sprintf("## Company\n%s", companyName),
		fmt.Sprintf("## Landing Page\n%s", truncate(landing.Text, brochureLandingCap)),
	}

	fetched := 0
	for _, pick := range picks {
		if fetched >= maxBrochurePages {
			break
		}

		page, err := s.scraper.Fetch(ctx, pick.URL)
		if err != nil {
			log.Printf("Skipping brochure page %s: %v", pick.URL, err)
			continue
		}

		linkType := pick.Type
		if linkType == "" {
			linkType = "Additional Page"
		}
		blocks = append(blocks, fmt.Sprintf("## %s\n%s", linkType, truncate(page.Text, brochureSubpageCap)))
		fetched++
	}

	return truncate(strings.Join(blocks, "\n\n"), brochureContextCap), nil
}

// Generate runs the full brochure pipeline. onChunk receives streamed text.
func (s *BrochureService) Generate(ctx context.Context, companyName, websiteURL, extraRequirements string, onChunk func(chunk string)) (string, error) {
	siteContext, err := s.GatherContext(ctx, companyName, websiteURL)
	if err != nil {
		return "", err
	}

	return s.gemini.StreamBrochure(ctx, companyName, extraRequirements, siteContext, onChunk)
}
