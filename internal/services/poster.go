package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
)

// Palette holds the fixed brand colors a poster can be rendered with.
type Palette struct {
	Primary    string
	Secondary  string
	Background string
	Surface    string
	Text       string
	CTA        string
}

var posterPalettes = map[string]Palette{
	"AI Clean": {
		Primary:    "#6FA8FF",
		Secondary:  "#7DE3D1",
		Background: "#FBFDFF",
		Surface:    "#E8EEF4",
		Text:       "#1F2A37",
		CTA:        "#2563EB",
	},
	"AI Premium Pastel": {
		Primary:    "#8FAADC",
		Secondary:  "#A8E6CF",
		Background: "#F7F9FB",
		Surface:    "#EEF2F7",
		Text:       "#3A4756",
		CTA:        "#10B981",
	},
	"AI Human": {
		Primary:    "#9EC5FF",
		Secondary:  "#BEEAD9",
		Background: "#F6F4EF",
		Surface:    "#EEF0EB",
		Text:       "#5B6573",
		CTA:        "#2563EB",
	},
}

// PosterVisualStyles are the styles the poster form offers.
var PosterVisualStyles = []string{"Pop-art", "Renaissance", "Old-school", "Cartoon", "Photorealistic"}

const (
	DefaultPosterStyle   = "Photorealistic"
	DefaultPosterPalette = "AI Clean"
)

// IsPosterPalette reports whether name is a known palette.
func IsPosterPalette(name string) bool {
	_, ok := posterPalettes[name]
	return ok
}

// PosterPaletteNames returns the palette names in stable order for the UI.
func PosterPaletteNames() []string {
	names := make([]string, 0, len(posterPalettes))
	for name := range posterPalettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PosterResult is what a finished poster job produces.
type PosterResult struct {
	Prompt    string
	ImagePath string
	CaptionMD string
}

type imageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// PosterService generates tourism posters through the hosted image API and
// stores the rendered PNG on disk.
type PosterService struct {
	images      imageGenerator
	storagePath string
}

func NewPosterService(images imageGenerator, storagePath string) *PosterService {
	return &PosterService{
		images:      images,
		storagePath: storagePath,
	}
}

// BuildPosterPrompt renders the image prompt for a city, style and palette.
func BuildPosterPrompt(city, visualStyle, paletteName string) (string, error) {
	palette, ok := posterPalettes[paletteName]
	if !ok {
		return "", fmt.Errorf("unknown palette %q", paletteName)
	}

	return fmt.Sprintf("Create a premium tourism poster for %s. "+
		"Use a %s visual style, clean SaaS marketing composition, "+
		"dominant colors close to %s and %s, "+
		"soft pastel atmosphere, high detail landmarks, and strong depth.",
		city, visualStyle, palette.Primary, palette.Secondary), nil
}

// Generate renders the poster and writes it under the storage path as
// <posterID>.png.
func (s *PosterService) Generate(ctx context.Context, posterID uuid.UUID, city, visualStyle, paletteName string) (*PosterResult, error) {
	prompt, err := BuildPosterPrompt(city, visualStyle, paletteName)
	if err != nil {
		return nil, err
	}

	raw, err := s.images.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.storagePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	imagePath := filepath.Join(s.storagePath, posterID.String()+".png")
	if err := os.WriteFile(imagePath, raw, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write poster image: %w", err)
	}

	caption := fmt.Sprintf("### Portfolio Render\n**City:** %s  \n**Style:** %s  \n**Palette:** %s",
		city, visualStyle, paletteName)

	return &PosterResult{
		Prompt:    prompt,
		ImagePath: imagePath,
		CaptionMD: caption,
	}, nil
}
