package services

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestBuildPosterPrompt(t *testing.T) {
	prompt, err := BuildPosterPrompt("Tokyo", "Photorealistic", "AI Clean")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Create a premium tourism poster for Tokyo. " +
		"Use a Photorealistic visual style, clean SaaS marketing composition, " +
		"dominant colors close to #6FA8FF and #7DE3D1, " +
		"soft pastel atmosphere, high detail landmarks, and strong depth."
	if prompt != want {
		t.Errorf("prompt = %q\nwant %q", prompt, want)
	}
}

func TestBuildPosterPrompt_PaletteColors(t *testing.T) {
	tests := []struct {
		palette   string
		primary   string
		secondary string
	}{
		{"AI Clean", "#6FA8FF", "#7DE3D1"},
		{"AI Premium Pastel", "#8FAADC", "#A8E6CF"},
		{"AI Human", "#9EC5FF", "#BEEAD9"},
	}

	for _, tc := range tests {
		t.Run(tc.palette, func(t *testing.T) {
			prompt, err := BuildPosterPrompt("Lisbon", "Cartoon", tc.palette)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(prompt, tc.primary) || !strings.Contains(prompt, tc.secondary) {
				t.Errorf("prompt missing palette colors %s/%s: %q", tc.primary, tc.secondary, prompt)
			}
		})
	}
}

func TestBuildPosterPrompt_UnknownPalette(t *testing.T) {
	if _, err := BuildPosterPrompt("Tokyo", "Cartoon", "Vaporwave"); err == nil {
		t.Fatal("expected error for unknown palette")
	}
}

func TestPosterPaletteNames(t *testing.T) {
	names := PosterPaletteNames()
	if len(names) != 3 {
		t.Fatalf("got %d palettes, want 3", len(names))
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("names not sorted: %v", names)
	}
	for _, name := range names {
		if !IsPosterPalette(name) {
			t.Errorf("listed palette %q not recognized", name)
		}
	}
}

type fakeImages struct {
	prompt string
	data   []byte
}

func (f *fakeImages) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	f.prompt = prompt
	return f.data, nil
}

func TestPosterGenerate_WritesFileAndCaption(t *testing.T) {
	dir := t.TempDir()
	images := &fakeImages{data: []byte("fake-png-bytes")}
	svc := NewPosterService(images, dir)

	id := uuid.New()
	result, err := svc.Generate(context.Background(), id, "Rio de Janeiro", "Pop-art", "AI Human")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantPath := filepath.Join(dir, id.String()+".png")
	if result.ImagePath != wantPath {
		t.Errorf("image path = %q, want %q", result.ImagePath, wantPath)
	}

	raw, err := os.ReadFile(wantPath)
	if err != nil {
		t.Fatalf("image file not written: %v", err)
	}
	if string(raw) != "fake-png-bytes" {
		t.Errorf("file contents = %q", raw)
	}

	if result.Prompt != images.prompt {
		t.Errorf("stored prompt %q differs from sent prompt %q", result.Prompt, images.prompt)
	}

	wantCaption := "### Portfolio Render\n**City:** Rio de Janeiro  \n**Style:** Pop-art  \n**Palette:** AI Human"
	if result.CaptionMD != wantCaption {
		t.Errorf("caption = %q\nwant %q", result.CaptionMD, wantCaption)
	}
}

func TestPosterGenerate_UnknownPaletteFailsBeforeRender(t *testing.T) {
	images := &fakeImages{data: []byte("x")}
	svc := NewPosterService(images, t.TempDir())

	if _, err := svc.Generate(context.Background(), uuid.New(), "Tokyo", "Cartoon", "nope"); err == nil {
		t.Fatal("expected error for unknown palette")
	}
	if images.prompt != "" {
		t.Error("image API called despite invalid palette")
	}
}
