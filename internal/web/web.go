package web

import (
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"promptstudio-backend/internal/services"
)

//go:embed templates/*.html
var templateFS embed.FS

// Tool describes one demo page for the index and navigation.
type Tool struct {
	Slug        string
	Title       string
	Description string
}

var tools = []Tool{
	{Slug: "debate", Title: "AI Debate Arena", Description: "A snarky hosted model argues with a diplomatic local model for a fixed number of rounds."},
	{Slug: "summarizer", Title: "Website Summarizer", Description: "Scrape any page and get a markdown summary from the hosted or local backend."},
	{Slug: "assistant", Title: "Tech Assistant", Description: "Ask a technical question and get an explainer brief."},
	{Slug: "brochure", Title: "Brochure Studio", Description: "Stream a company brochure built from a landing page and its key subpages."},
	{Slug: "poster", Title: "Tourism Poster Studio", Description: "Render a portfolio-ready travel poster in a fixed brand palette."},
}

// Handler serves the embedded form pages. All data flows through the JSON
// API; these pages are static shells with a little fetch glue.
type Handler struct {
	pages map[string]*template.Template
}

func NewHandler() *Handler {
	pages := make(map[string]*template.Template)
	names := []string{"index", "debate", "summarizer", "assistant", "brochure", "poster"}
	for _, name := range names {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			log.Fatalf("✗ Failed to parse template %s: %v", name, err)
		}
		pages[name] = tmpl
	}
	return &Handler{pages: pages}
}

type pageData struct {
	Title         string
	Tools         []Tool
	Tool          *Tool
	PaletteNames  []string
	VisualStyles  []string
	DefaultRounds int
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, "index", pageData{Title: "Prompt Studio", Tools: tools})
}

func (h *Handler) ToolPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "tool")

	var tool *Tool
	for i := range tools {
		if tools[i].Slug == slug {
			tool = &tools[i]
			break
		}
	}
	if tool == nil {
		http.NotFound(w, r)
		return
	}

	h.render(w, slug, pageData{
		Title:         tool.Title,
		Tools:         tools,
		Tool:          tool,
		PaletteNames:  services.PosterPaletteNames(),
		VisualStyles:  services.PosterVisualStyles,
		DefaultRounds: services.DefaultDebateRounds,
	})
}

func (h *Handler) render(w http.ResponseWriter, name string, data pageData) {
	tmpl, ok := h.pages[name]
	if !ok {
		http.Error(w, "page not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		log.Printf("failed to render %s: %v", name, err)
	}
}
