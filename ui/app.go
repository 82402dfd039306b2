package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"fscompare/adapters/report"
	"fscompare/app"
	"fscompare/domain/comparison"
	"fscompare/domain/core"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html
var embeddedFiles embed.FS

// App serves HTML report pages for stored comparisons
type App struct {
	router    *chi.Mux
	service   *app.ComparisonService
	templates *template.Template
	prefix    string
}

// NewApp creates the UI. prefix is the path it is mounted under ("" at root).
func NewApp(service *app.ComparisonService, prefix string) (*App, error) {
	funcMap := template.FuncMap{
		"best": func(r *comparison.Report) *comparison.Row {
			row, ok := r.Best()
			if !ok {
				return nil
			}
			return &row
		},
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		templates: templates,
		prefix:    prefix,
	}
	a.setupMiddleware()
	a.setupRoutes()
	return a, nil
}

// Router returns the chi router
func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Get("/comparisons/{id}", a.handleReport)
	a.router.Get("/comparisons/{id}/boxplot.png", a.handleBoxPlot)
	a.router.Get("/comparisons/{id}/report.md", a.handleMarkdown)
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	reports, err := a.service.ListComparisons(r.Context(), 100, 0)
	if err != nil {
		log.Printf("[UI] list comparisons: %v", err)
		http.Error(w, "failed to list comparisons", http.StatusInternalServerError)
		return
	}
	a.renderTemplate(w, "index.html", map[string]interface{}{
		"Comparisons": reports,
		"Prefix":      a.prefix,
	})
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, ok := a.loadReport(w, r)
	if !ok {
		return
	}
	img := fmt.Sprintf(`<p><img src="%s/comparisons/%s/boxplot.png" alt="box plot"></p>`, a.prefix, rep.ID)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(insertBeforeBodyEnd(report.RenderHTML(rep), []byte(img)))
}

func (a *App) handleBoxPlot(w http.ResponseWriter, r *http.Request) {
	rep, ok := a.loadReport(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.WriteBoxPlotPNG(&buf, rep); err != nil {
		log.Printf("[UI] box plot for %s: %v", rep.ID, err)
		http.Error(w, "failed to draw box plot", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(buf.Bytes())
}

func (a *App) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	rep, ok := a.loadReport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write(report.RenderMarkdown(rep))
}

func (a *App) loadReport(w http.ResponseWriter, r *http.Request) (*comparison.Report, bool) {
	id, err := core.ParseComparisonID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	rep, err := a.service.GetComparison(r.Context(), id)
	if err != nil {
		if core.IsNotFoundError(err) {
			http.NotFound(w, r)
			return nil, false
		}
		log.Printf("[UI] get comparison %s: %v", id, err)
		http.Error(w, "failed to load comparison", http.StatusInternalServerError)
		return nil, false
	}
	return rep, true
}

// Template helpers
func (a *App) renderTemplate(w http.ResponseWriter, templateName string, data interface{}) {
	w.Header().Set("Content-Type", "text/html")
	if err := a.templates.ExecuteTemplate(w, templateName, data); err != nil {
		log.Printf("Template error: %v", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

// insertBeforeBodyEnd splices extra markup into a complete HTML page.
func insertBeforeBodyEnd(page, extra []byte) []byte {
	i := bytes.LastIndex(page, []byte("</body>"))
	if i < 0 {
		return append(page, extra...)
	}
	out := make([]byte, 0, len(page)+len(extra))
	out = append(out, page[:i]...)
	out = append(out, extra...)
	return append(out, page[i:]...)
}
