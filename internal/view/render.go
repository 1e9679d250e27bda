package view

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var templateFS embed.FS

// Layout wraps every page template; the page is inserted with {{embed}}.
const Layout = "layout"

var funcs = map[string]any{
	"join": strings.Join,
	"modalTitle": func(name string) string {
		switch name {
		case "loginModal":
			return "Login to UEP Freelance"
		case "registerModal":
			return "Create Account"
		case "jobModal":
			return "Job Details"
		case "proposalModal":
			return "Submit Proposal"
		case "jobProposalsModal":
			return "Proposals"
		case "paymentModal":
			return "Fund Escrow"
		}
		return name
	},
}

// NewEngine parses the embedded layout, partials and pages for
// fiber.Config.Views. Templates are named by path: "layout",
// "pages/home", "partials/nav".
func NewEngine() (*html.Engine, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFuncMap(funcs)
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return engine, nil
}

// Template names the page template for doc. A Placeholder main uses the
// loading page whatever doc.Page says.
func Template(doc *Document) string {
	if _, ok := doc.Main.(*Placeholder); ok {
		return "pages/loading"
	}
	return "pages/" + doc.Page
}
