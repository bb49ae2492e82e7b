package controller

import (
	"io"

	"github.com/adammarchelino/portfolio/site"
	"github.com/labstack/echo/v4"
)

// Renderer lets echo render the embedded site templates
type Renderer struct {
	templates *site.Templates
}

func NewRenderer(templates *site.Templates) *Renderer {
	return &Renderer{templates: templates}
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.Render(w, name, data)
}
