package api

import (
	_ "embed"
	"net/http"

	"github.com/labstack/echo/v4"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

const (
	// DocsPath serves the Swagger UI.
	DocsPath = APIPrefix + "/docs"
	// SpecPath serves the static OpenAPI description the UI renders.
	SpecPath = "/static/swagger.json"
)

//go:embed static/swagger.json
var openAPISpec []byte

// mountDocs registers the OpenAPI description and the documentation UI.
func mountDocs(e *echo.Echo) {
	e.GET(SpecPath, func(c echo.Context) error {
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, openAPISpec)
	})

	ui := echo.WrapHandler(httpSwagger.Handler(httpSwagger.URL(SpecPath)))
	e.GET(DocsPath, func(c echo.Context) error {
		return c.Redirect(http.StatusMovedPermanently, DocsPath+"/index.html")
	})
	e.GET(DocsPath+"/*", ui)
}
