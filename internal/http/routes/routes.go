// Package routes assembles the huma API and mounts every endpoint of the service.
package routes

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"

	"github.com/janisto/huma-fargate/internal/http/greeting"
	"github.com/janisto/huma-fargate/internal/http/health"
)

// Title is the OpenAPI document title.
const Title = "Greeting API"

// NewAPI builds the huma API on top of router. Responses carry only their
// declared fields: the default $schema link hook is removed so GET / returns
// exactly {"message": ...}.
func NewAPI(router chi.Router, version, docsPath string) huma.API {
	cfg := huma.DefaultConfig(Title, version)
	cfg.CreateHooks = nil
	cfg.DocsPath = docsPath
	api := humachi.New(router, cfg)

	// Advertise CBOR next to JSON for every response that has a JSON body.
	api.OpenAPI().OnAddOperation = append(api.OpenAPI().OnAddOperation, addCBORContent)
	return api
}

func addCBORContent(_ *huma.OpenAPI, op *huma.Operation) {
	for _, resp := range op.Responses {
		if resp.Content == nil {
			continue
		}
		if jsonContent, ok := resp.Content["application/json"]; ok {
			resp.Content["application/cbor"] = jsonContent
		}
	}
}

// Register mounts the greeting operations on api and the plain health probe on router.
func Register(router chi.Router, api huma.API) {
	router.Get("/health", health.Handler)
	greeting.Register(api)
}
