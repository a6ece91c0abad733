// Package greeting serves the welcome and hello endpoints.
package greeting

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/janisto/huma-fargate/internal/platform/logging"
)

// WelcomeMessage is returned verbatim by GET /.
const WelcomeMessage = "Welcome to the FastAPI ECS Fargate app!"

// Register wires the greeting routes into api.
func Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-welcome",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Welcome message",
		Tags:        []string{"Greeting"},
	}, welcomeHandler)

	huma.Register(api, huma.Operation{
		OperationID: "get-hello",
		Method:      http.MethodGet,
		Path:        "/hello/{name}",
		Summary:     "Greet someone by name",
		Tags:        []string{"Greeting"},
	}, helloHandler)

	// chi prefers this static route over /hello/{name}, so an empty name
	// gets a 404 problem instead of reaching the greeting handler.
	huma.Register(api, huma.Operation{
		OperationID: "get-hello-missing-name",
		Method:      http.MethodGet,
		Path:        "/hello/",
		Hidden:      true,
		Errors:      []int{http.StatusNotFound},
	}, missingNameHandler)
}

func welcomeHandler(ctx context.Context, _ *struct{}) (*Output, error) {
	logging.LogInfo(ctx, "welcome", zap.String("path", "/"))
	return &Output{Body: Data{Message: WelcomeMessage}}, nil
}

func helloHandler(ctx context.Context, input *HelloInput) (*Output, error) {
	logging.LogInfo(ctx, "hello", zap.String("name", input.Name))
	return &Output{Body: Data{Message: Hello(input.Name)}}, nil
}

func missingNameHandler(ctx context.Context, _ *struct{}) (*Output, error) {
	logging.LogInfo(ctx, "hello without name")
	return nil, huma.Error404NotFound("name is required")
}

// Hello formats the greeting for name.
func Hello(name string) string {
	return "Hello " + name + "!"
}
