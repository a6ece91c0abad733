package greeting

// HelloInput carries the name path segment.
type HelloInput struct {
	Name string `path:"name" doc:"Name to greet" example:"World" minLength:"1"`
}
