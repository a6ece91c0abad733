package greeting

// Data is the response payload shared by the greeting endpoints.
type Data struct {
	Message string `json:"message" doc:"Greeting message" example:"Hello World!"`
}

// Output wraps Data as the response body.
type Output struct {
	Body Data
}
