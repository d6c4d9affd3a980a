package sample

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	applog "github.com/janisto/sampleapp/internal/platform/logging"
)

const (
	// Greeting is the fixed response body of the sample endpoint.
	Greeting = "Hello World!"

	// UsedMessage is logged once for every request served.
	UsedMessage = "This instance was used!"

	// LoggerName identifies the sample handler in log entries.
	LoggerName = "SampleController"

	contentTypeText = "text/plain; charset=utf-8"
)

// Register wires the sample route into the provided API router.
func Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-sample",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Return the static greeting",
		Tags:        []string{"Sample"},
		Responses: map[string]*huma.Response{
			"200": {
				Description: "Static greeting",
				Content: map[string]*huma.MediaType{
					"text/plain": {Schema: &huma.Schema{Type: huma.TypeString, Examples: []any{Greeting}}},
				},
			},
		},
	}, getHandler)
}

func getHandler(ctx context.Context, _ *struct{}) (*GetOutput, error) {
	applog.LoggerFromContext(ctx).Named(LoggerName).Info(UsedMessage)
	return &GetOutput{ContentType: contentTypeText, Body: []byte(Greeting)}, nil
}
