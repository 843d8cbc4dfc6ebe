package servers

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openapiSpec []byte

// GetSwagger returns the OpenAPI document the routes above are built from.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	swagger, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("error loading swagger spec: %w", err)
	}
	if err = swagger.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("error validating swagger spec: %w", err)
	}
	return swagger, nil
}

var registerDocOnce sync.Once

// RegisterSwaggerDoc publishes the document under swag's default instance, where
// echo-swagger reads doc.json from. Repeated calls are no-ops.
func RegisterSwaggerDoc() error {
	swagger, err := GetSwagger()
	if err != nil {
		return err
	}
	raw, err := swagger.MarshalJSON()
	if err != nil {
		return fmt.Errorf("error encoding swagger spec: %w", err)
	}

	registerDocOnce.Do(func() {
		swag.Register(swag.Name, &swag.Spec{
			Version:          swagger.Info.Version,
			Title:            swagger.Info.Title,
			Description:      swagger.Info.Description,
			InfoInstanceName: swag.Name,
			SwaggerTemplate:  string(raw),
			LeftDelim:        "{{",
			RightDelim:       "}}",
		})
	})
	return nil
}
