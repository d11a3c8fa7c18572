package validator

import (
	"context"
	_ "embed"
	"fmt"

	apperrors "portfolio-chatbot/backend/pkg/errors"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/gin-gonic/gin"
)

//go:embed openapi.yaml
var gatewaySchema []byte

// Schema returns the embedded OpenAPI document of the gateway
func Schema() []byte {
	return gatewaySchema
}

// OpenAPIValidator validates requests against an OpenAPI document
type OpenAPIValidator struct {
	doc    *openapi3.T
	router routers.Router
}

// NewGatewayValidator creates a validator for the embedded gateway schema
func NewGatewayValidator() (*OpenAPIValidator, error) {
	return NewOpenAPIValidator(gatewaySchema)
}

// NewOpenAPIValidator creates a validator from a YAML or JSON document
func NewOpenAPIValidator(schema []byte) (*OpenAPIValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI schema: %w", err)
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI schema: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("error creating OpenAPI router: %w", err)
	}

	return &OpenAPIValidator{doc: doc, router: router}, nil
}

// Middleware validates requests for routes described by the document.
// Violations are recorded as the generic generation error, so callers see
// the same failure shape as any other chatbot error.
func (v *OpenAPIValidator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route, pathParams, err := v.router.FindRoute(c.Request)
		if err != nil {
			// Route not described by the schema
			c.Next()
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    c.Request,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
				MultiError:         false,
			},
		}

		if err := openapi3filter.ValidateRequest(c.Request.Context(), input); err != nil {
			c.Error(apperrors.NewGenerationError(fmt.Errorf("invalid request: %w", err)))
			c.Abort()
			return
		}

		c.Next()
	}
}
