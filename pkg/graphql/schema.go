// Package graphql serves a graphql-go schema over HTTP.
package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/dinehub/pkg/bind"
	"github.com/shashiranjanraj/dinehub/pkg/logger"
	"github.com/shashiranjanraj/dinehub/pkg/response"
)

// NewSchema builds a read-only schema from its root query object.
func NewSchema(query *graphql.Object) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: query,
	})
}

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// Handler executes queries sent as POST JSON bodies or GET ?query= strings.
// Results are written as the standard {"data":...,"errors":[...]} document.
func Handler(schema graphql.Schema) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req request

		switch r.Method {
		case http.MethodGet:
			req.Query = r.URL.Query().Get("query")
			req.OperationName = r.URL.Query().Get("operationName")
			if raw := r.URL.Query().Get("variables"); raw != "" {
				if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
					response.Error(w, http.StatusBadRequest, "Invalid variables")
					return
				}
			}
		case http.MethodPost:
			if _, err := bind.JSON(w, r, &req); err != nil {
				response.Error(w, http.StatusBadRequest, "Invalid JSON body")
				return
			}
		default:
			w.Header().Set("Allow", "GET, POST")
			response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		if req.Query == "" {
			response.Error(w, http.StatusBadRequest, "Missing query")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        r.Context(),
		})
		if result.HasErrors() {
			logger.WithCtx(r.Context()).Debug("graphql: query errors", "errors", result.Errors)
		}

		response.JSON(w, http.StatusOK, result)
	})
}
