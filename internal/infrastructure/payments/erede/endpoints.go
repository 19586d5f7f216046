package erede

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is the e.Rede API host shared by production and sandbox.
const DefaultBaseURL = "https://api.userede.com.br"

const (
	productionPath = "/erede/v1/transactions"
	sandboxPath    = "/desenvolvedores/v1/transactions"

	transactionPlaceholder = "%s"
)

type Operation string

const (
	OperationAuthorize Operation = "authorize"
	OperationCapture   Operation = "capture"
	OperationConsult   Operation = "consult"
	OperationCancel    Operation = "cancel"
)

type Environment string

const (
	EnvironmentProduction Environment = "production"
	EnvironmentSandbox    Environment = "sandbox"
)

// ParseEnvironment maps a configured value to an Environment. The empty string
// selects production and "producao" is accepted for production as well.
func ParseEnvironment(raw string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "production", "producao":
		return EnvironmentProduction, nil
	case "sandbox":
		return EnvironmentSandbox, nil
	}
	return "", &ConfigurationError{Environment: raw}
}

// EndpointSpec is the HTTP method and URL template of one operation.
// URLTemplate contains at most one %s slot for the transaction id.
type EndpointSpec struct {
	Method      string
	URLTemplate string
}

// Expand substitutes the transaction id into the template exactly once. The id
// is path-escaped. Templates without a slot are returned as is.
func (s EndpointSpec) Expand(transactionID string) (string, error) {
	switch strings.Count(s.URLTemplate, transactionPlaceholder) {
	case 0:
		return s.URLTemplate, nil
	case 1:
		if strings.TrimSpace(transactionID) == "" {
			return "", ErrMissingTransactionID
		}
		// Plain substitution: a percent-encoded base URL must not be read as format verbs.
		return strings.Replace(s.URLTemplate, transactionPlaceholder, url.PathEscape(transactionID), 1), nil
	default:
		return "", fmt.Errorf("erede: url template %q has more than one placeholder", s.URLTemplate)
	}
}

// Registry is the immutable operation → environment → endpoint table.
type Registry struct {
	specs map[Operation]map[Environment]EndpointSpec
}

// NewRegistry builds the endpoint table against baseURL.
func NewRegistry(baseURL string) Registry {
	base := strings.TrimRight(baseURL, "/")
	build := func(method, suffix string) map[Environment]EndpointSpec {
		return map[Environment]EndpointSpec{
			EnvironmentProduction: {Method: method, URLTemplate: base + productionPath + suffix},
			EnvironmentSandbox:    {Method: method, URLTemplate: base + sandboxPath + suffix},
		}
	}

	return Registry{specs: map[Operation]map[Environment]EndpointSpec{
		OperationAuthorize: build(http.MethodPost, ""),
		OperationCapture:   build(http.MethodPut, "/"+transactionPlaceholder),
		OperationConsult:   build(http.MethodGet, "/"+transactionPlaceholder),
		OperationCancel:    build(http.MethodPost, "/"+transactionPlaceholder+"/refunds"),
	}}
}

var defaultRegistry = NewRegistry(DefaultBaseURL)

// DefaultRegistry returns the table pointing at DefaultBaseURL.
func DefaultRegistry() Registry { return defaultRegistry }

func (r Registry) Resolve(op Operation, env Environment) (EndpointSpec, error) {
	byEnv, ok := r.specs[op]
	if !ok {
		return EndpointSpec{}, &ConfigurationError{Operation: op, Environment: string(env)}
	}
	spec, ok := byEnv[env]
	if !ok {
		return EndpointSpec{}, &ConfigurationError{Operation: op, Environment: string(env)}
	}
	return spec, nil
}
