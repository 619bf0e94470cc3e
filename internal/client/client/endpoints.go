package client

import (
	"net/url"
	"strings"
)

// Endpoint names understood by Endpoints.URL.
const (
	EndpointBooks      = "books"
	EndpointAuthors    = "authors"
	EndpointGenres     = "genres"
	EndpointPublishers = "publishers"
	EndpointLogin      = "login"
	EndpointRefresh    = "refresh"
	EndpointLogout     = "logout"
	EndpointHealth     = "health"
)

// DefaultPaths maps every endpoint name to the server's stock route.
func DefaultPaths() map[string]string {
	return map[string]string{
		EndpointBooks:      "/books",
		EndpointAuthors:    "/authors",
		EndpointGenres:     "/genres",
		EndpointPublishers: "/publishers",
		EndpointLogin:      "/auth/login",
		EndpointRefresh:    "/auth/refresh",
		EndpointLogout:     "/auth/logout",
		EndpointHealth:     "/health",
	}
}

// Endpoints resolves endpoint names against a base URL.
type Endpoints struct {
	base  string
	paths map[string]string
}

// NewEndpoints overlays paths on DefaultPaths.
func NewEndpoints(baseURL string, paths map[string]string) Endpoints {
	merged := DefaultPaths()
	for name, p := range paths {
		merged[name] = p
	}
	return Endpoints{base: strings.TrimRight(baseURL, "/"), paths: merged}
}

// URL returns the address of endpoint name with each of elems appended as
// an escaped path segment.
func (e Endpoints) URL(name string, elems ...string) string {
	var b strings.Builder
	b.WriteString(e.base)

	p := e.paths[name]
	if p != "" && !strings.HasPrefix(p, "/") {
		b.WriteByte('/')
	}
	b.WriteString(strings.TrimRight(p, "/"))

	for _, el := range elems {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(el))
	}
	return b.String()
}
