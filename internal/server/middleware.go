// Copyright (c) "Neo4j"
// Neo4j Sweden AB [http://neo4j.com]

package server

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/neo4j/cypher-agent/internal/logger"
)

// mcpRequest represents the minimal JSON-RPC structure needed to extract the method.
type mcpRequest struct {
	Method string `json:"method"`
}

// mcpMethodsRequiringAuth lists MCP methods that require the auth token.
// Handshake and capability discovery stay open.
var mcpMethodsRequiringAuth = []string{
	"tools/call",
}

func isAuthRequiredForMethod(method string) bool {
	return slices.Contains(mcpMethodsRequiringAuth, method)
}

// extractMCPMethod reads the request body, extracts the JSON-RPC method,
// and restores the body for subsequent handlers.
func extractMCPMethod(r *http.Request) (string, error) {
	if r.Body == nil {
		return "", nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	if len(body) == 0 {
		return "", nil
	}

	var req mcpRequest
	if err := json.Unmarshal(body, &req); err != nil {
		// malformed requests are left to the MCP handler
		return "", nil
	}
	return req.Method, nil
}

const (
	corsMaxAgeSeconds = "86400" // 24 hours
)

// chainMiddleware chains together all HTTP middleware.
// Execution order: PathValidator -> CORS -> BearerAuth -> Logging -> Handler
func (s *AgentServer) chainMiddleware(next http.Handler) http.Handler {
	handler := next
	handler = loggingMiddleware(s.log)(handler)
	handler = bearerAuthMiddleware(s.config.HTTPAuthToken, s.log)(handler)
	handler = corsMiddleware(parseAllowedOrigins(s.config.HTTPAllowedOrigins))(handler)
	handler = pathValidationMiddleware(s.config.HTTPPath)(handler)
	return handler
}

// bearerAuthMiddleware requires "Authorization: Bearer <token>" on methods that
// run tools. An empty token disables the check.
func bearerAuthMiddleware(token string, log *logger.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method, err := extractMCPMethod(r)
			if err != nil {
				log.Warn("Failed to extract MCP method from request", "error", err)
				unauthorized(w)
				return
			}
			if !isAuthRequiredForMethod(method) {
				next.ServeHTTP(w, r)
				return
			}

			presented, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				log.Debug("Rejected unauthenticated request", "method", method, "remote_addr", r.RemoteAddr)
				unauthorized(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="cypher-agent"`)
	http.Error(w, "Unauthorized: bearer token required for tool calls", http.StatusUnauthorized)
}

// corsMiddleware implements CORS (Cross-Origin Resource Sharing)
// If allowedOrigins is empty, CORS is disabled
// If allowedOrigins contains "*", all origins are allowed
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(allowedOrigins) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			if slices.Contains(allowedOrigins, "*") {
				w.Header().Set("Access-Control-Allow-Origin", "*")
			} else if origin != "" && slices.Contains(allowedOrigins, origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Mcp-Session-Id")
			w.Header().Set("Access-Control-Max-Age", corsMaxAgeSeconds)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// pathValidationMiddleware returns 404 for every path except the MCP endpoint
// to avoid hanging connections
func pathValidationMiddleware(path string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != path {
				http.Error(w, "Not Found: This server only handles requests to "+path, http.StatusNotFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// loggingMiddleware logs HTTP requests for debugging
func loggingMiddleware(log *logger.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Debug("HTTP Request",
				"method", r.Method,
				"url", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"content_length", r.ContentLength,
			)
			next.ServeHTTP(w, r)
		})
	}
}

// parseAllowedOrigins splits a comma-separated origin list, dropping blanks.
func parseAllowedOrigins(raw string) []string {
	var origins []string
	for _, origin := range strings.Split(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
