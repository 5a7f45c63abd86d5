package server

import "net/http"

// logRequests logs one line per incoming request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Info("incoming http request",
			"method", r.Method,
			"uri", r.URL.RequestURI(),
			"ip", r.RemoteAddr,
		)
		next.ServeHTTP(w, r)
	})
}
