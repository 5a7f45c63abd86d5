package server

import (
	"io"
	"net/http"

	"partyline/errors"
)

// upload stores a media blob through the object store and returns the URI
// message content can carry, plus the sniffed content type.
func (s *Server) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.respondError(w, errors.ErrValidation)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, errors.ErrValidation)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, err)
		return
	}

	uri, contentType, err := s.store.Put(r.Context(), header.Filename, data)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"url": uri, "type": contentType})
}
