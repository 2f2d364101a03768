package main

import (
	"encoding/json"
	"net/http"
)

// APIErrors is the uniform error body: one message per offending field
// on validation failures or a single message on business rules
// violations and reasoned lookups failures.
type APIErrors struct {
	Errors []string `json:"errors"`
}

// PageableDTO echoes the pagination applied to a search request.
type PageableDTO struct {
	PageNumber int `json:"pageNumber"`
	PageSize   int `json:"pageSize"`
}

// PageDTO is the envelope of any paginated result.
type PageDTO struct {
	Content       interface{} `json:"content"`
	TotalElements int64       `json:"totalElements"`
	Pageable      PageableDTO `json:"pageable"`
}

// NewPageDTO builds the page envelope from one page of content and the
// total number of matching elements.
func NewPageDTO(content interface{}, total int64, page PageRequest) *PageDTO {
	return &PageDTO{
		Content:       content,
		TotalElements: total,
		Pageable: PageableDTO{
			PageNumber: page.Page,
			PageSize:   page.Size,
		},
	}
}

// WriteJSON sends a json response body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(body)
}

// WriteErrors sends the uniform error list body.
func WriteErrors(w http.ResponseWriter, status int, messages ...string) error {
	return WriteJSON(w, status, &APIErrors{Errors: messages})
}

// WriteNotFound sends a 404 without body as the wire contract expects.
func WriteNotFound(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNotFound)
}

// CustomResponseWriter is a wrapper for http.ResponseWriter. It is
// used to record response details like status code and body size.
type CustomResponseWriter struct {
	http.ResponseWriter
	code  int
	bytes int
	wrote bool
}

// NewCustomResponseWriter provides CustomResponseWriter with 200 as status code.
func NewCustomResponseWriter(rw http.ResponseWriter) *CustomResponseWriter {
	return &CustomResponseWriter{
		ResponseWriter: rw,
		code:           http.StatusOK,
	}
}

// WriteHeader implements http.WriteHeader interface.
func (cw *CustomResponseWriter) WriteHeader(code int) {
	if !cw.wrote {
		cw.code = code
		cw.wrote = true
		cw.ResponseWriter.WriteHeader(code)
	}
}

// Write implements http.Write interface.
func (cw *CustomResponseWriter) Write(bytes []byte) (int, error) {
	if !cw.wrote {
		cw.WriteHeader(cw.code)
	}
	n, err := cw.ResponseWriter.Write(bytes)
	cw.bytes += n
	return n, err
}

// Status returns the written status code.
func (cw *CustomResponseWriter) Status() int {
	return cw.code
}

// Bytes returns bytes written as response body.
func (cw *CustomResponseWriter) Bytes() int {
	return cw.bytes
}

// Unwrap returns native response writer and used by
// the http.ResponseController during its operation.
func (cw *CustomResponseWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}
