package book

import "net/http"

// Register mounts the book routes on mux.
func Register(mux *http.ServeMux, svc Extractor) {
	mux.Handle("POST /extract_information", ExtractHandler{svc})
}
