package book

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"book-insight/internal/domain/entity"
	"book-insight/internal/handler/http/respond"
)

// DetailBookTextRequired is returned when book_text is missing or empty.
const DetailBookTextRequired = "Book text is required"

// DetailRequestTimeout is returned when the request deadline passes before the
// extraction finishes.
const DetailRequestTimeout = "request timeout"

// Extractor runs the extraction pipeline for one book text.
type Extractor interface {
	Extract(ctx context.Context, bookText string) (*entity.Extraction, error)
}

type ExtractHandler struct{ Svc Extractor }

// ServeHTTP extracts a summary and the characters of a book
// @Summary      Extract information
// @Description  Summarizes the book text chunk by chunk and lists every person with the spans where it occurs
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        request body ExtractRequest true "Book text"
// @Success      200 {object} ExtractResponse
// @Failure      400 {object} respond.ErrorResponse "Book text is required or the body is malformed"
// @Failure      413 {object} respond.ErrorResponse "Request body too large"
// @Failure      500 {object} respond.ErrorResponse "Character extraction failed"
// @Failure      504 {object} respond.ErrorResponse "Request timeout"
// @Router       /extract_information [post]
func (h ExtractHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			respond.SafeError(w, http.StatusRequestEntityTooLarge,
				respond.NewAppError(http.StatusRequestEntityTooLarge, "request body too large", nil))
		case errors.Is(err, io.EOF):
			respond.Detail(w, http.StatusBadRequest, DetailBookTextRequired)
		default:
			respond.Detail(w, http.StatusBadRequest, "malformed JSON body")
		}
		return
	}

	out, err := h.Svc.Extract(r.Context(), req.BookText)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidRequest):
			respond.Detail(w, http.StatusBadRequest, DetailBookTextRequired)
		case errors.Is(err, context.DeadlineExceeded):
			respond.Detail(w, http.StatusGatewayTimeout, DetailRequestTimeout)
		case errors.Is(err, context.Canceled):
			// client went away; there is nobody to answer
		default:
			respond.SafeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	respond.JSON(w, http.StatusOK, NewExtractResponse(out))
}
