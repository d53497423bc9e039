package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"link-summarizer/internal/domain/entity"
	"link-summarizer/internal/handler/http/respond"
	"link-summarizer/internal/usecase/summarize"
	"link-summarizer/internal/utils/text"
)

// Summarizer runs the summarization pipeline.
type Summarizer interface {
	Summarize(ctx context.Context, req entity.Request, observers ...summarize.StageObserver) (*entity.Result, error)
}

// SummaryRequest is the body of POST /api/summaries. Zero lengths take the defaults.
type SummaryRequest struct {
	URL       string `json:"url"`
	MaxLength int    `json:"max_length"`
	MinLength int    `json:"min_length"`
}

// SummaryTimings reports how long each stage took.
type SummaryTimings struct {
	FetchMS     int64 `json:"fetch_ms"`
	SummarizeMS int64 `json:"summarize_ms"`
}

// SummaryResponse is the body of a successful POST /api/summaries.
type SummaryResponse struct {
	URL         string         `json:"url"`
	Title       string         `json:"title,omitempty"`
	Byline      string         `json:"byline,omitempty"`
	Summary     string         `json:"summary"`
	ArticleText string         `json:"article_text"`
	Truncated   bool           `json:"truncated"`
	Backend     string         `json:"backend"`
	MaxLength   int            `json:"max_length"`
	MinLength   int            `json:"min_length"`
	Timings     SummaryTimings `json:"timings"`
}

func toSummaryResponse(res *entity.Result) SummaryResponse {
	return SummaryResponse{
		URL:         res.URL,
		Title:       res.Title,
		Byline:      res.Byline,
		Summary:     res.Summary,
		ArticleText: res.ArticleText,
		Truncated:   res.Truncated,
		Backend:     res.Backend,
		MaxLength:   res.Bounds.Max,
		MinLength:   res.Bounds.Min,
		Timings: SummaryTimings{
			FetchMS:     res.FetchDuration.Milliseconds(),
			SummarizeMS: res.SummarizeDuration.Milliseconds(),
		},
	}
}

// statusFor maps a pipeline failure to an HTTP status.
func statusFor(kind summarize.Kind) int {
	switch kind {
	case summarize.KindEmptyInput, summarize.KindInvalidRequest:
		return http.StatusBadRequest
	case summarize.KindExtraction:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// SummariesHandler serves POST /api/summaries.
type SummariesHandler struct {
	Service Summarizer
}

func (h *SummariesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		respond.Error(w, http.StatusMethodNotAllowed, respond.ErrorBody{Kind: "method_not_allowed", Message: "use POST"})
		return
	}

	var body SummaryRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.SafeError(w, respond.NewAppError(http.StatusRequestEntityTooLarge, summarize.KindInvalidRequest.String(), "request body too large", err))
			return
		}
		respond.SafeError(w, respond.NewAppError(http.StatusBadRequest, summarize.KindInvalidRequest.String(), "request body must be a JSON object with url, max_length and min_length", err))
		return
	}

	req := entity.NewRequest(text.ExtractURL(body.URL), body.MaxLength, body.MinLength)
	res, err := h.Service.Summarize(r.Context(), req)
	if err != nil {
		msg := summarize.Render(err)
		respond.Error(w, statusFor(msg.Kind), respond.ErrorBody{
			Kind:    msg.Kind.String(),
			Message: respond.Sanitize(msg.Text),
			Hint:    msg.Hint,
		})
		return
	}

	respond.JSON(w, http.StatusOK, toSummaryResponse(res))
}
