package http

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"link-summarizer/internal/domain/entity"
	"link-summarizer/internal/handler/http/respond"
	"link-summarizer/internal/observability/logging"
	"link-summarizer/internal/usecase/summarize"
	"link-summarizer/internal/utils/text"
	"link-summarizer/pkg/security/csp"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// lengthControl describes one slider on the page.
type lengthControl struct {
	Name  string
	Label string
	Min   int
	Max   int
	Step  int
	Value int
}

// pageData is the view model of the summarizer page.
type pageData struct {
	URL       string
	MaxLength lengthControl
	MinLength lengthControl

	// Fetched is set once the article was downloaded and extracted, even
	// when summarization fails afterwards.
	Fetched     bool
	Result      *entity.Result
	InputLength int
	Message     *summarize.Message

	// Nonce authorizes the page's inline script and stylesheet.
	Nonce string
}

func newPageData(url string, maxLength, minLength int) pageData {
	return pageData{
		URL: url,
		MaxLength: lengthControl{
			Name: "max_length", Label: "Maximum summary length",
			Min: entity.MinMaxLength, Max: entity.MaxMaxLength, Step: entity.LengthStep, Value: maxLength,
		},
		MinLength: lengthControl{
			Name: "min_length", Label: "Minimum summary length",
			Min: entity.MinMinLength, Max: entity.MaxMinLength, Step: entity.LengthStep, Value: minLength,
		},
	}
}

// PageHandler serves the HTML summarizer: GET renders the empty form, POST
// runs the pipeline and renders the form with the outcome.
type PageHandler struct {
	Service Summarizer
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.render(w, r, http.StatusOK, newPageData("", entity.DefaultMaxLength, entity.DefaultMinLength))
	case http.MethodPost:
		h.submit(w, r)
	default:
		w.Header().Set("Allow", "GET, HEAD, POST")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *PageHandler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respond.SafeError(w, respond.NewAppError(http.StatusBadRequest, summarize.KindInvalidRequest.String(), "could not read the submitted form", err))
		return
	}

	url := text.ExtractURL(r.FormValue("url"))
	maxLength, maxErr := parseLength(trimmedForm(r, "max_length"), "max_length", entity.DefaultMaxLength)
	minLength, minErr := parseLength(trimmedForm(r, "min_length"), "min_length", entity.DefaultMinLength)
	data := newPageData(url, maxLength, minLength)

	var err error
	switch {
	case maxErr != nil:
		err = maxErr
	case minErr != nil:
		err = minErr
	default:
		data.Result, err = h.Service.Summarize(r.Context(), entity.NewRequest(url, maxLength, minLength),
			func(stage summarize.Stage) {
				if stage == summarize.StageFetched {
					data.Fetched = true
				}
			})
	}

	status := http.StatusOK
	if err != nil {
		msg := summarize.Render(err)
		msg.Text = respond.Sanitize(msg.Text)
		data.Message = &msg
		status = statusFor(msg.Kind)
	} else {
		data.InputLength = text.CountRunes(data.Result.InputText)
	}
	h.render(w, r, status, data)
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	nonce, err := csp.NewNonce()
	if err != nil {
		respond.SafeError(w, err)
		return
	}
	data.Nonce = nonce
	policy := csp.PagePolicy(nonce)
	w.Header().Set(policy.HeaderName(), policy.Build())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		logging.FromContext(r.Context()).Error("failed to render page", slog.Any("error", err))
	}
}

func trimmedForm(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

// parseLength reads a slider value. An empty value takes the default.
func parseLength(raw, field string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def, &summarize.Error{
			Kind: summarize.KindInvalidRequest,
			Err:  &entity.ValidationError{Field: field, Message: fmt.Sprintf("must be a whole number, got %q", raw)},
		}
	}
	return n, nil
}
