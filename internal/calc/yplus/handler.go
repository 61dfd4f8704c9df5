package yplus

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"Yplus/internal/logging"
)

//go:embed templates/form.html
var templateFS embed.FS

var formTemplate = template.Must(template.ParseFS(templateFS, "templates/form.html"))

// Response is a successful calculation as returned to clients.
type Response struct {
	Input    Input    `json:"input"`
	Result   Result   `json:"result"`
	Lines    []Line   `json:"lines"`
	Warnings []string `json:"warnings,omitempty"`
}

// ErrorResponse carries either field errors or a computation failure.
type ErrorResponse struct {
	Error  string           `json:"error"`
	Fields ValidationErrors `json:"fields,omitempty"`
}

// Evaluate validates in, runs Calculate and decorates the result for display.
func Evaluate(in Input, style Style) (Response, error) {
	if err := in.Validate(); err != nil {
		return Response{}, err
	}
	res, err := Calculate(in)
	if err != nil {
		return Response{}, err
	}
	return Response{
		Input:    in,
		Result:   res,
		Lines:    Lines(res, style),
		Warnings: Applicability(in),
	}, nil
}

// StatusFor maps an Evaluate error to an HTTP status.
func StatusFor(err error) int {
	var verrs ValidationErrors
	var cerr *ComputationError
	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest
	case errors.As(err, &cerr):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// NewErrorResponse builds the JSON body for an Evaluate error.
func NewErrorResponse(err error) ErrorResponse {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return ErrorResponse{Error: "invalid input", Fields: verrs}
	}
	return ErrorResponse{Error: err.Error()}
}

type Handler struct {
	Style Style
	Title string
}

// Calc handles a JSON Input.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload"})
		return
	}
	res, err := Evaluate(input, h.Style)
	if err != nil {
		logFailure(err, input)
		WriteJSON(w, StatusFor(err), NewErrorResponse(err))
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

type formRow struct {
	Field
	Value string
	Error string
}

type formPage struct {
	Title    string
	Rows     []formRow
	Lines    []Line
	Warnings []string
	Error    string
}

// Form renders the empty form with sample values.
func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, h.page(DefaultValues(), nil))
}

// Submit parses the posted text boxes and renders results or errors.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	values := make(map[string]string, len(Fields))
	for _, f := range Fields {
		values[f.Name] = r.PostForm.Get(f.Name)
	}

	input, err := ParseFields(values)
	if err != nil {
		page := h.page(values, err.(ValidationErrors))
		h.render(w, http.StatusBadRequest, page)
		return
	}
	page := h.page(values, nil)
	res, err := Evaluate(input, h.Style)
	if err != nil {
		logFailure(err, input)
		page.Error = err.Error()
		h.render(w, StatusFor(err), page)
		return
	}
	page.Lines = res.Lines
	page.Warnings = res.Warnings
	h.render(w, http.StatusOK, page)
}

func (h *Handler) page(values map[string]string, errs ValidationErrors) formPage {
	title := h.Title
	if title == "" {
		title = "First Cell Height Calculator (y+)"
	}
	p := formPage{Title: title}
	for _, f := range Fields {
		row := formRow{Field: f, Value: values[f.Name]}
		if fe := errs.Field(f.Name); fe != nil {
			row.Error = fe.Error()
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}

func (h *Handler) render(w http.ResponseWriter, status int, p formPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formTemplate.Execute(w, p); err != nil {
		log := logging.Logger()
		log.Error().Err(err).Msg("render form")
	}
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func logFailure(err error, in Input) {
	log := logging.Logger()
	var cerr *ComputationError
	if errors.As(err, &cerr) {
		log.Warn().
			Str("quantity", cerr.Quantity).
			Interface("input", in).
			Msg(cerr.Reason)
		return
	}
	log.Debug().Err(err).Msg("rejected input")
}
