package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/trackify/trackify-backend-go/internal/domain/summary"
	"github.com/trackify/trackify-backend-go/internal/handler/http/response"
)

type SummaryHandler interface {
	GetMonthlySummary(w http.ResponseWriter, r *http.Request)
	ExportMonthly(w http.ResponseWriter, r *http.Request)
	ExportAllSites(w http.ResponseWriter, r *http.Request)
}

type summaryHandlerImpl struct {
	summaryService summary.SummaryService
}

func NewSummaryHandler(summaryService summary.SummaryService) SummaryHandler {
	return &summaryHandlerImpl{
		summaryService: summaryService,
	}
}

func monthlyRequestFromQuery(r *http.Request) summary.MonthlySummaryRequest {
	return summary.MonthlySummaryRequest{
		Month: r.URL.Query().Get("month"),
		Site:  r.URL.Query().Get("site"),
	}
}

func (h *summaryHandlerImpl) GetMonthlySummary(w http.ResponseWriter, r *http.Request) {
	req := monthlyRequestFromQuery(r)
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.summaryService.GetMonthlySummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportMonthly renders the filtered summary in the {format} path parameter.
func (h *summaryHandlerImpl) ExportMonthly(w http.ResponseWriter, r *http.Request) {
	req := monthlyRequestFromQuery(r)
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.summaryService.ExportMonthly(r.Context(), req, summary.Format(chi.URLParam(r, "format")))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file)
}

// ExportAllSites renders every site with subtotals and a grand total.
func (h *summaryHandlerImpl) ExportAllSites(w http.ResponseWriter, r *http.Request) {
	req := summary.MonthlySummaryRequest{Month: r.URL.Query().Get("month")}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	file, err := h.summaryService.ExportAllSites(r.Context(), req.Month, summary.Format(chi.URLParam(r, "format")))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.File(w, file)
}
