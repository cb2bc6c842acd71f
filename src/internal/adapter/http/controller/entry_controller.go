package controller

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/adapter/http/models"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/commons"
	"github.com/SrCloock/Asientos-Contables-ADIS-sub000/src/internal/usecase/service_interfaces"
)

type EntryController struct {
	service      service_interfaces.EntryService
	queryService service_interfaces.EntryQueryService
}

func NewEntryController(service service_interfaces.EntryService, queryService service_interfaces.EntryQueryService) *EntryController {
	return &EntryController{
		service:      service,
		queryService: queryService,
	}
}

func (c *EntryController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	register := func(path string, handler http.HandlerFunc) {
		var wrapped http.Handler = handler
		if authMiddleware != nil {
			wrapped = authMiddleware(wrapped)
		}
		mux.Handle(path, wrapped)
	}

	register("/create-entry", c.createEntry)
	register("/get-entries", c.getEntries)
	register("/get-next-entry-number", c.getNextEntryNumber)
}

func (c *EntryController) createEntry(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.CreateEntryResponse]("method not allowed"))
		return
	}

	var req models.CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.CreateEntryResponse]("invalid request body", err.Error()))
		return
	}
	logRequest(r, req)

	response, err := c.service.CreateEntry(r.Context(), req)
	status := http.StatusCreated
	if err != nil {
		status = http.StatusInternalServerError
		if response.Message == "validation failed" {
			status = http.StatusBadRequest
		}
		if response.Message == "ledger is busy" {
			status = http.StatusServiceUnavailable
		}
	}

	logResponse(r, status, response, start)
	writeJSON(w, status, response)
}

func (c *EntryController) getEntries(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.GetEntriesResponse]("method not allowed"))
		return
	}

	req, err := parseGetEntriesRequest(r)
	if err != nil {
		logError(r, err, nil)
		writeJSON(w, http.StatusBadRequest, commons.ErrorResponse[models.GetEntriesResponse]("validation failed", err.Error()))
		return
	}
	logRequest(r, req)

	response, svcErr := c.queryService.GetEntries(r.Context(), req)
	status := http.StatusOK
	if svcErr != nil {
		status = http.StatusInternalServerError
		if response.Message == "validation failed" {
			status = http.StatusBadRequest
		}
	}

	logResponse(r, status, response, start)
	writeJSON(w, status, response)
}

func (c *EntryController) getNextEntryNumber(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, commons.ErrorResponse[models.NextEntryNumberResponse]("method not allowed"))
		return
	}

	response, err := c.service.GetNextEntryNumber(r.Context(), r.URL.Query().Get("date"))
	status := http.StatusOK
	if err != nil {
		status = http.StatusInternalServerError
		if response.Message == "validation failed" {
			status = http.StatusBadRequest
		}
	}

	logResponse(r, status, response, start)
	writeJSON(w, status, response)
}

func parseGetEntriesRequest(r *http.Request) (models.GetEntriesRequest, error) {
	values := r.URL.Query()
	req := models.GetEntriesRequest{
		DateFrom:      values.Get("dateFrom"),
		DateTo:        values.Get("dateTo"),
		SortField:     values.Get("sortField"),
		SortDirection: values.Get("sortDirection"),
	}

	if raw := strings.TrimSpace(values.Get("entryNumber")); raw != "" {
		number, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, err
		}
		req.EntryNumber = &number
	}
	for name, target := range map[string]*int{
		"fiscalYear": &req.FiscalYear,
		"page":       &req.Page,
		"pageSize":   &req.PageSize,
	} {
		raw := strings.TrimSpace(values.Get(name))
		if raw == "" {
			continue
		}
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return req, err
		}
		*target = parsed
	}

	return req, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
