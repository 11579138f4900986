package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/elioraretreat/registration-server/internal/filter"
	"github.com/elioraretreat/registration-server/internal/logger"
	"github.com/elioraretreat/registration-server/internal/model"
	"github.com/elioraretreat/registration-server/internal/service"
)

// ExportService serializes a filtered registration set to a spreadsheet.
type ExportService interface {
	ExportRegistrations(ctx context.Context, registrations []model.Registration) ([]byte, error)
	Busy() bool
}

// ProofResolver exchanges a registration's proof reference for a URL.
type ProofResolver interface {
	ResolveProofURL(ctx context.Context, id uuid.UUID) (string, error)
}

// Admin handles the authenticated dashboard endpoints: list, edit and
// export of the registration collection.
type Admin struct {
	registrationService RegistrationService
	exportService       ExportService
	resolver            ProofResolver
	logger              *logger.Logger
}

// NewAdmin creates a new Admin handler.
func NewAdmin(
	registrationService RegistrationService,
	exportService ExportService,
	resolver ProofResolver,
	logger *logger.Logger,
) *Admin {
	return &Admin{
		registrationService: registrationService,
		exportService:       exportService,
		resolver:            resolver,
		logger:              logger,
	}
}

type listResponse struct {
	Total         int                    `json:"total"`
	Filtered      int                    `json:"filtered"`
	Sort          string                 `json:"sort,omitempty"`
	Dir           string                 `json:"dir,omitempty"`
	SortKeys      []string               `json:"sortKeys"`
	Registrations []registrationResponse `json:"registrations"`
}

// List returns the filtered, sorted view of the registration collection.
func (h *Admin) List(w http.ResponseWriter, r *http.Request) {
	query, sortState, err := parseListQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	registrations, err := h.registrationService.ListRegistrations(r.Context())
	if err != nil {
		h.logger.Error("Admin handler: list failed", "error", err)
		handleError(w, err)
		return
	}

	visible := filter.Apply(registrations, query)
	filter.ApplySort(visible, sortState)

	resp := listResponse{
		Total:         len(registrations),
		Filtered:      len(visible),
		SortKeys:      filter.SortKeys(),
		Registrations: make([]registrationResponse, 0, len(visible)),
	}
	if sortState.Key != "" {
		resp.Sort = sortState.Key
		resp.Dir = string(sortState.Direction)
	}
	for _, reg := range visible {
		resp.Registrations = append(resp.Registrations, toRegistrationResponse(reg))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single registration.
func (h *Admin) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	registration, err := h.registrationService.GetRegistration(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRegistrationResponse(registration))
}

type patchRequest struct {
	FullName         string `json:"fullName"`
	Gender           string `json:"gender"`
	LifeStatus       string `json:"lifeStatus"`
	DateOfBirth      string `json:"dateOfBirth"`
	WhatsappNumber   string `json:"whatsappNumber"`
	EmergencyContact string `json:"emergencyContact"`
	EmailAddress     string `json:"emailAddress"`
	Address          string `json:"address"`
	ParishName       string `json:"parishName"`
	PaymentMethod    string `json:"paymentMethod"`
	PrayerIntention  string `json:"prayerIntention"`
	Comment          string `json:"comment"`
}

// Patch applies an admin edit to the allow-listed fields of a registration.
func (h *Admin) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var req patchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	input := service.RegistrationInput{
		FullName:         req.FullName,
		Gender:           req.Gender,
		LifeStatus:       req.LifeStatus,
		DateOfBirth:      req.DateOfBirth,
		WhatsappNumber:   req.WhatsappNumber,
		EmergencyContact: req.EmergencyContact,
		EmailAddress:     req.EmailAddress,
		Address:          req.Address,
		ParishName:       req.ParishName,
		PaymentMethod:    req.PaymentMethod,
		PrayerIntention:  req.PrayerIntention,
		Comment:          req.Comment,
	}

	updated, fieldErrs, err := h.registrationService.UpdateRegistration(r.Context(), id, input)
	if len(fieldErrs) > 0 {
		writeFieldErrors(w, fieldErrs)
		return
	}
	if err != nil {
		h.logger.Error("Admin handler: patch failed", "id", id, "error", err)
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRegistrationResponse(updated))
}

type proofURLResponse struct {
	URL string `json:"url"`
}

// ProofURL resolves a registration's payment proof to a time-limited URL.
func (h *Admin) ProofURL(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	url, err := h.resolver.ResolveProofURL(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, proofURLResponse{URL: url})
}

// Export streams an xlsx file of the currently filtered registration set.
func (h *Admin) Export(w http.ResponseWriter, r *http.Request) {
	query, sortState, err := parseListQuery(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	registrations, err := h.registrationService.ListRegistrations(r.Context())
	if err != nil {
		h.logger.Error("Admin handler: export list failed", "error", err)
		handleError(w, err)
		return
	}

	visible := filter.Apply(registrations, query)
	filter.ApplySort(visible, sortState)

	data, err := h.exportService.ExportRegistrations(r.Context(), visible)
	if err != nil {
		h.logger.Error("Admin handler: export failed", "error", err)
		handleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="participants.xlsx"`)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// parseListQuery builds the filter query and sort state from URL
// parameters. Date-only bounds are inclusive of the whole day.
func parseListQuery(r *http.Request) (filter.Query, filter.Sort, error) {
	q := r.URL.Query()

	query := filter.Query{
		Search:        q.Get("search"),
		Gender:        q.Get("gender"),
		LifeStatus:    q.Get("lifeStatus"),
		Parish:        q.Get("parish"),
		PaymentMethod: q.Get("paymentMethod"),
	}

	var err error
	if query.DOBFrom, err = parseDate(q.Get("dobFrom"), false); err != nil {
		return filter.Query{}, filter.Sort{}, err
	}
	if query.DOBTo, err = parseDate(q.Get("dobTo"), false); err != nil {
		return filter.Query{}, filter.Sort{}, err
	}
	if query.RegFrom, err = parseDate(q.Get("regFrom"), false); err != nil {
		return filter.Query{}, filter.Sort{}, err
	}
	if query.RegTo, err = parseDate(q.Get("regTo"), true); err != nil {
		return filter.Query{}, filter.Sort{}, err
	}

	sortState := filter.Sort{Key: q.Get("sort"), Direction: filter.Direction(q.Get("dir"))}
	if sortState.Direction == "" {
		sortState.Direction = filter.Ascending
	}
	// toggle carries the column the admin clicked: the same key flips
	// direction, a new key starts ascending.
	if key := q.Get("toggle"); key != "" {
		sortState = sortState.Toggle(key)
	}
	if err := validateSortKey(sortState.Key); err != nil {
		return filter.Query{}, filter.Sort{}, err
	}

	return query, sortState, nil
}

func validateSortKey(key string) error {
	if key == "" {
		return nil
	}
	keys := filter.SortKeys()
	for _, k := range keys {
		if k == key {
			return nil
		}
	}
	return fmt.Errorf("invalid sort key %q, expected one of: %s", key, strings.Join(keys, ", "))
}

// parseDate parses a 2006-01-02 value; endOfDay shifts the bound to the
// last instant of that day so registration timestamps stay inclusive.
func parseDate(raw string, endOfDay bool) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
