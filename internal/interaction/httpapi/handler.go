package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"coffeerange/internal/apperrors"
	"coffeerange/internal/calculator"
	"coffeerange/internal/model"
	"coffeerange/internal/usecases"
)

// UserHeader carries the operator id set by the auth proxy.
const UserHeader = "X-User-ID"

type RangeQuerier interface {
	CurrentRanges(ctx context.Context, asOf time.Time) (*usecases.RangeReport, error)
	CurrentRangesFor(ctx context.Context, list []string, asOf time.Time) (*usecases.RangeReport, error)
	CurrentRange(ctx context.Context, grade string, asOf time.Time) (*usecases.GradeRange, error)
}

type PriceRecorder interface {
	RecordDay(ctx context.Context, date time.Time, prices map[string]decimal.Decimal, recordedBy uuid.UUID) (*usecases.DayResult, error)
	EntriesOn(ctx context.Context, date time.Time) ([]*model.ClosingPrice, error)
}

type BandManager interface {
	SaveBand(ctx context.Context, grade string, lower, upper decimal.Decimal) (*model.GradeBand, error)
	ListBands(ctx context.Context) ([]*model.GradeBand, error)
}

// Pinger is a backing store checked by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	logger *slog.Logger
	ranges RangeQuerier
	prices PriceRecorder
	bands  BandManager
	checks map[string]Pinger
	loc    *time.Location
	now    func() time.Time
}

func NewHandler(logger *slog.Logger, ranges RangeQuerier, prices PriceRecorder, bands BandManager, loc *time.Location) *Handler {
	return &Handler{
		logger: logger.With("component", "http"),
		ranges: ranges,
		prices: prices,
		bands:  bands,
		checks: make(map[string]Pinger),
		loc:    loc,
		now:    time.Now,
	}
}

// WithHealthCheck adds a store to the health endpoint under name.
func (that *Handler) WithHealthCheck(name string, p Pinger) *Handler {
	that.checks[name] = p
	return that
}

// HealthCheck handles GET /health. Any failing store turns the answer into 503.
func (that *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "HealthCheck")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "healthy", http.StatusOK
	stores := make(map[string]string, len(that.checks))
	for name, p := range that.checks {
		if err := p.Ping(ctx); err != nil {
			log.Error("store is unhealthy", "store", name, "error", err)
			stores[name] = "unavailable"
			status, code = "unhealthy", http.StatusServiceUnavailable
			continue
		}
		stores[name] = "ok"
	}

	body := map[string]any{"status": status}
	if len(stores) > 0 {
		body["stores"] = stores
	}
	respondJSON(w, code, body)
}

// GetRanges handles GET /api/v1/ranges?as_of=2024-03-11&grades=LWSD1,LWSD2
func (that *Handler) GetRanges(w http.ResponseWriter, r *http.Request) {
	asOf, err := that.dateParam(r.URL.Query().Get("as_of"))
	if err != nil {
		that.respondError(w, r, err)
		return
	}

	var report *usecases.RangeReport
	if list := r.URL.Query().Get("grades"); list != "" {
		report, err = that.ranges.CurrentRangesFor(r.Context(), strings.Split(list, ","), asOf)
	} else {
		report, err = that.ranges.CurrentRanges(r.Context(), asOf)
	}
	if err != nil {
		that.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newReportView(report))
}

// GetRange handles GET /api/v1/ranges/{grade}
func (that *Handler) GetRange(w http.ResponseWriter, r *http.Request) {
	asOf, err := that.dateParam(r.URL.Query().Get("as_of"))
	if err != nil {
		that.respondError(w, r, err)
		return
	}

	gr, err := that.ranges.CurrentRange(r.Context(), mux.Vars(r)["grade"], asOf)
	if err != nil {
		that.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newRangeView(gr))
}

// GetPrices handles GET /api/v1/prices?date=2024-03-01
func (that *Handler) GetPrices(w http.ResponseWriter, r *http.Request) {
	date, err := that.dateParam(r.URL.Query().Get("date"))
	if err != nil {
		that.respondError(w, r, err)
		return
	}

	entries, err := that.prices.EntriesOn(r.Context(), date)
	if err != nil {
		that.respondError(w, r, err)
		return
	}

	views := make([]priceView, 0, len(entries))
	for _, e := range entries {
		views = append(views, newPriceView(e))
	}

	respondJSON(w, http.StatusOK, views)
}

// PutPrices handles PUT /api/v1/prices/{date} with {"prices": {"LWSD1": "4100.00"}}.
// Blank prices are skipped, so a partly filled entry form can be submitted as is.
func (that *Handler) PutPrices(w http.ResponseWriter, r *http.Request) {
	operator, err := uuid.Parse(r.Header.Get(UserHeader))
	if err != nil {
		respondJSON(w, http.StatusUnauthorized, errorView{Error: "missing or invalid " + UserHeader})
		return
	}

	date, err := time.Parse(time.DateOnly, mux.Vars(r)["date"])
	if err != nil {
		that.respondError(w, r, apperrors.ErrInvalidDate)
		return
	}

	var req struct {
		Prices map[string]string `json:"prices"`
	}
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorView{Error: "invalid request body"})
		return
	}

	prices := make(map[string]decimal.Decimal, len(req.Prices))
	failed := make(map[string]string)
	for grade, raw := range req.Prices {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		price, err := usecases.ParsePrice(raw)
		if err != nil {
			failed[grade] = err.Error()
			continue
		}
		prices[grade] = price
	}

	result, err := that.prices.RecordDay(r.Context(), date, prices, operator)
	if err != nil {
		that.respondError(w, r, err)
		return
	}

	view := dayView{Recorded: make([]priceView, 0, len(result.Recorded)), Failed: failed}
	for _, e := range result.Recorded {
		view.Recorded = append(view.Recorded, newPriceView(e))
	}
	for grade, err := range result.Failed {
		view.Failed[grade] = err.Error()
	}

	status := http.StatusOK
	if len(view.Recorded) == 0 && len(view.Failed) > 0 {
		status = http.StatusUnprocessableEntity
	}

	respondJSON(w, status, view)
}

// GetCatalog handles GET /api/v1/catalog
func (that *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	bands, err := that.bands.ListBands(r.Context())
	if err != nil {
		that.respondError(w, r, err)
		return
	}

	views := make([]bandView, 0, len(bands))
	for _, b := range bands {
		views = append(views, newBandView(b))
	}

	respondJSON(w, http.StatusOK, views)
}

// PutCatalogBand handles PUT /api/v1/catalog/{grade} with {"lower_bound": "5000", "upper_bound": "5500"}
func (that *Handler) PutCatalogBand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LowerBound decimal.Decimal `json:"lower_bound"`
		UpperBound decimal.Decimal `json:"upper_bound"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorView{Error: "invalid request body"})
		return
	}

	band, err := that.bands.SaveBand(r.Context(), mux.Vars(r)["grade"], req.LowerBound, req.UpperBound)
	if err != nil {
		that.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newBandView(band))
}

// Calculate handles POST /api/v1/calculator
func (that *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculator.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorView{Error: "invalid request body"})
		return
	}

	result, err := calculator.Calculate(req)
	if err != nil {
		that.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// dateParam parses a YYYY-MM-DD parameter; empty means today in the configured location.
func (that *Handler) dateParam(value string) (time.Time, error) {
	if value == "" {
		return that.now().In(that.loc), nil
	}

	date, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, apperrors.ErrInvalidDate
	}
	return date, nil
}

func (that *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		that.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	respondJSON(w, status, errorView{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidPrice),
		errors.Is(err, apperrors.ErrInvalidBand),
		errors.Is(err, apperrors.ErrInvalidDate),
		errors.Is(err, apperrors.ErrInvalidQuantity),
		errors.Is(err, apperrors.ErrUnknownGrade):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNoDynamicData),
		errors.Is(err, apperrors.ErrFixedBandNotFound),
		errors.Is(err, apperrors.ErrClosingPriceNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrStoreUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
