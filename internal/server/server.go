package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/mine-npv/internal/advisor"
	"github.com/iwvelando/mine-npv/internal/config"
	"github.com/iwvelando/mine-npv/internal/lab"
	"github.com/iwvelando/mine-npv/internal/valuation"
	"github.com/iwvelando/mine-npv/pkg/constants"
	"github.com/iwvelando/mine-npv/pkg/dcf"
	"github.com/iwvelando/mine-npv/pkg/format"
	"github.com/iwvelando/mine-npv/pkg/output"
	"github.com/iwvelando/mine-npv/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RequestIDHeader carries the per-request identifier.
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	advisor       *advisor.Service
}

// NewHandler constructs the HTTP handler that serves the valuation API. A nil
// advisor service disables the advisor endpoints.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, advisorService *advisor.Service) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion, advisor: advisorService}

	mux := http.NewServeMux()

	// Engine endpoints
	mux.HandleFunc("/api/annuity", h.handleAnnuity)
	mux.HandleFunc("/api/irregular", h.handleIrregular)

	// Batch valuation of an uploaded project file
	mux.HandleFunc("/api/projects", h.handleProjects)

	// Advisor and lab endpoints
	mux.HandleFunc("/api/advisor/chat", h.handleChat)
	mux.HandleFunc("/api/lab/formula", h.handleFormula)
	mux.HandleFunc("/api/lab/compare", h.handleCompare)

	mux.HandleFunc("/api/version", h.handleVersion)

	return h.withRequestID(mux)
}

func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *handler) log(r *http.Request) *zap.Logger {
	if id, ok := r.Context().Value(requestIDKey{}).(string); ok {
		return h.logger.With(zap.String("requestId", id))
	}
	return h.logger
}

// number encodes non-finite floats as JSON null and -0 as 0.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	if f == 0 {
		f = 0
	}
	return json.Marshal(f)
}

type recordView struct {
	Year               int    `json:"year"`
	CashFlow           number `json:"cashFlow"`
	DiscountedCashFlow number `json:"discountedCashFlow"`
	CumulativeNPV      number `json:"cumulativeNPV"`
}

type displayView struct {
	NPV        string `json:"npv"`
	NPVPrecise string `json:"npvPrecise"`
	NPVFull    string `json:"npvFull"`
	BCRatio    string `json:"bcRatio"`
	PVInflows  string `json:"pvInflows"`
	PVOutflows string `json:"pvOutflows"`
}

type valuationView struct {
	Name       string       `json:"name,omitempty"`
	Kind       string       `json:"kind"`
	NPV        number       `json:"npv"`
	BCRatio    number       `json:"bcRatio"`
	RatioKind  string       `json:"ratioKind"`
	PVInflows  number       `json:"pvInflows"`
	PVOutflows number       `json:"pvOutflows"`
	CashFlows  []recordView `json:"cashFlows"`
	Display    displayView  `json:"display"`
	Notes      []string     `json:"notes,omitempty"`
}

type annuityRequest struct {
	Inputs dcf.ProjectInputs `json:"inputs"`
	Unit   string            `json:"unit"`
}

type irregularRequest struct {
	Rows         []dcf.FlowRow `json:"rows"`
	DiscountRate dcf.Value     `json:"discountRate"`
	Unit         string        `json:"unit"`
}

type projectsResponse struct {
	Projects []valuationView        `json:"projects"`
	CSV      string                 `json:"csv"`
	Warnings []string               `json:"warnings,omitempty"`
	Duration string                 `json:"duration"`
	Config   map[string]interface{} `json:"config,omitempty"`
}

type chatRequest struct {
	Inputs   dcf.ProjectInputs `json:"inputs"`
	Unit     string            `json:"unit"`
	Question string            `json:"question"`
}

type formulaRequest struct {
	Blocks  []string `json:"blocks"`
	Rate    *float64 `json:"rate,omitempty"`
	Periods *int     `json:"periods,omitempty"`
}

type formulaResponse struct {
	Chain   string            `json:"chain"`
	Factors []lab.FactorValue `json:"factors,omitempty"`
	Product *number           `json:"product,omitempty"`
	Reply   *advisor.Reply    `json:"reply,omitempty"`
}

type compareRequest struct {
	ProjectA *lab.Project `json:"projectA"`
	ProjectB *lab.Project `json:"projectB"`
	Rates    []float64    `json:"rates"`
	Advisor  bool         `json:"advisor"`
}

type compareResponse struct {
	ProjectA      lab.Project        `json:"projectA"`
	ProjectB      lab.Project        `json:"projectB"`
	Profile       []lab.ProfilePoint `json:"profile"`
	ProfileSource string             `json:"profileSource"`
	SwitchBetween *[2]float64        `json:"switchBetween,omitempty"`
	Verdict       *advisor.Reply     `json:"verdict,omitempty"`
}

func (h *handler) handleAnnuity(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnnuity"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req annuityRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	unit, ok := h.parseUnit(w, r, req.Unit, op)
	if !ok {
		return
	}

	result, err := valuation.EvaluateProject(h.log(r), config.FromInputs("", req.Inputs))
	if err != nil {
		h.respondEngineError(w, r, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, buildValuationView(result, unit))
}

func (h *handler) handleIrregular(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleIrregular"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req irregularRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	unit, ok := h.parseUnit(w, r, req.Unit, op)
	if !ok {
		return
	}

	result, err := dcf.ComputeIrregular(req.Rows, req.DiscountRate)
	if err != nil {
		h.respondEngineError(w, r, err, op)
		return
	}

	h.writeJSON(w, http.StatusOK, buildValuationView(valuation.Valuation{
		Kind:       valuation.KindIrregular,
		Rate:       req.DiscountRate,
		Rows:       req.Rows,
		NPV:        result.NPV,
		BCRatio:    result.BCRatio,
		RatioKind:  result.Kind(),
		PVInflows:  result.PVInflows,
		PVOutflows: result.PVOutflows,
		CashFlows:  result.CashFlows,
	}, unit))
}

func (h *handler) handleProjects(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProjects"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.log(r).Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	unit, ok := h.parseUnit(w, r, cfg.Output.Unit, op)
	if !ok {
		return
	}

	warnings := cfg.ValidateConfiguration()
	results, err := valuation.Evaluate(h.log(r), *cfg)
	if err != nil {
		h.respondEngineError(w, r, err, op)
		return
	}

	views := make([]valuationView, 0, len(results))
	for _, result := range results {
		views = append(views, buildValuationView(result, unit))
	}

	elapsed := time.Since(start)
	h.log(r).Info("projects valued",
		zap.String("op", op),
		zap.Int("projects", len(views)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, projectsResponse{
		Projects: views,
		CSV:      output.CsvString(results),
		Warnings: warnings,
		Duration: elapsed.String(),
		Config:   configMap,
	})
}

func (h *handler) handleChat(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleChat"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}
	unit, ok := h.parseUnit(w, r, req.Unit, op)
	if !ok {
		return
	}

	reply, err := h.advisor.Chat(r.Context(), req.Inputs, unit, req.Question)
	if err != nil {
		h.respondAdvisorError(w, r, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, reply)
}

func (h *handler) handleFormula(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleFormula"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req formulaRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	chain, err := lab.NewFormulaChain(req.Blocks...)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	resp := formulaResponse{Chain: chain.String()}
	evaluate := req.Rate != nil && req.Periods != nil
	if evaluate {
		factors, product, err := chain.Evaluate(*req.Rate, *req.Periods)
		if err != nil {
			h.respondAdvisorError(w, r, err, op)
			return
		}
		p := number(product)
		resp.Factors = factors
		resp.Product = &p
	}

	// Evaluated factors are still useful without a narrative.
	if evaluate && !h.advisor.Available() {
		h.writeJSON(w, http.StatusOK, resp)
		return
	}

	reply, err := h.advisor.SynthesizeFormula(r.Context(), chain)
	if err != nil {
		h.respondAdvisorError(w, r, err, op)
		return
	}
	resp.Reply = &reply
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req compareRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	a, b := lab.DefaultProjects()
	if req.ProjectA != nil {
		a = *req.ProjectA
	}
	if req.ProjectB != nil {
		b = *req.ProjectB
	}
	rates := req.Rates
	if len(rates) == 0 {
		rates = lab.DefaultRates()
	}

	resp := compareResponse{ProjectA: a, ProjectB: b, ProfileSource: advisor.SourceLocal}
	if req.Advisor {
		comparison, err := h.advisor.Compare(r.Context(), a, b, rates)
		if err != nil {
			h.respondAdvisorError(w, r, err, op)
			return
		}
		resp.Profile = comparison.Profile
		resp.ProfileSource = comparison.ProfileSource
		resp.Verdict = &comparison.Verdict
	} else {
		profile, err := lab.Profile(a, b, rates)
		if err != nil {
			h.respondEngineError(w, r, err, op)
			return
		}
		resp.Profile = profile
	}

	if bracket, ok := lab.SwitchBracket(resp.Profile); ok {
		resp.SwitchBetween = &bracket
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"version": h.version,
		"advisor": h.advisor.Available(),
	})
}

func buildValuationView(v valuation.Valuation, unit format.Unit) valuationView {
	records := make([]recordView, 0, len(v.CashFlows))
	for _, rec := range v.CashFlows {
		records = append(records, recordView{
			Year:               rec.Year,
			CashFlow:           number(rec.CashFlow),
			DiscountedCashFlow: number(rec.DiscountedCashFlow),
			CumulativeNPV:      number(rec.CumulativeNPV),
		})
	}

	return valuationView{
		Name:       v.Name,
		Kind:       string(v.Kind),
		NPV:        number(v.NPV),
		BCRatio:    number(v.BCRatio),
		RatioKind:  v.RatioKind.String(),
		PVInflows:  number(v.PVInflows),
		PVOutflows: number(v.PVOutflows),
		CashFlows:  records,
		Display: displayView{
			NPV:        format.Short(v.NPV, unit),
			NPVPrecise: format.ShortPrecise(v.NPV, unit, constants.HighPrecision),
			NPVFull:    format.Full(v.NPV),
			BCRatio:    output.RatioLabel(v.BCRatio, v.RatioKind),
			PVInflows:  format.Short(v.PVInflows, unit),
			PVOutflows: format.Short(v.PVOutflows, unit),
		},
		Notes: v.Notes,
	}
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return false
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return false
	}
	return true
}

func (h *handler) parseUnit(w http.ResponseWriter, r *http.Request, raw string, op string) (format.Unit, bool) {
	unit, err := validation.ValidateUnit(raw)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return "", false
	}
	return unit, true
}

func (h *handler) respondEngineError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var domainErr *dcf.DomainError
	if errors.As(err, &domainErr) {
		h.respondErrorWithOp(w, r, http.StatusUnprocessableEntity, err.Error(), op)
		return
	}
	h.respondErrorWithOp(w, r, http.StatusInternalServerError, err.Error(), op)
}

func (h *handler) respondAdvisorError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var domainErr *dcf.DomainError
	switch {
	case errors.As(err, &domainErr):
		h.respondErrorWithOp(w, r, http.StatusUnprocessableEntity, err.Error(), op)
	case errors.Is(err, advisor.ErrUnavailable):
		h.respondErrorWithOp(w, r, http.StatusServiceUnavailable, err.Error(), op)
	case errors.Is(err, advisor.ErrEmptyPrompt), errors.Is(err, lab.ErrUnknownBlock):
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
	default:
		h.respondErrorWithOp(w, r, http.StatusBadGateway, err.Error(), op)
	}
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.log(r).Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
