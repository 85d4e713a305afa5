package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/keyquorum/share-recovery-backend/interfaces"
	"github.com/keyquorum/share-recovery-backend/metrics"
	"github.com/keyquorum/share-recovery-backend/recovery"
	"github.com/keyquorum/share-recovery-backend/shareparse"
)

// maxBodySize is the maximum allowed request body size (1MB).
const maxBodySize = 1024 * 1024

// recoveryResponse is the JSON body returned for successful
// reconstructions. The secret is a decimal string so arbitrary-precision
// values survive every JSON consumer.
type recoveryResponse struct {
	Secret           string `json:"secret"`
	OutlierIndices   []int  `json:"outlier_indices"`
	MaxConsistent    int    `json:"max_consistent"`
	SubsetsEvaluated uint64 `json:"subsets_evaluated"`
}

// errorResponse is the JSON body returned for structured failures.
type errorResponse struct {
	Error         string `json:"error"`
	MaxConsistent int    `json:"max_consistent,omitempty"`
}

// Handler processes HTTP requests for the share recovery service.
type Handler struct {
	store         interfaces.ShareStore
	reconstructor *recovery.Reconstructor
	log           *slog.Logger
}

// NewHandler creates a handler. The store may be nil, in which case only the
// inline document endpoint is usable.
func NewHandler(store interfaces.ShareStore, reconstructor *recovery.Reconstructor, log *slog.Logger) *Handler {
	return &Handler{
		store:         store,
		reconstructor: reconstructor,
		log:           log,
	}
}

// HandleRecover reconstructs the secret from a share-set document carried in
// the request body.
//
// URL format: POST /api/recover
func (h *Handler) HandleRecover(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}

	set, err := shareparse.ParseShareSet(body)
	if err != nil {
		h.log.Debug("Rejected share-set document", "err", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.respondWithReconstruction(w, r, set)
}

// HandleSetRecover fetches a named share-set document from the configured
// store and reconstructs its secret.
//
// URL format: GET /api/sets/{set_name}/recover
func (h *Handler) HandleSetRecover(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		http.Error(w, "no share store configured", http.StatusNotImplemented)
		return
	}

	name, err := interfaces.NewSetName(r.PathValue("set_name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := h.store.FetchSet(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, interfaces.ErrSetNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, interfaces.ErrStoreUnavailable):
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
		default:
			h.log.Error("Share store fetch failed", slog.String("set", name.String()), "err", err)
			http.Error(w, "failed to fetch share set", http.StatusInternalServerError)
		}
		return
	}

	set, err := shareparse.ParseShareSet(data)
	if err != nil {
		h.log.Warn("Stored share-set document is invalid",
			slog.String("set", name.String()), "err", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	h.respondWithReconstruction(w, r, set)
}

// respondWithReconstruction runs the search and writes the JSON outcome.
func (h *Handler) respondWithReconstruction(w http.ResponseWriter, r *http.Request, set *interfaces.ShareSet) {
	start := time.Now()

	result, err := h.reconstructor.Reconstruct(r.Context(), set)
	if err != nil {
		if errors.Is(err, interfaces.ErrInsufficientConsistency) {
			metrics.ObserveReconstruction(metrics.OutcomeInsufficient, result.SubsetsEvaluated, 0, time.Since(start))
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
				Error:         "insufficient_consistency",
				MaxConsistent: result.MaxConsistent,
			})
			return
		}

		metrics.ObserveReconstruction(metrics.OutcomeError, 0, 0, time.Since(start))
		h.log.Error("Reconstruction failed", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	metrics.ObserveReconstruction(metrics.OutcomeSuccess, result.SubsetsEvaluated, len(result.OutlierIndices), time.Since(start))

	writeJSON(w, http.StatusOK, recoveryResponse{
		Secret:           result.Secret.String(),
		OutlierIndices:   result.OutlierIndices,
		MaxConsistent:    result.MaxConsistent,
		SubsetsEvaluated: result.SubsetsEvaluated,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
