package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/vanshika/netpath/internal/domain"
	"github.com/vanshika/netpath/internal/service"
)

// PathService is the query surface the handlers need.
type PathService interface {
	ShortestPath(ctx context.Context, start, end int64) (domain.PathResult, error)
	BatchShortestPaths(ctx context.Context, pairs []domain.NodePair) ([]domain.PathResult, error)
	Nodes(ctx context.Context) ([]domain.Node, error)
	Graph(ctx context.Context) (domain.GraphData, error)
	Stats() service.Stats
}

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger   *slog.Logger
	service  PathService
	validate *validator.Validate
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc PathService) *APIHandlers {
	return &APIHandlers{
		logger:   logger,
		service:  svc,
		validate: validator.New(),
	}
}

type pathResponse struct {
	PathNodes  []int64         `json:"path_nodes"`
	PathEdges  []string        `json:"path_edges"`
	Distance   domain.Distance `json:"distance"`
	PathLabels []string        `json:"path_labels"`
	Error      string          `json:"error,omitempty"`
}

type batchRequest struct {
	Pairs []pairRequest `json:"pairs" validate:"required,min=1,dive"`
}

type pairRequest struct {
	Start *int64 `json:"start" validate:"required"`
	End   *int64 `json:"end" validate:"required"`
}

type batchResponse struct {
	Results []pathResponse `json:"results"`
}

func toPathResponse(res domain.PathResult) pathResponse {
	out := pathResponse{
		PathNodes:  res.Nodes,
		PathEdges:  res.Edges,
		Distance:   res.Distance,
		PathLabels: res.Labels,
	}
	if out.PathNodes == nil {
		out.PathNodes = []int64{}
	}
	if out.PathEdges == nil {
		out.PathEdges = []string{}
	}
	if out.PathLabels == nil {
		out.PathLabels = []string{}
	}
	switch {
	case errors.Is(res.Err, domain.ErrNodeNotFound):
		out.Error = domain.ErrNodeNotFound.Error()
	case res.Err != nil:
		out.Error = res.Err.Error()
	}
	return out
}

func (h *APIHandlers) handleNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.service.Nodes(r.Context())
	if err != nil {
		h.serviceError(w, err, "failed to list nodes")
		return
	}
	respondJSON(w, http.StatusOK, nodes)
}

func (h *APIHandlers) handleGraph(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Graph(r.Context())
	if err != nil {
		h.serviceError(w, err, "failed to export graph")
		return
	}
	respondJSON(w, http.StatusOK, data)
}

func (h *APIHandlers) handleShortestPath(w http.ResponseWriter, r *http.Request) {
	start, errStart := strconv.ParseInt(r.PathValue("start"), 10, 64)
	end, errEnd := strconv.ParseInt(r.PathValue("end"), 10, 64)
	if errStart != nil || errEnd != nil {
		writeError(w, http.StatusBadRequest, "node ids must be integers")
		return
	}

	res, err := h.service.ShortestPath(r.Context(), start, end)
	if err != nil {
		h.serviceError(w, err, "failed to compute shortest path")
		return
	}

	status := http.StatusOK
	if res.Err != nil {
		status = http.StatusNotFound
	}
	respondJSON(w, status, toPathResponse(res))
}

func (h *APIHandlers) handleBatchShortestPaths(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, describeValidation(err))
		return
	}

	pairs := make([]domain.NodePair, len(req.Pairs))
	for i, p := range req.Pairs {
		pairs[i] = domain.NodePair{Start: *p.Start, End: *p.End}
	}

	results, err := h.service.BatchShortestPaths(r.Context(), pairs)
	if err != nil {
		if errors.Is(err, service.ErrTooManyPairs) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.serviceError(w, err, "failed to compute shortest paths")
		return
	}

	resp := batchResponse{Results: make([]pathResponse, len(results))}
	for i, res := range results {
		resp.Results[i] = toPathResponse(res)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) serviceError(w http.ResponseWriter, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrNotLoaded):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request canceled")
	default:
		h.logger.Error(msg, "error", err)
		writeError(w, http.StatusInternalServerError, msg)
	}
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("field %s failed %q constraint", fe.Namespace(), fe.Tag())
	}
	return err.Error()
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}
