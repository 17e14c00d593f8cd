package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/bimakw/ratemybags/internal/application/services"
	"github.com/bimakw/ratemybags/internal/domain/entities"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// errorStatus maps a service error to a response status and client message.
// fallback is used for unexpected failures.
func errorStatus(err error, fallback string) (int, string) {
	var encErr *entities.EncodingError
	switch {
	case errors.Is(err, entities.ErrInvalidRating),
		errors.Is(err, entities.ErrUnknownReaction),
		errors.Is(err, entities.ErrUnsupportedChain):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, entities.ErrPortfolioNotFound):
		return http.StatusNotFound, "Portfolio not found"
	case errors.Is(err, entities.ErrAlreadyMinted):
		return http.StatusConflict, "Portfolio already minted"
	case errors.Is(err, entities.ErrConnectivity):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, services.ErrMintingDisabled):
		return http.StatusServiceUnavailable, "Minting is not available"
	case errors.As(err, &encErr):
		return http.StatusInternalServerError, "Failed to encode metadata"
	default:
		return http.StatusInternalServerError, fallback
	}
}

func isValidAddress(addr string) bool {
	if len(addr) != 42 {
		return false
	}
	if !strings.HasPrefix(addr, "0x") {
		return false
	}
	return common.IsHexAddress(addr)
}

func isValidPortfolioID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil && len(id) == 36
}
