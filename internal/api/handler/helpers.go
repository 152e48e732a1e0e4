package handler

import (
	"encoding/json"
	"net/http"

	"counsel_hub/internal/api/middleware"
	"counsel_hub/internal/common"
	"counsel_hub/internal/domain/model"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		common.RespondWithMessage(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	return true
}

func identityOrReject(w http.ResponseWriter, r *http.Request) (model.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		common.RespondWithMessage(w, http.StatusUnauthorized, "Not authorized to access this route")
	}
	return identity, ok
}
