package common

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type ListResponse struct {
	Success    bool        `json:"success"`
	Count      int         `json:"count"`
	Pagination interface{} `json:"pagination,omitempty"`
	Data       interface{} `json:"data"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func RespondSuccess(w http.ResponseWriter, code int, data interface{}) {
	RespondWithJSON(w, code, SuccessResponse{Success: true, Data: data})
}

func RespondList(w http.ResponseWriter, count int, pagination interface{}, data interface{}) {
	RespondWithJSON(w, http.StatusOK, ListResponse{Success: true, Count: count, Pagination: pagination, Data: data})
}

// RespondWithError writes the error envelope for err. Server errors are logged
// with their cause and reported with a generic message.
func RespondWithError(w http.ResponseWriter, log *zap.Logger, err error) {
	code := HTTPStatusFromError(err)
	if code >= http.StatusInternalServerError && log != nil {
		log.Error("request failed", zap.Error(err))
	}
	RespondWithMessage(w, code, Message(err))
}

func RespondWithMessage(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Success: false, Error: message})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success":false,"error":"Server Error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
