package handler

import (
	"net/http"

	"counsel_hub/internal/api/middleware"
	"counsel_hub/internal/app/service"
	"counsel_hub/internal/common"
	"counsel_hub/internal/common/query"
	"counsel_hub/internal/domain/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AppointmentHandler struct {
	apptService *service.AppointmentService
	log         *zap.Logger
}

func NewAppointmentHandler(as *service.AppointmentService, log *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{apptService: as, log: log}
}

func (h *AppointmentHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)

	r.With(middleware.AdminOnly).Get("/", h.listAppointments)
	r.With(middleware.AdminOnly).Get("/counselor/{counselorId}", h.listForCounselor)

	r.Post("/", h.createAppointment)
	r.Get("/{id}", h.getAppointment)
	r.Put("/{id}", h.updateAppointment)
	r.Delete("/{id}", h.deleteAppointment)
}

func (h *AppointmentHandler) listAppointments(w http.ResponseWriter, r *http.Request) {
	opts, err := query.Parse(r.URL.Query(), repository.AppointmentQuerySchema)
	if err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	appts, total, err := h.apptService.List(r.Context(), opts)
	if err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	data, err := opts.Project(appts)
	if err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	common.RespondList(w, len(appts), opts.Pagination(total), data)
}

func (h *AppointmentHandler) listForCounselor(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrReject(w, r)
	if !ok {
		return
	}
	appts, err := h.apptService.ListForCounselor(r.Context(), identity, chi.URLParam(r, "counselorId"))
	if err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	common.RespondList(w, len(appts), nil, appts)
}

func (h *AppointmentHandler) getAppointment(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrReject(w, r)
	if !ok {
		return
	}
	appt, err := h.apptService.Get(r.Context(), identity, chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, appt)
}

func (h *AppointmentHandler) createAppointment(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrReject(w, r)
	if !ok {
		return
	}
	var in service.AppointmentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	appt, err := h.apptService.Create(r.Context(), identity, in)
	if err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	common.RespondSuccess(w, http.StatusCreated, appt)
}

func (h *AppointmentHandler) updateAppointment(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrReject(w, r)
	if !ok {
		return
	}
	var in service.AppointmentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	appt, err := h.apptService.Update(r.Context(), identity, chi.URLParam(r, "id"), in)
	if err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, appt)
}

func (h *AppointmentHandler) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityOrReject(w, r)
	if !ok {
		return
	}
	if err := h.apptService.Delete(r.Context(), identity, chi.URLParam(r, "id")); err != nil {
		common.RespondWithError(w, h.log, err)
		return
	}
	common.RespondSuccess(w, http.StatusOK, struct{}{})
}
