// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cellinfo

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yardmap/internal/platform/middleware"
	requestutil "github.com/taibuivan/yardmap/internal/platform/request"
	"github.com/taibuivan/yardmap/internal/platform/respond"
	"github.com/taibuivan/yardmap/internal/platform/sec"
)

// Handler implements the HTTP layer for container records.
type Handler struct {
	service *Service
}

// NewHandler constructs a new cellinfo [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the container record endpoints. Every route requires at
// least [sec.RoleStaff].
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Route("/cell-info", func(staff chi.Router) {
		staff.Use(middleware.RequireRole(sec.RoleStaff))

		staff.Get("/", handler.list)
		staff.Get("/options", handler.options)
		staff.Post("/", handler.create)
		staff.Post("/move", handler.move)
		staff.Get("/{cellID}", handler.get)
		staff.Put("/{cellID}", handler.update)
		staff.Delete("/{cellID}", handler.delete)
	})
}

// optionsResponse lists the closed vocabularies for the record form.
type optionsResponse struct {
	ShippingLines []string `json:"shipping_lines"`
	Sizes         []string `json:"sizes"`
	Types         []string `json:"types"`
	CellStatuses  []string `json:"cell_statuses"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	records, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, records)
}

func (handler *Handler) options(writer http.ResponseWriter, _ *http.Request) {
	respond.OK(writer, optionsResponse{
		ShippingLines: ShippingLines,
		Sizes:         Sizes,
		Types:         Types,
		CellStatuses:  Statuses,
	})
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	info, err := handler.service.Get(request.Context(), requestutil.Param(request, "cellID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, info)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	info, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, info)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	info, err := handler.service.Update(request.Context(), requestutil.Param(request, "cellID"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, info)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "cellID")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) move(writer http.ResponseWriter, request *http.Request) {
	var input MoveInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	info, err := handler.service.Move(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, info)
}
