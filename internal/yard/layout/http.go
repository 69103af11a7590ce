// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package layout

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yardmap/internal/platform/middleware"
	requestutil "github.com/taibuivan/yardmap/internal/platform/request"
	"github.com/taibuivan/yardmap/internal/platform/respond"
	"github.com/taibuivan/yardmap/internal/platform/sec"
)

// # Handler Implementation

// Handler implements the HTTP layer for the yard map editor.
type Handler struct {
	service *Service
}

// NewHandler constructs a new layout [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the layout and category endpoints on router.
//
// # Routing Strategy
//
//   - Viewing (Public): The map and the category legend.
//   - Editing (Restricted): Requires [sec.RoleAdmin] for every mutation.
func (handler *Handler) RegisterRoutes(router chi.Router) {

	// ## Public Map Endpoints
	router.Get("/layout", handler.getLayout)
	router.Get("/categories", handler.listCategories)

	// ## Map Editing (Admin Protected)
	router.Group(func(admin chi.Router) {
		admin.Use(middleware.RequireRole(sec.RoleAdmin))

		admin.Put("/layout/dimensions", handler.resize)

		admin.Post("/categories/check-unique", handler.checkUnique)
		admin.Post("/categories", handler.createCategory)
		admin.Put("/categories/{id}", handler.updateCategory)
		admin.Delete("/categories/{id}", handler.deleteCategory)
	})
}

// # Request Payloads

type resizeRequest struct {
	MapLength int `json:"map_length"`
	MapWidth  int `json:"map_width"`
}

type checkUniqueRequest struct {
	Name      string `json:"name"`
	ExcludeID int64  `json:"exclude_id"`
}

type checkUniqueResponse struct {
	Unique bool `json:"unique"`
}

// # Map Viewing

func (handler *Handler) getLayout(writer http.ResponseWriter, request *http.Request) {
	snapshot, err := handler.service.Snapshot(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, snapshot)
}

func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.ListCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

// # Map Editing

func (handler *Handler) resize(writer http.ResponseWriter, request *http.Request) {
	var input resizeRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Resize(request.Context(), input.MapLength, input.MapWidth)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, result)
}

func (handler *Handler) checkUnique(writer http.ResponseWriter, request *http.Request) {
	var input checkUniqueRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	unique, err := handler.service.IsNameUnique(request.Context(), input.Name, input.ExcludeID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, checkUniqueResponse{Unique: unique})
}

func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	var input CategoryInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	change, err := handler.service.CreateCategory(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, change)
}

func (handler *Handler) updateCategory(writer http.ResponseWriter, request *http.Request) {
	categoryID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CategoryInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	change, err := handler.service.UpdateCategory(request.Context(), categoryID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, change)
}

func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	categoryID, err := requestutil.Int64Param(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	removal, err := handler.service.DeleteCategory(request.Context(), categoryID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, removal)
}
