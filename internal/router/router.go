// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// catalog API. Reads are public; writes are grouped behind auth with
// staff or admin requirements per route.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bankcat/internal/handlers"
	"bankcat/internal/middleware"
	"bankcat/internal/session"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. The login limiter may be nil to disable
// rate limiting on the login endpoint.
func New(
	sessionStore *session.Store,
	loginLimiter *middleware.RateLimiter,
	auth *handlers.Auth,
	users *handlers.Users,
	cat *handlers.Catalog,
	inst *handlers.Institutions,
	coll *handlers.Collections,
	rev *handlers.Reviews,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadIdentity(sessionStore))

	// Health check.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		// Auth.
		r.Group(func(r chi.Router) {
			if loginLimiter != nil {
				r.Use(loginLimiter.Middleware)
			}
			r.Post("/auth/login", auth.Login)
		})
		r.Post("/auth/logout", auth.Logout)
		r.With(middleware.RequireAuth).Get("/auth/me", auth.Me)

		// User management.
		r.Route("/users", func(r chi.Router) {
			r.With(middleware.RequireAuth).Put("/{id}/password", users.ChangePassword)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", users.List)
				r.Post("/", users.Create)
				r.Delete("/{id}", users.Delete)
			})
		})

		// Categories.
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", cat.ListCategories)
			r.Get("/hierarchy", cat.CategoryHierarchy)
			r.Get("/slug/{slug}", cat.GetCategoryBySlug)
			r.Get("/{id}", cat.GetCategory)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", cat.CreateCategory)
				r.Put("/{id}", cat.UpdateCategory)
				r.Delete("/{id}", cat.DeleteCategory)
			})
		})

		// Product types.
		r.Route("/product-types", func(r chi.Router) {
			r.Get("/", cat.ListProductTypes)
			r.Get("/code/{code}", cat.GetProductTypeByCode)
			r.Get("/{id}/schema", cat.TypeSchema)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", cat.CreateProductType)
				r.Put("/{id}", cat.UpdateProductType)
				r.Delete("/{id}", cat.DeleteProductType)
			})
		})

		// Institution types.
		r.Route("/institution-types", func(r chi.Router) {
			r.Get("/", inst.ListTypes)
			r.Get("/code/{code}", inst.GetTypeByCode)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", inst.CreateType)
				r.Delete("/{id}", inst.DeleteType)
			})
		})

		// Institutions.
		r.Route("/institutions", func(r chi.Router) {
			r.Get("/", inst.List)
			r.Get("/slug/{slug}", inst.GetBySlug)
			r.Get("/{id}", inst.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/", inst.Create)
				r.Put("/{id}", inst.Update)
				r.Delete("/{id}", inst.Delete)
			})
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff)
				r.Post("/{id}/logo", inst.UploadLogo)
				r.Delete("/{id}/logo", inst.DeleteLogo)
			})
		})

		// Products. Institution scoping inside the handlers decides
		// which staff may write which product.
		r.Route("/products", func(r chi.Router) {
			r.Get("/", cat.ListProducts)
			r.Get("/{id}", cat.GetProduct)
			r.Get("/{id}/versions", cat.ListProductVersions)
			r.Get("/{id}/versions/{number}", cat.GetProductVersion)
			r.Get("/{id}/rates", cat.ListRateHistory)
			r.Get("/{id}/rates/latest", cat.LatestRate)
			r.Get("/{id}/reviews", rev.ListByProduct)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff)
				r.Post("/", cat.CreateProduct)
				r.Put("/{id}", cat.UpdateProduct)
				r.Patch("/{id}/active", cat.SetProductActive)
				r.Delete("/{id}", cat.DeleteProduct)
				r.Post("/{id}/rates", cat.AddRateEntry)
				r.Post("/{id}/tags/{tagID}", cat.TagProduct)
				r.Delete("/{id}/tags/{tagID}", cat.UntagProduct)
			})
			r.With(middleware.RequireAdmin).Delete("/{id}/history", cat.PurgeProductHistory)
			r.With(middleware.RequireAuth).Post("/{id}/reviews", rev.Create)
		})

		// Tags.
		r.Route("/tags", func(r chi.Router) {
			r.Get("/", cat.ListTags)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStaff)
				r.Post("/", cat.CreateTag)
				r.Delete("/{id}", cat.DeleteTag)
			})
		})

		// Reviews.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Put("/reviews/{id}", rev.Update)
			r.Delete("/reviews/{id}", rev.Delete)
		})

		// Per-user collections.
		r.Route("/me", func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/saved", coll.SavedProducts)
			r.Post("/saved/{id}", coll.SaveProduct)
			r.Delete("/saved/{id}", coll.UnsaveProduct)

			r.Route("/compare-lists", func(r chi.Router) {
				r.Get("/", coll.CompareLists)
				r.Post("/", coll.CreateCompareList)
				r.Get("/{id}/products", coll.CompareListProducts)
				r.Put("/{id}", coll.UpdateCompareList)
				r.Delete("/{id}", coll.DeleteCompareList)
			})

			r.Route("/shared-links", func(r chi.Router) {
				r.Get("/", coll.SharedLinks)
				r.Post("/", coll.CreateSharedLink)
				r.Delete("/{id}", coll.DeleteSharedLink)
			})
		})

		// Shared link resolution is public.
		r.Get("/shared/{token}", coll.ResolveSharedLink)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
