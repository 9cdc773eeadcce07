package router

import (
	"github.com/RoyceAzure/lab/bookstore/internal/api"
	m "github.com/RoyceAzure/lab/bookstore/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func SetupRouter(server *api.Server, logger *zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	r.Use(middleware.RealIP)
	r.Use(m.LoggerMiddleware(logger))

	// API 路由
	r.Route("/api/v1", func(r chi.Router) {
		//購物車相關路由
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", server.CartHandler.GetCart)
			r.Delete("/", server.CartHandler.Clear)
			r.Post("/items", server.CartHandler.AddItem)
			r.Put("/items", server.CartHandler.UpdateItem)
			r.Delete("/items", server.CartHandler.RemoveItem)
		})
		//訂單相關路由
		r.Route("/orders", func(r chi.Router) {
			r.Post("/", server.OrderHandler.PlaceOrder)
			r.Get("/", server.OrderHandler.ListOrders)
			r.Post("/fulfill", server.OrderHandler.FulfillOrder)
			//購買紀錄檢查
			r.Get("/purchased", server.OrderHandler.CheckPurchase)
			r.Get("/{order_id}", server.OrderHandler.GetOrder)
			r.Post("/{order_id}/cancel", server.OrderHandler.CancelOrder)
		})
	})

	return r
}
