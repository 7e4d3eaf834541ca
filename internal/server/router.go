package server

import (
	"net/http"
	"time"

	handler "auction-bff/services/bidding/handler"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// Service is everything the HTTP layer needs from the bidding service
type Service interface {
	handler.BiddingServiceInterface
	CountdownSource
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(biddingService Service, stream *CountdownStream) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	biddingHandler := handler.NewBiddingHandler(biddingService)
	if stream == nil {
		stream = NewCountdownStream(biddingService, DefaultStreamConfig())
	}

	router.GET("/health", biddingHandler.HealthHandler)

	bids := router.Group("/bids")
	{
		bids.POST("", biddingHandler.PlaceBidHandler)
		bids.POST("/check", biddingHandler.CheckBidHandler)
	}

	products := router.Group("/products")
	{
		products.GET("", biddingHandler.ListProductsHandler)
		products.GET("/:product_key/highest-bid", biddingHandler.GetHighestBidHandler)
		products.GET("/:product_key/bids", biddingHandler.GetProductBidsHandler)
		products.GET("/:product_key/outcomes", biddingHandler.GetProductOutcomesHandler)
	}

	auctions := router.Group("/auctions")
	{
		auctions.GET("", biddingHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id/products", biddingHandler.GetAuctionProductsHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/:user_id/bids", biddingHandler.GetBidsByUserHandler)
	}

	router.GET("/countdown", biddingHandler.GetCountdownHandler)
	router.GET("/countdown/ws", stream.Handler)

	return router
}

// NewHTTPServer wraps the router with CORS for the configured origins
func NewHTTPServer(addr string, router http.Handler, allowedOrigins []string) *http.Server {
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedOrigins: allowedOrigins,
		AllowedHeaders: []string{"*"},
	})

	return &http.Server{
		Addr:              addr,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
