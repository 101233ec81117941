package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"go-bookstore/api/handlers"
	"go-bookstore/internal/config"
	"go-bookstore/internal/database"
	"go-bookstore/internal/mail"
	"go-bookstore/internal/metrics"
	"go-bookstore/internal/services"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if err := database.SeedGenres(db); err != nil {
		logger.Error("genre seeding failed", "error", err)
		os.Exit(1)
	}

	var mailer interface {
		mail.Notifier
		mail.VerificationSender
	}
	if cfg.Mail.Enabled() {
		mailer = mail.NewSMTPMailer(cfg.Mail, logger)
	} else {
		logger.Warn("no SMTP server configured, mail delivery disabled")
		mailer = mail.NewLogMailer(logger)
	}

	orderMetrics := metrics.NewOrderMetrics(prometheus.DefaultRegisterer)

	userService := services.NewUserService(db, cfg.SecretKey, cfg.TokenTTL, cfg.Domain, mailer, logger)
	bookService := services.NewBookService(db)
	genreService := services.NewGenreService(db)
	basketService := services.NewBasketService(db)
	wishlistService := services.NewWishlistService(db)
	orderService := services.NewOrderService(db, mailer, orderMetrics, logger)

	if err := userService.EnsureAdmin(context.Background(), cfg.AdminPassword); err != nil {
		logger.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	}

	router := setupRouter(cfg,
		handlers.NewUserHandler(userService),
		handlers.NewBookHandler(bookService),
		handlers.NewGenreHandler(genreService),
		handlers.NewBasketHandler(basketService),
		handlers.NewWishlistHandler(wishlistService),
		handlers.NewOrderHandler(orderService),
		userService,
	)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}

func setupRouter(
	cfg *config.Config,
	userHandler *handlers.UserHandler,
	bookHandler *handlers.BookHandler,
	genreHandler *handlers.GenreHandler,
	basketHandler *handlers.BasketHandler,
	wishlistHandler *handlers.WishlistHandler,
	orderHandler *handlers.OrderHandler,
	userService *services.UserService,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/signup", userHandler.Signup)
			auth.POST("/token", userHandler.Token)
			auth.GET("/verify/:token", userHandler.Verify)
		}

		api.GET("/books", bookHandler.ListBooks)
		api.GET("/books/:id", bookHandler.GetBook)
		api.GET("/books/:id/genres", bookHandler.GetBookGenres)
		api.GET("/genres", genreHandler.ListGenres)

		me := api.Group("/users/me", handlers.AuthRequired(userService))
		{
			me.GET("", userHandler.GetMe)
			me.PATCH("", userHandler.UpdateMe)

			me.GET("/basket", basketHandler.GetBasket)
			me.POST("/basket", basketHandler.AddToBasket)
			me.PATCH("/basket/:book_id", basketHandler.UpdateBasketItem)
			me.DELETE("/basket/:book_id", basketHandler.RemoveFromBasket)
			me.DELETE("/basket", basketHandler.ClearBasket)

			me.GET("/wishlist", wishlistHandler.GetWishlist)
			me.POST("/wishlist/:book_id", wishlistHandler.AddToWishlist)
			me.DELETE("/wishlist/:book_id", wishlistHandler.RemoveFromWishlist)
			me.DELETE("/wishlist", wishlistHandler.ClearWishlist)

			me.POST("/orders", orderHandler.CreateOrder)
			me.GET("/orders", orderHandler.GetMyOrders)
		}

		admin := api.Group("/admin", handlers.AuthRequired(userService), handlers.AdminRequired())
		{
			admin.POST("/books", bookHandler.CreateBook)
			admin.PATCH("/books/:id", bookHandler.UpdateBook)
			admin.DELETE("/books/:id", bookHandler.DeleteBook)
			admin.POST("/books/:id/genres/:genre_id", bookHandler.AddBookGenre)
			admin.DELETE("/books/:id/genres/:genre_id", bookHandler.RemoveBookGenre)
			admin.POST("/books/:id/supply", bookHandler.AdjustSupply)

			admin.POST("/genres", genreHandler.CreateGenre)
			admin.DELETE("/genres/:id", genreHandler.DeleteGenre)

			admin.GET("/users", userHandler.ListUsers)
			admin.PATCH("/users/:id/disabled", userHandler.SetUserDisabled)
			admin.GET("/users/:id/orders", orderHandler.GetUserOrders)
			admin.PATCH("/orders/:id", orderHandler.UpdateOrderStatus)
		}
	}

	return router
}
