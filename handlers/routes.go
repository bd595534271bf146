package handlers

import (
	"net/http"

	"github.com/hey-kuldeep/expense-xtrac/middleware"

	"github.com/gin-gonic/gin"
)

// BasePath prefixes every API route.
const BasePath = "/xtrac"

type RouterConfig struct {
	Users        UserDirectory
	Expenses     ExpenseLedger
	Health       Pinger
	EventMetrics http.HandlerFunc
	CORSOrigin   string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.SetTrustedProxies([]string{"127.0.0.1", "localhost"}) // Only trust local proxies

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CorsMiddleware(cfg.CORSOrigin))

	if cfg.Health != nil {
		router.GET("/healthz", HandleHealth(cfg.Health))
	}

	userHandler := NewUserHandler(cfg.Users)
	expenseHandler := NewExpenseHandler(cfg.Expenses)

	api := router.Group(BasePath)
	{
		api.POST("/signup", userHandler.HandleSignup)
		api.POST("/login", userHandler.HandleLogin)

		api.POST("/exp", expenseHandler.HandleCreate)
		api.GET("/getlist", expenseHandler.HandleList)
		api.PUT("/updatexp", expenseHandler.HandleUpdate)
		api.DELETE("/deletexp", expenseHandler.HandleDelete)

		if cfg.EventMetrics != nil {
			api.GET("/metrics/events", gin.WrapF(cfg.EventMetrics))
		}
	}

	return router
}
