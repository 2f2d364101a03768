package main

import (
	"github.com/julienschmidt/httprouter"
)

// SetupLoanRoutes injects loan related the api endpoints.
func (api *APIHandler) SetupLoanRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.POST("/api/loans", m.public(api.CreateLoan))
	router.GET("/api/loans", m.public(api.FindLoans))
	router.PATCH("/api/loans/:id", m.public(api.ReturnLoan))
	return router
}
