package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ajolabs/ajo-multisig/engine/api/http_api/handlers"
	"github.com/ajolabs/ajo-multisig/engine/services"
)

func SetRouter(e *echo.Echo, sp *services.ServiceProvider) {
	h := handlers.NewHTTPApp(sp)

	e.POST("/createMultiSigConfig", h.CreateMultiSigConfig)
	e.GET("/getMultiSigConfig", h.GetMultiSigConfig)

	e.POST("/createProposal", h.CreateProposal)
	e.POST("/signProposal", h.SignProposal)
	e.POST("/executeProposal", h.ExecuteProposal)

	e.GET("/getProposal", h.GetProposal)
	e.GET("/getGroupProposals", h.GetGroupProposals)

	e.POST("/sweepExpired", h.SweepExpired)
}
