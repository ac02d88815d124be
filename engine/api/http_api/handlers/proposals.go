package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ajolabs/ajo-multisig/engine/api/dto"
	cs "github.com/ajolabs/ajo-multisig/engine/api/http_api/context_service"
	req "github.com/ajolabs/ajo-multisig/engine/api/http_api/requests"
	"github.com/ajolabs/ajo-multisig/engine/api/http_api/responses"
)

func (a *HTTPApp) CreateProposal(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.CreateProposalForm{}

	if err := stx.BindToRequest(request); err != nil {
		return err
	}

	formDTO := &dto.CreateProposalDTO{
		GroupID:          request.GroupID,
		ProposerAddr:     request.ProposerAddr,
		Operation:        request.Operation,
		Payload:          request.Payload,
		Metadata:         request.Metadata,
		ExpiresInSeconds: request.ExpiresInSeconds,
	}

	proposal, err := a.proposal.CreateProposal(formDTO)
	if err != nil {
		return jsonServiceError(stx, err)
	}

	return stx.Json(http.StatusOK, proposal)
}

func (a *HTTPApp) SignProposal(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.SignProposalForm{}
	formDTO := &dto.SignProposalDTO{}

	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	result, err := a.proposal.SignProposal(formDTO)
	if err != nil {
		return jsonServiceError(stx, err)
	}

	return stx.Json(http.StatusOK, result)
}

func (a *HTTPApp) ExecuteProposal(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.ProposalIdForm{}
	formDTO := &dto.ProposalIdDTO{}

	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	result, err := a.proposal.ExecuteProposal(formDTO)
	if err != nil {
		return jsonServiceError(stx, err)
	}

	return stx.Json(http.StatusOK, result)
}

func (a *HTTPApp) GetProposal(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.ProposalIdForm{}
	formDTO := &dto.ProposalIdDTO{}

	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	proposal, err := a.proposal.GetProposal(formDTO)
	if err != nil {
		return jsonServiceError(stx, err)
	}

	return stx.Json(http.StatusOK, proposal)
}

func (a *HTTPApp) GetGroupProposals(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.GroupProposalsForm{}
	formDTO := &dto.GroupProposalsDTO{}

	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	proposals, err := a.proposal.GetGroupProposals(formDTO)
	if err != nil {
		return jsonServiceError(stx, err)
	}

	return stx.Json(http.StatusOK, proposals)
}

// SweepExpired is the internal/cron entry point; the daemon's background
// sweeper calls the same service method on its own interval.
func (a *HTTPApp) SweepExpired(c echo.Context) error {
	stx := c.(*cs.ContextService)

	count, err := a.proposal.SweepExpired()
	if err != nil {
		return jsonServiceError(stx, err)
	}

	return stx.Json(http.StatusOK, &responses.SweepResponse{
		ExpiredCount: count,
	})
}
