package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ajolabs/ajo-multisig/engine/api/dto"
	cs "github.com/ajolabs/ajo-multisig/engine/api/http_api/context_service"
	req "github.com/ajolabs/ajo-multisig/engine/api/http_api/requests"
)

func (a *HTTPApp) CreateMultiSigConfig(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.CreateConfigForm{}
	formDTO := &dto.CreateConfigDTO{}

	if err := stx.BindToRequest(request); err != nil {
		return err
	}

	formDTO.GroupID = request.GroupID
	formDTO.Threshold = request.Threshold
	for _, signer := range request.Signers {
		formDTO.Signers = append(formDTO.Signers, dto.SignerEntryDTO{
			Addr:   signer.Addr,
			Weight: signer.Weight,
		})
	}

	config, err := a.registry.CreateConfig(formDTO)
	if err != nil {
		return jsonServiceError(stx, err)
	}

	return stx.Json(http.StatusOK, config)
}

func (a *HTTPApp) GetMultiSigConfig(c echo.Context) error {
	stx := c.(*cs.ContextService)

	request := &req.GroupIdForm{}
	formDTO := &dto.GroupIdDTO{}

	if err := stx.BindToDTO(request, formDTO); err != nil {
		return err
	}

	config, err := a.registry.GetConfig(formDTO)
	if err != nil {
		return jsonServiceError(stx, err)
	}

	return stx.Json(http.StatusOK, config)
}
