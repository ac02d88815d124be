package handlers

import (
	"github.com/ajolabs/ajo-multisig/engine/apierror"
	"github.com/ajolabs/ajo-multisig/engine/services"
	proposal_service "github.com/ajolabs/ajo-multisig/engine/services/proposal"
	registry_service "github.com/ajolabs/ajo-multisig/engine/services/registry"

	cs "github.com/ajolabs/ajo-multisig/engine/api/http_api/context_service"
)

type HTTPApp struct {
	registry registry_service.RegistryService
	proposal proposal_service.ProposalService
}

func NewHTTPApp(sp *services.ServiceProvider) *HTTPApp {
	return &HTTPApp{
		registry: sp.GetRegistryService(),
		proposal: sp.GetProposalService(),
	}
}

// jsonServiceError maps an engine failure onto its HTTP severity while
// keeping the stable machine code in the response body.
func jsonServiceError(stx *cs.ContextService, err error) error {
	return stx.JsonCodedError(apierror.HTTPStatusOf(err), apierror.CodeOf(err), err)
}
