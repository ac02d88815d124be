package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/ajolabs/ajo-multisig/engine/config"
	"github.com/ajolabs/ajo-multisig/engine/eventlog"
	"github.com/ajolabs/ajo-multisig/engine/modules/logger"
	"github.com/ajolabs/ajo-multisig/engine/modules/state"
	"github.com/ajolabs/ajo-multisig/engine/modules/verifier"
	proposal_repo "github.com/ajolabs/ajo-multisig/engine/repositories/proposal"
	registry_repo "github.com/ajolabs/ajo-multisig/engine/repositories/registry"
	"github.com/ajolabs/ajo-multisig/engine/services/dispatcher"
	proposal_service "github.com/ajolabs/ajo-multisig/engine/services/proposal"
	registry_service "github.com/ajolabs/ajo-multisig/engine/services/registry"
)

// ServiceProvider wires repositories, modules and services for the daemon and
// hands them to the API layer.
type ServiceProvider struct {
	state    state.State
	logger   logger.Logger
	eventLog eventlog.EventLog

	registryService registry_service.RegistryService
	proposalService proposal_service.ProposalService
}

func InitServices(cfg *config.Config) (*ServiceProvider, error) {
	engineLogger, err := buildLogger(cfg)
	if err != nil {
		return nil, err
	}

	engineState, err := state.NewLevelDBState(cfg.StateDBDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to init state: %w", err)
	}

	eventLog, err := buildEventLog(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init event log: %w", err)
	}

	registryRepo := registry_repo.NewRegistryRepo(engineState)
	proposalRepo := proposal_repo.NewProposalRepo(engineState)

	ledgerDispatcher := dispatcher.NewHTTPLedgerDispatcher(
		cfg.LedgerClientConfig.SubmitURL,
		cfg.LedgerClientConfig.Timeout,
	)

	provider := &ServiceProvider{
		state:    engineState,
		logger:   engineLogger,
		eventLog: eventLog,

		registryService: registry_service.NewRegistryService(registryRepo),
		proposalService: proposal_service.NewProposalService(
			proposalRepo,
			registryRepo,
			verifier.NewEd25519Verifier(),
			ledgerDispatcher,
			eventLog,
			engineLogger,
		),
	}

	return provider, nil
}

func (p *ServiceProvider) GetState() state.State {
	return p.state
}

func (p *ServiceProvider) GetLogger() logger.Logger {
	return p.logger
}

func (p *ServiceProvider) GetEventLog() eventlog.EventLog {
	return p.eventLog
}

func (p *ServiceProvider) GetRegistryService() registry_service.RegistryService {
	return p.registryService
}

func (p *ServiceProvider) GetProposalService() proposal_service.ProposalService {
	return p.proposalService
}

func buildLogger(cfg *config.Config) (logger.Logger, error) {
	if cfg.LogFile != "" {
		return logger.NewFileLogger("ajo-multisig", cfg.LogFile)
	}
	return logger.NewLogger("ajo-multisig"), nil
}

func buildEventLog(cfg *config.Config) (eventlog.EventLog, error) {
	if cfg.KafkaEventLogConfig != nil && cfg.KafkaEventLogConfig.Enabled {
		tlsConfig, err := eventlog.GetTLSConfig(cfg.KafkaEventLogConfig.TrustStorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create tls config: %w", err)
		}

		producerCreds, err := parseKafkaAuthCredentials(cfg.KafkaEventLogConfig.ProducerCredentials)
		if err != nil {
			return nil, err
		}

		timeout := cfg.KafkaEventLogConfig.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}

		return eventlog.NewKafkaEventLog(
			cfg.KafkaEventLogConfig.BrokerEndpoint,
			cfg.KafkaEventLogConfig.Topic,
			tlsConfig,
			producerCreds,
			timeout,
		), nil
	}

	return eventlog.NewFileEventLog(cfg.EventLogFile)
}

func parseKafkaAuthCredentials(creds string) (*plain.Mechanism, error) {
	if creds == "" {
		return nil, nil
	}

	credsSplit := strings.SplitN(creds, ":", 2)
	if len(credsSplit) == 1 {
		return nil, fmt.Errorf("failed to parse kafka credentials")
	}

	return &plain.Mechanism{
		Username: credsSplit[0],
		Password: credsSplit[1],
	}, nil
}
