package factory

import (
	"fmt"

	"github.com/Syedwafeeq/DECEPTA/internal/adapters/eml"
	"github.com/Syedwafeeq/DECEPTA/internal/adapters/filter"
	"github.com/Syedwafeeq/DECEPTA/internal/config"
	"github.com/Syedwafeeq/DECEPTA/internal/core"
	"github.com/Syedwafeeq/DECEPTA/internal/ports"
	"go.uber.org/zap"
)

// FilterFactory creates message filters based on configuration.
type FilterFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *core.DetectionService
	decoder *eml.Decoder
}

// NewFilterFactory creates a new filter factory.
func NewFilterFactory(cfg *config.Config, logger *zap.Logger, service *core.DetectionService, decoder *eml.Decoder) *FilterFactory {
	return &FilterFactory{
		cfg:     cfg,
		logger:  logger,
		service: service,
		decoder: decoder,
	}
}

// CreateMessageFilter creates a message filter based on the configuration.
func (f *FilterFactory) CreateMessageFilter() (ports.MessageFilter, error) {
	filterType := f.cfg.GetString("server.filter_type")

	switch filterType {
	case "smtp":
		return filter.NewSMTPFilter(
			f.service,
			f.decoder,
			f.logger,
			f.cfg.GetString("server.listen_address"),
			f.cfg.GetBool("server.block_high_risk"),
			f.cfg.GetString("server.headers.decision"),
			f.cfg.GetString("server.headers.score"),
			f.cfg.GetString("server.headers.reason"),
			f.cfg.GetString("server.postfix.address"),
			f.cfg.GetInt("server.postfix.port"),
			f.cfg.GetBool("server.postfix.enabled"),
			f.cfg.GetString("server.subject_prefix"),
			f.cfg.GetBool("server.modify_subject"),
		), nil
	case "cli":
		return filter.NewCliFilter(f.service, f.logger, f.cfg.GetBool("cli.verbose"))
	default:
		return nil, fmt.Errorf("unsupported filter type: %s", filterType)
	}
}
