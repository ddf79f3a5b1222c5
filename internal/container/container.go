// Package container provides dependency injection for the statement-csv
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"fmt"

	"fjacquet/statement-csv/internal/config"
	"fjacquet/statement-csv/internal/logging"
	"fjacquet/statement-csv/internal/models"
	"fjacquet/statement-csv/internal/section"
	"fjacquet/statement-csv/internal/standardizer"
	"fjacquet/statement-csv/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
// It acts as the central registry for dependency injection, ensuring that all
// components receive their required dependencies through constructors.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger       logging.Logger
	config       *config.Config
	reference    *models.Reference
	processor    *section.Processor
	standardizer *standardizer.Service
}

// NewContainer creates and wires all application dependencies, logging
// through a logrus adapter configured from cfg.
//
// Parameters:
//   - cfg: Application configuration
//
// Returns:
//   - *Container: Fully wired container with all dependencies
//   - error: Any error encountered during dependency creation
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	return NewContainerWithLogger(cfg, logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format))
}

// NewContainerWithLogger is NewContainer with an explicit logger.
func NewContainerWithLogger(cfg *config.Config, logger logging.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	return NewContainerWithLoader(cfg, logger, store.NewReferenceStore(cfg.Reference.File, logger))
}

// NewContainerWithLoader wires the container around an explicit reference
// data source.
func NewContainerWithLoader(cfg *config.Config, logger logging.Logger, loader store.ReferenceLoader) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	reference, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}

	processor := section.NewProcessor(section.Config{
		Cardholders:       cfg.Identity.Cardholders,
		DefaultCardholder: cfg.Identity.DefaultCardholder,
		Reference:         reference,
	}, logger.WithField(logging.FieldComponent, "section"))

	service := standardizer.NewService(processor, logger.WithField(logging.FieldComponent, "standardizer"))

	logger.Debug("Container initialized successfully",
		logging.F("cardholders", len(cfg.Identity.Cardholders)),
		logging.F("cities", len(reference.Cities)),
		logging.F("banks", len(reference.Banks)))

	return &Container{
		logger:       logger,
		config:       cfg,
		reference:    reference,
		processor:    processor,
		standardizer: service,
	}, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetReference returns the reference data the pipeline was built with.
func (c *Container) GetReference() *models.Reference {
	return c.reference
}

// GetProcessor returns the section-aware row processor.
func (c *Container) GetProcessor() *section.Processor {
	return c.processor
}

// GetStandardizer returns the standardization service.
func (c *Container) GetStandardizer() *standardizer.Service {
	return c.standardizer
}

// Close performs cleanup of container resources.
func (c *Container) Close() error {
	c.logger.Debug("Container closed")
	return nil
}
