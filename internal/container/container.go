package container

import (
	"context"
	"fmt"
	"time"

	"ecomm/datagen/internal/client"
	"ecomm/datagen/internal/config"
	"ecomm/datagen/internal/invoker"
	"ecomm/datagen/internal/prompt"
	"ecomm/datagen/internal/repository"
	"ecomm/datagen/internal/service"

	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config  *config.Config
	Client  client.LLMClient
	Writer  repository.DatasetWriter
	Service *service.Service
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	llmClient, err := client.NewLLMClient(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	container.Client = llmClient
	log.Infof("✅ Using %s model %s at %s", llmClient.Name(), cfg.LLM.Model, cfg.LLM.BaseURL)

	container.Writer = repository.NewDatasetWriter(cfg.Output)

	prompts := prompt.Builder{
		Theme:      cfg.Generator.Theme,
		Categories: cfg.Generator.Categories,
		Products:   cfg.Generator.Products,
		Users:      cfg.Generator.Users,
	}

	container.Service = service.NewService(
		invoker.New(llmClient, time.Duration(cfg.LLM.Timeout)*time.Second),
		prompts,
		container.Writer,
	)

	return container, nil
}

// Run generates one dataset and writes it
func (c *Container) Run(ctx context.Context) error {
	_, err := c.Service.Run(ctx)
	return err
}
