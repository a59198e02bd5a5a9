// Package app wires configuration, AWS clients and use cases into a handler.
// Both the Lambda and the local HTTP entrypoints build through here.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"capturadatos/handler"
	"capturadatos/internal/config"
	"capturadatos/internal/integrations/openai"
	"capturadatos/internal/integrations/paramstore"
	"capturadatos/internal/repository"
	"capturadatos/internal/usecase"
)

func Build(ctx context.Context, cfg config.Config, log *slog.Logger) (*handler.Handler, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("app: load AWS config: %w", err)
	}

	ssmClient, err := paramstore.New(awsssm.NewFromConfig(awsCfg))
	if err != nil {
		return nil, fmt.Errorf("app: create SSM client: %w", err)
	}
	params := paramstore.Overlay(localParams(cfg), ssmClient)

	openaiOpts := []openai.Option{
		openai.WithBaseURL(cfg.OpenAIBaseURL),
		openai.WithTimeout(cfg.OpenAITimeout),
	}
	if cfg.OpenAIAPIKey != "" {
		openaiOpts = append(openaiOpts, openai.WithAPIKey(cfg.OpenAIAPIKey))
	}
	openaiClient, err := openai.NewClient(params, cfg.ParamPrefix, openaiOpts...)
	if err != nil {
		return nil, fmt.Errorf("app: create OpenAI client: %w", err)
	}

	passwords, err := usecase.NewPasswordService(params, openaiClient, cfg.ModelParameter())
	if err != nil {
		return nil, fmt.Errorf("app: create password service: %w", err)
	}

	store, err := recordStore(awsCfg, cfg, log)
	if err != nil {
		return nil, err
	}
	records, err := usecase.NewRecordService(store, log)
	if err != nil {
		return nil, fmt.Errorf("app: create record service: %w", err)
	}

	h, err := handler.NewHandler(passwords, records, log)
	if err != nil {
		return nil, fmt.Errorf("app: create handler: %w", err)
	}
	return h, nil
}

// localParams holds configuration overrides that shadow SSM parameters.
func localParams(cfg config.Config) paramstore.Static {
	local := paramstore.Static{}
	if cfg.OpenAIModel != "" {
		local[cfg.ModelParameter()] = cfg.OpenAIModel
	}
	return local
}

func recordStore(awsCfg aws.Config, cfg config.Config, log *slog.Logger) (usecase.RecordStore, error) {
	if cfg.RecordsTable == "" {
		log.Warn("RECORDS_TABLE not set, capture records will only be logged")
		return repository.LogOnly{Log: log}, nil
	}
	store, err := repository.New(awsdynamodb.NewFromConfig(awsCfg), cfg.RecordsTable)
	if err != nil {
		return nil, fmt.Errorf("app: create record store: %w", err)
	}
	return store, nil
}
