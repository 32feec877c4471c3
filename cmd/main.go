package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awsssm "github.com/aws/aws-sdk-go-v2/service/ssm"

	"faq-agent/handler"
	"faq-agent/internal/faq"
	"faq-agent/internal/integrations/openai"
	"faq-agent/internal/integrations/paramstore"
	"faq-agent/internal/repository"
	"faq-agent/internal/transcript"
	"faq-agent/internal/usecase"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// ---- Configuration (read only here) ----
	stateTable := strings.TrimSpace(os.Getenv("STATE_TABLE"))
	paramPrefix := strings.TrimSpace(os.Getenv("PARAM_PREFIX"))
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	model := os.Getenv("OPENAI_MODEL")
	baseURL := os.Getenv("OPENAI_BASE_URL")
	maxQuestionLen := envInt("MAX_QUESTION_LENGTH", 1000)

	// ---- AWS SDK config, only when an AWS-backed component is enabled ----
	var cfg aws.Config
	if stateTable != "" || (apiKey == "" && paramPrefix != "") {
		var err error
		cfg, err = config.LoadDefaultConfig(ctx)
		if err != nil {
			slog.Error("failed to load AWS config", "err", err)
			os.Exit(1)
		}
	}

	// ---- Transcript store ----
	var store transcript.Store = transcript.NewMemoryStore()
	if stateTable != "" {
		repo, err := repository.New(awsdynamodb.NewFromConfig(cfg), stateTable)
		if err != nil {
			slog.Error("failed to create transcript repository", "err", err)
			os.Exit(1)
		}
		store = repo
	}

	// ---- Fallback: the credential is resolved once; absence disables it ----
	if apiKey == "" && paramPrefix != "" {
		apiKey = resolveParamStoreKey(ctx, cfg, paramPrefix)
	}
	var completer usecase.Completer
	if apiKey != "" {
		opts := []openai.Option{openai.WithModel(model)}
		if strings.TrimSpace(baseURL) != "" {
			opts = append(opts, openai.WithBaseURL(baseURL))
		}
		client, err := openai.NewClient(apiKey, opts...)
		if err != nil {
			slog.Error("failed to create OpenAI client", "err", err)
			os.Exit(1)
		}
		completer = client
		slog.Info("fallback responder enabled", "model", client.Model())
	} else {
		slog.Info("fallback responder disabled: no API credential configured")
	}
	fallback := usecase.NewFallbackResponder(completer, logger)

	// ---- Handler ----
	askService, err := usecase.NewAskService(faq.DefaultRouter(), fallback, store, maxQuestionLen, logger)
	if err != nil {
		slog.Error("failed to create ask service", "err", err)
		os.Exit(1)
	}

	h, err := handler.NewHandler(askService)
	if err != nil {
		slog.Error("failed to create handler", "err", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}

func resolveParamStoreKey(ctx context.Context, cfg aws.Config, prefix string) string {
	ssmClient, err := paramstore.New(awsssm.NewFromConfig(cfg))
	if err != nil {
		slog.Warn("failed to create SSM client", "err", err)
		return ""
	}
	key, err := paramstore.ResolveAPIKey(ctx, ssmClient, paramstore.TokenParameterName(prefix))
	if err != nil {
		slog.Warn("OpenAI token unavailable from parameter store", "err", err)
		return ""
	}
	return key
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
