package server

import (
	"log/slog"

	"alphamastery/internal/activities"
	"alphamastery/internal/chat"
	"alphamastery/internal/config"
	"alphamastery/internal/content"
	"alphamastery/internal/mastery"
	"alphamastery/internal/rotation"
	"alphamastery/internal/services/llm"
	"alphamastery/internal/services/vision"
)

// parentChatTemperature matches the tone the parent help prompt was tuned for.
const parentChatTemperature = 0.7

// NewDependencies wires the SQLite store and the configured collaborators
// into route dependencies.
func NewDependencies(cfg *config.Config, store *content.Store, logger *slog.Logger, version string) Dependencies {
	selector := rotation.NewSelector(store, content.NewCursor(store), logger)

	visionClient := vision.NewClient(vision.Config{
		APIKey:         cfg.Vision.APIKey,
		BaseURL:        cfg.Vision.BaseURL,
		TimeoutSeconds: cfg.Vision.TimeoutSeconds,
	})
	llmClient := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
		WebSearch:      true,
		Temperature:    parentChatTemperature,
	})

	return Dependencies{
		Selector: selector,
		Checker:  mastery.NewChecker(mastery.RatioScorer{}, cfg.Mastery.Threshold, logger),
		Verifier: mastery.NewVerifier(visionClient, logger),
		Activities: activities.New(selector, activities.Settings{
			MythBatchSize:    cfg.Activities.MythBatchSize,
			ImageOptionCount: cfg.Activities.ImageOptionCount,
		}, logger),
		Chat:          chat.New(llmClient, logger),
		Content:       store,
		Version:       version,
		VisionEnabled: visionClient.Configured(),
		LLMEnabled:    llmClient.Configured(),
	}
}
