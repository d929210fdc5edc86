package usecase

import (
	"context"
	"fmt"

	"github.com/mhcho/manualhub/internal/core/domain"
	"github.com/mhcho/manualhub/internal/core/ports"
)

// ChatUseCase proxies questions about a model's manual to the processing
// service. The model name, chosen at registration, is the service's handle
// for the document; the internal id never crosses the boundary.
type ChatUseCase struct {
	models    ports.ModelRepository
	processor ports.ManualProcessor
}

func NewChatUseCase(models ports.ModelRepository, processor ports.ManualProcessor) *ChatUseCase {
	return &ChatUseCase{models: models, processor: processor}
}

func (uc *ChatUseCase) Answer(ctx context.Context, modelID int64, question string) (*domain.Answer, error) {
	model, err := uc.models.GetByID(ctx, modelID)
	if err != nil {
		return nil, fmt.Errorf("fetch model %d: %w", modelID, err)
	}

	answer, err := uc.processor.Ask(ctx, model.Name, question)
	if err != nil {
		return nil, fmt.Errorf("ask about %q: %w", model.Name, err)
	}
	return answer, nil
}
