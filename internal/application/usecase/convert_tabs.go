package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/omni/internal/application/port"
	"github.com/bnema/omni/internal/domain/entity"
	"github.com/bnema/omni/internal/logging"
)

// ConvertedSessionName names the session created by ConvertAllTabsUseCase.
const ConvertedSessionName = "Converted Tabs"

// ConvertAllTabsUseCase saves every saveable tab as one session, then closes them.
type ConvertAllTabsUseCase struct {
	tabs port.TabController
	save *SaveSessionUseCase
}

// NewConvertAllTabsUseCase creates a new ConvertAllTabsUseCase.
func NewConvertAllTabsUseCase(tabs port.TabController, save *SaveSessionUseCase) *ConvertAllTabsUseCase {
	return &ConvertAllTabsUseCase{tabs: tabs, save: save}
}

// ConvertAllTabsOutput reports the saved session and how many tabs were closed.
type ConvertAllTabsOutput struct {
	Session entity.Session
	Closed  int
	Failed  int
}

// Execute stores the session before closing anything; a save failure leaves every tab open.
func (uc *ConvertAllTabsUseCase) Execute(ctx context.Context) (*ConvertAllTabsOutput, error) {
	log := logging.FromContext(ctx)

	saved, err := uc.save.Execute(ctx, SaveSessionInput{Name: ConvertedSessionName})
	if err != nil {
		return nil, fmt.Errorf("save tabs: %w", err)
	}

	out := &ConvertAllTabsOutput{Session: saved.Session}
	for _, tab := range saved.Captured {
		if err := uc.tabs.RemoveTab(ctx, tab.ID); err != nil {
			out.Failed++
			log.Warn().Err(err).Str(logging.FieldEvent, "convert_close_failed").Int("tab_id", int(tab.ID)).
				Msg("could not close converted tab")
			continue
		}
		out.Closed++
	}

	log.Info().
		Str(logging.FieldEvent, "tabs_converted").
		Str("session_id", string(out.Session.ID)).
		Int("closed", out.Closed).
		Int("failed", out.Failed).
		Msg("tabs converted to session")
	return out, nil
}
