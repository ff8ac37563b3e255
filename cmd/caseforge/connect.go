package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yjnoh/caseforge"
	"github.com/yjnoh/caseforge/config"
	"github.com/yjnoh/caseforge/figma"
	"github.com/yjnoh/caseforge/jira"
	"github.com/yjnoh/caseforge/llm"
	"github.com/yjnoh/caseforge/testrail"
)

// verifyTimeout bounds each connector liveness check at startup.
const verifyTimeout = 10 * time.Second

func ctx() context.Context {
	return context.Background()
}

// buildWizard wires the connectors whose config sections are complete and
// whose auto-connect flag is set. A failed liveness check drops that
// connector with a warning; the workflow degrades instead of refusing to
// start.
func buildWizard(settings *config.Settings) (*caseforge.Wizard, error) {
	var opts []caseforge.Option

	if settings.App.AutoConnectJira && settings.Jira.Complete() {
		tracker, err := connectJira(settings.Jira)
		if err != nil {
			slog.Warn("jira not connected", "error", err)
		} else {
			opts = append(opts, caseforge.WithTracker(tracker))
		}
	}

	if settings.App.AutoConnectAI && settings.AI.Complete() {
		ai, err := connectAI(settings.AI)
		if err != nil {
			slog.Warn("ai provider not connected", "error", err)
		} else {
			opts = append(opts, caseforge.WithAI(ai))
		}
	}

	if settings.Figma.Complete() {
		source, err := connectFigma(settings.Figma)
		if err != nil {
			slog.Warn("figma not connected", "error", err)
		} else {
			opts = append(opts, caseforge.WithDesignSource(source))
		}
	}

	if settings.App.AutoConnectTestRail && settings.TestRail.Complete() {
		publisher, err := connectTestRail(settings.TestRail)
		if err != nil {
			slog.Warn("testrail not connected", "error", err)
		} else {
			opts = append(opts, caseforge.WithTestManagement(publisher))
		}
	}

	return caseforge.New(opts...), nil
}

func connectJira(s *config.JiraSettings) (caseforge.Tracker, error) {
	client, err := jira.NewClient(&jira.Config{
		URL: s.URL,
		Auth: jira.AuthConfig{
			Type:  jira.AuthAPIToken,
			Email: s.Email,
			Token: s.Token,
		},
	})
	if err != nil {
		return nil, err
	}
	if err := client.Verify(ctx(), verifyTimeout); err != nil {
		return nil, fmt.Errorf("verify jira: %w", err)
	}
	return caseforge.NewJiraTracker(client), nil
}

func connectAI(s *config.AISettings) (llm.Client, error) {
	var opts []llm.RESTOption
	if s.BaseURL != "" {
		opts = append(opts, llm.WithBaseURL(s.BaseURL))
	}
	if s.Model != "" {
		opts = append(opts, llm.WithModel(s.Model))
	}
	if s.MaxTokens > 0 {
		opts = append(opts, llm.WithMaxTokens(s.MaxTokens))
	}
	if s.Temperature > 0 {
		opts = append(opts, llm.WithTemperature(s.Temperature))
	}

	client, err := llm.NewRESTClient(s.APIKey, opts...)
	if err != nil {
		return nil, err
	}
	if err := client.Verify(ctx(), verifyTimeout); err != nil {
		return nil, fmt.Errorf("verify ai provider: %w", err)
	}
	return client, nil
}

func connectFigma(s *config.FigmaSettings) (caseforge.DesignSource, error) {
	client, err := figma.NewClient(s.Token)
	if err != nil {
		return nil, err
	}
	if err := client.Verify(ctx(), verifyTimeout); err != nil {
		return nil, fmt.Errorf("verify figma: %w", err)
	}
	return caseforge.NewFigmaSource(client), nil
}

func connectTestRail(s *config.TestRailSettings) (caseforge.TestManagement, error) {
	client, err := testrail.NewClient(testrail.Config{
		URL:      s.URL,
		Username: s.Username,
		APIKey:   s.APIKey,
	})
	if err != nil {
		return nil, err
	}
	if err := client.Verify(ctx(), verifyTimeout); err != nil {
		return nil, fmt.Errorf("verify testrail: %w", err)
	}
	return caseforge.NewTestRailPublisher(client), nil
}
