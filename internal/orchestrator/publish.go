package orchestrator

import (
	"context"
	"log/slog"

	"github.com/cloudship/cloudship/internal/builder"
	"github.com/cloudship/cloudship/internal/config"
	"github.com/cloudship/cloudship/internal/constants"
	apperrors "github.com/cloudship/cloudship/internal/errors"
	"github.com/cloudship/cloudship/internal/output"
	"github.com/cloudship/cloudship/internal/provider"
)

// Publisher builds the application image and pushes its tags.
type Publisher struct {
	client provider.Client
	engine builder.Engine
}

// NewPublisher creates a publisher for the given backend and build engine.
func NewPublisher(client provider.Client, engine builder.Engine) *Publisher {
	return &Publisher{client: client, engine: engine}
}

// Publish builds the image once and pushes the version tag, then latest when
// version is not already latest. A build failure aborts before any push. A
// push failure stops the sequence; the references already pushed are returned
// alongside the error so the caller can decide whether to proceed with them.
func (p *Publisher) Publish(
	ctx context.Context,
	cfg *config.DeploymentConfig,
	buildContext, version string,
) ([]provider.ImageReference, error) {
	if err := p.engine.Ping(ctx); err != nil {
		return nil, err
	}

	versionRef := p.client.ImageRef(cfg, constants.DefaultImageName, version)

	refs := []provider.ImageReference{versionRef}
	if version != constants.LatestTag {
		refs = append(refs, p.client.ImageRef(cfg, constants.DefaultImageName, constants.LatestTag))
	}

	output.Info("Building image %s", versionRef.URI())
	if err := p.engine.Build(ctx, buildContext, []string{versionRef.URI()}); err != nil {
		return nil, err
	}
	for _, ref := range refs[1:] {
		if err := p.engine.Tag(ctx, versionRef.URI(), ref.URI()); err != nil {
			return nil, err
		}
	}
	output.Success("Image built")

	auth, err := p.client.RegistryAuth(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pushed := make([]provider.ImageReference, 0, len(refs))
	for _, ref := range refs {
		output.Info("Pushing %s", ref.URI())
		if err := p.engine.Push(ctx, ref.URI(), auth); err != nil {
			slog.Warn("push failed", "tag", ref.Tag, "pushed", len(pushed))
			return pushed, apperrors.ErrPushFailure(
				"push failed for tag "+ref.Tag+" ("+pushedSummary(pushed)+")", err)
		}
		pushed = append(pushed, ref)
		output.Success("Pushed %s", ref.URI())
	}

	return pushed, nil
}

func pushedSummary(pushed []provider.ImageReference) string {
	if len(pushed) == 0 {
		return "no tags were pushed"
	}
	summary := "pushed:"
	for _, ref := range pushed {
		summary += " " + ref.Tag
	}
	return summary
}
