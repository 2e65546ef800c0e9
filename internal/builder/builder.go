// Package builder wraps the docker engine for building, tagging and pushing
// the application image. The daemon is the only local tool cloudship
// requires; an unreachable daemon is reported as ToolMissing.
package builder

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"

	apperrors "github.com/cloudship/cloudship/internal/errors"
	"github.com/cloudship/cloudship/internal/provider"
)

// Engine abstracts the container build tool so the publisher can be tested
// without a daemon.
type Engine interface {
	// Ping verifies the build tool is available.
	Ping(ctx context.Context) error
	// Build produces a local image from the context directory under the
	// given tags.
	Build(ctx context.Context, contextDir string, tags []string) error
	// Tag applies an additional tag to a local image.
	Tag(ctx context.Context, source, target string) error
	// Push uploads one tag to its registry.
	Push(ctx context.Context, ref string, auth provider.RegistryAuth) error
}

// DockerEngine implements Engine against the local docker daemon.
type DockerEngine struct {
	docker *client.Client
}

// NewDockerEngine connects to the daemon using environment defaults.
func NewDockerEngine() (*DockerEngine, error) {
	docker, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, apperrors.ErrToolMissing("docker is not available, install docker and start the daemon", err)
	}
	return &DockerEngine{docker: docker}, nil
}

// Ping verifies the daemon is reachable.
func (e *DockerEngine) Ping(ctx context.Context) error {
	if _, err := e.docker.Ping(ctx); err != nil {
		return apperrors.ErrToolMissing("docker daemon unreachable, start docker and retry", err)
	}
	return nil
}

// Build tars the context directory and streams the daemon build.
func (e *DockerEngine) Build(ctx context.Context, contextDir string, tags []string) error {
	buildCtx, err := archive.TarWithOptions(contextDir, &archive.TarOptions{})
	if err != nil {
		return apperrors.ErrBuildFailure("cannot read build context "+contextDir, err)
	}
	defer buildCtx.Close()

	resp, err := e.docker.ImageBuild(ctx, buildCtx, types.ImageBuildOptions{
		Tags:       tags,
		Dockerfile: "Dockerfile",
		Remove:     true,
	})
	if err != nil {
		return apperrors.ErrBuildFailure("image build failed", err)
	}
	defer resp.Body.Close()

	if err := drainStream(resp.Body); err != nil {
		return apperrors.ErrBuildFailure("image build failed", err)
	}
	return nil
}

// Tag applies an additional tag to a local image.
func (e *DockerEngine) Tag(ctx context.Context, source, target string) error {
	if err := e.docker.ImageTag(ctx, source, target); err != nil {
		return apperrors.ErrBuildFailure(fmt.Sprintf("cannot tag %s as %s", source, target), err)
	}
	return nil
}

// Push uploads one tag using the provider-supplied registry credentials.
func (e *DockerEngine) Push(ctx context.Context, ref string, auth provider.RegistryAuth) error {
	encoded, err := encodeAuth(auth)
	if err != nil {
		return apperrors.ErrPushFailure("cannot encode registry credentials", err)
	}

	out, err := e.docker.ImagePush(ctx, ref, image.PushOptions{RegistryAuth: encoded})
	if err != nil {
		return apperrors.ErrPushFailure("push failed for "+ref, err)
	}
	defer out.Close()

	if err := drainStream(out); err != nil {
		return apperrors.ErrPushFailure("push failed for "+ref, err)
	}
	return nil
}

func encodeAuth(auth provider.RegistryAuth) (string, error) {
	payload, err := json.Marshal(registry.AuthConfig{
		Username:      auth.Username,
		Password:      auth.Password,
		ServerAddress: auth.ServerAddress,
	})
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(payload), nil
}

// streamMessage is one JSON line of daemon build/push output.
type streamMessage struct {
	Stream      string `json:"stream"`
	Status      string `json:"status"`
	Error       string `json:"error"`
	ErrorDetail struct {
		Message string `json:"message"`
	} `json:"errorDetail"`
}

// drainStream consumes a daemon JSON stream, logging progress at debug level
// and surfacing the first embedded error.
func drainStream(r io.Reader) error {
	decoder := json.NewDecoder(r)
	for {
		var msg streamMessage
		if err := decoder.Decode(&msg); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("decode daemon output: %w", err)
		}
		if msg.Error != "" {
			return fmt.Errorf("%s", msg.Error)
		}
		if msg.ErrorDetail.Message != "" {
			return fmt.Errorf("%s", msg.ErrorDetail.Message)
		}
		if msg.Stream != "" {
			slog.Debug("docker", "output", msg.Stream)
		} else if msg.Status != "" {
			slog.Debug("docker", "status", msg.Status)
		}
	}
}
