package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/quantmind-br/repolens/internal/backend/github"
	"github.com/quantmind-br/repolens/internal/report"
	"github.com/quantmind-br/repolens/internal/utils"
)

// SourceType tells how a target repository is reached
type SourceType string

const (
	SourceLocal   SourceType = "local"
	SourceRemote  SourceType = "remote"
	SourceUnknown SourceType = "unknown"
)

// DetectSource classifies target as a local directory or a hosted URL.
// An existing directory always wins, so "github.com/o/r" checked out under
// the working directory is examined locally.
func DetectSource(target string) SourceType {
	target = strings.TrimSpace(target)
	if target == "" {
		return SourceUnknown
	}

	if utils.IsDir(utils.ExpandPath(target)) {
		return SourceLocal
	}

	info, err := github.ParseURL(target)
	if err != nil {
		return SourceUnknown
	}
	// A bare "a/b/c" that is not a directory is a missing path, not a host
	explicit := strings.Contains(target, "://") || strings.Contains(target, "@")
	if explicit || strings.Contains(info.Host, ".") {
		return SourceRemote
	}

	return SourceUnknown
}

// Examine detects the kind of target and runs Local or Remote
func (o *Orchestrator) Examine(ctx context.Context, target string, opts Options) (report.Report, error) {
	switch DetectSource(target) {
	case SourceLocal:
		return o.Local(ctx, target, opts)
	case SourceRemote:
		return o.Remote(ctx, target, opts)
	default:
		return nil, fmt.Errorf("cannot examine %q: not a directory or a supported repository URL", target)
	}
}
