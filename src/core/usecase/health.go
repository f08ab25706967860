package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"regform/src/core/ports"
)

// HealthService reports the state of the form's collaborators.
// A missing country directory degrades the service but never fails it:
// the form stays usable with an empty country selector.
type HealthService struct {
	directory *Directory
	sessions  ports.SessionRepository
	log       *slog.Logger
}

// NewHealthService creates a new HealthService.
func NewHealthService(directory *Directory, sessions ports.SessionRepository, log *slog.Logger) *HealthService {
	return &HealthService{
		directory: directory,
		sessions:  sessions,
		log:       log,
	}
}

// HealthStatus represents the health of the application.
type HealthStatus struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

// ComponentHealth represents the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Check performs a health check of all application components.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:     "ok",
		Components: make(map[string]ComponentHealth),
	}

	if n := s.directory.Len(); n == 0 {
		status.Status = "degraded"
		status.Components["country_directory"] = ComponentHealth{
			Status:  "empty",
			Message: "country list not loaded",
		}
	} else {
		status.Components["country_directory"] = ComponentHealth{
			Status:  "healthy",
			Message: fmt.Sprintf("%d countries, loaded %s", n, s.directory.LoadedAt().UTC().Format(time.RFC3339)),
		}
	}

	count, err := s.sessions.Count(ctx)
	if err != nil {
		s.log.Warn("session count failed", "error", err)
		status.Status = "degraded"
		status.Components["sessions"] = ComponentHealth{
			Status:  "unhealthy",
			Message: err.Error(),
		}
	} else {
		status.Components["sessions"] = ComponentHealth{
			Status:  "healthy",
			Message: fmt.Sprintf("%d active", count),
		}
	}

	return status
}
