package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// ServiceStats counts the operations run by a Service.
type ServiceStats struct {
	Exports     int        `json:"exports"`
	Imports     int        `json:"imports"`
	Failures    int        `json:"failures"`
	LastFailure *time.Time `json:"last_failure,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
}

// ServiceState exposes internal state for observability.
type ServiceState struct {
	CodecType string       `json:"codec_type"`
	Stats     ServiceStats `json:"stats"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	codecType := "unknown"
	if comp, ok := s.codec.(introspection.Component); ok {
		codecType = comp.ComponentType()
	}

	return ServiceState{
		CodecType: codecType,
		Stats:     s.stats,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
