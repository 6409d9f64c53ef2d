package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/ssekit/component"
)

// InfrastructureInfo holds detailed infrastructure component information.
type InfrastructureInfo struct {
	Name    string
	Type    string // e.g. "server", "sse"
	Details string
	Port    int
}

// RouteInfo represents a registered HTTP route.
type RouteInfo struct {
	Method string
	Path   string
}

// Summary tracks and displays the application bootstrap process.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	infrastructure  []InfrastructureInfo
	routes          []RouteInfo
}

// NewSummary creates a new bootstrap summary tracker.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{
		serviceName:    serviceName,
		version:        version,
		infrastructure: make([]InfrastructureInfo, 0),
		routes:         make([]RouteInfo, 0),
	}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackRoute records an HTTP route.
func (s *Summary) TrackRoute(method, path string) {
	s.routes = append(s.routes, RouteInfo{Method: method, Path: path})
}

// DisplaySummary prints the bootstrap summary including live health from the
// registry. Describable components are listed under Infrastructure
// automatically.
func (s *Summary) DisplaySummary(registry *component.Registry) {
	fmt.Printf("\n")
	fmt.Printf("🚀 %s v%s started in %.2fs\n\n",
		s.serviceName, s.version, s.startupDuration.Seconds())

	infrastructure := s.infrastructure
	if registry != nil {
		for _, c := range registry.All() {
			if d, ok := c.(component.Describable); ok {
				desc := d.Describe()
				name := desc.Name
				if name == "" {
					name = c.Name()
				}
				infrastructure = append(infrastructure, InfrastructureInfo{
					Name:    name,
					Type:    desc.Type,
					Details: desc.Details,
					Port:    desc.Port,
				})
			}
		}
	}

	if len(infrastructure) > 0 {
		fmt.Printf("📊 Infrastructure\n")
		for i, inf := range infrastructure {
			prefix := "├──"
			if i == len(infrastructure)-1 {
				prefix = "└──"
			}
			details := inf.Details
			if inf.Port > 0 {
				details = fmt.Sprintf("%s (:%d)", details, inf.Port)
			}
			fmt.Printf("   %s %s: %s\n", prefix, inf.Name, details)
		}
		fmt.Printf("\n")
	}

	if len(s.routes) > 0 {
		fmt.Printf("🌐 Routes (%d)\n", len(s.routes))
		for i, r := range s.routes {
			prefix := "├──"
			if i == len(s.routes)-1 {
				prefix = "└──"
			}
			fmt.Printf("   %s %-7s %s\n", prefix, r.Method, r.Path)
		}
		fmt.Printf("\n")
	}

	if registry != nil {
		healthResults := registry.HealthAll(context.Background())
		if len(healthResults) > 0 {
			fmt.Printf("🏥 Health Check\n")
			for i, h := range healthResults {
				prefix := "├──"
				if i == len(healthResults)-1 {
					prefix = "└──"
				}
				icon := healthStatusIcon(h.Status)
				msg := ""
				if h.Message != "" {
					msg = fmt.Sprintf(" — %s", h.Message)
				}
				fmt.Printf("   %s %s %s: %s%s\n", prefix, icon, h.Name, strings.ToLower(string(h.Status)), msg)
			}
		}
	}

	fmt.Printf("\n")
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
