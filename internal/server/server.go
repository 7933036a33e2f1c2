package server

import (
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/employee-api/internal/config"
	"github.com/hashicorp-forge/employee-api/internal/metrics"
	"github.com/hashicorp-forge/employee-api/pkg/employees"
)

// Server contains the server configuration.
type Server struct {
	// Employees serves the employee operations on top of the upstream
	// employee service.
	Employees *employees.Aggregator

	// Config is the config for the server.
	Config *config.Config

	// Logger is the logger for the server.
	Logger hclog.Logger

	// Metrics records upstream and HTTP metrics. May be nil.
	Metrics *metrics.Metrics
}
