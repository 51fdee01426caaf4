// Package app assembles the settings domains from the configuration.
package app

import (
	"log/slog"

	"github.com/dtg01100/touch-settings/internal/config"
	"github.com/dtg01100/touch-settings/internal/logging"
	"github.com/dtg01100/touch-settings/internal/plugins"
	"github.com/dtg01100/touch-settings/internal/plugins/camera"
	"github.com/dtg01100/touch-settings/internal/plugins/glue"
	"github.com/dtg01100/touch-settings/internal/plugins/robot"
	"github.com/dtg01100/touch-settings/internal/store"
)

// Devices are the external systems the settings pages can talk to. Nil
// members fall back to logging stand-ins.
type Devices struct {
	Motion robot.Motion
	Camera camera.Actions
}

// App holds the registry of settings domains and their storage.
type App struct {
	Config    *config.Config
	Registry  *plugins.Registry
	GlueTypes *store.GlueTypes
	Logger    *slog.Logger
}

// New builds every domain with file storage under cfg's data directory.
func New(cfg *config.Config, devices Devices, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	dir := cfg.DataPath()
	storeLog := logging.For(logger, "store")

	cam, err := camera.New(
		store.NewDocument(dir, camera.Name, store.JSON, camera.Defaults, storeLog),
		devices.Camera,
		logging.For(logger, camera.Name),
	)
	if err != nil {
		return nil, err
	}

	glueTypes := store.NewGlueTypes(dir, storeLog)
	gl, err := glue.New(
		store.NewDocument(dir, glue.Name, store.YAML, glue.Defaults, storeLog),
		glueTypes,
		logging.For(logger, glue.Name),
	)
	if err != nil {
		return nil, err
	}

	rb, err := robot.New(
		robot.NewService(
			store.NewDocument(dir, "robot_config", store.YAML, robot.DefaultConfig, storeLog),
			store.NewDocument(dir, "robot_calibration", store.YAML, robot.DefaultCalibration, storeLog),
		),
		devices.Motion,
		logging.For(logger, robot.Name),
	)
	if err != nil {
		return nil, err
	}

	reg, err := plugins.NewRegistry(cam, gl, rb)
	if err != nil {
		return nil, err
	}
	logger.Info("settings domains ready", "data_dir", dir, "domains", reg.Names())
	return &App{Config: cfg, Registry: reg, GlueTypes: glueTypes, Logger: logger}, nil
}
