package robot

import (
	"context"

	"github.com/dtg01100/touch-settings/internal/plugins"
)

type splitService struct {
	config      plugins.Service[Config]
	calibration plugins.Service[Calibration]
}

// NewService combines the configuration and calibration documents into
// one settings service. Saves write the configuration first.
func NewService(config plugins.Service[Config], calibration plugins.Service[Calibration]) plugins.Service[Settings] {
	return &splitService{config: config, calibration: calibration}
}

func (s *splitService) Load(ctx context.Context) (Settings, error) {
	cfg, err := s.config.Load(ctx)
	if err != nil {
		return Settings{}, err
	}
	calib, err := s.calibration.Load(ctx)
	if err != nil {
		return Settings{}, err
	}
	return Settings{Config: cfg, Calibration: calib}, nil
}

func (s *splitService) Save(ctx context.Context, rec Settings) error {
	if err := s.config.Save(ctx, rec.Config); err != nil {
		return err
	}
	return s.calibration.Save(ctx, rec.Calibration)
}
