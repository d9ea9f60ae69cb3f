package modelfetch

import (
	"net/http"
	"time"

	"github.com/nguyentantai21042004/meeting-recorder/internal/config"
	"github.com/nguyentantai21042004/meeting-recorder/internal/logger"
)

type implInstaller struct {
	cfg    *config.Config
	logger logger.Logger
	client *http.Client
}

// New creates an Installer for the configured model archive.
func New(cfg *config.Config, log logger.Logger) Installer {
	return &implInstaller{
		cfg:    cfg,
		logger: log,
		client: &http.Client{Timeout: 30 * time.Minute},
	}
}
