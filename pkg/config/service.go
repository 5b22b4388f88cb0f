package config

import "github.com/shishobooks/filedock/pkg/preview"

type Service struct {
	config *Config
}

func NewService(cfg *Config) *Service {
	return &Service{config: cfg}
}

func (s *Service) RetrievePublicConfig() *PublicConfig {
	return &PublicConfig{
		MaxUploadSizeBytes:   s.config.MaxUploadSizeBytes(),
		MaxPreviewBytes:      preview.MaxFileBytes,
		MaxPreviewTextChars:  preview.MaxTextChars,
		MaxPreviewImageBytes: preview.MaxImageBytes,
		CaseSensitivePaths:   s.config.CaseSensitivePaths,
	}
}
