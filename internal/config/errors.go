package config

import "errors"

var (
	ErrInvalidStorageConfigs = errors.New("invalid storage configs: DSN and a known driver are required")
	ErrInvalidAppConfigs     = errors.New("invalid app configs: token sign keys and issuer are required")
)
