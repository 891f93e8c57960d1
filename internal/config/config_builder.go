package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// configBuilder accumulates partial configs from each source and merges
// them on build. Source order decides precedence: values loaded first win,
// mergo only fills fields still at their zero value.
type configBuilder struct {
	sources []*StructuredConfig
	err     error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{}
}

func (b *configBuilder) withEnv() *configBuilder {
	fromEnv := new(StructuredConfig)
	if err := parseEnv(fromEnv); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.sources = append(b.sources, fromEnv)
	return b
}

func (b *configBuilder) withFlags() *configBuilder {
	b.sources = append(b.sources, ParseFlags())
	return b
}

// withJSON loads the optional JSON file. The path itself comes from the
// sources already collected, so withJSON must run after withEnv/withFlags.
func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string
	for _, src := range b.sources {
		if src.JSONFilePath != "" {
			jsonPath = src.JSONFilePath
		}
	}
	if jsonPath == "" {
		return b
	}

	fromFile, err := parseJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.sources = append(b.sources, fromFile)
	return b
}

// build merges all collected sources, fills defaults and validates the
// result.
func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("failed to load config sources: %w", b.err)
	}

	merged := new(StructuredConfig)
	for _, src := range b.sources {
		if err := mergo.Merge(merged, src); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	merged.applyDefaults()

	return merged, merged.validate()
}
