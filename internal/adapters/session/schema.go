// Package session holds the on-disk encoding shared by the session store
// backends.
package session

import (
	"fmt"

	"github.com/bnema/aicms-cli/internal/domain"
	toml "github.com/pelletier/go-toml/v2"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version      int    `toml:"version"`
	AccessToken  string `toml:"access_token"`
	RefreshToken string `toml:"refresh_token,omitempty"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported session schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

func Encode(session domain.Session) ([]byte, error) {
	file := fileSchema{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	}
	file.applyDefaults()

	data, err := toml.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}

	return data, nil
}

func Decode(data []byte) (domain.Session, error) {
	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.Session{}, fmt.Errorf("decode session: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return domain.Session{}, err
	}

	return domain.Session{
		AccessToken:  file.AccessToken,
		RefreshToken: file.RefreshToken,
	}, nil
}
