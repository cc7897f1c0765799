package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/lectern/pkg/domain"
)

// DeckFileNames are the accepted deck configuration files, in lookup order.
var DeckFileNames = []string{"lectern.yaml", "lectern.yml", "lectern.json"}

// Deck is the optional configuration file stored next to the slides.
// Only InitialPosition affects navigation; the rest is passed through to surfaces.
type Deck struct {
	Title           string          `yaml:"title" json:"title"`
	InitialPosition domain.Position `yaml:"initial_position" json:"initial_position"`
	Controls        bool            `yaml:"controls" json:"controls"`
	Theme           string          `yaml:"theme" json:"theme"`
	RollingLinks    bool            `yaml:"rolling_links" json:"rolling_links"`
}

// DefaultDeck returns the configuration used when no file is present.
func DefaultDeck() Deck {
	return Deck{
		Controls: true,
		Theme:    "default",
	}
}

// LoadDeck reads the deck configuration from dir.
// A missing file yields DefaultDeck.
func LoadDeck(dir string) (Deck, error) {
	cfg := DefaultDeck()
	for _, name := range DeckFileNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return cfg, fmt.Errorf("failed to read deck config: %w", err)
		}

		if strings.EqualFold(filepath.Ext(path), ".json") {
			err = json.Unmarshal(data, &cfg)
		} else {
			err = yaml.Unmarshal(data, &cfg)
		}
		if err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		if cfg.InitialPosition.Row < 0 || cfg.InitialPosition.Column < 0 {
			return cfg, fmt.Errorf("invalid initial_position %s in %s", cfg.InitialPosition, name)
		}
		return cfg, nil
	}
	return cfg, nil
}
