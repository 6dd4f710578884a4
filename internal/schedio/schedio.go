// Package schedio loads schedules and scenario definitions from disk for
// the CLI: schedules as JSON, scenario sets as YAML.
package schedio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"schedule-engine/internal/domain"
	"schedule-engine/internal/scenario"
	"schedule-engine/internal/timeutil"
)

// ReadSchedule decodes a schedule from JSON and validates its structure.
func ReadSchedule(r io.Reader) (*domain.Schedule, error) {
	var s domain.Schedule
	dec := json.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode schedule: %w", err)
	}
	if err := validateSchedule(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSchedule reads a schedule JSON file.
func LoadSchedule(path string) (*domain.Schedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schedule file: %w", err)
	}
	defer f.Close()
	return ReadSchedule(f)
}

func validateSchedule(s *domain.Schedule) error {
	if s.ID == "" {
		return fmt.Errorf("schedule requires an id")
	}
	seen := make(map[string]bool, len(s.Games))
	for i, g := range s.Games {
		if g.ID == "" {
			return fmt.Errorf("game %d requires an id", i)
		}
		if seen[g.ID] {
			return fmt.Errorf("duplicate game id %q", g.ID)
		}
		seen[g.ID] = true
		if g.HomeTeamID == "" || g.AwayTeamID == "" {
			return fmt.Errorf("game %s requires home and away teams", g.ID)
		}
		if g.HomeTeamID == g.AwayTeamID {
			return fmt.Errorf("game %s: a team cannot play itself", g.ID)
		}
		if g.VenueID == "" {
			return fmt.Errorf("game %s requires a venue", g.ID)
		}
		if _, err := timeutil.ParseDate(g.Date); err != nil {
			return fmt.Errorf("game %s: bad date %q: %w", g.ID, g.Date, err)
		}
	}
	return nil
}

type scenarioFile struct {
	Scenarios []scenario.Definition `yaml:"scenarios"`
}

// ReadScenarioDefs decodes a scenario-definition set from YAML.
func ReadScenarioDefs(r io.Reader) ([]scenario.Definition, error) {
	var file scenarioFile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode scenario definitions: %w", err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario file lists no scenarios")
	}
	for _, def := range file.Scenarios {
		if err := def.Validate(); err != nil {
			return nil, err
		}
	}
	return file.Scenarios, nil
}

// LoadScenarioDefs reads a scenario YAML file.
func LoadScenarioDefs(path string) ([]scenario.Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario file: %w", err)
	}
	defer f.Close()
	return ReadScenarioDefs(f)
}
