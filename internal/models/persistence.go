package models

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Part names of a stored session. Each part is a separate YAML document.
const (
	PartPlayers    = "players"
	PartLog        = "log"
	PartCharacters = "characters"
	PartWorld      = "world"
)

// Parts lists the session parts in storage order.
var Parts = []string{PartPlayers, PartLog, PartCharacters, PartWorld}

// EncodeParts marshals each session part to YAML.
func (s *Session) EncodeParts() (map[string][]byte, error) {
	values := map[string]interface{}{
		PartPlayers:    s.Players,
		PartLog:        s.Log,
		PartCharacters: s.Characters,
		PartWorld:      s.World,
	}

	out := make(map[string][]byte, len(values))
	for name, v := range values {
		data, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		out[name] = data
	}
	return out, nil
}

// DecodeParts rebuilds a session from the documents written by EncodeParts.
func DecodeParts(id string, parts map[string][]byte) (*Session, error) {
	s := &Session{ID: id}
	targets := map[string]interface{}{
		PartPlayers:    &s.Players,
		PartLog:        &s.Log,
		PartCharacters: &s.Characters,
		PartWorld:      &s.World,
	}

	for _, name := range Parts {
		data, ok := parts[name]
		if !ok {
			return nil, fmt.Errorf("session %s is missing %s", id, name)
		}
		if err := yaml.Unmarshal(data, targets[name]); err != nil {
			return nil, fmt.Errorf("decode %s of session %s: %w", name, id, err)
		}
	}

	if s.Characters == nil {
		s.Characters = make(map[string]*Character)
	}
	if s.World == nil {
		s.World = NewWorld()
	}
	return s, nil
}
