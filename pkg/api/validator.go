package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ActionView - единственная команда зрителя.
const ActionView = "VIEW"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p ViewPayload) Validate() error {
	switch p.Mode {
	case ViewFull, ViewExplored:
		return nil
	case "":
		return errors.New("view mode is required")
	}
	return fmt.Errorf("unknown view mode %q", p.Mode)
}

// DecodePayload разбирает Payload команды в v и валидирует его.
func DecodePayload[T Validator](cmd ClientCommand) (T, error) {
	var v T
	if len(cmd.Payload) == 0 {
		return v, errors.New("payload is required")
	}
	if err := json.Unmarshal(cmd.Payload, &v); err != nil {
		return v, fmt.Errorf("decode %s payload: %w", cmd.Action, err)
	}
	if err := v.Validate(); err != nil {
		return v, fmt.Errorf("invalid %s payload: %w", cmd.Action, err)
	}
	return v, nil
}
