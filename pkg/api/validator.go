package api

import "fmt"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (c ClientCommand) Validate() error {
	switch c.Action {
	case ActionSync:
		return nil
	case "":
		return fmt.Errorf("action is required")
	default:
		return fmt.Errorf("unknown action %q", c.Action)
	}
}
