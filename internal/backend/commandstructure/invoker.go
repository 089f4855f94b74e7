package commandstructure

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// CommandInvoker executes a sequence of commands on a canvas
type CommandInvoker struct {
	commands []Command
}

// NewCommandInvoker creates a new command invoker
func NewCommandInvoker(commands []Command) *CommandInvoker {
	return &CommandInvoker{
		commands: commands,
	}
}

// BuildInvoker creates every configured command from the registry up front,
// so a misconfigured pipeline fails before anything is drawn.
func BuildInvoker(registry *CommandRegistry, configs []CommandConfig) (*CommandInvoker, error) {
	commands := make([]Command, 0, len(configs))
	for i, config := range configs {
		command, err := registry.Create(config.Name, config.Params)
		if err != nil {
			return nil, fmt.Errorf("failed to create command at index %d (%s): %w", i, config.Name, err)
		}
		commands = append(commands, command)
	}
	return NewCommandInvoker(commands), nil
}

// Execute applies all commands in sequence to the canvas
func (i *CommandInvoker) Execute(canvas *Canvas) error {
	if canvas == nil || canvas.Image == nil {
		return errors.New("canvas is nil")
	}

	start := time.Now()
	slog.Debug("starting drawing pipeline",
		"command_count", len(i.commands),
		"width", canvas.Width(),
		"height", canvas.Height())

	for idx, command := range i.commands {
		commandStart := time.Now()

		if err := command.Execute(canvas); err != nil {
			slog.Error("command execution failed",
				"index", idx,
				"command_name", command.Name(),
				"error", err)
			return fmt.Errorf("command %s (index %d) failed: %w", command.Name(), idx, err)
		}

		slog.Debug("command completed",
			"index", idx,
			"command_name", command.Name(),
			"duration_ms", time.Since(commandStart).Milliseconds())
	}

	slog.Debug("drawing pipeline completed",
		"total_duration_ms", time.Since(start).Milliseconds(),
		"command_count", len(i.commands))

	return nil
}

// ExecuteCommands creates the configured commands from DefaultRegistry and applies them in order
func ExecuteCommands(canvas *Canvas, commandConfigs []CommandConfig) error {
	invoker, err := BuildInvoker(DefaultRegistry, commandConfigs)
	if err != nil {
		return err
	}
	return invoker.Execute(canvas)
}
