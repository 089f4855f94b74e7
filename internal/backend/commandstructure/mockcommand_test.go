package commandstructure

// mockCommand is a simple mock implementation of the Command interface for testing
type mockCommand struct {
	name        string
	executeFunc func(*Canvas) error
}

func (m *mockCommand) Name() string {
	return m.name
}

func (m *mockCommand) Execute(canvas *Canvas) error {
	if m.executeFunc != nil {
		return m.executeFunc(canvas)
	}
	return nil
}

// newMockCommand creates a mock command with default behavior (no-op)
func newMockCommand(name string) *mockCommand {
	return &mockCommand{
		name: name,
		executeFunc: func(*Canvas) error {
			return nil
		},
	}
}

// newMockCommandWithError creates a mock command that returns an error
func newMockCommandWithError(name string, err error) *mockCommand {
	return &mockCommand{
		name: name,
		executeFunc: func(*Canvas) error {
			return err
		},
	}
}
