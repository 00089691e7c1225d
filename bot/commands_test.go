package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommands(t *testing.T) {
	t.Parallel()

	names := map[string]bool{}
	for _, cmd := range Commands() {
		assert.NotEmpty(t, cmd.Description, cmd.Name)
		assert.False(t, names[cmd.Name], "duplicate command %s", cmd.Name)
		names[cmd.Name] = true
	}
	assert.Equal(t, map[string]bool{"register": true, "roster": true, "settings": true}, names)
}
