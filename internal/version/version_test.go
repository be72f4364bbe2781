package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	old := GitCommit
	t.Cleanup(func() { GitCommit = old })
	GitCommit = "abc123"

	assert.Equal(t, "punchcard 0.1.0 (commit abc123, built unknown)", String("punchcard"))
}
