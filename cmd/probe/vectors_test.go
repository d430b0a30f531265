package probe

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorsPass(t *testing.T) {
	for _, r := range RunVectors(Vectors()) {
		assert.NoError(t, r.Err, r.Name)
		assert.True(t, r.Passed(), "%s: got %s, want %s", r.Name, r.Got, r.Want)
	}
}

func TestRunVectorsReportsFailures(t *testing.T) {
	results := RunVectors([]Vector{
		{Name: "mismatch", Want: "a", Run: func() (string, error) { return "b", nil }},
		{Name: "error", Want: "a", Run: func() (string, error) { return "", errors.New("boom") }},
		{Name: "ok", Want: "a", Run: func() (string, error) { return "a", nil }},
	})
	require.Len(t, results, 3)
	assert.False(t, results[0].Passed())
	assert.False(t, results[1].Passed())
	assert.True(t, results[2].Passed())
}

func TestVectorsCommand(t *testing.T) {
	cmd := New()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"vectors", "--verbose"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "NCW cosigner share")
	assert.NotContains(t, out.String(), "FAIL")
}
