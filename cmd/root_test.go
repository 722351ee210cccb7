package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitesCommandDemo(t *testing.T) {
	t.Setenv("MIRROR_LOGGING_DEVELOPMENT", "false")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"sites", "--demo"})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, "stackoverflow\n", out.String())
}

func TestCommandRequiresDSNWithoutDemo(t *testing.T) {
	t.Setenv("MIRROR_DATABASE_DSN", "")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"sites"})

	err := root.ExecuteContext(context.Background())
	require.ErrorContains(t, err, "database.dsn")
}

func TestServeRejectsArguments(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"serve", "extra", "--demo"})

	require.Error(t, root.ExecuteContext(context.Background()))
}

func TestResolveRuntimeWithoutConfig(t *testing.T) {
	t.Parallel()

	_, err := resolveRuntime(context.Background())
	require.Error(t, err)
}
