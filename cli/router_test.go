package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranth/ltm/model"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry()
	require.NoError(t, err)
	return r
}

func TestAliasResolvesToSameAction(t *testing.T) {
	r := testRegistry(t)

	cases := []struct {
		canonical string
		alias     string
	}{
		{"ticket create backend Fix", "ticket add backend Fix"},
		{"ticket create backend Fix", "ticket new backend Fix"},
		{"ticket list", "ls"},
		{"ticket show 3", "view 3"},
		{"ticket delete 3", "rm 3"},
		{"update status 3 open", "set status 3 open"},
		{"project list", "projects"},
		{"time active", "timer"},
		{"time log 3 2h", "time add 3 2h"},
	}
	for _, c := range cases {
		want, _, err := r.Resolve(splitTokens(c.canonical))
		require.NoError(t, err, c.canonical)
		got, _, err := r.Resolve(splitTokens(c.alias))
		require.NoError(t, err, c.alias)
		assert.Equal(t, want, got, "%q vs %q", c.canonical, c.alias)
	}
}

func TestDeprecatedFormsKeepCanonicalAction(t *testing.T) {
	r := testRegistry(t)

	action, notice, err := r.Resolve([]string{"add", "backend", "Fix login"})
	require.NoError(t, err)
	assert.Equal(t, OpTicketCreate, action.Op)
	assert.Equal(t, []string{"backend", "Fix login"}, action.Args)
	assert.Contains(t, notice, "deprecated")

	_, notice, err = r.Resolve([]string{"ticket", "create", "backend", "Fix login"})
	require.NoError(t, err)
	assert.Empty(t, notice)
}

func TestResolveIsCaseInsensitive(t *testing.T) {
	r := testRegistry(t)

	action, _, err := r.Resolve([]string{"TICKET", "List"})
	require.NoError(t, err)
	assert.Equal(t, OpTicketList, action.Op)
}

func TestUnknownCommandSuggests(t *testing.T) {
	r := testRegistry(t)

	_, _, err := r.Resolve([]string{"tiket", "list"})
	var unknown *model.UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, unknown.Suggestions, "ticket list")
}

func TestResolveParsesFlags(t *testing.T) {
	r := testRegistry(t)

	action, _, err := r.Resolve([]string{
		"ticket", "list", "--project", "backend", "--status=open", "--sort", "created", "--json",
	})
	require.NoError(t, err)
	assert.Equal(t, OpTicketList, action.Op)
	assert.Equal(t, "backend", action.Flags.Project)
	assert.Equal(t, "open", action.Flags.Status)
	assert.Equal(t, "created", action.Flags.Sort)
	assert.True(t, action.Flags.JSON)
	assert.False(t, action.Flags.JSONPretty)
	assert.Empty(t, action.Args)
}

func TestJSONPrettyImpliesJSON(t *testing.T) {
	r := testRegistry(t)

	action, _, err := r.Resolve([]string{"project", "list", "--json-pretty"})
	require.NoError(t, err)
	assert.True(t, action.Flags.JSON)
	assert.True(t, action.Flags.JSONPretty)
}

func TestUnknownFlagRejected(t *testing.T) {
	r := testRegistry(t)

	_, _, err := r.Resolve([]string{"ticket", "list", "--bogus"})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "INVALID_FLAG", ve.Code)
}

func TestFlagMissingValueRejected(t *testing.T) {
	r := testRegistry(t)

	_, _, err := r.Resolve([]string{"ticket", "list", "--project"})
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "INVALID_FLAG", ve.Code)
}

func TestRegistryRejectsCollidingPaths(t *testing.T) {
	_, err := buildRegistry([]CommandSpec{
		{Op: OpTicketList, Name: "list"},
		{Op: OpTicketShow, Name: "show", Aliases: []string{"list"}},
	})
	require.Error(t, err)
}

func splitTokens(s string) []string {
	return strings.Fields(s)
}
