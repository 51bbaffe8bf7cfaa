package service

import (
	"testing"

	"github.com/reshetovitsme/termbot/internal/modules/term/domain"
	"github.com/reshetovitsme/termbot/internal/modules/term/repository"
	"github.com/reshetovitsme/termbot/internal/shared/errors"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, repository.Repository) {
	t.Helper()

	repo, err := repository.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	return New(repo), repo
}

// failingRepo loads nothing and fails every write
type failingRepo struct{}

func (failingRepo) LoadTerms() (*domain.Dictionary, error) { return domain.NewDictionary(), nil }
func (failingRepo) SaveTerms(*domain.Dictionary) error { return oops.New("disk full") }
func (failingRepo) LoadIgnored() ([]string, error) { return nil, nil }
func (failingRepo) SaveIgnored([]string) error { return oops.New("disk full") }

func TestAdd(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)

	outcome, err := svc.Add("foo", "bar")
	require.NoError(t, err)
	assert.Equal(t, domain.AddOutcomeCreated, outcome)

	outcome, err = svc.Add("  foo ", "  baz  ")
	require.NoError(t, err)
	assert.Equal(t, domain.AddOutcomeAppended, outcome)

	defs, ok := svc.Lookup("foo")
	require.True(t, ok)
	assert.Equal(t, []string{"bar", "baz"}, defs)

	persisted, err := repo.LoadTerms()
	require.NoError(t, err)
	got, _ := persisted.Get("foo")
	assert.Equal(t, []string{"bar", "baz"}, got)
}

func TestAdd_RejectsEmpty(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.Add("   ", "bar")
	assert.ErrorIs(t, err, errors.ErrEmptyTerm)

	_, err = svc.Add("foo", "  ")
	assert.ErrorIs(t, err, errors.ErrEmptyDefinition)
	assert.Equal(t, 0, svc.Len())
}

func TestAdd_CaseSensitiveKeys(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, _ = svc.Add("Go", "language")
	_, _ = svc.Add("go", "verb")

	assert.Equal(t, []string{"Go", "go"}, svc.Terms())
}

func TestRemoveMany(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, _ = svc.Add("foo", "one")
	_, _ = svc.Add("foo", "two")
	_, _ = svc.Add("bar", "three")

	results := svc.RemoveMany([]string{" foo", "missing", "foo"})
	assert.Equal(t, []domain.RemoveResult{
		{Term: "foo", Found: true, Count: 2},
		{Term: "missing"},
		{Term: "foo"},
	}, results)

	assert.Equal(t, []string{"bar"}, svc.Terms())
}

func TestRemoveMany_MissingLeavesStoreUnchanged(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, _ = svc.Add("foo", "one")

	results := svc.RemoveMany([]string{"nope"})
	require.Len(t, results, 1)
	assert.False(t, results[0].Found)

	defs, ok := svc.Lookup("foo")
	require.True(t, ok)
	assert.Equal(t, []string{"one"}, defs)
}

func TestClone(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		src     string
		dst     string
		wantErr error
	}{
		{name: "success", src: "foo", dst: "baz"},
		{name: "destination exists", src: "foo", dst: "bar", wantErr: errors.ErrTermExists},
		{name: "source missing", src: "nope", dst: "baz", wantErr: errors.ErrTermNotFound},
		{name: "empty destination", src: "foo", dst: " ", wantErr: errors.ErrEmptyTerm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, _ := newTestService(t)
			_, _ = svc.Add("foo", "f1")
			_, _ = svc.Add("bar", "b1")

			err := svc.Clone(tt.src, tt.dst)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				foo, _ := svc.Lookup("foo")
				bar, _ := svc.Lookup("bar")
				assert.Equal(t, []string{"f1"}, foo)
				assert.Equal(t, []string{"b1"}, bar)
				return
			}

			require.NoError(t, err)
			defs, ok := svc.Lookup(tt.dst)
			require.True(t, ok)
			assert.Equal(t, []string{"f1"}, defs)
		})
	}
}

func TestClone_IsDeepCopy(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, _ = svc.Add("foo", "f1")
	require.NoError(t, svc.Clone("foo", "copy"))

	_, _ = svc.Add("copy", "c2")

	foo, _ := svc.Lookup("foo")
	cp, _ := svc.Lookup("copy")
	assert.Equal(t, []string{"f1"}, foo)
	assert.Equal(t, []string{"f1", "c2"}, cp)
}

func TestToggleIgnore(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(t)
	_, _ = svc.Add("foo", "bar")

	ignored, err := svc.ToggleIgnore("foo")
	require.NoError(t, err)
	assert.True(t, ignored)
	assert.True(t, svc.IsIgnored("foo"))

	persisted, err := repo.LoadIgnored()
	require.NoError(t, err)
	assert.Equal(t, []string{"foo"}, persisted)

	ignored, err = svc.ToggleIgnore("foo")
	require.NoError(t, err)
	assert.False(t, ignored)
	assert.False(t, svc.IsIgnored("foo"))

	defs, ok := svc.Lookup("foo")
	require.True(t, ok)
	assert.Equal(t, []string{"bar"}, defs)
}

func TestToggleIgnore_UnknownTerm(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.ToggleIgnore("ghost")
	assert.ErrorIs(t, err, errors.ErrTermNotFound)
	assert.Empty(t, svc.Ignored())
}

func TestNew_ReloadsPersistedState(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo, err := repository.NewFileStorage(dir)
	require.NoError(t, err)

	first := New(repo)
	_, _ = first.Add("zeta", "z")
	_, _ = first.Add("alpha", "a")
	_, _ = first.ToggleIgnore("alpha")

	second := New(repo)
	assert.Equal(t, []string{"zeta", "alpha"}, second.Terms())
	assert.True(t, second.IsIgnored("alpha"))
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
	t.Parallel()

	svc := New(failingRepo{})

	_, err := svc.Add("foo", "bar")
	require.NoError(t, err)

	_, err = svc.ToggleIgnore("foo")
	require.NoError(t, err)

	defs, ok := svc.Lookup("foo")
	require.True(t, ok)
	assert.Equal(t, []string{"bar"}, defs)
	assert.True(t, svc.IsIgnored("foo"))
}
