package textedit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/sokki/pkg/textedit"
)

func TestApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		edits []textedit.TextEdit
		want  string
	}{
		{name: "no edits", text: "hello", want: "hello"},
		{
			name:  "replacement",
			text:  "hello world",
			edits: []textedit.TextEdit{{StartOffset: 0, EndOffset: 5, NewText: "hi"}},
			want:  "hi world",
		},
		{
			name: "unsorted edits are ordered",
			text: "- a\n- b",
			edits: []textedit.TextEdit{
				{StartOffset: 4, EndOffset: 4, NewText: "    "},
				{StartOffset: 0, EndOffset: 0, NewText: "    "},
			},
			want: "    - a\n    - b",
		},
		{
			name: "insertions at the same offset keep their order",
			text: "x",
			edits: []textedit.TextEdit{
				{StartOffset: 0, EndOffset: 0, NewText: "a"},
				{StartOffset: 0, EndOffset: 0, NewText: "b"},
			},
			want: "abx",
		},
		{
			name:  "delete everything",
			text:  "abc",
			edits: []textedit.TextEdit{{StartOffset: 0, EndOffset: 3}},
			want:  "",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := textedit.Apply(testCase.text, testCase.edits)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestApply_Errors(t *testing.T) {
	t.Parallel()

	t.Run("out of range", func(t *testing.T) {
		t.Parallel()

		got, err := textedit.Apply("abc", []textedit.TextEdit{{StartOffset: 2, EndOffset: 9}})
		var validationErr *textedit.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "abc", got)
	})

	t.Run("overlap", func(t *testing.T) {
		t.Parallel()

		_, err := textedit.Apply("abcdef", []textedit.TextEdit{
			{StartOffset: 0, EndOffset: 3, NewText: "x"},
			{StartOffset: 2, EndOffset: 4, NewText: "y"},
		})
		var conflictErr *textedit.ConflictError
		require.ErrorAs(t, err, &conflictErr)
		assert.Equal(t, 2, conflictErr.Second.StartOffset)
	})
}

func TestEditBuilder(t *testing.T) {
	t.Parallel()

	builder := textedit.NewEditBuilder()
	assert.True(t, builder.Empty())

	builder.Insert(0, "# ")
	builder.Delete(5, 6)
	builder.ReplaceRange(6, 7, "!")

	got, err := builder.Apply("title x?")
	require.NoError(t, err)
	assert.Equal(t, "# title!?", got)
}

func TestMapOffset(t *testing.T) {
	t.Parallel()

	edits := []textedit.TextEdit{
		{StartOffset: 0, EndOffset: 0, NewText: "    "},
		{StartOffset: 4, EndOffset: 6, NewText: "1."},
		{StartOffset: 10, EndOffset: 12, NewText: ""},
	}

	tests := []struct {
		name   string
		offset int
		want   int
	}{
		{name: "insertion at offset does not move it", offset: 0, want: 0},
		{name: "after insertion", offset: 2, want: 6},
		{name: "inside replacement", offset: 5, want: 9},
		{name: "inside deletion", offset: 11, want: 14},
		{name: "after everything", offset: 14, want: 16},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, textedit.MapOffset(testCase.offset, edits))
		})
	}
}
