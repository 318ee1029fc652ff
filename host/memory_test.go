package host

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBridge_StartWithoutInit(t *testing.T) {
	b := NewMemoryBridge(nil)
	assert.ErrorIs(t, b.Start(Element{}, Context{}), ErrNoInit)
}

func TestMemoryBridge_StartReturnsInitError(t *testing.T) {
	b := NewMemoryBridge(nil)
	boom := errors.New("boom")

	var gotCtx Context
	b.Init(func(el Element, ctx Context) error {
		gotCtx = ctx
		return boom
	})

	err := b.Start(Element{}, Context{ProjectID: "p", Item: Item{Name: "Article"}})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "p", gotCtx.ProjectID)
}

func TestMemoryBridge_Notifications(t *testing.T) {
	b := NewMemoryBridge(map[string]any{"title": "Hello"})
	b.Init(func(Element, Context) error { return nil })
	require.NoError(t, b.Start(Element{}, Context{Item: Item{Codename: "a", Name: "Old"}}))

	var disabled []bool
	var names []string
	elementCalls := 0

	b.OnDisabledChanged(func(d bool) { disabled = append(disabled, d) })
	b.ObserveItemChanges(func(it Item) { names = append(names, it.Name) })
	stop := b.ObserveElementChanges([]string{"title"}, func() { elementCalls++ })

	b.SetDisabled(true)
	b.RenameItem("New")
	b.SetElementValue("title", "Bye")
	b.SetElementValue("body", "ignored")

	assert.Equal(t, []bool{true}, disabled)
	assert.Equal(t, []string{"New"}, names)
	assert.Equal(t, 1, elementCalls)

	var title any
	b.GetValue("title", func(v any) { title = v })
	assert.Equal(t, "Bye", title)

	stop()
	b.SetElementValue("title", "again")
	assert.Equal(t, 1, elementCalls)
	assert.Zero(t, b.Observers(EventElements))
}

func TestMemoryBridge_RecordsWrites(t *testing.T) {
	b := NewMemoryBridge(nil)
	b.SetValue("a")
	b.SetValue("ab")
	b.SetHeight(50)

	assert.Equal(t, []string{"a", "ab"}, b.Values())
	assert.Equal(t, []int{50}, b.Heights())

	var missing any = "sentinel"
	b.GetValue("nope", func(v any) { missing = v })
	assert.Nil(t, missing)
}
