package overview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"chatrum/internal/model"
)

func TestNewModel_DefaultsToSampleData(t *testing.T) {
	m := NewModel(nil)
	assert.Equal(t, len(SampleRooms()), m.Cache.Len())
}

func TestRefresh_RanksByLatestActivity(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	source := func() []model.ChatRoom {
		return []model.ChatRoom{
			{Name: "Quiet", LatestMessageTime: base.Add(-time.Hour)},
			{Name: "Busy", LatestMessageTime: base},
			{Name: "Slow", LatestMessageTime: base.Add(-30 * time.Minute)},
		}
	}

	m := NewModel(source)

	items := m.Cache.Items()
	assert.Equal(t, "Busy", items[0].Name)
	assert.Equal(t, "Slow", items[1].Name)
	assert.Equal(t, "Quiet", items[2].Name)
}

func TestRefresh_EqualTimesKeepSourceOrder(t *testing.T) {
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	source := func() []model.ChatRoom {
		return []model.ChatRoom{
			{Name: "First", LatestMessageTime: when},
			{Name: "Second", LatestMessageTime: when},
		}
	}

	m := NewModel(source)

	items := m.Cache.Items()
	assert.Equal(t, "First", items[0].Name)
	assert.Equal(t, "Second", items[1].Name)
}

func TestRefresh_ReplacesPriorContents(t *testing.T) {
	calls := 0
	source := func() []model.ChatRoom {
		calls++
		if calls == 1 {
			return []model.ChatRoom{{Name: "One"}}
		}
		return []model.ChatRoom{{Name: "Two"}, {Name: "Three"}}
	}

	m := NewModel(source)
	assert.Equal(t, 1, m.Cache.Len())

	m.Refresh()
	assert.Equal(t, 2, m.Cache.Len())
}
