// Package overview holds an independent in-memory room list ranked by
// latest activity. It is sample data for the overview screen and makes no
// backend calls.
package overview

import (
	"sort"
	"time"

	"chatrum/internal/model"
	"chatrum/internal/syncer"
)

// Source supplies the overview rows.
type Source func() []model.ChatRoom

// Model keeps the rows sorted by LatestMessageTime descending.
type Model struct {
	source Source
	Cache  *syncer.Cache[model.ChatRoom]
}

func NewModel(source Source) *Model {
	if source == nil {
		source = SampleRooms
	}
	m := &Model{
		source: source,
		Cache:  syncer.NewCache[model.ChatRoom](),
	}
	m.Refresh()
	return m
}

// Refresh reloads and re-ranks the rows.
func (m *Model) Refresh() {
	rooms := m.source()
	sort.SliceStable(rooms, func(i, j int) bool {
		return rooms[i].LatestMessageTime.After(rooms[j].LatestMessageTime)
	})
	m.Cache.ReplaceAll(rooms)
}

// SampleRooms is the built-in demo data source.
func SampleRooms() []model.ChatRoom {
	return []model.ChatRoom{
		{Name: "Room 1", Description: "Description of Room 1", LatestMessageTime: time.Now().Add(-5 * time.Minute)},
		{Name: "Room 2", Description: "Description of Room 2", LatestMessageTime: time.Now().Add(-1 * time.Minute)},
		{Name: "Room 3", Description: "Description of Room 3", LatestMessageTime: time.Now().Add(-2 * time.Minute)},
	}
}
