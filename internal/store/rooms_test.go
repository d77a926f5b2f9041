// ABOUTME: Tests for the in-memory room store: creation, appends, busy flags, ordering.
// ABOUTME: Includes concurrency checks on the busy test-and-set and snapshot isolation.

package store

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelmbti/chat/internal/chat"
	"github.com/pixelmbti/chat/internal/persona"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestStore(t *testing.T) *RoomStore {
	t.Helper()
	st := NewRoomStore(persona.NewRegistry(testLogger()), testLogger())
	t.Cleanup(st.Close)
	return st
}

func testMessage(content string) chat.Message {
	return chat.Message{
		ID:         uuid.New().String(),
		Sender:     chat.UserSender,
		SenderName: chat.UserName,
		Content:    content,
		Kind:       chat.KindText,
		CreatedAt:  time.Now(),
	}
}

func TestRoomStore_CreateRoom_MaterializesAgents(t *testing.T) {
	st := newTestStore(t)

	room, err := st.CreateRoom("thinkers", []chat.Personality{chat.INTJ, chat.INTP})
	require.NoError(t, err)
	assert.NotEmpty(t, room.ID)
	assert.Equal(t, "thinkers", room.Name)
	require.Len(t, room.Agents, 2)

	assert.Equal(t, chat.INTJ, room.Agents[0].Personality)
	assert.Equal(t, "Architect", room.Agents[0].Name)
	assert.NotEmpty(t, room.Agents[0].Color)
	assert.NotEmpty(t, room.Agents[0].ID)
	assert.NotEqual(t, room.Agents[0].ID, room.Agents[1].ID)
}

func TestRoomStore_CreateRoom_RejectsBadRosterSizes(t *testing.T) {
	st := newTestStore(t)

	_, err := st.CreateRoom("empty", nil)
	assert.ErrorIs(t, err, ErrRosterSize)

	six := []chat.Personality{chat.INTJ, chat.INTP, chat.ENTJ, chat.ENTP, chat.INFJ, chat.INFP}
	_, err = st.CreateRoom("crowd", six)
	assert.ErrorIs(t, err, ErrRosterSize)
}

func TestRoomStore_CreateRoom_AllowsDuplicatePersonalities(t *testing.T) {
	st := newTestStore(t)

	room, err := st.CreateRoom("twins", []chat.Personality{chat.ENFP, chat.ENFP})
	require.NoError(t, err)
	require.Len(t, room.Agents, 2)
	assert.NotEqual(t, room.Agents[0].ID, room.Agents[1].ID)
}

func TestRoomStore_Room_UnknownID(t *testing.T) {
	st := newTestStore(t)
	_, err := st.Room("missing")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomStore_Append_PreservesOrderAndBumpsActivity(t *testing.T) {
	st := newTestStore(t)
	room, err := st.CreateRoom("lounge", []chat.Personality{chat.INTJ})
	require.NoError(t, err)

	first := testMessage("one")
	second := testMessage("two")
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	require.NoError(t, st.Append(room.ID, first))
	require.NoError(t, st.Append(room.ID, second))

	msgs, err := st.Messages(room.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "one", msgs[0].Content)
	assert.Equal(t, "two", msgs[1].Content)

	got, err := st.Room(room.ID)
	require.NoError(t, err)
	assert.Equal(t, second.CreatedAt, got.LastActivity)
}

func TestRoomStore_Append_UnknownRoom(t *testing.T) {
	st := newTestStore(t)
	err := st.Append("missing", testMessage("lost"))
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestRoomStore_Rooms_SortedByActivity(t *testing.T) {
	st := newTestStore(t)
	older, err := st.CreateRoom("older", []chat.Personality{chat.INTJ})
	require.NoError(t, err)
	newer, err := st.CreateRoom("newer", []chat.Personality{chat.ENFP})
	require.NoError(t, err)

	// Touch the older room so it becomes the most recently active.
	msg := testMessage("bump")
	msg.CreatedAt = time.Now().Add(time.Minute)
	require.NoError(t, st.Append(older.ID, msg))

	rooms := st.Rooms()
	require.Len(t, rooms, 2)
	assert.Equal(t, older.ID, rooms[0].ID)
	assert.Equal(t, newer.ID, rooms[1].ID)
}

func TestRoomStore_Room_SnapshotIsolation(t *testing.T) {
	st := newTestStore(t)
	room, err := st.CreateRoom("lounge", []chat.Personality{chat.INTJ})
	require.NoError(t, err)

	snap, err := st.Room(room.ID)
	require.NoError(t, err)
	require.NoError(t, st.Append(room.ID, testMessage("after snapshot")))

	assert.Empty(t, snap.Messages, "earlier snapshot must not observe later appends")

	snap.Agents[0].Name = "mutated"
	fresh, err := st.Room(room.ID)
	require.NoError(t, err)
	assert.Equal(t, "Architect", fresh.Agents[0].Name)
}

func TestRoomStore_AcquireBusy_TestAndSet(t *testing.T) {
	st := newTestStore(t)
	room, err := st.CreateRoom("lounge", []chat.Personality{chat.INTJ})
	require.NoError(t, err)

	assert.False(t, st.IsBusy(room.ID))
	assert.True(t, st.AcquireBusy(room.ID))
	assert.True(t, st.IsBusy(room.ID))
	assert.False(t, st.AcquireBusy(room.ID), "second acquire must fail while held")

	st.ReleaseBusy(room.ID)
	assert.False(t, st.IsBusy(room.ID))
	assert.True(t, st.AcquireBusy(room.ID))
}

func TestRoomStore_AcquireBusy_UnknownRoom(t *testing.T) {
	st := newTestStore(t)
	assert.False(t, st.AcquireBusy("missing"))
}

func TestRoomStore_AcquireBusy_SingleWinnerUnderContention(t *testing.T) {
	st := newTestStore(t)
	room, err := st.CreateRoom("lounge", []chat.Personality{chat.INTJ})
	require.NoError(t, err)

	const goroutines = 32
	var wins int64
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if st.AcquireBusy(room.ID) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, wins)
}

func TestRoomStore_BusyFlags_IndependentAcrossRooms(t *testing.T) {
	st := newTestStore(t)
	roomA, err := st.CreateRoom("a", []chat.Personality{chat.INTJ})
	require.NoError(t, err)
	roomB, err := st.CreateRoom("b", []chat.Personality{chat.ENFP})
	require.NoError(t, err)

	require.True(t, st.AcquireBusy(roomA.ID))
	assert.True(t, st.AcquireBusy(roomB.ID), "one room's turn must not block another's")
	st.ReleaseBusy(roomA.ID)
	st.ReleaseBusy(roomB.ID)
}

func TestRoomStore_Watch_DeliversUpdates(t *testing.T) {
	st := newTestStore(t)
	room, err := st.CreateRoom("lounge", []chat.Personality{chat.INTJ})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates, _ := st.Watch(ctx)

	require.NoError(t, st.Append(room.ID, testMessage("ping")))

	select {
	case u := <-updates:
		assert.Equal(t, room.ID, u.RoomID)
	case <-time.After(time.Second):
		t.Fatal("no update received")
	}
}

func TestWatcher_SubscribeAndUnsubscribe(t *testing.T) {
	w := newWatcher(testLogger())
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, subID := w.Subscribe(ctx)
	w.publish(Update{RoomID: "r1"})

	select {
	case u := <-ch:
		assert.Equal(t, "r1", u.RoomID)
	case <-time.After(time.Second):
		t.Fatal("no update received")
	}

	w.Unsubscribe(subID)
	_, open := <-ch
	assert.False(t, open, "channel closes on unsubscribe")
}

func TestWatcher_ContextCancelCleansUp(t *testing.T) {
	w := newWatcher(testLogger())
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := w.Subscribe(ctx)
	cancel()

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel did not close after context cancel")
	}
}

func TestWatcher_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	w := newWatcher(testLogger())
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, _ := w.Subscribe(ctx)

	// Overfill the buffer; publish must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < watcherBufferSize+10; i++ {
			w.publish(Update{RoomID: "r1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber channel")
	}

	assert.Len(t, ch, watcherBufferSize)
}
