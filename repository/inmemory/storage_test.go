package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/domain/errors"
	"taskboard/internal/domain/models"
)

func TestCreateAndGetUser(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()

	user := &models.User{Username: "alice", Password: "hash"}
	require.NoError(t, s.CreateUser(ctx, user))
	require.NotEmpty(t, user.ID)
	require.False(t, user.CreatedAt.IsZero())

	byID, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	byName, err := s.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
}

func TestCreateUserDuplicate(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &models.User{Username: "alice", Password: "hash"}))

	err := s.CreateUser(ctx, &models.User{Username: "alice", Password: "otherhash"})
	assert.ErrorIs(t, err, errors.ErrUserAlreadyExists)
}

func TestGetUserNotFound(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()

	_, err := s.GetUserByID(ctx, "nonexistent")
	assert.ErrorIs(t, err, errors.ErrUserNotFound)

	_, err = s.GetUserByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, errors.ErrUserNotFound)
}

func TestCreateAndGetTask(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()

	task := &models.Task{
		Title:       "Test Task",
		Description: "Test Description",
		Status:      models.StatusPending,
		UserID:      "user123",
	}
	require.NoError(t, s.CreateTask(ctx, task))
	require.NotEmpty(t, task.ID)
	require.False(t, task.CreatedAt.IsZero())
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)

	got, err := s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test Task", got.Title)
	assert.Equal(t, "user123", got.UserID)
}

func TestGetTasksFiltersByUser(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()

	require.NoError(t, s.CreateTask(ctx, &models.Task{Title: "Task A", Status: models.StatusPending, UserID: "user1"}))
	require.NoError(t, s.CreateTask(ctx, &models.Task{Title: "Task B", Status: models.StatusPending, UserID: "user2"}))
	require.NoError(t, s.CreateTask(ctx, &models.Task{Title: "Task C", Status: models.StatusPending, UserID: "user1"}))

	tasks, err := s.GetTasks(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.Equal(t, "user1", task.UserID)
	}

	tasks, err = s.GetTasks(ctx, "user3")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestGetTasksNewestFirst(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, s.CreateTask(ctx, &models.Task{Title: title, Status: models.StatusPending, UserID: "user1"}))
		time.Sleep(time.Millisecond)
	}

	tasks, err := s.GetTasks(ctx, "user1")
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "third", tasks[0].Title)
	assert.Equal(t, "second", tasks[1].Title)
	assert.Equal(t, "first", tasks[2].Title)
}

func TestUpdateTask(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()

	task := &models.Task{Title: "Original", Status: models.StatusPending, UserID: "user1"}
	require.NoError(t, s.CreateTask(ctx, task))
	createdAt := task.CreatedAt

	time.Sleep(time.Millisecond)

	updated := &models.Task{Title: "Updated", Status: models.StatusCompleted, UserID: "user1"}
	require.NoError(t, s.UpdateTask(ctx, task.ID, updated))

	got, err := s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Title)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, createdAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(createdAt))
}

func TestUpdateTaskNotFound(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()

	err := s.UpdateTask(ctx, "nonexistent", &models.Task{Title: "Updated"})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()

	task := &models.Task{Title: "To delete", Status: models.StatusPending, UserID: "user1"}
	require.NoError(t, s.CreateTask(ctx, task))

	require.NoError(t, s.DeleteTask(ctx, task.ID))

	_, err := s.GetTaskByID(ctx, task.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	// повторное удаление
	err = s.DeleteTask(ctx, task.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStorage()
	ctx := context.Background()

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			task := &models.Task{Title: "Concurrent", Status: models.StatusPending, UserID: "user1"}
			_ = s.CreateTask(ctx, task)
			_, _ = s.GetTasks(ctx, "user1")
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	tasks, err := s.GetTasks(ctx, "user1")
	require.NoError(t, err)
	assert.Len(t, tasks, 10)
}
