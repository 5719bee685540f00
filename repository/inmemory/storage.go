package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskboard/internal/domain/errors"
	"taskboard/internal/domain/models"
)

type Storage struct {
	mu    sync.RWMutex
	users map[string]models.User
	tasks map[string]models.Task
}

func NewStorage() *Storage {
	return &Storage{
		users: make(map[string]models.User),
		tasks: make(map[string]models.Task),
	}
}

func (s *Storage) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[id]
	if !exists {
		return nil, errors.ErrUserNotFound
	}
	return &user, nil
}

func (s *Storage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, errors.ErrUserNotFound
}

func (s *Storage) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return errors.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now().UTC()
	s.users[user.ID] = *user
	return nil
}

func (s *Storage) CreateTask(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	s.tasks[task.ID] = *task
	return nil
}

func (s *Storage) GetTaskByID(_ context.Context, id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.tasks[id]
	if !exists {
		return nil, errors.ErrNotFound
	}
	return &task, nil
}

// GetTasks возвращает задачи пользователя, новые первыми.
func (s *Storage) GetTasks(_ context.Context, userID string) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := []models.Task{}
	for _, t := range s.tasks {
		if t.UserID == userID {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (s *Storage) UpdateTask(_ context.Context, id string, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.tasks[id]
	if !exists {
		return errors.ErrNotFound
	}
	task.ID = id
	task.CreatedAt = stored.CreatedAt
	task.UpdatedAt = time.Now().UTC()
	s.tasks[id] = *task
	return nil
}

func (s *Storage) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[id]; !exists {
		return errors.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}
