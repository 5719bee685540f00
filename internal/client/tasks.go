package client

import (
	"context"
	"errors"
	"sync"

	"taskboard/internal/domain/models"
)

// ErrFormInvalid возвращается, когда форма не прошла клиентскую валидацию
// и запрос на сервер не отправлялся.
var ErrFormInvalid = errors.New("форма заполнена некорректно")

// Notifier получает уведомления об исходе операций со списком задач.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// TaskList держит список задач текущего пользователя. Каждая мутация
// уведомляет Notifier и затем безусловно перечитывает список с сервера —
// локального слияния нет, согласованность достигается полным refetch.
type TaskList struct {
	client *Client
	notify Notifier

	mu      sync.RWMutex
	tasks   []models.Task
	loading bool
}

func NewTaskList(client *Client, notify Notifier) *TaskList {
	return &TaskList{
		client: client,
		notify: notify,
	}
}

// Tasks возвращает копию текущего списка.
func (l *TaskList) Tasks() []models.Task {
	l.mu.RLock()
	defer l.mu.RUnlock()

	tasks := make([]models.Task, len(l.tasks))
	copy(tasks, l.tasks)
	return tasks
}

func (l *TaskList) Loading() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loading
}

// Refresh заменяет список задачами с сервера.
func (l *TaskList) Refresh(ctx context.Context) error {
	l.setLoading(true)
	defer l.setLoading(false)

	tasks, err := l.client.Tasks(ctx)
	if err != nil {
		l.notify.Error(err.Error())
		return err
	}

	l.mu.Lock()
	l.tasks = tasks
	l.mu.Unlock()
	return nil
}

func (l *TaskList) Add(ctx context.Context, form CreateTaskForm) (*models.Task, error) {
	if msgs := form.Validate(); msgs != nil {
		l.notify.Error(msgs[0])
		return nil, ErrFormInvalid
	}

	task, err := l.client.CreateTask(ctx, form.Request())
	if err != nil {
		l.notify.Error(err.Error())
		_ = l.Refresh(ctx)
		return nil, err
	}

	l.notify.Success("задача создана")
	_ = l.Refresh(ctx)
	return task, nil
}

func (l *TaskList) Update(ctx context.Context, id string, form EditTaskForm) (*models.Task, error) {
	if msgs := form.Validate(); msgs != nil {
		l.notify.Error(msgs[0])
		return nil, ErrFormInvalid
	}

	task, err := l.client.UpdateTask(ctx, id, form.Request())
	if err != nil {
		l.notify.Error(err.Error())
		_ = l.Refresh(ctx)
		return nil, err
	}

	l.notify.Success("изменения сохранены")
	_ = l.Refresh(ctx)
	return task, nil
}

func (l *TaskList) Delete(ctx context.Context, id string) error {
	if err := l.client.DeleteTask(ctx, id); err != nil {
		l.notify.Error(err.Error())
		_ = l.Refresh(ctx)
		return err
	}

	l.notify.Success("задача удалена")
	return l.Refresh(ctx)
}

func (l *TaskList) setLoading(v bool) {
	l.mu.Lock()
	l.loading = v
	l.mu.Unlock()
}
