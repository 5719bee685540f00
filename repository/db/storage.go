package db

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"taskboard/internal/domain/errors"
	"taskboard/internal/domain/models"
)

const uniqueViolationCode = "23505"

type Storage struct {
	conn                  *pgx.Conn
	prepCreateTask        string
	prepGetTaskByID       string
	prepGetTasks          string
	prepUpdateTask        string
	prepDeleteTask        string
	prepCreateUser        string
	prepGetUserByID       string
	prepGetUserByUsername string
	deleteQueue           chan struct{}
}

func NewStorage(connStr string) (*Storage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		log.Println("[ERROR] Не удалось подключиться к базе данных:", err)
		return nil, err
	}

	s := &Storage{
		conn:                  conn,
		prepCreateTask:        `INSERT INTO tasks (id, title, description, status, user_id, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		prepGetTaskByID:       `SELECT id, title, description, status, user_id, created_at, updated_at FROM tasks WHERE id = $1 AND deleted = false`,
		prepGetTasks:          `SELECT id, title, description, status, user_id, created_at, updated_at FROM tasks WHERE user_id = $1 AND deleted = false ORDER BY created_at DESC`,
		prepUpdateTask:        `UPDATE tasks SET title = $1, description = $2, status = $3, updated_at = $4 WHERE id = $5 AND deleted = false`,
		prepDeleteTask:        `UPDATE tasks SET deleted = true WHERE id = $1 AND deleted = false`,
		prepCreateUser:        `INSERT INTO users (id, username, password, created_at) VALUES ($1, $2, $3, $4)`,
		prepGetUserByID:       `SELECT id, username, password, created_at FROM users WHERE id = $1`,
		prepGetUserByUsername: `SELECT id, username, password, created_at FROM users WHERE username = $1`,
		deleteQueue:           make(chan struct{}, 10),
	}
	log.Println("[SUCCESS] Соединение с базой данных установлено успешно")
	return s, nil
}

func (s *Storage) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now().UTC()
	stmt, err := s.conn.Prepare(ctx, "create_user", s.prepCreateUser)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на создание пользователя:", err)
		return err
	}
	_, err = s.conn.Exec(ctx, stmt.Name, user.ID, user.Username, user.Password, user.CreatedAt)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == uniqueViolationCode {
			log.Println("[ERROR] Имя пользователя уже занято:", user.Username)
			return errors.ErrUserAlreadyExists
		}
		log.Println("[ERROR] Не удалось создать пользователя:", err)
		return err
	}
	log.Println("[SUCCESS] Пользователь успешно создан:", user.ID)
	return nil
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	stmt, err := s.conn.Prepare(ctx, "get_user_by_id", s.prepGetUserByID)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на получение пользователя по ID:", err)
		return nil, err
	}
	row := s.conn.QueryRow(ctx, stmt.Name, id)
	user := &models.User{}
	if err := row.Scan(&user.ID, &user.Username, &user.Password, &user.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.ErrUserNotFound
		}
		log.Println("[ERROR] Ошибка при получении пользователя:", err)
		return nil, err
	}
	return user, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	stmt, err := s.conn.Prepare(ctx, "get_user_by_username", s.prepGetUserByUsername)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на получение пользователя по имени:", err)
		return nil, err
	}
	row := s.conn.QueryRow(ctx, stmt.Name, username)
	user := &models.User{}
	if err := row.Scan(&user.ID, &user.Username, &user.Password, &user.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.ErrUserNotFound
		}
		log.Println("[ERROR] Ошибка при получении пользователя:", err)
		return nil, err
	}
	return user, nil
}

func (s *Storage) CreateTask(ctx context.Context, task *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	task.Deleted = false
	stmt, err := s.conn.Prepare(ctx, "create_task", s.prepCreateTask)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на создание задачи:", err)
		return err
	}
	_, err = s.conn.Exec(ctx, stmt.Name, task.ID, task.Title, task.Description, task.Status, task.UserID, now)
	if err != nil {
		log.Println("[ERROR] Не удалось создать задачу:", err)
		return err
	}
	log.Println("[SUCCESS] Задача успешно создана:", task.ID)
	return nil
}

func (s *Storage) GetTaskByID(ctx context.Context, id string) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	stmt, err := s.conn.Prepare(ctx, "get_task_by_id", s.prepGetTaskByID)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на получение задачи по ID:", err)
		return nil, err
	}
	row := s.conn.QueryRow(ctx, stmt.Name, id)
	task := &models.Task{}
	if err := row.Scan(&task.ID, &task.Title, &task.Description, &task.Status, &task.UserID, &task.CreatedAt, &task.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.ErrNotFound
		}
		log.Println("[ERROR] Ошибка при получении задачи:", err)
		return nil, err
	}
	return task, nil
}

// GetTasks возвращает задачи пользователя, новые первыми.
func (s *Storage) GetTasks(ctx context.Context, userID string) ([]models.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	stmt, err := s.conn.Prepare(ctx, "get_tasks", s.prepGetTasks)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на получение задач:", err)
		return nil, err
	}
	rows, err := s.conn.Query(ctx, stmt.Name, userID)
	if err != nil {
		log.Println("[ERROR] Не удалось получить задачи:", err)
		return nil, err
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task := models.Task{}
		if err := rows.Scan(&task.ID, &task.Title, &task.Description, &task.Status, &task.UserID, &task.CreatedAt, &task.UpdatedAt); err != nil {
			log.Println("[ERROR] Ошибка при чтении задач:", err)
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (s *Storage) UpdateTask(ctx context.Context, id string, task *models.Task) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	task.UpdatedAt = time.Now().UTC()
	stmt, err := s.conn.Prepare(ctx, "update_task", s.prepUpdateTask)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на обновление задачи:", err)
		return err
	}
	ct, err := s.conn.Exec(ctx, stmt.Name, task.Title, task.Description, task.Status, task.UpdatedAt, id)
	if err != nil {
		log.Println("[ERROR] Не удалось обновить задачу:", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	log.Println("[SUCCESS] Задача успешно обновлена:", id)
	return nil
}

// DeleteTask помечает задачу удалённой; физическое удаление выполняется
// пакетно при переполнении очереди.
func (s *Storage) DeleteTask(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	stmt, err := s.conn.Prepare(ctx, "delete_task_soft", s.prepDeleteTask)
	if err != nil {
		log.Println("[ERROR] Не удалось подготовить запрос на пометку задачи как удалённой:", err)
		return err
	}
	ct, err := s.conn.Exec(ctx, stmt.Name, id)
	if err != nil {
		log.Println("[ERROR] Не удалось пометить задачу как удалённую:", err)
		return err
	}
	if ct.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	log.Println("[SUCCESS] Задача помечена как удалённая:", id)
	s.tryEnqueueOrFlush()
	return nil
}

func (s *Storage) tryEnqueueOrFlush() {
	if s.deleteQueue == nil {
		return
	}
	select {
	case s.deleteQueue <- struct{}{}:
	default:
		s.drainDeleteQueue()
		if affected, err := s.hardDeleteAllFlagged(context.Background()); err != nil {
			log.Println("[ERROR] Ошибка при удалении задач с признаком deleted:", err)
		} else if affected > 0 {
			log.Println("[SUCCESS] Жёстко удалено задач:", affected)
		}
	}
}

func (s *Storage) drainDeleteQueue() {
	for {
		select {
		case <-s.deleteQueue:
		default:
			return
		}
	}
}

func (s *Storage) hardDeleteAllFlagged(ctx context.Context) (int64, error) {
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	tx, err := s.conn.Begin(c)
	if err != nil {
		return 0, err
	}
	ct, err := tx.Exec(c, `DELETE FROM tasks WHERE deleted = true`)
	if err != nil {
		_ = tx.Rollback(c)
		return 0, err
	}
	if err := tx.Commit(c); err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}
