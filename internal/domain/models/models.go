package models

import "time"

const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

type User struct {
	ID        string    `json:"id" validate:"omitempty,uuid"`
	Username  string    `json:"username" validate:"required,min=3,max=50,alphanum"`
	Password  string    `json:"-" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
}

// PublicUser — представление пользователя в ответах API, без пароля.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}

type Task struct {
	ID          string    `json:"id" validate:"omitempty,uuid"`
	Title       string    `json:"title" validate:"required,min=1,max=100"`
	Description string    `json:"description" validate:"omitempty,max=500"`
	Status      string    `json:"status" validate:"required,oneof=pending completed"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Deleted     bool      `json:"-"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50,alphanum"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Status      string `json:"status" validate:"omitempty,oneof=pending completed"`
}

// UpdateTaskRequest — частичное обновление: отсутствующее поле не меняет
// сохранённое значение, пустая строка в description явно очищает его.
type UpdateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Status      *string `json:"status" validate:"omitempty,oneof=pending completed"`
}
