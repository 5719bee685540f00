package client

import (
	"github.com/go-playground/validator"

	"taskboard/internal/domain/errors"
	"taskboard/internal/domain/models"
)

// Формы проверяются до отправки запроса, той же схемой, что и на сервере.
// Для логина клиентская схема строже серверной: полные требования к имени
// и паролю вместо простого "поле обязательно".

type LoginForm struct {
	Username string `validate:"required,min=3,max=50"`
	Password string `validate:"required,min=6"`
}

func (f LoginForm) Validate() []string {
	return validateForm(f)
}

func (f LoginForm) Request() models.LoginRequest {
	return models.LoginRequest{Username: f.Username, Password: f.Password}
}

type RegisterForm struct {
	Username string `validate:"required,min=3,max=50,alphanum"`
	Password string `validate:"required,min=6,max=100"`
}

func (f RegisterForm) Validate() []string {
	return validateForm(f)
}

func (f RegisterForm) Request() models.RegisterRequest {
	return models.RegisterRequest{Username: f.Username, Password: f.Password}
}

type CreateTaskForm struct {
	Title       string `validate:"required,min=1,max=100"`
	Description string `validate:"omitempty,max=500"`
	Status      string `validate:"omitempty,oneof=pending completed"`
}

func (f CreateTaskForm) Validate() []string {
	return validateForm(f)
}

func (f CreateTaskForm) Request() models.CreateTaskRequest {
	return models.CreateTaskRequest{Title: f.Title, Description: f.Description, Status: f.Status}
}

// EditTaskForm — частичное редактирование: nil-поле не отправляется.
type EditTaskForm struct {
	Title       *string `validate:"omitempty,min=1,max=100"`
	Description *string `validate:"omitempty,max=500"`
	Status      *string `validate:"omitempty,oneof=pending completed"`
}

func (f EditTaskForm) Validate() []string {
	if f.Title != nil && *f.Title == "" {
		return []string{errors.ErrInvalidTitle.Error()}
	}
	return validateForm(f)
}

func (f EditTaskForm) Request() models.UpdateTaskRequest {
	return models.UpdateTaskRequest{Title: f.Title, Description: f.Description, Status: f.Status}
}

func validateForm(form interface{}) []string {
	valid := validator.New()
	err := valid.Struct(form)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{errors.ErrValidationFailed.Error()}
	}

	messages := make([]string, 0, len(verrs))
	for _, verr := range verrs {
		switch verr.Field() {
		case "Username":
			messages = append(messages, errors.ErrInvalidUsername.Error())
		case "Password":
			messages = append(messages, errors.ErrInvalidPassword.Error())
		case "Title":
			messages = append(messages, errors.ErrInvalidTitle.Error())
		case "Description":
			messages = append(messages, errors.ErrInvalidDescription.Error())
		case "Status":
			messages = append(messages, errors.ErrInvalidStatus.Error())
		default:
			messages = append(messages, errors.ErrValidationFailed.Error())
		}
	}
	return messages
}
