package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/domain/errors"
	"taskboard/internal/domain/models"
)

type UserRepository interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.Task) error
	GetTaskByID(ctx context.Context, id string) (*models.Task, error)
	GetTasks(ctx context.Context, userID string) ([]models.Task, error)
	UpdateTask(ctx context.Context, id string, task *models.Task) error
	DeleteTask(ctx context.Context, id string) error
}

type TaskAPI struct {
	httpSrv  *http.Server
	userRepo UserRepository
	taskRepo TaskRepository
	cfg      *Config
}

func NewTaskAPI(userRepo UserRepository, taskRepo TaskRepository, cfg *Config) *TaskAPI {
	if userRepo == nil || taskRepo == nil || cfg == nil {
		return nil
	}

	httpSrv := http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.Addr, cfg.Port),
	}

	api := TaskAPI{
		httpSrv:  &httpSrv,
		userRepo: userRepo,
		taskRepo: taskRepo,
		cfg:      cfg,
	}

	api.configRoutes()

	return &api
}

func (api *TaskAPI) Start() error {
	if api.httpSrv == nil {
		return errors.ErrInternalServer
	}

	if api.httpSrv.Addr == "" || api.httpSrv.Addr == ":0" {
		api.httpSrv.Addr = ":8080"
	}

	return api.httpSrv.ListenAndServe()
}

func (api *TaskAPI) Shutdown(ctx context.Context) error {
	if api.httpSrv == nil {
		return nil
	}
	return api.httpSrv.Shutdown(ctx)
}

func (api *TaskAPI) configRoutes() {
	router := gin.Default()
	router.HandleMethodNotAllowed = true

	router.Use(GzipRequestDecompress())
	router.Use(GzipResponseCompress())

	router.NoMethod(func(ctx *gin.Context) {
		ctx.JSON(http.StatusMethodNotAllowed, gin.H{"error": "использован некорректный HTTP-метод"})
	})

	router.GET("/health", api.health)

	auth := router.Group("/api/auth")
	{
		auth.POST("/register", api.register)
		auth.POST("/login", api.login)
	}

	tasks := router.Group("/api/tasks", AuthRequired(api.cfg))
	{
		tasks.GET("", api.getTasks)
		tasks.POST("", api.createTask)
		tasks.PUT(":taskID", api.updateTask)
		tasks.DELETE(":taskID", api.deleteTask)
	}

	api.httpSrv.Handler = router
}

func (api *TaskAPI) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (api *TaskAPI) register(ctx *gin.Context) {
	var req models.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrBadRequest.Error()})
		return
	}

	valid := validator.New()
	if err := valid.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrValidationFailed.Error(), "details": fieldErrors(err)})
		return
	}

	existing, _ := api.userRepo.GetUserByUsername(ctx, req.Username)
	if existing != nil {
		ctx.JSON(http.StatusConflict, gin.H{"error": errors.ErrUserAlreadyExists.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		return
	}

	user := models.User{
		ID:       uuid.New().String(),
		Username: req.Username,
		Password: string(hash),
	}

	if err := api.userRepo.CreateUser(ctx, &user); err != nil {
		if err == errors.ErrUserAlreadyExists {
			ctx.JSON(http.StatusConflict, gin.H{"error": errors.ErrUserAlreadyExists.Error()})
		} else {
			log.Println("[ERROR] Не удалось создать пользователя:", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		}
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "пользователь успешно создан",
		"user":    user.Public(),
	})
}

func (api *TaskAPI) login(ctx *gin.Context) {
	var req models.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrBadRequest.Error()})
		return
	}

	valid := validator.New()
	if err := valid.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrValidationFailed.Error(), "details": fieldErrors(err)})
		return
	}

	user, err := api.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrInvalidCredentials.Error()})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrInvalidCredentials.Error()})
		return
	}

	token, err := IssueToken(api.cfg.JWTSecret, api.cfg.TokenTTL, user.ID)
	if err != nil {
		log.Println("[ERROR] Не удалось выпустить токен:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "вход выполнен успешно",
		"token":   token,
		"user":    user.Public(),
	})
}

func (api *TaskAPI) getTasks(ctx *gin.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrUnauthorized.Error()})
		return
	}

	tasks, err := api.taskRepo.GetTasks(ctx, userID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	ctx.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (api *TaskAPI) createTask(ctx *gin.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrUnauthorized.Error()})
		return
	}

	var req models.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrBadRequest.Error()})
		return
	}

	valid := validator.New()
	if err := valid.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrValidationFailed.Error(), "details": fieldErrors(err)})
		return
	}

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}

	task := models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		UserID:      userID,
	}

	if err := api.taskRepo.CreateTask(ctx, &task); err != nil {
		log.Println("[ERROR] Не удалось создать задачу:", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "задача успешно создана",
		"task":    task,
	})
}

func (api *TaskAPI) updateTask(ctx *gin.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrUnauthorized.Error()})
		return
	}

	id := ctx.Param("taskID")

	var req models.UpdateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrBadRequest.Error()})
		return
	}

	valid := validator.New()
	if err := valid.Struct(req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrValidationFailed.Error(), "details": fieldErrors(err)})
		return
	}

	// omitempty пропускает пустую строку, а пустой заголовок недопустим.
	if req.Title != nil && *req.Title == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": errors.ErrValidationFailed.Error(), "details": []string{errors.ErrInvalidTitle.Error()}})
		return
	}

	task, err := api.taskRepo.GetTaskByID(ctx, id)
	if err != nil {
		if err == errors.ErrNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": errors.ErrNotFound.Error()})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		}
		return
	}

	if task.UserID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": errors.ErrForbidden.Error()})
		return
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}

	if err := api.taskRepo.UpdateTask(ctx, id, task); err != nil {
		if err == errors.ErrNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": errors.ErrNotFound.Error()})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "задача успешно обновлена",
		"task":    task,
	})
}

func (api *TaskAPI) deleteTask(ctx *gin.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": errors.ErrUnauthorized.Error()})
		return
	}

	id := ctx.Param("taskID")

	task, err := api.taskRepo.GetTaskByID(ctx, id)
	if err != nil {
		if err == errors.ErrNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": errors.ErrNotFound.Error()})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		}
		return
	}

	if task.UserID != userID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": errors.ErrForbidden.Error()})
		return
	}

	if err := api.taskRepo.DeleteTask(ctx, id); err != nil {
		if err == errors.ErrNotFound {
			ctx.JSON(http.StatusNotFound, gin.H{"error": errors.ErrNotFound.Error()})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": errors.ErrInternalServer.Error()})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "задача успешно удалена"})
}

func fieldErrors(err error) []string {
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
	if len(messages) == 0 {
		messages = append(messages, errors.ErrValidationFailed.Error())
	}
	return messages
}
