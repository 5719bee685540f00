package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"taskboard/internal/domain/models"
)

// Client — HTTP клиент API задач. После успешного Login хранит bearer-токен
// и подставляет его во все последующие запросы.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

type AuthResponse struct {
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    models.PublicUser `json:"user"`
}

type TaskResponse struct {
	Message string      `json:"message"`
	Task    models.Task `json:"task"`
}

type TasksResponse struct {
	Tasks []models.Task `json:"tasks"`
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) Token() string {
	return c.token
}

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.PublicUser, error) {
	var resp AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login аутентифицирует пользователя и запоминает выданный токен.
func (c *Client) Login(ctx context.Context, req models.LoginRequest) (*models.PublicUser, error) {
	var resp AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp.User, nil
}

func (c *Client) Tasks(ctx context.Context) ([]models.Task, error) {
	var resp TasksResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/tasks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	var resp TaskResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/tasks", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, req models.UpdateTaskRequest) (*models.Task, error) {
	var resp TaskResponse
	if err := c.doRequest(ctx, http.MethodPut, "/api/tasks/"+id, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.doRequest(ctx, http.MethodDelete, "/api/tasks/"+id, nil, nil)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("не удалось сериализовать тело запроса: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("не удалось создать запрос: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("запрос не выполнен: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("не удалось прочитать тело ответа: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("сервер вернул ошибку (%d): %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("запрос завершился со статусом %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("не удалось разобрать ответ: %w", err)
		}
	}

	return nil
}
