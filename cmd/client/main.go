package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"taskboard/internal/client"
	"taskboard/internal/domain/models"
)

var (
	addr     = flag.String("addr", "http://localhost:8080", "адрес сервера API")
	username = flag.String("user", "", "имя пользователя")
	password = flag.String("pass", "", "пароль")
)

type consoleNotifier struct{}

func (consoleNotifier) Success(message string) { fmt.Println("[OK]", message) }
func (consoleNotifier) Error(message string)   { fmt.Println("[ERROR]", message) }

const usage = `Использование: client -user <имя> -pass <пароль> <команда>

Команды:
  register                 зарегистрировать пользователя
  list                     показать задачи
  add <заголовок> [описание]  добавить задачу
  done <id>                отметить задачу выполненной
  edit <id> <заголовок>    изменить заголовок задачи
  rm <id>                  удалить задачу`

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Println(usage)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	api := client.NewClient(*addr)

	if err := run(ctx, api, args); err != nil {
		log.Fatalf("[ERROR] %v", err)
	}
}

func run(ctx context.Context, api *client.Client, args []string) error {
	command := args[0]

	if command == "register" {
		form := client.RegisterForm{Username: *username, Password: *password}
		if msgs := form.Validate(); msgs != nil {
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		user, err := api.Register(ctx, form.Request())
		if err != nil {
			return err
		}
		fmt.Printf("Пользователь %s зарегистрирован (id %s)\n", user.Username, user.ID)
		return nil
	}

	form := client.LoginForm{Username: *username, Password: *password}
	if msgs := form.Validate(); msgs != nil {
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	if _, err := api.Login(ctx, form.Request()); err != nil {
		return err
	}

	list := client.NewTaskList(api, consoleNotifier{})

	switch command {
	case "list":
		if err := list.Refresh(ctx); err != nil {
			return err
		}
		printTasks(list.Tasks())
		return nil

	case "add":
		if len(args) < 2 {
			return fmt.Errorf("команда add требует заголовок задачи")
		}
		form := client.CreateTaskForm{Title: args[1]}
		if len(args) > 2 {
			form.Description = strings.Join(args[2:], " ")
		}
		task, err := list.Add(ctx, form)
		if err != nil {
			return err
		}
		fmt.Printf("Создана задача %s\n", task.ID)
		return nil

	case "done":
		if len(args) < 2 {
			return fmt.Errorf("команда done требует id задачи")
		}
		status := models.StatusCompleted
		_, err := list.Update(ctx, args[1], client.EditTaskForm{Status: &status})
		return err

	case "edit":
		if len(args) < 3 {
			return fmt.Errorf("команда edit требует id задачи и новый заголовок")
		}
		title := args[2]
		_, err := list.Update(ctx, args[1], client.EditTaskForm{Title: &title})
		return err

	case "rm":
		if len(args) < 2 {
			return fmt.Errorf("команда rm требует id задачи")
		}
		return list.Delete(ctx, args[1])

	default:
		fmt.Println(usage)
		return fmt.Errorf("неизвестная команда: %s", command)
	}
}

func printTasks(tasks []models.Task) {
	if len(tasks) == 0 {
		fmt.Println("Задач нет")
		return
	}
	for _, t := range tasks {
		mark := " "
		if t.Status == models.StatusCompleted {
			mark = "x"
		}
		fmt.Printf("[%s] %s  %s", mark, t.ID, t.Title)
		if t.Description != "" {
			fmt.Printf(" — %s", t.Description)
		}
		fmt.Println()
	}
}
