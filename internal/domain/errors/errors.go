package errors

import "errors"

var (
	ErrUserNotFound       = errors.New("пользователь не найден")
	ErrInvalidCredentials = errors.New("неверные учетные данные")
	ErrUserAlreadyExists  = errors.New("имя пользователя уже занято")
	ErrValidationFailed   = errors.New("ошибка валидации")
	ErrUnauthorized       = errors.New("нет доступа")
	ErrForbidden          = errors.New("доступ запрещён")
	ErrInternalServer     = errors.New("внутренняя ошибка сервера")
	ErrBadRequest         = errors.New("неверный запрос")
	ErrNotFound           = errors.New("задача не найдена")
	ErrConflict           = errors.New("конфликт ресурса")

	ErrTokenMissing = errors.New("токен авторизации отсутствует")
	ErrInvalidToken = errors.New("недействительный или просроченный токен")

	ErrInvalidUsername    = errors.New("имя пользователя должно содержать от 3 до 50 символов")
	ErrInvalidPassword    = errors.New("пароль должен содержать от 6 до 100 символов")
	ErrInvalidStatus      = errors.New("недопустимый статус задачи")
	ErrInvalidTitle       = errors.New("заголовок задачи должен содержать от 1 до 100 символов")
	ErrInvalidDescription = errors.New("описание задачи не должно превышать 500 символов")

	ErrInvalidGzipRequest    = errors.New("некорректное gzip-тело запроса")
	ErrGzipCompressionFailed = errors.New("ошибка сжатия ответа")

	ErrConfigFileReadFailed = errors.New("не удалось прочитать файл конфигурации")
	ErrConfigParseFailed    = errors.New("не удалось разобрать файл конфигурации")
	ErrConfigInvalidFormat  = errors.New("некорректное значение конфигурации")
	ErrJWTSecretMissing     = errors.New("не задан секрет для подписи токенов")
)
