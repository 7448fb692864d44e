package service

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxTitleLen       = 255
	maxDescriptionLen = 500
	maxLabelNameLen   = 50
	minPriority       = 1
	maxPriority       = 5
)

var hexColorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

func validateTitle(title string) *BusinessError {
	if title == "" {
		return NewValidationError("title", "не может быть пустым")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return NewValidationError("title", "длиннее 255 символов")
	}
	return nil
}

func validateDescription(description *string) *BusinessError {
	if description != nil && utf8.RuneCountInString(*description) > maxDescriptionLen {
		return NewValidationError("description", "длиннее 500 символов")
	}
	return nil
}

// validatePriority отклоняет значения вне [1,5], не подрезая их молча.
func validatePriority(priority int) *BusinessError {
	if priority < minPriority || priority > maxPriority {
		return NewValidationError("priority", "должен быть от 1 до 5")
	}
	return nil
}

// validateDueDate: дедлайн должен быть строго в будущем на момент валидации.
// К моменту записи в БД повторной проверки нет.
func validateDueDate(dueDate *time.Time, now time.Time) *BusinessError {
	if dueDate != nil && !dueDate.After(now) {
		return NewValidationError("due_date", "должен быть в будущем")
	}
	return nil
}

// normalizeColor проверяет формат #rgb/#rrggbb и нормализует:
// нижний регистр, короткая форма разворачивается ("#fff" -> "#ffffff").
func normalizeColor(color string) (string, *BusinessError) {
	if !hexColorRe.MatchString(color) {
		return "", NewValidationError("color", "ожидается hex-цвет #rgb или #rrggbb")
	}

	color = strings.ToLower(color)
	if len(color) == 4 {
		expanded := []byte{'#', 0, 0, 0, 0, 0, 0}
		for i := 0; i < 3; i++ {
			expanded[1+2*i] = color[1+i]
			expanded[2+2*i] = color[1+i]
		}
		color = string(expanded)
	}
	return color, nil
}

// normalizeColorPtr - то же для опционального поля; nil проходит как есть.
func normalizeColorPtr(color *string) (*string, *BusinessError) {
	if color == nil {
		return nil, nil
	}
	normalized, bErr := normalizeColor(*color)
	if bErr != nil {
		return nil, bErr
	}
	return &normalized, nil
}

func validateLabelName(name string) *BusinessError {
	if name == "" {
		return NewValidationError("name", "не может быть пустым")
	}
	if utf8.RuneCountInString(name) > maxLabelNameLen {
		return NewValidationError("name", "длиннее 50 символов")
	}
	return nil
}

func validateUsername(username string) *BusinessError {
	if username == "" {
		return NewValidationError("username", "не может быть пустым")
	}
	if utf8.RuneCountInString(username) > maxTitleLen {
		return NewValidationError("username", "длиннее 255 символов")
	}
	return nil
}

func validateEmail(email string) *BusinessError {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || strings.Count(email, "@") != 1 {
		return NewValidationError("email", "неверный формат")
	}
	return nil
}

func validatePassword(password string) *BusinessError {
	if len(password) < 8 {
		return NewValidationError("password", "короче 8 символов")
	}
	return nil
}
