// Package telegram разбирает полезную нагрузку Telegram WebApp init_data.
// Проверка подписи живет в service.ValidateTelegramInitData; здесь только
// извлечение пользователя.
package telegram

import (
	"encoding/json"
	"errors"
	"net/url"
)

// WebAppUser - поле user из init_data
type WebAppUser struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	LanguageCode string `json:"language_code"`
}

var ErrNoUser = errors.New("init_data has no user field")

// ParseUser extracts the Telegram user from a validated init_data string.
func ParseUser(initData string) (*WebAppUser, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, err
	}

	raw := values.Get("user")
	if raw == "" {
		return nil, ErrNoUser
	}

	var user WebAppUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, err
	}
	return &user, nil
}
