package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Окно свежести init_data: Telegram подписывает auth_date, все что старше
// часа считаем replay-попыткой. Небольшой перекос часов вперед допускаем.
const (
	initDataMaxAge    = time.Hour
	initDataClockSkew = 5 * time.Minute
)

// ValidateTelegramInitData checks the WebApp init_data signature against the
// bot token and rejects stale payloads. On success it returns the parsed
// values so the auth handler can pull the user out without re-parsing.
func ValidateTelegramInitData(initData, botToken string) (url.Values, bool) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, false
	}

	provided, err := hex.DecodeString(values.Get("hash"))
	if err != nil || len(provided) == 0 {
		return nil, false
	}
	values.Del("hash")

	if !hmac.Equal(signInitData(values, botToken), provided) {
		return nil, false
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, false
	}
	age := time.Now().Unix() - authDate
	if age > int64(initDataMaxAge.Seconds()) || -age > int64(initDataClockSkew.Seconds()) {
		return nil, false
	}

	return values, true
}

// signInitData строит data-check-string по правилам Telegram (пары
// key=value, отсортированные по ключу, через \n) и подписывает его
// HMAC-SHA256 с ключом sha256(botToken).
func signInitData(values url.Values, botToken string) []byte {
	pairs := make([]string, 0, len(values))
	for k, v := range values {
		pairs = append(pairs, k+"="+strings.Join(v, ""))
	}
	sort.Strings(pairs)

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(strings.Join(pairs, "\n")))
	return mac.Sum(nil)
}
