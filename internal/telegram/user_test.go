package telegram

import (
	"net/url"
	"testing"
)

func TestParseUser(t *testing.T) {
	initData := url.Values{
		"auth_date": {"1"},
		"user":      {`{"id":42,"username":"doge","first_name":"Doge"}`},
	}.Encode()

	u, err := ParseUser(initData)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if u.ID != 42 || u.Username != "doge" || u.FirstName != "Doge" {
		t.Fatalf("user = %+v", u)
	}
}

func TestParseUserWithoutUserField(t *testing.T) {
	if _, err := ParseUser("auth_date=1"); err != ErrNoUser {
		t.Fatalf("err = %v, want ErrNoUser", err)
	}
}

func TestParseUserBadJSON(t *testing.T) {
	if _, err := ParseUser("user=not-json"); err == nil {
		t.Fatal("expected error for malformed user payload")
	}
}
