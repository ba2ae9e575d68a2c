package model

import (
	"encoding/json"
	"testing"
)

func TestUpdateUserRequestBindsAllFields(t *testing.T) {
	body := `{"name":"laura","email":"laura@example.com","img":"i.png","coverImg":"c.png","description":"hi"}`

	var req UpdateUserRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.Name == nil || *req.Name != "laura" {
		t.Errorf("name = %v, want laura", req.Name)
	}
	if req.Email == nil || *req.Email != "laura@example.com" {
		t.Errorf("email = %v, want laura@example.com", req.Email)
	}
	if req.Img == nil || req.CoverImg == nil || req.Description == nil {
		t.Error("img/coverImg/description not bound")
	}
}

func TestUpdateUserRequestOmittedFieldsStayNil(t *testing.T) {
	var req UpdateUserRequest
	if err := json.Unmarshal([]byte(`{"name":"laura"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.Email != nil {
		t.Errorf("email = %q, want nil", *req.Email)
	}
}

func TestPublicProfileStripsPrivateFields(t *testing.T) {
	u := &User{
		ID:              "u1",
		Name:            "laura",
		Email:           "laura@example.com",
		Password:        "hash",
		Subscribers:     []string{"a", "b"},
		SubscribedUsers: []string{"c"},
	}

	p := u.PublicProfile()
	if p.Email != "" || p.Password != "" || p.SubscribedUsers != nil {
		t.Errorf("private fields leaked: email=%q password=%q subscribedUsers=%v",
			p.Email, p.Password, p.SubscribedUsers)
	}
	if p.SubscriberCount() != 2 {
		t.Errorf("subscriber count = %d, want 2", p.SubscriberCount())
	}
	if u.Email == "" {
		t.Error("original record mutated")
	}
}
