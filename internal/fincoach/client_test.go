package fincoach

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoginDecodesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/login" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body["email"] != "a@b.com" || body["password"] != "pw" {
			t.Fatalf("unexpected payload %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","email":"a@b.com","user_id":7,"profile":{"salary":50000}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Login(context.Background(), "a@b.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.UserID != 7 || resp.Email != "a@b.com" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.Profile["salary"] != float64(50000) {
		t.Fatalf("unexpected profile %v", resp.Profile)
	}
}

func TestErrorBodySurfacesAsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Login(context.Background(), "a@b.com", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", apiErr.Status)
	}
	if apiErr.Message != "Invalid credentials" {
		t.Fatalf("expected backend message verbatim, got %q", apiErr.Message)
	}
}

func TestErrorWithoutBodyLeavesMessageEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.CreditScore(context.Background(), "a@b.com")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T: %v", err, err)
	}
	if apiErr.Message != "" {
		t.Fatalf("expected empty message, got %q", apiErr.Message)
	}
}

func TestTransportFailureIsNotAPIError(t *testing.T) {
	client := NewClient("http://127.0.0.1:0")
	_, err := client.Login(context.Background(), "a@b.com", "pw")
	if err == nil {
		t.Fatal("expected transport error")
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failures must not decode as APIError: %v", err)
	}
}

func TestQuestsRequestShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quests" || r.URL.Query().Get("email") != "a@b.com" {
			t.Fatalf("unexpected request %s", r.URL.String())
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user_points":750,"user_level":2,"available_quests":[{"id":3,"title":"Track 3 months","points":100}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.Quests(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("quests: %v", err)
	}
	if resp.UserPoints != 750 || resp.UserLevel != 2 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if len(resp.AvailableQuests) != 1 || resp.AvailableQuests[0].ID != 3 {
		t.Fatalf("unexpected quests %+v", resp.AvailableQuests)
	}
}

func TestClaimQuestHitsUpdatePath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/update/quests/5/claim" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"points":850}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.ClaimQuest(context.Background(), "a@b.com", 5)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if resp.Points != 850 {
		t.Fatalf("unexpected points %d", resp.Points)
	}
}

func TestUpdateProfileSendsSectionPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/update" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Section string   `json:"section"`
			Data    Document `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body.Section != "job" || body.Data["company"] != "Acme" {
			t.Fatalf("unexpected payload %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"updated"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.UpdateProfile(context.Background(), "job", Document{"company": "Acme"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.Message != "updated" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
}

func TestAmountAcceptsNumbersAndStrings(t *testing.T) {
	var doc struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
		D Amount `json:"d"`
	}
	payload := []byte(`{"a":1234.5,"b":"987","c":"","d":null}`)
	if err := json.Unmarshal(payload, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.A != 1234.5 || doc.B != 987 || doc.C != 0 || doc.D != 0 {
		t.Fatalf("unexpected amounts %+v", doc)
	}

	if err := json.Unmarshal([]byte(`{"a":"not a number"}`), &doc); err == nil {
		t.Fatal("expected error for non-numeric string")
	}
}
