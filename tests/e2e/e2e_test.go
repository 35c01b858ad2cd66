//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

type userResponse struct {
	ID                  string `json:"id"`
	DisplayName         string `json:"display_name"`
	Email               string `json:"email"`
	SubscriptionTier    string `json:"subscription_tier"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type messageResponse struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	Role           string `json:"role"`
	Content        string `json:"content"`
}

type conversationResponse struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Messages []messageResponse `json:"messages"`
}

type turnResponse struct {
	UserMessage      messageResponse `json:"user_message"`
	AssistantMessage messageResponse `json:"assistant_message"`
}

type checkinResponse struct {
	ID       string   `json:"id"`
	Score    int      `json:"score"`
	Emotions []string `json:"emotions"`
}

type streakResponse struct {
	Streak int `json:"streak"`
}

type journalResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func TestE2ESmoke(t *testing.T) {
	baseURL := envOrDefault("NEURONOVA_BASE_URL", "http://localhost:8080")
	client := &http.Client{Timeout: 30 * time.Second}

	// Each run signs up a fresh account so the test is repeatable
	// against a long-lived environment.
	email := fmt.Sprintf("e2e-%s@example.com", ulid.Make().String())
	auth := signUp(t, client, baseURL, "Smoke Tester", email, "passphrase9")
	if auth.User.Email != email {
		t.Fatalf("signup email = %q, want %q", auth.User.Email, email)
	}
	if auth.User.SubscriptionTier != "free" {
		t.Fatalf("new account tier = %q, want free", auth.User.SubscriptionTier)
	}

	conv := activeConversation(t, client, baseURL, auth.Token)
	if len(conv.Messages) == 0 {
		t.Fatal("active conversation has no welcome message")
	}
	if conv.Messages[0].Role != "assistant" {
		t.Fatalf("first message role = %q, want assistant", conv.Messages[0].Role)
	}

	turn := sendMessage(t, client, baseURL, auth.Token, conv.ID, "I had a rough day at work")
	if turn.AssistantMessage.Content == "" {
		t.Fatal("assistant reply is empty")
	}
	if turn.UserMessage.ConversationID != conv.ID {
		t.Fatalf("turn conversation = %q, want %q", turn.UserMessage.ConversationID, conv.ID)
	}

	// A second visit must return the same conversation with the
	// transcript grown by the turn above.
	again := activeConversation(t, client, baseURL, auth.Token)
	if again.ID != conv.ID {
		t.Fatalf("active conversation changed: %q -> %q", conv.ID, again.ID)
	}
	if len(again.Messages) != len(conv.Messages)+2 {
		t.Fatalf("transcript has %d messages, want %d", len(again.Messages), len(conv.Messages)+2)
	}

	checkin := recordCheckin(t, client, baseURL, auth.Token, 4, []string{"tired", "hopeful"})
	if checkin.Score != 4 {
		t.Fatalf("checkin score = %d, want 4", checkin.Score)
	}

	streak := fetchStreak(t, client, baseURL, auth.Token)
	if streak.Streak < 1 {
		t.Fatalf("streak = %d, want at least 1", streak.Streak)
	}

	entry := createJournalEntry(t, client, baseURL, auth.Token, "Evening reflection", "Work was stressful but the walk helped.")
	deleteJournalEntry(t, client, baseURL, auth.Token, entry.ID)

	signOut(t, client, baseURL, auth.Token)

	// The token must be dead after sign-out.
	resp := doJSON(t, client, http.MethodGet, baseURL+"/api/v1/chat/conversation", auth.Token, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after signout, got %d", resp.StatusCode)
	}

	// Signing back in issues a fresh session for the same account.
	reauth := signIn(t, client, baseURL, email, "passphrase9")
	if reauth.User.ID != auth.User.ID {
		t.Fatalf("signin returned user %q, want %q", reauth.User.ID, auth.User.ID)
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func signUp(t *testing.T, client *http.Client, baseURL, displayName, email, password string) *authResponse {
	t.Helper()

	payload := map[string]string{
		"display_name": displayName,
		"email":        email,
		"password":     password,
	}
	resp := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/signup", "", payload)
	defer resp.Body.Close()
	requireStatus(t, resp, http.StatusCreated, "signup")

	var auth authResponse
	decode(t, resp, &auth)
	if auth.Token == "" {
		t.Fatal("signup returned empty token")
	}
	return &auth
}

func signIn(t *testing.T, client *http.Client, baseURL, email, password string) *authResponse {
	t.Helper()

	payload := map[string]string{"email": email, "password": password}
	resp := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/signin", "", payload)
	defer resp.Body.Close()
	requireStatus(t, resp, http.StatusOK, "signin")

	var auth authResponse
	decode(t, resp, &auth)
	return &auth
}

func signOut(t *testing.T, client *http.Client, baseURL, token string) {
	t.Helper()

	resp := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/auth/signout", token, nil)
	defer resp.Body.Close()
	requireStatus(t, resp, http.StatusNoContent, "signout")
}

func activeConversation(t *testing.T, client *http.Client, baseURL, token string) *conversationResponse {
	t.Helper()

	resp := doJSON(t, client, http.MethodGet, baseURL+"/api/v1/chat/conversation", token, nil)
	defer resp.Body.Close()
	requireStatus(t, resp, http.StatusOK, "active conversation")

	var conv conversationResponse
	decode(t, resp, &conv)
	return &conv
}

func sendMessage(t *testing.T, client *http.Client, baseURL, token, conversationID, content string) *turnResponse {
	t.Helper()

	payload := map[string]string{
		"conversation_id": conversationID,
		"content":         content,
	}
	resp := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/chat/messages", token, payload)
	defer resp.Body.Close()
	requireStatus(t, resp, http.StatusCreated, "send message")

	var turn turnResponse
	decode(t, resp, &turn)
	return &turn
}

func recordCheckin(t *testing.T, client *http.Client, baseURL, token string, score int, emotions []string) *checkinResponse {
	t.Helper()

	payload := map[string]interface{}{
		"score":    score,
		"emotions": emotions,
	}
	resp := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/checkins", token, payload)
	defer resp.Body.Close()
	requireStatus(t, resp, http.StatusCreated, "record checkin")

	var checkin checkinResponse
	decode(t, resp, &checkin)
	return &checkin
}

func fetchStreak(t *testing.T, client *http.Client, baseURL, token string) *streakResponse {
	t.Helper()

	resp := doJSON(t, client, http.MethodGet, baseURL+"/api/v1/checkins/streak", token, nil)
	defer resp.Body.Close()
	requireStatus(t, resp, http.StatusOK, "fetch streak")

	var streak streakResponse
	decode(t, resp, &streak)
	return &streak
}

func createJournalEntry(t *testing.T, client *http.Client, baseURL, token, title, content string) *journalResponse {
	t.Helper()

	payload := map[string]string{"title": title, "content": content}
	resp := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/journal", token, payload)
	defer resp.Body.Close()
	requireStatus(t, resp, http.StatusCreated, "create journal entry")

	var entry journalResponse
	decode(t, resp, &entry)
	return &entry
}

func deleteJournalEntry(t *testing.T, client *http.Client, baseURL, token, id string) {
	t.Helper()

	resp := doJSON(t, client, http.MethodDelete, baseURL+"/api/v1/journal/"+id, token, nil)
	defer resp.Body.Close()
	requireStatus(t, resp, http.StatusNoContent, "delete journal entry")
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func requireStatus(t *testing.T, resp *http.Response, want int, step string) {
	t.Helper()

	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s: expected status %d, got %d: %s", step, want, resp.StatusCode, string(body))
	}
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
