package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/studypilot/studypilot/internal/agent"
	"github.com/studypilot/studypilot/internal/core"
	"github.com/studypilot/studypilot/internal/llm"
	"github.com/studypilot/studypilot/internal/session"
)

// testServer wires a server against an in-memory registry and a scripted
// model endpoint.
func testServer(t *testing.T, llmResponses ...map[string]any) (*httptest.Server, *session.Registry) {
	t.Helper()

	call := 0
	fake := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if call >= len(llmResponses) {
			http.Error(w, "no scripted response", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(llmResponses[call])
		call++
	}))
	t.Cleanup(fake.Close)

	reg := session.NewInMemoryRegistry()
	t.Cleanup(func() { reg.Close() })

	client := llm.NewClient(llm.Config{BaseURL: fake.URL})
	srv := New(Config{
		Orchestrator: agent.New(reg, client),
		Sessions:     reg,
	})

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return ts, reg
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHandleChat(t *testing.T) {
	ts, _ := testServer(t, map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": "hi there"}},
		},
	})

	resp := postJSON(t, ts.URL+"/api/chat?session=alice", map[string]string{
		"message": "hello", "mode": "study_helper",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	result := decode[agent.TurnResult](t, resp)
	if result.Response != "hi there" {
		t.Errorf("response = %q, want 'hi there'", result.Response)
	}
}

func TestHandleChat_InvalidJSON(t *testing.T) {
	ts, _ := testServer(t)

	resp, err := http.Post(ts.URL+"/api/chat", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleChat_MissingMessage(t *testing.T) {
	ts, _ := testServer(t)

	resp := postJSON(t, ts.URL+"/api/chat", map[string]string{"mode": "planner"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleProfile_RoundTrip(t *testing.T) {
	ts, _ := testServer(t)

	resp := postJSON(t, ts.URL+"/api/profile?session=alice", map[string]any{
		"name": "Ada", "major": "CS",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST status = %d, want 200", resp.StatusCode)
	}
	updated := decode[core.Profile](t, resp)
	if updated.Name == nil || *updated.Name != "Ada" {
		t.Errorf("updated name = %v, want Ada", updated.Name)
	}

	getResp, err := http.Get(ts.URL + "/api/profile?session=alice")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	profile := decode[core.Profile](t, getResp)
	if profile.Major == nil || *profile.Major != "CS" {
		t.Errorf("profile major = %v, want CS", profile.Major)
	}
}

func TestHandleProfile_InvalidPayload(t *testing.T) {
	ts, _ := testServer(t)

	resp, err := http.Post(ts.URL+"/api/profile", "application/json", bytes.NewReader([]byte("[1,2]")))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	body := decode[map[string]string](t, resp)
	if body["error"] != "Invalid profile payload" {
		t.Errorf("error = %q, want 'Invalid profile payload'", body["error"])
	}
}

func TestHandleProfile_SessionIsolation(t *testing.T) {
	ts, _ := testServer(t)

	postJSON(t, ts.URL+"/api/profile?session=alice", map[string]any{"name": "Ada"}).Body.Close()

	resp, err := http.Get(ts.URL + "/api/profile?session=bob")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	profile := decode[core.Profile](t, resp)
	if profile.Name != nil {
		t.Errorf("bob sees alice's name %q", *profile.Name)
	}
}

func TestHandlePreferences_Defaults(t *testing.T) {
	ts, _ := testServer(t)

	resp, err := http.Get(ts.URL + "/api/preferences")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	prefs := decode[core.Preferences](t, resp)
	if prefs.Theme != "light" || prefs.ReminderTime != "20:00" {
		t.Errorf("defaults = %+v", prefs)
	}
}

func TestHandleUpcoming(t *testing.T) {
	ts, reg := testServer(t)

	h, _ := reg.Acquire("alice")
	due := time.Now().UTC().AddDate(0, 0, 2).Format(time.RFC3339)
	h.Tasks.Add(&core.AcademicTask{Type: core.AcademicExam, Title: "Midterm", DueDate: due})
	h.Career.Add(&core.ProfessionalTask{Type: core.ProfessionalInterview, Title: "Onsite", Deadline: due})

	resp, err := http.Get(ts.URL + "/api/upcoming?session=alice&days=7")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	tasks := decode[[]core.UpcomingTask](t, resp)
	if len(tasks) != 2 {
		t.Fatalf("upcoming = %d rows, want 2", len(tasks))
	}
	for _, task := range tasks {
		if task.Category != core.CategoryAcademic && task.Category != core.CategoryProfessional {
			t.Errorf("row %q has category %q", task.Title, task.Category)
		}
	}
}

func TestHandleUpcoming_EmptyIsArray(t *testing.T) {
	ts, _ := testServer(t)

	resp, err := http.Get(ts.URL + "/api/upcoming")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	var tasks []core.UpcomingTask
	if err := json.NewDecoder(resp.Body).Decode(&tasks); err != nil {
		t.Fatalf("empty upcoming should decode as an array: %v", err)
	}
}

func TestHandleChatHistory(t *testing.T) {
	ts, reg := testServer(t)

	h, _ := reg.Acquire("alice")
	h.Chat.Append(&core.ChatMessage{Mode: core.ModePlanner, Role: core.RoleUser, Content: "plan my week"})
	h.Chat.Append(&core.ChatMessage{Mode: core.ModePlanner, Role: core.RoleAssistant, Content: "here is the plan"})

	resp, err := http.Get(ts.URL + "/api/chat/history?session=alice&mode=planner")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	msgs := decode[[]core.ChatMessage](t, resp)
	if len(msgs) != 2 || msgs[0].Role != core.RoleUser {
		t.Errorf("history = %+v, want user then assistant", msgs)
	}
}

func TestNotFound(t *testing.T) {
	ts, _ := testServer(t)

	resp, err := http.Get(ts.URL + "/api/nope")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
