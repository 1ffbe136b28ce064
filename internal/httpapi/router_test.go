package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wolfman30/booking-assistant/internal/registry"
)

type fakeIngestor struct {
	docs map[string]string
	err  error
}

func (f *fakeIngestor) AddDocument(_ context.Context, name, content string) error {
	if f.err != nil {
		return f.err
	}
	if f.docs == nil {
		f.docs = make(map[string]string)
	}
	f.docs[name] = content
	return nil
}

type fakeLister struct {
	bookings []registry.Booking
	err      error
}

func (f *fakeLister) ListBookings(_ context.Context, _ int) ([]registry.Booking, error) {
	return f.bookings, f.err
}

func newTestRouter(ingestor *fakeIngestor, lister *fakeLister) http.Handler {
	return New(&Config{
		Chat:      NewChatHandler(&fakeEngine{}, nil),
		Knowledge: NewKnowledgeHandler(ingestor, nil),
		Bookings:  NewBookingsHandler(lister, nil),
	})
}

func TestRouterHealth(t *testing.T) {
	router := newTestRouter(&fakeIngestor{}, &fakeLister{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestKnowledgeUpload(t *testing.T) {
	ingestor := &fakeIngestor{}
	router := newTestRouter(ingestor, &fakeLister{})

	body := `{"name":"faq.txt","content":"Massages cost $80."}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/knowledge/documents", strings.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ingestor.docs["faq.txt"] != "Massages cost $80." {
		t.Errorf("docs = %v", ingestor.docs)
	}
}

func TestKnowledgeUploadRejectsEmpty(t *testing.T) {
	router := newTestRouter(&fakeIngestor{}, &fakeLister{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/knowledge/documents", strings.NewReader(`{"name":"x","content":"  "}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestKnowledgeUploadIngestError(t *testing.T) {
	router := newTestRouter(&fakeIngestor{err: errors.New("embedding throttled")}, &fakeLister{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/knowledge/documents", strings.NewReader(`{"content":"text"}`)))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestBookingsList(t *testing.T) {
	lister := &fakeLister{bookings: []registry.Booking{{
		ID:          "bk-1",
		BookingType: "spa",
		Date:        "2026-09-15",
		Time:        "14:30",
		Status:      "confirmed",
		CreatedAt:   time.Now(),
	}}}
	router := newTestRouter(&fakeIngestor{}, lister)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp ListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || resp.Bookings[0].ID != "bk-1" {
		t.Errorf("resp = %+v", resp)
	}
}

func TestBookingsListBadLimit(t *testing.T) {
	router := newTestRouter(&fakeIngestor{}, &fakeLister{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings?limit=9999", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}
