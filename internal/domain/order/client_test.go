package order

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/printlab/printlab-engine/internal/domain/layout"
	"github.com/printlab/printlab-engine/internal/domain/photo"
	"github.com/printlab/printlab-engine/internal/domain/transform"
	"github.com/printlab/printlab-engine/internal/pkg/watermark"
)

var (
	testStyle = layout.Contain(0.7, 5)
	testWM    = watermark.Config{
		Enabled:        true,
		Position:       watermark.BottomRight,
		SizeTier:       watermark.TierMedium,
		Color:          "#FFFFFF",
		OpacityPercent: 80,
	}
)

func uploadedPhoto(ref, url string) *photo.Photo {
	p := photo.New(ref)
	p.SourceWidth = 4000
	p.SourceHeight = 3000
	p.BeginUpload()
	p.FinishUpload(url)
	return p
}

func TestBuildSubmission(t *testing.T) {
	t.Run("maps photos to items", func(t *testing.T) {
		p1 := uploadedPhoto("a.jpg", "https://cdn.example.com/photos/a.jpg")
		p1.Quantity = 2
		tr := transform.New(transform.Components{
			ScaleX: 0.1, ScaleY: 0.1, Rotation: 90, TX: 150, TY: 200,
		}, 300, 400)
		p1.SetTransform(tr)
		p2 := uploadedPhoto("b.jpg", "https://cdn.example.com/photos/b.jpg")

		sub, err := BuildSubmission("order-7", []*photo.Photo{p1, p2}, testStyle, testWM)
		if err != nil {
			t.Fatalf("BuildSubmission() error: %v", err)
		}

		if sub.OrderRef != "order-7" {
			t.Fatalf("order ref = %q", sub.OrderRef)
		}
		if sub.Product.Style != "contain" || sub.Product.AspectRatio != 0.7 || sub.Product.MarginPercent != 5 {
			t.Fatalf("product = %+v", sub.Product)
		}
		if sub.Watermark.Position != "bottom_right" || sub.Watermark.OpacityPercent != 80 {
			t.Fatalf("watermark = %+v", sub.Watermark)
		}
		if len(sub.Items) != 2 {
			t.Fatalf("items = %d, want 2", len(sub.Items))
		}

		first := sub.Items[0]
		if first.PhotoID != p1.ID.String() || first.Quantity != 2 {
			t.Fatalf("first item = %+v", first)
		}
		if first.Transform == nil {
			t.Fatal("edited photo lost its transform")
		}
		if first.Transform.Matrix != [6]float64(tr.Matrix) {
			t.Fatalf("matrix = %v, want %v", first.Transform.Matrix, tr.Matrix)
		}
		if first.Transform.ReferenceWidth != 300 {
			t.Fatalf("reference width = %g, want 300", first.Transform.ReferenceWidth)
		}
		if sub.Items[1].Transform != nil {
			t.Fatal("untouched photo carries a transform")
		}
	})

	t.Run("blocks on a missing remote reference", func(t *testing.T) {
		ok := uploadedPhoto("a.jpg", "https://cdn.example.com/photos/a.jpg")
		pending := photo.New("b.jpg")

		_, err := BuildSubmission("order-7", []*photo.Photo{ok, pending}, testStyle, testWM)
		if !errors.Is(err, ErrMissingRemoteRef) {
			t.Fatalf("error = %v, want ErrMissingRemoteRef", err)
		}
	})

	t.Run("skips zero quantity photos", func(t *testing.T) {
		skipped := uploadedPhoto("a.jpg", "https://cdn.example.com/photos/a.jpg")
		skipped.Quantity = 0
		kept := uploadedPhoto("b.jpg", "https://cdn.example.com/photos/b.jpg")

		sub, err := BuildSubmission("order-7", []*photo.Photo{skipped, kept}, testStyle, testWM)
		if err != nil {
			t.Fatalf("BuildSubmission() error: %v", err)
		}
		if len(sub.Items) != 1 || sub.Items[0].RemoteURL != "https://cdn.example.com/photos/b.jpg" {
			t.Fatalf("items = %+v", sub.Items)
		}

		if _, err := BuildSubmission("order-7", []*photo.Photo{skipped}, testStyle, testWM); !errors.Is(err, ErrNoItems) {
			t.Fatalf("error = %v, want ErrNoItems", err)
		}
	})
}

func testSubmission(t *testing.T) *Submission {
	t.Helper()
	p := uploadedPhoto("a.jpg", "https://cdn.example.com/photos/a.jpg")
	p.SetTransform(transform.New(transform.Components{
		ScaleX: 0.1, ScaleY: 0.1, Rotation: 90, TX: 150, TY: 200,
	}, 300, 400))

	sub, err := BuildSubmission("order-7", []*photo.Photo{p}, testStyle, testWM)
	if err != nil {
		t.Fatalf("BuildSubmission() error: %v", err)
	}
	return sub
}

func TestSubmit(t *testing.T) {
	var received map[string]interface{}

	r := chi.NewRouter()
	r.Post("/orders", func(w http.ResponseWriter, req *http.Request) {
		if ct := req.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		if err := json.NewDecoder(req.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Receipt{OrderID: "ord-123", Status: "accepted"})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	receipt, err := NewClient(srv.URL, 0).Submit(context.Background(), testSubmission(t))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if receipt.OrderID != "ord-123" || receipt.Status != "accepted" {
		t.Fatalf("receipt = %+v", receipt)
	}

	if received["order_ref"] != "order-7" {
		t.Fatalf("payload order_ref = %v", received["order_ref"])
	}
	product, ok := received["product"].(map[string]interface{})
	if !ok || product["aspect_ratio"] != 0.7 || product["style"] != "contain" {
		t.Fatalf("payload product = %v", received["product"])
	}
	items, ok := received["items"].([]interface{})
	if !ok || len(items) != 1 {
		t.Fatalf("payload items = %v", received["items"])
	}
	item := items[0].(map[string]interface{})
	if item["remote_url"] != "https://cdn.example.com/photos/a.jpg" {
		t.Fatalf("payload remote_url = %v", item["remote_url"])
	}
	tr, ok := item["transform"].(map[string]interface{})
	if !ok {
		t.Fatalf("payload transform = %v", item["transform"])
	}
	if tr["reference_width"] != 300.0 {
		t.Fatalf("payload reference_width = %v", tr["reference_width"])
	}
	if matrix, ok := tr["matrix"].([]interface{}); !ok || len(matrix) != 6 {
		t.Fatalf("payload matrix = %v", tr["matrix"])
	}
}

func TestSubmitRejected(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/orders", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unknown product", http.StatusUnprocessableEntity)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	_, err := NewClient(srv.URL, 0).Submit(context.Background(), testSubmission(t))
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("error = %v, want ErrRejected", err)
	}
}

func TestSubmitValidatesLocally(t *testing.T) {
	calls := 0
	r := chi.NewRouter()
	r.Post("/orders", func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	sub := testSubmission(t)
	sub.OrderRef = ""

	_, err := NewClient(srv.URL, 0).Submit(context.Background(), sub)
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("error = %v, want ErrInvalid", err)
	}
	if calls != 0 {
		t.Fatalf("invalid order reached the backend %d times", calls)
	}
}
