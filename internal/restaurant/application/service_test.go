package application

import (
	"context"
	"log/slog"
	"testing"

	"github.com/ramonrodriguezsalgueiro/tfg-restaurant/internal/restaurant/domain"
)

type fakeRepo struct {
	searched bool
	query    string
	limit    int
}

func (f *fakeRepo) Search(_ context.Context, query string, limit int) ([]domain.Restaurant, error) {
	f.searched = true
	f.query = query
	f.limit = limit
	return []domain.Restaurant{{ID: 1, Name: "Casa Pepe"}}, nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (domain.Restaurant, error) {
	return domain.Restaurant{ID: id}, nil
}

func TestSearchBlankQuery(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(slog.Default(), repo)

	got, err := svc.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("blank query returned %d rows, want 0", len(got))
	}
	if repo.searched {
		t.Error("blank query must not hit the repository")
	}
}

func TestSearchTrimsAndLimits(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(slog.Default(), repo)

	got, err := svc.Search(context.Background(), "  pepe ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if repo.query != "pepe" {
		t.Errorf("query = %q, want trimmed", repo.query)
	}
	if repo.limit != searchLimit {
		t.Errorf("limit = %d, want %d", repo.limit, searchLimit)
	}
	if len(got) != 1 {
		t.Errorf("got %d rows, want 1", len(got))
	}
}
