package categories

import (
	"context"
	"testing"

	"github.com/takuma-ones/ec-app/pkg/db/models"
	pkgerrors "github.com/takuma-ones/ec-app/pkg/errors"
	"gorm.io/gorm"
)

type stubCategoryRepo struct {
	nextID int
	rows   map[int]*models.Category
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{nextID: 1, rows: map[int]*models.Category{}}
}

func (s *stubCategoryRepo) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	category.ID = s.nextID
	s.nextID++
	s.rows[category.ID] = category
	return category, nil
}

func (s *stubCategoryRepo) FindByID(ctx context.Context, id int) (*models.Category, error) {
	if row, ok := s.rows[id]; ok && !row.IsDeleted {
		return row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCategoryRepo) FindByName(ctx context.Context, name string) (*models.Category, error) {
	for _, row := range s.rows {
		if row.Name == name && !row.IsDeleted {
			return row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(s.rows))
	for _, row := range s.rows {
		if !row.IsDeleted {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (s *stubCategoryRepo) UpdateName(ctx context.Context, id int, name string) error {
	if row, ok := s.rows[id]; ok {
		row.Name = name
	}
	return nil
}

func (s *stubCategoryRepo) SoftDelete(ctx context.Context, id int) error {
	if row, ok := s.rows[id]; ok {
		row.IsDeleted = true
	}
	return nil
}

func newTestService(t *testing.T, repo *stubCategoryRepo) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	repo := newStubCategoryRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "Tea"); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := svc.Create(ctx, "Tea")
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRenameAllowsKeepingOwnName(t *testing.T) {
	repo := newStubCategoryRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Tea")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	renamed, err := svc.Rename(ctx, created.ID, "  Tea  ")
	if err != nil {
		t.Fatalf("rename to own name: %v", err)
	}
	if renamed.Name != "Tea" {
		t.Fatalf("unexpected name %q", renamed.Name)
	}
}

func TestDeleteHidesCategory(t *testing.T) {
	repo := newStubCategoryRepo()
	svc := newTestService(t, repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, "Snacks")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = svc.Get(ctx, created.ID)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	rows, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty list, got %d rows", len(rows))
	}
}
