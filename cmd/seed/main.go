package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-library-records/config"
	"github.com/oksasatya/go-library-records/internal/application"
	"github.com/oksasatya/go-library-records/internal/bootstrap"
	"github.com/oksasatya/go-library-records/internal/domain"
	"github.com/oksasatya/go-library-records/internal/domain/entity"
	"github.com/oksasatya/go-library-records/pkg/helpers"
)

const (
	demoEmail    = "reader@example.com"
	demoPassword = "password123"
	demoCategory = "Science Fiction"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("failed to open store: %v", err)
	}
	defer closeStore()

	indexer, err := bootstrap.OpenIndexer(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to init search: %v", err)
	}

	users := application.NewUserService(store, cfg.MembershipPeriod(), logger)
	catalog := application.NewCatalogService(store, indexer, logger)

	u, err := users.CreateUser(ctx, application.CreateUserInput{
		Name:     "Demo",
		LastName: "Reader",
		Email:    demoEmail,
		Phone:    "+6281234567890",
		Password: demoPassword,
	})
	switch {
	case err == nil:
		fmt.Printf("seeded user: id=%d email=%s password=%s\n", u.ID, u.Email, demoPassword)
	case domain.CodeOf(err) == domain.CodeDuplicateEmail:
		fmt.Printf("user %s already present\n", demoEmail)
	default:
		logger.Fatalf("failed to seed user: %v", err)
	}

	cat, err := ensureCategory(ctx, catalog, demoCategory)
	if err != nil {
		logger.Fatalf("failed to seed category: %v", err)
	}

	book, err := catalog.CreateBook(ctx, application.BookInput{
		Title:      "Dune",
		Author:     "Frank Herbert",
		Editorial:  "Chilton Books",
		PubYear:    1965,
		Edition:    1,
		CategoryID: cat.ID,
	})
	if err != nil {
		logger.Fatalf("failed to seed book: %v", err)
	}
	fmt.Printf("seeded book: id=%d title=%q\n", book.ID, book.Title)

	for i := 0; i < 2; i++ {
		cp, err := catalog.CreateCopy(ctx, application.CopyInput{BookID: book.ID})
		if err != nil {
			logger.Fatalf("failed to seed copy: %v", err)
		}
		fmt.Printf("seeded copy: id=%d book=%d\n", cp.ID, cp.BookID)
	}
}

func ensureCategory(ctx context.Context, catalog *application.CatalogService, name string) (*entity.Category, error) {
	cat, err := catalog.GetCategoryByName(ctx, name)
	if err == nil {
		return cat, nil
	}
	if !domain.IsNotFound(err) {
		return nil, err
	}
	return catalog.CreateCategory(ctx, name)
}
