// Command seed loads practice problems from a JSON file into the catalog.
//
//	go run ./cmd/seed -file scripts/problems.json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"

	"codeconnect/internal/common"
	"codeconnect/internal/domain/model"
	"codeconnect/internal/domain/repository"
	"codeconnect/internal/platform/config"
	"codeconnect/internal/platform/database"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type seedProblem struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Difficulty  string   `json:"difficulty"`
	Topics      []string `json:"topics"`
	Input       *string  `json:"input"`
	Output      *string  `json:"output"`
}

func main() {
	file := flag.String("file", "scripts/problems.json", "path to the problems JSON file")
	flag.Parse()

	config.Load()
	database.Connect()
	defer database.Close()

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Could not read %s: %v", *file, err)
	}
	var problems []seedProblem
	if err := json.Unmarshal(raw, &problems); err != nil {
		log.Fatalf("Could not parse %s: %v", *file, err)
	}

	problemRepo := repository.NewPgProblemRepository(database.DB)
	ctx := context.Background()

	inserted, skipped := 0, 0
	for _, p := range problems {
		problem := &model.Problem{
			ID:          uuid.NewString(),
			Title:       p.Title,
			Slug:        slug.Make(p.Title),
			Description: p.Description,
			Difficulty:  model.ProblemDifficulty(p.Difficulty),
			Topics:      p.Topics,
			Input:       p.Input,
			Output:      p.Output,
		}
		if err := problemRepo.Create(ctx, problem); err != nil {
			if errors.Is(err, common.ErrConflict) {
				skipped++ // already seeded
				continue
			}
			log.Fatalf("Failed to insert %q: %v", p.Title, err)
		}
		inserted++
	}

	log.Printf("Seeded %d problems (%d already present)", inserted, skipped)
}
