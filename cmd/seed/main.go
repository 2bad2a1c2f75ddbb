package main

import (
	"context"
	"log"
	"os"
	"time"

	"notekeeper-be/pkg/client"

	"github.com/fatih/color"
)

// Starter categories created over the running API.
var categories = []string{
	"Personal",
	"Work",
	"Ideas",
	"Reminders",
	"Projects",
	"Study",
	"Finance",
	"Health",
}

func main() {
	baseURL := os.Getenv("NOTES_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	api := client.New(baseURL)
	ctx := context.Background()

	log.Printf("Seeding categories against %s", baseURL)

	for _, name := range categories {
		category, err := api.CreateCategory(ctx, name)
		if err != nil {
			color.Red("failed to create category %q: %v", name, err)
			continue
		}
		color.Green("created category %q (id %d)", category.Name, category.Id)

		// Small pause between requests
		time.Sleep(100 * time.Millisecond)
	}

	log.Println("Seeding done")
}
