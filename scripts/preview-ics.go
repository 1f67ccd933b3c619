package main

import (
	"fmt"
	"os"
	"time"

	"github.com/faizanmasroor/volunteery-webapp/internal/calendar"
	"github.com/faizanmasroor/volunteery-webapp/internal/event"
)

func main() {
	// Create a sample opportunity with a couple of shifts
	rec := &event.Record{
		Title: "Second Saturday Serve: Family Meal Prep",
		Schedule: event.NewSchedule([]time.Time{
			time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC),
		}),
		Address:        "1822 Young Street Dallas, TX 75201",
		AgeRestriction: "16 and older",
	}

	icsContent, ok := calendar.GenerateICS(rec)
	if !ok {
		fmt.Fprintln(os.Stderr, "Sample record has no shifts to export")
		os.Exit(1)
	}

	// Write to file (owner read/write only for security)
	filename := calendar.Filename(rec)
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Generated calendar file: %s\n\n", filename)
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
