package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/adfharrison1/go-catalog/pkg/domain"
)

var (
	authors   = []string{"Ursula K. Le Guin", "Frank Herbert", "Octavia E. Butler", "Stanislaw Lem", "Iain M. Banks"}
	languages = []string{"en", "fr", "de", "pl", "es"}
)

// generateRandomWord generates a random capitalised word
func generateRandomWord(n int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	word := make([]byte, n)
	for i := range word {
		word[i] = letters[rand.Intn(len(letters))]
	}
	word[0] = word[0] - 32
	return string(word)
}

// generateRandomBook fills every field of a book; published_date uses the store date format
func generateRandomBook(genre string) domain.Book {
	title := generateRandomWord(6) + " " + generateRandomWord(8)
	author := authors[rand.Intn(len(authors))]
	publisher := generateRandomWord(7) + " Press"
	isbn := fmt.Sprintf("978-%010d", rand.Int63n(1e10))
	pages := rand.Intn(900) + 50
	language := languages[rand.Intn(len(languages))]
	published := time.Date(1950+rand.Intn(75), time.Month(rand.Intn(12)+1), rand.Intn(28)+1, 0, 0, 0, 0, time.UTC).Format("02-01-2006")

	return domain.Book{
		Title:         &title,
		Author:        &author,
		Publisher:     &publisher,
		ISBN:          &isbn,
		PageCount:     &pages,
		Language:      &language,
		PublishedDate: &published,
		Genre:         []string{genre},
	}
}

// insertBooks sends one bulk POST and returns the number of items the store rejected
func insertBooks(baseURL, ownerID, genre string, books []domain.Book) (int, error) {
	payload, err := json.Marshal(books)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal books: %w", err)
	}

	url := fmt.Sprintf("%s/owners/%s/genres/%s/books", baseURL, ownerID, genre)
	resp, err := http.Post(url, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var failures []domain.FailureRecord
	if err := json.NewDecoder(resp.Body).Decode(&failures); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	return len(failures), nil
}

func main() {
	if len(os.Args) < 4 {
		fmt.Println("Usage: go run ./test_scripts <owner_id> <genre> <number_of_books> [server_url] [batch_size]")
		fmt.Println("Example: go run ./test_scripts doc-1 scifi 10000")
		fmt.Println("Example: go run ./test_scripts doc-1 scifi 10000 http://localhost:1234 250")
		os.Exit(1)
	}
	ownerID, genre := os.Args[1], os.Args[2]

	numBooks, err := strconv.Atoi(os.Args[3])
	if err != nil || numBooks <= 0 {
		fmt.Printf("Error: Invalid number of books '%s'. Please provide a positive integer.\n", os.Args[3])
		os.Exit(1)
	}

	serverURL := "http://localhost:1234"
	if len(os.Args) >= 5 {
		serverURL = os.Args[4]
	}

	batchSize := 500
	if len(os.Args) >= 6 {
		if batchSize, err = strconv.Atoi(os.Args[5]); err != nil || batchSize <= 0 {
			fmt.Printf("Error: Invalid batch size '%s'.\n", os.Args[5])
			os.Exit(1)
		}
	}

	fmt.Printf("Starting load test: inserting %d books into %s/%s at %s (batches of %d)\n", numBooks, ownerID, genre, serverURL, batchSize)
	fmt.Println("Press Ctrl+C to stop early")

	startTime := time.Now()
	inserted, rejected, requestErrors := 0, 0, 0

	for sent := 0; sent < numBooks; sent += batchSize {
		n := min(batchSize, numBooks-sent)
		books := make([]domain.Book, n)
		for i := range books {
			books[i] = generateRandomBook(genre)
		}

		failed, err := insertBooks(serverURL, ownerID, genre, books)
		if err != nil {
			requestErrors++
			fmt.Printf("Error inserting batch starting at %d: %v\n", sent, err)
			continue
		}
		rejected += failed
		inserted += n - failed

		elapsed := time.Since(startTime)
		rate := float64(inserted) / elapsed.Seconds()
		fmt.Printf("Progress: %d/%d (%.1f%%) - Inserted: %d, Rejected: %d - Rate: %.1f books/sec\n",
			sent+n, numBooks, float64(sent+n)/float64(numBooks)*100, inserted, rejected, rate)
	}

	totalTime := time.Since(startTime)
	fmt.Println("\n=== Load Test Results ===")
	fmt.Printf("Total books requested: %d\n", numBooks)
	fmt.Printf("Inserted: %d\n", inserted)
	fmt.Printf("Rejected by store: %d\n", rejected)
	fmt.Printf("Failed requests: %d\n", requestErrors)
	fmt.Printf("Total time: %v\n", totalTime)
	if totalTime.Seconds() > 0 {
		fmt.Printf("Average rate: %.1f books/sec\n", float64(inserted)/totalTime.Seconds())
	}

	if requestErrors > 0 || rejected > 0 {
		os.Exit(1)
	}
}
