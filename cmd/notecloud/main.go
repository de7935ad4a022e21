// Package main implements notecloud, an offline analytics tool that fetches
// the relay's stored notes and prints the most frequent words. It is pure
// batch post-processing over the retrieval surface and has no bearing on
// ingestion.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/olekukonko/tablewriter"
)

func main() {
	var (
		url     = flag.String("url", "http://localhost:8081/events", "relay events endpoint")
		top     = flag.Int("top", 20, "number of words to show")
		minLen  = flag.Int("min-len", 2, "minimum word length to count")
		timeout = flag.Duration("timeout", 10*time.Second, "request timeout")
	)
	flag.Parse()

	notes, err := fetchNotes(*url, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "notecloud: %v\n", err)
		os.Exit(1)
	}

	counts := wordCounts(notes, *minLen)
	render(os.Stdout, counts, *top, len(notes))
}

func fetchNotes(url string, timeout time.Duration) ([]string, error) {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	var notes []string
	if err := json.NewDecoder(resp.Body).Decode(&notes); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return notes, nil
}

// wordCounts tokenizes note contents on non-letter/digit boundaries and
// counts case-folded words.
func wordCounts(notes []string, minLen int) map[string]int {
	counts := make(map[string]int)
	for _, note := range notes {
		words := strings.FieldsFunc(note, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, word := range words {
			word = strings.ToLower(word)
			if len([]rune(word)) < minLen {
				continue
			}
			counts[word]++
		}
	}
	return counts
}

func render(out *os.File, counts map[string]int, top, noteCount int) {
	type entry struct {
		word  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for word, count := range counts {
		entries = append(entries, entry{word, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].word < entries[j].word
	})
	if top < len(entries) {
		entries = entries[:top]
	}

	fmt.Fprintf(out, "%d notes, %d distinct words\n", noteCount, len(counts))

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Word", "Count"})
	for _, e := range entries {
		table.Append([]string{e.word, strconv.Itoa(e.count)})
	}
	table.Render()
}
