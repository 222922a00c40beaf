// Script to check Intara filter composition: counts for two date-partitioned
// halves of a year should sum to the count for the whole year.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	tokenURL  = "https://intara-api.janes.com/oauth/token"
	baseURL   = "https://intara-api.janes.com/graph"
	component = "military-groups"
)

// Europe bounding box (approximate): west, south, east, north
var europeBBox = []float64{-10.0, 35.0, 40.0, 70.0}

func main() {
	apiKey := os.Getenv("INTARA_API_KEY")
	clientID := os.Getenv("INTARA_CLIENT_ID")
	clientSecret := os.Getenv("INTARA_CLIENT_SECRET")
	if apiKey == "" || clientID == "" || clientSecret == "" {
		fmt.Fprintln(os.Stderr, "INTARA_API_KEY, INTARA_CLIENT_ID and INTARA_CLIENT_SECRET must be set")
		os.Exit(1)
	}

	token, err := fetchToken(apiKey, clientID, clientSecret)
	if err != nil {
		fmt.Fprintf(os.Stderr, "token exchange failed: %v\n", err)
		os.Exit(1)
	}

	end := time.Now().UTC()
	start := end.AddDate(-1, 0, 0)
	mid := start.Add(end.Sub(start) / 2)

	fmt.Printf("=== Filter composition: %s over Europe (last year) ===\n", component)
	fmt.Printf("Date range: %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	fmt.Printf("Bounding box: %v\n\n", europeBBox)

	within := fmt.Sprintf("_within((%g, %g),(%g, %g))",
		europeBBox[3], europeBBox[0], // north, west
		europeBBox[1], europeBBox[2], // south, east
	)

	total, err := queryCount(token, apiKey, join(within, dateRange(start, end)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "full range query failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Full range:  %d\n", total)

	firstHalf, err := queryCount(token, apiKey, join(within, dateRange(start, mid)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "first half query failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("First half:  %d\n", firstHalf)

	secondHalf, err := queryCount(token, apiKey, join(within, dateRange(mid.Add(time.Second), end)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "second half query failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Second half: %d\n\n", secondHalf)

	fmt.Println("=== Comparison ===")
	sum := firstHalf + secondHalf
	if sum == total {
		fmt.Println("✓ Partitioned counts sum to the full-range count")
	} else {
		fmt.Printf("✗ Difference: %d (full) vs %d (sum of halves)\n", total, sum)
		fmt.Println("\nNote: Differences may occur due to:")
		fmt.Println("  - Records modified between the three queries")
		fmt.Println("  - Records stamped inside the one-second partition boundary")
	}
}

// dateRange builds the inclusive lastModifiedDate pair for [start, end].
func dateRange(start, end time.Time) string {
	const layout = "2006-01-02T15:04:05Z"
	return fmt.Sprintf("lastModifiedDate:>=%s,lastModifiedDate:<=%s",
		start.UTC().Format(layout), end.UTC().Format(layout))
}

func join(fragments ...string) string {
	return strings.Join(fragments, ",")
}

func fetchToken(apiKey, clientID, clientSecret string) (string, error) {
	form := url.Values{}
	form.Set("clientId", clientID)
	form.Set("clientSecret", clientSecret)

	req, err := http.NewRequest(http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("x-api-key", apiKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("parse token failed: %w", err)
	}

	return token.AccessToken, nil
}

func queryCount(token, apiKey, filters string) (int, error) {
	params := url.Values{}
	params.Set("filters", filters)
	params.Set("pageNo", "1")
	params.Set("pageSize", "10")

	reqURL := baseURL + "/" + component + "?" + params.Encode()

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Search struct {
			TotalResults int `json:"totalResults"`
		} `json:"search"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return 0, fmt.Errorf("parse response failed: %w", err)
	}

	return envelope.Search.TotalResults, nil
}
