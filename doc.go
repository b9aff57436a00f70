// Package docdex is the Go client for the docdex retrieval API.
//
// A Client talks to a running docdex server over HTTP. Collections are
// created by the ingestion pipeline; this client searches and inspects them:
//
//	client, err := docdex.New("http://localhost:8080", docdex.WithAPIKey("secret"))
//	if err != nil { ... }
//
//	resp, err := client.Search(ctx, "sales", "revenue growth 2023", &docdex.SearchOptions{K: 5})
//
// Errors carry sentinel values checkable with errors.Is:
//
//	if errors.Is(err, docdex.ErrCollectionNotFound) { ... }
package docdex
