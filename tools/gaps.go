// Report possible history gaps of archived messages.
//
// Usage: go run ./tools/gaps.go [export.json]
//
// The input is either a JSON array of archived documents exported from the
// database, or a response of the admin lookup routes (GET /admin/messages/{id}
// or POST /admin/messages/lookup). Reads stdin without an argument.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/plugfox/foxy-archive-server/internal/model"
)

func main() {
	var (
		raw []byte
		err error
	)
	if len(os.Args) > 1 {
		raw, err = os.ReadFile(os.Args[1])
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read input: %v\n", err)
		os.Exit(1)
	}

	docs, err := parseDocuments(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse JSON: %v\n", err)
		os.Exit(1)
	}

	failed := 0
	for i := range docs {
		record, err := model.Decode(&docs[i])
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", docs[i].ID, err)
			failed++
			continue
		}
		iterations, err := model.Iterations(record)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", docs[i].ID, err)
			failed++
			continue
		}
		fmt.Printf("%s\t%s\titerations=%d\tgaps=%v\n", docs[i].ID, docs[i].ArchiveType, len(iterations), model.PossibleGaps(iterations))
	}

	if failed > 0 {
		os.Exit(1)
	}
}

type lookupEntry struct {
	Document *model.Document `json:"document"`
}

// Response envelope of the admin lookup routes.
type lookupResponse struct {
	Data struct {
		lookupEntry
		Messages []lookupEntry `json:"messages"`
	} `json:"data"`
}

func parseDocuments(raw []byte) ([]model.Document, error) {
	var docs []model.Document
	if err := json.Unmarshal(raw, &docs); err == nil {
		return docs, nil
	}

	var rsp lookupResponse
	if err := json.Unmarshal(raw, &rsp); err != nil {
		return nil, err
	}
	if rsp.Data.Document != nil {
		docs = append(docs, *rsp.Data.Document)
	}
	for _, entry := range rsp.Data.Messages {
		if entry.Document != nil {
			docs = append(docs, *entry.Document)
		}
	}
	return docs, nil
}
