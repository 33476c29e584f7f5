package docintel

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
)

// contextWithHTTPClient makes the token source reuse base for token fetches.
func contextWithHTTPClient(base *http.Client) context.Context {
	return context.WithValue(context.Background(), oauth2.HTTPClient, base)
}
