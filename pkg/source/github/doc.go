// Package github reads repository trees from the GitHub REST API.
//
// # Overview
//
// [Client.FetchTree] mirrors what a browser client of the graph view needs:
// resolve the repository's default branch when no ref is given, then read
// the full recursive tree of that ref in a single request.
//
//	client := github.NewClient(os.Getenv("GITHUB_TOKEN"))
//	tree, err := client.FetchTree(ctx, "matzehuels", "gitgraph", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	g := source.Build(tree.Entries)
//
// # Authentication
//
// A token is optional. Without one GitHub allows 60 requests/hour; with one,
// 5000 requests/hour.
//
// # Errors
//
// Failures come back as coded errors from package errors: 401 maps to
// UNAUTHORIZED, 404 to REPO_NOT_FOUND, rate limiting (429, or 403 with an
// exhausted quota) to RATE_LIMITED, and network failures or 5xx responses,
// after retries, to NETWORK_ERROR.
package github
