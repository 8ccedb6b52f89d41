package twitter

import "strings"

// Search operators.
const (
	OperatorFrom       = "from:"
	OperatorTo         = "to:"
	OperatorRetweetsOf = "retweets_of:"
	OperatorURL        = "url:"
)

// QueryOptions selects the optional clauses of a search query.
type QueryOptions struct {
	// IncludeMentions adds a to: clause per user id.
	IncludeMentions bool

	// IncludeRetweets adds a retweets_of: clause per user id.
	IncludeRetweets bool
}

// BuildQuery returns the OR-combination of from: clauses for userIDs and
// url: clauses for urlPatterns. Values are interpolated verbatim.
// An empty userIDs yields a query the API will reject.
func BuildQuery(userIDs, urlPatterns []string) string {
	return BuildQueryWithOptions(userIDs, urlPatterns, QueryOptions{})
}

// BuildQueryWithOptions is BuildQuery with optional mention and retweet clauses.
// Clause groups appear in the order from, to, retweets_of, url.
func BuildQueryWithOptions(userIDs, urlPatterns []string, opts QueryOptions) string {
	groups := []string{orClauses(OperatorFrom, userIDs)}
	if opts.IncludeMentions {
		groups = append(groups, orClauses(OperatorTo, userIDs))
	}
	if opts.IncludeRetweets {
		groups = append(groups, orClauses(OperatorRetweetsOf, userIDs))
	}
	if len(urlPatterns) > 0 {
		groups = append(groups, orClauses(OperatorURL, urlPatterns))
	}
	return strings.Join(groups, " OR ")
}

func orClauses(operator string, values []string) string {
	clauses := make([]string, len(values))
	for i, v := range values {
		clauses[i] = operator + v
	}
	return strings.Join(clauses, " OR ")
}
