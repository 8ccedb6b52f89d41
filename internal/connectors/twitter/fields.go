package twitter

// Each function returns a fresh slice so callers may modify the result.

// TweetFields returns the tweet.fields requested by the search stream.
func TweetFields() []string {
	return []string{
		"id",
		"text",
		"attachments",
		"author_id",
		"context_annotations",
		"conversation_id",
		"created_at",
		"entities",
		"geo",
		"in_reply_to_user_id",
		"lang",
		"possibly_sensitive",
		"public_metrics",
		"referenced_tweets",
		"reply_settings",
		"source",
		"withheld",
	}
}

// AuthorFields returns the user.fields requested for expanded tweet authors.
func AuthorFields() []string {
	return []string{
		"id",
		"name",
		"username",
		"public_metrics",
	}
}

// MediaFields returns the media.fields requested for expanded attachments.
func MediaFields() []string {
	return []string{
		"duration_ms",
		"height",
		"media_key",
		"preview_image_url",
		"type",
		"url",
		"width",
		"public_metrics",
		"non_public_metrics",
		"organic_metrics",
		"promoted_metrics",
		"alt_text",
		"variants",
	}
}

// TweetExpansions returns the expansions requested by the search stream.
func TweetExpansions() []string {
	return []string{ExpansionAuthorID, ExpansionMediaKeys}
}

// UserFields returns the user.fields requested by the users stream.
func UserFields() []string {
	return []string{
		"id",
		"name",
		"username",
		"created_at",
		"description",
		"entities",
		"location",
		"pinned_tweet_id",
		"profile_image_url",
		"protected",
		"public_metrics",
		"url",
		"verified",
		"withheld",
	}
}
